package bignum

import (
	"math/big"
	"math/bits"
)

// Bit-level queries and mutations. None of these run in time-critical code,
// so the word bit-scan uses a portable loop rather than platform tricks.

// wordBits is the width of one storage word in bits.
const wordBits = bits.UintSize

// WordBitLen returns the number of significant bits in a single word, 0 for
// a zero word. A straight shift loop: correct for every word width and never
// on a hot path.
func WordBitLen(w big.Word) int {
	n := 0
	for ; w > 0; w >>= 1 {
		n++
	}
	return n
}

// BitLen returns the bit length of the value, 0 for zero.
func (bn *BN) BitLen() int {
	require(sanityCheckBN(bn), "BN.BitLen", "corrupt bignum metadata")

	// Zero-valued bignums have no used words.
	if bn.top <= 0 {
		return 0
	}
	last := bn.top - 1
	return last*wordBits + WordBitLen(bn.d[last])
}

// SetBit sets the bit at the given index, extending top as needed and
// zero-filling the newly covered words. An index at or beyond the fixed
// capacity is a fatal precondition violation, never silent growth.
func (bn *BN) SetBit(bit int) {
	require(sanityCheckBN(bn), "BN.SetBit", "corrupt bignum metadata")
	require(bn.class != ClassStaticReadOnly, "BN.SetBit", "operand is read-only")
	require(bit >= 0 && bit < len(bn.d)*wordBits, "BN.SetBit",
		"bit index %d outside capacity of %d words", bit, len(bn.d))

	wordIndex := bit / wordBits
	bitIndex := bit % wordBits

	if bn.top < wordIndex+1 {
		for i := bn.top; i <= wordIndex; i++ {
			bn.d[i] = 0
		}
		bn.top = wordIndex + 1
	}
	bn.d[wordIndex] |= big.Word(1) << bitIndex
}

// IsBitSet reports whether the bit at the given index is set. Negative
// indices return false (the Montgomery exponentiation code probes positions
// below zero), as do indices beyond the current used words.
func (bn *BN) IsBitSet(bit int) bool {
	require(sanityCheckBN(bn), "BN.IsBitSet", "corrupt bignum metadata")

	if bit < 0 {
		return false
	}
	wordIndex := bit / wordBits
	if wordIndex >= bn.top {
		// Bits off the end of the value are always zero.
		return false
	}
	return bn.d[wordIndex]&(big.Word(1)<<(bit%wordBits)) != 0
}

// HighBit reports whether the top bit of the most-significant used byte is
// set, false for a zero value. Used by the encoding layer to decide whether
// a leading zero byte is needed.
func (bn *BN) HighBit() bool {
	require(sanityCheckBN(bn), "BN.HighBit", "corrupt bignum metadata")

	byteIndex := (bn.BitLen()+7)/8 - 1
	if byteIndex < 0 {
		return false
	}
	word := bn.d[byteIndex/wordBytes]
	highByte := byte(word >> ((byteIndex % wordBytes) * 8))
	return highByte&0x80 != 0
}

// SetNegative sets the sign flag. Zero is never negative, so the call is a
// no-op on a zero value.
func (bn *BN) SetNegative(neg bool) {
	require(bn.class != ClassStaticReadOnly, "BN.SetNegative", "operand is read-only")
	if bn.IsZero() {
		return
	}
	bn.neg = neg
}

// Normalise shrinks top past most-significant zero words until the leading
// used word is nonzero or the value is the canonical zero. An arithmetic
// operation that reduced the value's magnitude leaves top pointing at a run
// of zero words; this restores the representation invariant.
func (bn *BN) Normalise() {
	require(sanityCheckBN(bn), "BN.Normalise", "corrupt bignum metadata")

	iterations := 0
	for bn.top > 0 && bn.d[bn.top-1] == 0 {
		bn.top--
		if iterations++; iterations > len(bn.d) {
			internalError("BN.Normalise", "no fixpoint within capacity")
		}
	}
	if bn.top == 0 {
		bn.neg = false
	}
}

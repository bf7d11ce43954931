package bignum

import (
	"math/big"
)

// Import/export between BNs, big-endian byte strings and math/big values.
// The wrapper layer moves key material in and out through these; the
// self-test uses the math/big bridge as its oracle.

// SetBytes sets bn from a big-endian byte string, ignoring leading zero
// bytes. The significant bytes must fit the BN's fixed capacity; key
// material longer than the maximum supported modulus is a caller bug.
func (bn *BN) SetBytes(buf []byte) {
	require(sanityCheckBN(bn), "BN.SetBytes", "corrupt bignum metadata")
	require(bn.class != ClassStaticReadOnly, "BN.SetBytes", "operand is read-only")

	for len(buf) > 0 && buf[0] == 0 {
		buf = buf[1:]
	}
	words := (len(buf) + wordBytes - 1) / wordBytes
	require(words <= len(bn.d), "BN.SetBytes",
		"%d significant bytes exceed capacity of %d words", len(buf), len(bn.d))

	bn.Clear()
	for i := len(buf) - 1; i >= 0; i-- {
		byteIndex := len(buf) - 1 - i
		bn.d[byteIndex/wordBytes] |= big.Word(buf[i]) << ((byteIndex % wordBytes) * 8)
	}
	bn.top = words
	bn.Normalise()
}

// Bytes returns the value's magnitude as a minimal big-endian byte string,
// empty for zero. The sign flag is not encoded; callers that need it read
// IsNegative separately.
func (bn *BN) Bytes() []byte {
	require(sanityCheckBN(bn), "BN.Bytes", "corrupt bignum metadata")

	byteLen := (bn.BitLen() + 7) / 8
	buf := make([]byte, byteLen)
	for i := 0; i < byteLen; i++ {
		word := bn.d[i/wordBytes]
		buf[byteLen-1-i] = byte(word >> ((i % wordBytes) * 8))
	}
	return buf
}

// SetBig sets bn from a math/big integer, preserving the sign.
func (bn *BN) SetBig(x *big.Int) {
	bn.SetBytes(x.Bytes())
	bn.SetNegative(x.Sign() < 0)
}

// Big returns the value as a fresh math/big integer.
func (bn *BN) Big() *big.Int {
	x := new(big.Int).SetBytes(bn.Bytes())
	if bn.neg {
		x.Neg(x)
	}
	return x
}

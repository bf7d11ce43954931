package bignum

import (
	"math/big"
)

// ─────────────────────────────────────────────────────────────────────────────
// Allocation Classes
// ─────────────────────────────────────────────────────────────────────────────

// Class identifies where a BN's storage came from and therefore which
// operations are legal on it. Operations that are only valid for certain
// classes (Swap, Clear, SetWord, ...) reject the others as precondition
// violations rather than relying on caller convention.
type Class uint8

const (
	// ClassStaticReadOnly marks process-wide immutable constants such as
	// the value one. Never cleared, never mutated.
	ClassStaticReadOnly Class = iota

	// ClassHeap marks individually created BNs owned by a caller outside
	// any pool.
	ClassHeap

	// ClassPoolStd marks BNs carved from a Ctx standard pool. Their
	// logical lifetime is bounded by the enclosing checkpoint.
	ClassPoolStd

	// ClassPoolExtA marks the larger Montgomery-intermediate pool BNs.
	ClassPoolExtA

	// ClassPoolExtB marks the largest multiplication-intermediate pool BNs.
	ClassPoolExtB
)

// Capacity returns the fixed word capacity for BNs of this class.
func (c Class) Capacity() int {
	switch c {
	case ClassPoolExtA:
		return ExtAWords
	case ClassPoolExtB:
		return ExtBWords
	default:
		return StdWords
	}
}

// String returns the class name for diagnostics.
func (c Class) String() string {
	switch c {
	case ClassStaticReadOnly:
		return "static"
	case ClassHeap:
		return "heap"
	case ClassPoolStd:
		return "pool-std"
	case ClassPoolExtA:
		return "pool-ext-a"
	case ClassPoolExtB:
		return "pool-ext-b"
	default:
		return "invalid"
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// BN Value Type
// ─────────────────────────────────────────────────────────────────────────────

// BN is a fixed-capacity sign-magnitude integer. Storage is allocated once by
// Init and never reallocated; top is the number of used words (exclusive
// most-significant index) and words at or beyond top are kept zero. The
// canonical zero has top == 0 and neg == false; there is no sign-extended or
// padded zero representation.
type BN struct {
	d     []big.Word // little-endian word storage, len(d) == capacity
	top   int        // words in use; 0 for the value zero
	neg   bool       // sign; never true when the value is zero
	class Class
}

// NewBN creates a heap-class BN with standard capacity.
func NewBN() *BN {
	bn := &BN{}
	bn.Init(ClassHeap)
	return bn
}

// Init zero-fills the BN's storage for the given class, allocating it on
// first use. Re-Init of an already-initialised BN reuses the storage when the
// class capacity matches, so pool slots survive Ctx re-initialisation without
// churn. Never fails.
func (bn *BN) Init(class Class) {
	capacity := class.Capacity()
	if cap(bn.d) < capacity {
		bn.d = make([]big.Word, capacity)
	} else {
		bn.d = bn.d[:capacity]
		zeroizeWords(bn.d)
	}
	bn.top = 0
	bn.neg = false
	bn.class = class
}

// Clear zeroizes the full capacity of the BN, not just the used words, since
// reclaimed slots must not carry residual secret material, and resets it to
// canonical zero. Clearing a static read-only BN is a no-op.
func (bn *BN) Clear() {
	if bn.class == ClassStaticReadOnly {
		return
	}
	require(sanityCheckBN(bn), "BN.Clear", "corrupt bignum metadata")
	zeroizeWords(bn.d)
	bn.top = 0
	bn.neg = false
}

// Copy copies src's value and sign into bn. Capacity and class metadata are
// untouched: a pool BN that copies from an extended BN stays a pool BN. The
// destination capacity must cover src's used words: capacities are sized
// statically by the algorithm author, so a shortfall is a caller bug and
// panics rather than returning a recoverable error.
func (bn *BN) Copy(src *BN) *BN {
	require(sanityCheckBN(bn), "BN.Copy", "corrupt destination metadata")
	require(sanityCheckBN(src), "BN.Copy", "corrupt source metadata")
	require(bn.class != ClassStaticReadOnly, "BN.Copy", "destination is read-only")
	require(len(bn.d) >= src.top, "BN.Copy",
		"destination capacity %d words, source uses %d", len(bn.d), src.top)

	copy(bn.d[:src.top], src.d[:src.top])
	// Words above the copied value may hold a previous, larger value.
	if bn.top > src.top {
		zeroizeWords(bn.d[src.top:bn.top])
	}
	bn.top = src.top
	bn.neg = src.neg
	return bn
}

// Dup creates a new heap-class BN holding the same value as bn.
func (bn *BN) Dup() *BN {
	dup := NewBN()
	return dup.Copy(bn)
}

// Swap exchanges the logical values of a and b without reallocating either.
// Forbidden on static read-only operands.
func Swap(a, b *BN) {
	require(a.class != ClassStaticReadOnly, "Swap", "first operand is read-only")
	require(b.class != ClassStaticReadOnly, "Swap", "second operand is read-only")

	var tmp BN
	tmp.Init(ClassHeap)
	tmp.Copy(a)
	a.Copy(b)
	b.Copy(&tmp)
	tmp.Clear()
}

// valueOne is the process-wide constant 1. Built once at package
// initialisation; immutability is enforced by its class, not by convention.
var valueOne = func() *BN {
	bn := &BN{d: make([]big.Word, StdWords), top: 1, class: ClassStaticReadOnly}
	bn.d[0] = 1
	return bn
}()

// ValueOne returns the shared read-only BN with the value 1. Every mutating
// operation rejects it, so handing out the shared instance is safe.
func ValueOne() *BN {
	return valueOne
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors
// ─────────────────────────────────────────────────────────────────────────────

// IsZero reports whether bn is the canonical zero.
func (bn *BN) IsZero() bool { return bn.top == 0 }

// IsNegative reports the sign flag.
func (bn *BN) IsNegative() bool { return bn.neg }

// Top returns the number of used words.
func (bn *BN) Top() int { return bn.top }

// Capacity returns the fixed storage capacity in words.
func (bn *BN) Capacity() int { return len(bn.d) }

// Class returns the BN's allocation class.
func (bn *BN) Class() Class { return bn.class }

// Equal reports whether a and b represent the same numeric value, including
// sign. Both operands are expected to be normalised (operations in this
// package always leave them so).
func (bn *BN) Equal(other *BN) bool {
	if bn.top != other.top || bn.neg != other.neg {
		return false
	}
	for i := 0; i < bn.top; i++ {
		if bn.d[i] != other.d[i] {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Word-Sized Fast Path
// ─────────────────────────────────────────────────────────────────────────────

// Word returns the value as a single machine word. A value of zero returns 0;
// a value too large for one word returns the NaNWord sentinel.
func (bn *BN) Word() big.Word {
	if !sanityCheckBN(bn) {
		return NaNWord
	}
	if bn.top > 1 {
		return NaNWord
	}
	if bn.top < 1 {
		// Zero-valued bignums have no used words to read.
		return 0
	}
	return bn.d[0]
}

// SetWord sets bn to the given non-negative word value. Setting zero yields
// the canonical zero (top == 0).
func (bn *BN) SetWord(w big.Word) {
	require(sanityCheckBN(bn), "BN.SetWord", "corrupt bignum metadata")
	require(bn.class != ClassStaticReadOnly, "BN.SetWord", "operand is read-only")

	bn.Clear()
	bn.d[0] = w
	if w != 0 {
		bn.top = 1
	}
}

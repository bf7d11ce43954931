package bignum

import (
	"math/big"
	"math/bits"
)

// ─────────────────────────────────────────────────────────────────────────────
// Capacity Constants
// ─────────────────────────────────────────────────────────────────────────────
//
// All storage in this package is sized statically from the largest supported
// public-key modulus. Nothing ever grows: an algorithm that needs more words
// than these constants allow is a programming error, not a runtime condition.

const (
	// MaxPKCBytes is the largest supported public-key modulus in bytes
	// (4096-bit RSA/DH/DSA). Every other capacity derives from it.
	MaxPKCBytes = 512

	// wordBytes is the size of one storage word in bytes.
	wordBytes = bits.UintSize / 8

	// StdWords is the capacity in words of a standard BN. One spare word
	// beyond the maximum modulus size absorbs carries from addition chains
	// without any operation having to special-case the boundary.
	StdWords = MaxPKCBytes/wordBytes + 1

	// ExtAWords is the capacity of the extended-A BN reserved for the
	// Montgomery reduction intermediate, which grows to twice the modulus
	// size before being reduced.
	ExtAWords = 2 * StdWords

	// ExtBWords is the capacity of the extended-B BNs reserved for
	// multiplication intermediates, which transiently reach four times the
	// modulus size in the squaring/recombination steps.
	ExtBWords = 4 * StdWords

	// DefaultPoolSize is the number of standard BNs in a Ctx pool. The
	// deepest measured simultaneous use across the modexp and EC call
	// chains is well below this, so exhaustion indicates a caller bug or a
	// new algorithm whose needs were never measured.
	DefaultPoolSize = 40

	// SelfTestPoolSize is the pool capacity of the self-test's end-to-end
	// scenario and therefore the smallest capacity a configurable pool may
	// be given: a smaller pool could not run the self-test.
	SelfTestPoolSize = 8

	// MaxNesting bounds the checkpoint boundary stack. Recursion in the
	// arithmetic code is shallow (fast-path modexp nests a handful of
	// levels); the bound exists to make unbalanced Start/End pairs fail
	// fast instead of walking off the stack.
	MaxNesting = 32

	// ExtASlots and ExtBSlots are the number of BNs in the two extended
	// pools. They are addressed by purpose, not by stack position, because
	// at most one Montgomery and two multiplication intermediates are ever
	// live at a time regardless of recursion depth.
	ExtASlots = 1
	ExtBSlots = 2
)

// NaNWord is the sentinel returned by BN.Word when the value does not fit in
// a single word. An all-ones word is a legal bignum value, so callers that
// may encounter it must check BitLen first; in practice Word is only used on
// values known to be small (public exponents, loop counters).
const NaNWord = ^big.Word(0)

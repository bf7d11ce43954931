package bignum

import (
	"fmt"
)

// RecpCtx holds the per-modulus precomputed state for Barrett-style modular
// reduction: a private copy of the modulus, the cached reciprocal that the
// reduction code computes lazily, and the modulus bit length.
type RecpCtx struct {
	N       BN  // private copy of the modulus
	Nr      BN  // reciprocal, computed by the reduction code
	numBits int // bit length of the modulus
}

// NewRecpCtx creates an initialised reciprocal context.
func NewRecpCtx() *RecpCtx {
	r := &RecpCtx{}
	r.Init()
	return r
}

// Init puts the context into its cleared initial state.
func (r *RecpCtx) Init() {
	r.N.Init(ClassHeap)
	r.Nr.Init(ClassHeap)
	r.numBits = 0
}

// Set copies the modulus into the context, resets the cached reciprocal to
// zero and records the modulus bit length. The reciprocal itself is computed
// by the reduction code on first use, not here. Re-setting is permitted and
// idempotent.
func (r *RecpCtx) Set(modulus *BN) error {
	require(sanityCheckRecpCtx(r), "RecpCtx.Set", "corrupt context metadata")

	if modulus == nil || modulus.IsZero() || modulus.IsNegative() {
		return fmt.Errorf("reciprocal context: modulus must be positive")
	}

	// Re-init rather than trusting earlier state; Set may be called on a
	// context that has been through a previous modulus.
	r.Init()
	r.N.Copy(modulus)
	r.numBits = modulus.BitLen()
	return nil
}

// BitLen returns the recorded bit length of the modulus, 0 before Set.
func (r *RecpCtx) BitLen() int { return r.numBits }

// Free zeroizes the owned bignums.
func (r *RecpCtx) Free() {
	r.N.Clear()
	r.Nr.Clear()
	r.numBits = 0
}

package bignum

import (
	"fmt"
)

// MontCtx holds the per-modulus precomputed state for Montgomery
// multiplication: a private copy of the modulus, its bit length, and the RR
// (R² mod N) value that the exponentiation code populates once and then
// reuses read-only across many reductions.
type MontCtx struct {
	RR BN  // R² mod N, computed by the exponentiation code
	N  BN  // private copy of the modulus
	ri int // bit length of the modulus
}

// NewMontCtx creates an initialised Montgomery context.
func NewMontCtx() *MontCtx {
	m := &MontCtx{}
	m.Init()
	return m
}

// Init puts the context into its cleared initial state.
func (m *MontCtx) Init() {
	m.RR.Init(ClassHeap)
	m.N.Init(ClassHeap)
	m.ri = 0
}

// Set copies the modulus into the context and records its bit length. RR is
// left zero for the exponentiation code to fill in. Re-setting an
// already-set context is permitted and simply re-copies: the result is
// bit-for-bit identical to a single Set.
func (m *MontCtx) Set(modulus *BN) error {
	require(sanityCheckMontCtx(m), "MontCtx.Set", "corrupt context metadata")

	if modulus == nil || modulus.IsZero() || modulus.IsNegative() {
		return fmt.Errorf("montgomery context: modulus must be positive")
	}

	m.RR.Clear()
	m.N.Copy(modulus)
	m.ri = modulus.BitLen()
	return nil
}

// BitLen returns the recorded bit length of the modulus, 0 before Set.
func (m *MontCtx) BitLen() int { return m.ri }

// Free zeroizes the owned bignums. The context itself is reclaimed by the
// garbage collector whether it was embedded in a larger structure or
// allocated on its own.
func (m *MontCtx) Free() {
	m.RR.Clear()
	m.N.Clear()
	m.ri = 0
}

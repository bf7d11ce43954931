package bignum

import (
	apperrors "github.com/gitter-badger/OpenCKMS/internal/errors"
)

// require panics with a PreconditionError when cond is false. Precondition
// violations are programmer errors in calling code (undersized copy
// destinations, unbalanced checkpoint nesting, mutation of read-only
// constants) and are never expected in correct algorithm code, so they are
// not surfaced as recoverable errors.
func require(cond bool, op, format string, args ...any) {
	if cond {
		return
	}
	panic(apperrors.NewPreconditionError(op, format, args...))
}

// internalError panics for conditions that indicate this package's own
// invariants were corrupted (as opposed to a caller bug).
func internalError(op, format string, args ...any) {
	panic(apperrors.NewPreconditionError(op, "internal consistency failure: "+format, args...))
}

// sanityCheckBN validates a BN's metadata against its class.
func sanityCheckBN(bn *BN) bool {
	if bn == nil {
		return false
	}
	if len(bn.d) < 1 || len(bn.d) != bn.class.Capacity() {
		return false
	}
	if bn.top < 0 || bn.top > len(bn.d) {
		return false
	}
	if bn.neg && bn.top == 0 {
		// Zero is never negative.
		return false
	}
	if bn.class > ClassPoolExtB {
		return false
	}
	return true
}

// sanityCheckCtx validates a Ctx's pool bookkeeping: depth in range and
// checkpoint boundaries non-decreasing and within the pool. An End without a
// matching Start corrupts exactly these properties, which is how unbalanced
// nesting becomes detectable.
func sanityCheckCtx(c *Ctx) bool {
	if c == nil {
		return false
	}
	if len(c.pool) < 1 {
		return false
	}
	if c.depth < 0 || c.depth >= len(c.stack) {
		return false
	}
	for i := 1; i <= c.depth; i++ {
		if c.stack[i-1] > c.stack[i] {
			return false
		}
	}
	if c.stack[c.depth] < 0 || c.stack[c.depth] > len(c.pool) {
		return false
	}
	if c.maxUsed < 0 || c.maxUsed > len(c.pool) {
		return false
	}
	return true
}

// sanityCheckMontCtx validates a Montgomery context's owned bignums and
// cached bit length.
func sanityCheckMontCtx(m *MontCtx) bool {
	if m == nil {
		return false
	}
	if !sanityCheckBN(&m.RR) || !sanityCheckBN(&m.N) {
		return false
	}
	if m.ri < 0 || m.ri > MaxPKCBytes*8 {
		return false
	}
	return true
}

// sanityCheckRecpCtx validates a reciprocal context's owned bignums and
// cached bit length.
func sanityCheckRecpCtx(r *RecpCtx) bool {
	if r == nil {
		return false
	}
	if !sanityCheckBN(&r.N) || !sanityCheckBN(&r.Nr) {
		return false
	}
	if r.numBits < 0 || r.numBits > MaxPKCBytes*8 {
		return false
	}
	return true
}

package bignum

import (
	"errors"
	"fmt"
)

// The multiplication and Montgomery reduction code needs a few temporaries
// that grow far beyond the standard capacity. Rather than sizing every pool
// slot for the worst case, the Ctx keeps two small side pools of larger BNs
// addressed by a fixed purpose enumeration: the deepest simultaneous use is
// known and bounded (one Montgomery intermediate, two multiplication
// intermediates) regardless of recursion depth, so stack addressing would
// buy nothing.

// ExtPurpose names an extended-pool temporary.
type ExtPurpose int

const (
	// ExtMont is the Montgomery reduction intermediate (extended-A pool,
	// twice standard capacity).
	ExtMont ExtPurpose = iota + 1

	// ExtMul1 and ExtMul2 are the multiplication intermediates
	// (extended-B pool, four times standard capacity).
	ExtMul1
	ExtMul2
)

// String returns the purpose name for diagnostics.
func (p ExtPurpose) String() string {
	switch p {
	case ExtMont:
		return "mont"
	case ExtMul1:
		return "mul1"
	case ExtMul2:
		return "mul2"
	default:
		return fmt.Sprintf("invalid(%d)", int(p))
	}
}

// ErrExtPurpose is returned when an extended-pool request names something
// outside the fixed purpose enumeration. The pools have exactly as many
// slots as there are purposes, so an unknown purpose is the extended-pool
// equivalent of exhaustion and is reported the same way rather than being
// assumed unreachable.
var ErrExtPurpose = errors.New("bignum: unknown extended-pool purpose")

// GetExt returns the extended-capacity BN reserved for the given purpose.
// The slot is shared per purpose, not stacked: a second GetExt for the same
// purpose before the matching EndExt returns the same BN, which is why the
// arithmetic code holds at most one of each at a time.
func (c *Ctx) GetExt(purpose ExtPurpose) (*BN, error) {
	require(sanityCheckCtx(c), "Ctx.GetExt", "corrupt pool bookkeeping")

	switch purpose {
	case ExtMont:
		c.trace.AcquireExt(purpose)
		return &c.extA[0], nil
	case ExtMul1:
		c.trace.AcquireExt(purpose)
		return &c.extB[0], nil
	case ExtMul2:
		c.trace.AcquireExt(purpose)
		return &c.extB[1], nil
	}
	return nil, ErrExtPurpose
}

// EndExt closes the active checkpoint exactly as End does, then zeroizes the
// extended slots named by the purpose tag: ExtMul1 releases both
// multiplication intermediates (they are always used as a pair), ExtMont
// releases the Montgomery intermediate. Other purposes are rejected before
// any state changes.
func (c *Ctx) EndExt(purpose ExtPurpose) error {
	require(sanityCheckCtx(c), "Ctx.EndExt", "corrupt pool bookkeeping")

	if purpose != ExtMont && purpose != ExtMul1 {
		return ErrExtPurpose
	}

	c.End()

	if purpose == ExtMul1 {
		c.extB[0].Clear()
		c.extB[1].Clear()
	} else {
		c.extA[0].Clear()
	}
	c.trace.ReleaseExt(purpose)
	return nil
}

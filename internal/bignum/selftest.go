package bignum

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	apperrors "github.com/gitter-badger/OpenCKMS/internal/errors"
)

// SelfTest exercises the bignum primitives and the pool allocator and
// reports the first failure, or nil if everything passed. It is intended to
// run once at subsystem initialisation, before any cryptographic operation
// is trusted; the options (typically WithTrace) are forwarded to every Ctx
// the test creates.
func SelfTest(opts ...CtxOption) error {
	sections := []struct {
		name string
		run  func(opts []CtxOption) error
	}{
		{"value-one", testValueOne},
		{"word-roundtrip", testWordRoundTrip},
		{"bit-operations", testBitOperations},
		{"copy-fidelity", testCopyFidelity},
		{"byte-encoding", testByteEncoding},
		{"checkpoint-zeroing", testCheckpointZeroing},
		{"nesting", testNesting},
		{"pool-exhaustion", testPoolExhaustion},
		{"extended-pools", testExtendedPools},
		{"reduction-contexts", testReductionContexts},
	}

	for _, section := range sections {
		if err := section.run(opts); err != nil {
			return apperrors.SelfTestError{Section: section.name, Cause: err}
		}
	}
	return nil
}

func testValueOne(_ []CtxOption) error {
	one := ValueOne()
	if one.Class() != ClassStaticReadOnly {
		return fmt.Errorf("constant one has class %v", one.Class())
	}
	if one.Word() != 1 || one.BitLen() != 1 || one.IsNegative() {
		return fmt.Errorf("constant one reads back as %v", one.Big())
	}
	// Clear must be a no-op on the shared constant.
	one.Clear()
	if one.Word() != 1 {
		return fmt.Errorf("constant one mutated by Clear")
	}
	return nil
}

func testWordRoundTrip(_ []CtxOption) error {
	bn := NewBN()
	for _, w := range []big.Word{0, 1, 2, 0x80, ^big.Word(0) >> 1} {
		bn.SetWord(w)
		if got := bn.Word(); got != w {
			return fmt.Errorf("word %#x read back as %#x", w, got)
		}
		if w == 0 && bn.Top() != 0 {
			return fmt.Errorf("canonical zero violated: top = %d", bn.Top())
		}
	}

	// A two-word value must report the NaN sentinel.
	bn.Clear()
	bn.SetBit(wordBits + 3)
	if bn.Word() != NaNWord {
		return fmt.Errorf("multi-word value did not return NaN sentinel")
	}

	// Zero never carries a sign.
	bn.SetWord(0)
	bn.SetNegative(true)
	if bn.IsNegative() {
		return fmt.Errorf("zero accepted a negative sign")
	}
	return nil
}

func testBitOperations(_ []CtxOption) error {
	bn := NewBN()

	if bn.IsBitSet(-1) || bn.IsBitSet(0) || bn.IsBitSet(1000) {
		return fmt.Errorf("zero value reports a set bit")
	}
	if bn.BitLen() != 0 || bn.HighBit() {
		return fmt.Errorf("zero value reports nonzero bit length")
	}

	for _, bit := range []int{0, 1, 63, 64, 65, 200, StdWords*wordBits - 1} {
		bn.Clear()
		if bn.IsBitSet(bit) {
			return fmt.Errorf("bit %d set before SetBit", bit)
		}
		bn.SetBit(bit)
		if !bn.IsBitSet(bit) {
			return fmt.Errorf("bit %d not set after SetBit", bit)
		}
		if got := bn.BitLen(); got != bit+1 {
			return fmt.Errorf("bit length after SetBit(%d) = %d", bit, got)
		}
	}

	// HighBit looks at the most-significant used byte, not the word.
	bn.Clear()
	bn.SetWord(0x80)
	if !bn.HighBit() {
		return fmt.Errorf("HighBit false for 0x80")
	}
	bn.SetWord(0x7f)
	if bn.HighBit() {
		return fmt.Errorf("HighBit true for 0x7f")
	}

	// Normalise must drop leading zero words left by a shrinking value.
	bn.Clear()
	bn.SetBit(3 * wordBits)
	bn.d[3] = 0 // simulate an arithmetic result that shrank
	bn.Normalise()
	if bn.Top() != 0 {
		return fmt.Errorf("Normalise left top = %d", bn.Top())
	}
	return nil
}

func testCopyFidelity(_ []CtxOption) error {
	src := NewBN()
	src.SetBytes([]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef, 0xfe, 0xdc})
	src.SetNegative(true)

	dst := NewBN()
	dst.SetWord(0xdead) // pre-existing value must be fully replaced
	dst.Copy(src)
	if !dst.Equal(src) {
		return fmt.Errorf("copy changed the value")
	}

	dup := src.Dup()
	if !dup.Equal(src) || dup.Class() != ClassHeap {
		return fmt.Errorf("duplicate differs from source")
	}

	other := NewBN()
	other.SetWord(42)
	Swap(dup, other)
	if dup.Word() != 42 || !other.Equal(src) {
		return fmt.Errorf("swap did not exchange values")
	}
	return nil
}

func testByteEncoding(_ []CtxOption) error {
	oracle := new(big.Int)
	bn := NewBN()

	for _, text := range []string{
		"0",
		"1",
		"255",
		"18446744073709551616", // 2^64
		"340282366920938463463374607431768211507",
	} {
		if _, ok := oracle.SetString(text, 10); !ok {
			return fmt.Errorf("bad oracle literal %q", text)
		}
		bn.SetBig(oracle)
		if bn.Big().Cmp(oracle) != 0 {
			return fmt.Errorf("big.Int round-trip failed for %s", text)
		}
		if !bytes.Equal(bn.Bytes(), oracle.Bytes()) {
			return fmt.Errorf("byte encoding differs from oracle for %s", text)
		}
		if bn.BitLen() != oracle.BitLen() {
			return fmt.Errorf("bit length %d, oracle %d for %s", bn.BitLen(), oracle.BitLen(), text)
		}
	}
	return nil
}

func testCheckpointZeroing(opts []CtxOption) error {
	c := NewCtx(append(opts, WithPoolSize(SelfTestPoolSize))...)

	// The end-to-end scenario: three outer temporaries, two nested ones,
	// inner release must leave the outer values alone and restore the
	// mark; outer release must clear everything.
	c.Start()
	outer := make([]*BN, 3)
	for i := range outer {
		bn, err := c.Get()
		if err != nil {
			return err
		}
		bn.SetWord(big.Word(i + 1))
		outer[i] = bn
	}

	c.Start()
	for i := 0; i < 2; i++ {
		bn, err := c.Get()
		if err != nil {
			return err
		}
		bn.SetWord(big.Word(i + 4))
	}
	c.End()

	if c.Mark() != 3 {
		return fmt.Errorf("mark after inner release = %d, want 3", c.Mark())
	}
	for i, bn := range outer {
		if got := bn.Word(); got != big.Word(i+1) {
			return fmt.Errorf("outer temporary %d corrupted: %#x", i, got)
		}
	}
	c.End()
	if c.Mark() != 0 || c.Depth() != 0 {
		return fmt.Errorf("context not empty after outer release")
	}

	// Re-acquiring the same slots must observe them cleared.
	c.Start()
	defer c.End()
	for i := 0; i < 5; i++ {
		bn, err := c.Get()
		if err != nil {
			return err
		}
		if bn.Top() != 0 || bn.IsNegative() {
			return fmt.Errorf("reacquired slot %d not cleared", i)
		}
	}
	return nil
}

func testNesting(opts []CtxOption) error {
	c := NewCtx(opts...)

	// Three levels, each tagging its slots with a level sentinel; inner
	// releases must never touch an enclosing level's live temporaries.
	var levels [3][]*BN
	for level := 0; level < 3; level++ {
		c.Start()
		for i := 0; i < level+1; i++ {
			bn, err := c.Get()
			if err != nil {
				return err
			}
			bn.SetWord(big.Word(0x100*(level+1) + i))
			levels[level] = append(levels[level], bn)
		}
	}

	for level := 2; level >= 0; level-- {
		c.End()
		for l := 0; l < level; l++ {
			for i, bn := range levels[l] {
				want := big.Word(0x100*(l+1) + i)
				if bn.Word() != want {
					return fmt.Errorf("level %d slot %d corrupted by inner release", l, i)
				}
			}
		}
	}
	if c.MaxUsed() != 6 {
		return fmt.Errorf("high-water mark = %d, want 6", c.MaxUsed())
	}
	return nil
}

func testPoolExhaustion(opts []CtxOption) error {
	const size = 4
	c := NewCtx(append(opts, WithPoolSize(size))...)

	c.Start()
	defer c.End()
	live := make([]*BN, size)
	for i := range live {
		bn, err := c.Get()
		if err != nil {
			return fmt.Errorf("premature exhaustion at slot %d: %w", i, err)
		}
		bn.SetWord(big.Word(i + 10))
		live[i] = bn
	}

	// One past capacity must fail, deterministically, without touching
	// the live slots.
	for attempt := 0; attempt < 3; attempt++ {
		if _, err := c.Get(); !errors.Is(err, ErrPoolExhausted) {
			return fmt.Errorf("attempt %d past capacity returned %v", attempt, err)
		}
	}
	for i, bn := range live {
		if bn.Word() != big.Word(i+10) {
			return fmt.Errorf("live slot %d corrupted by failed Get", i)
		}
	}
	return nil
}

func testExtendedPools(opts []CtxOption) error {
	c := NewCtx(opts...)

	c.Start()
	mont, err := c.GetExt(ExtMont)
	if err != nil {
		return err
	}
	if mont.Capacity() != ExtAWords {
		return fmt.Errorf("mont slot capacity = %d words", mont.Capacity())
	}
	mont.SetBit(ExtAWords*wordBits - 1) // only fits in the extended slot
	if err := c.EndExt(ExtMont); err != nil {
		return err
	}
	if mont.Top() != 0 {
		return fmt.Errorf("mont slot not cleared by EndExt")
	}

	c.Start()
	mul1, err := c.GetExt(ExtMul1)
	if err != nil {
		return err
	}
	mul2, err := c.GetExt(ExtMul2)
	if err != nil {
		return err
	}
	if mul1 == mul2 || mul1.Capacity() != ExtBWords || mul2.Capacity() != ExtBWords {
		return fmt.Errorf("multiplication slots misconfigured")
	}
	mul1.SetWord(7)
	mul2.SetWord(8)
	if err := c.EndExt(ExtMul1); err != nil {
		return err
	}
	if mul1.Top() != 0 || mul2.Top() != 0 {
		return fmt.Errorf("multiplication slots not cleared by EndExt")
	}

	// Requests beyond the named purposes are rejected, not undefined.
	if _, err := c.GetExt(ExtPurpose(99)); !errors.Is(err, ErrExtPurpose) {
		return fmt.Errorf("unknown purpose accepted by GetExt")
	}
	c.Start()
	if err := c.EndExt(ExtMul2); !errors.Is(err, ErrExtPurpose) {
		return fmt.Errorf("EndExt accepted a non-release purpose")
	}
	c.End()
	return nil
}

func testReductionContexts(_ []CtxOption) error {
	modulus := NewBN()
	modulus.SetBytes([]byte{0xc7, 0x3b, 0x01, 0x9e, 0xff, 0x00, 0x12, 0x81})

	mont := NewMontCtx()
	if err := mont.Set(modulus); err != nil {
		return err
	}
	again := NewMontCtx()
	if err := again.Set(modulus); err != nil {
		return err
	}
	if err := again.Set(modulus); err != nil { // idempotent re-set
		return err
	}
	if !mont.N.Equal(&again.N) || mont.BitLen() != again.BitLen() || !mont.RR.Equal(&again.RR) {
		return fmt.Errorf("montgomery setup not idempotent")
	}
	if mont.BitLen() != modulus.BitLen() {
		return fmt.Errorf("montgomery bit length %d, modulus %d", mont.BitLen(), modulus.BitLen())
	}

	recp := NewRecpCtx()
	if err := recp.Set(modulus); err != nil {
		return err
	}
	if !recp.N.Equal(modulus) || !recp.Nr.IsZero() || recp.BitLen() != modulus.BitLen() {
		return fmt.Errorf("reciprocal setup wrong")
	}

	zero := NewBN()
	if err := mont.Set(zero); err == nil {
		return fmt.Errorf("montgomery accepted a zero modulus")
	}
	if err := recp.Set(zero); err == nil {
		return fmt.Errorf("reciprocal accepted a zero modulus")
	}

	mont.Free()
	recp.Free()
	if !mont.N.IsZero() || !recp.N.IsZero() {
		return fmt.Errorf("Free left modulus material behind")
	}
	return nil
}

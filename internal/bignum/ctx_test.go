package bignum

import (
	"errors"
	"math/big"
	"testing"
)

func TestNewCtx(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		c := NewCtx()
		if c.PoolSize() != DefaultPoolSize {
			t.Errorf("pool size = %d, want %d", c.PoolSize(), DefaultPoolSize)
		}
		if c.Depth() != 0 || c.Mark() != 0 || c.MaxUsed() != 0 {
			t.Error("new context not empty")
		}
	})

	t.Run("pool size override", func(t *testing.T) {
		t.Parallel()
		c := NewCtx(WithPoolSize(3))
		if c.PoolSize() != 3 {
			t.Errorf("pool size = %d, want 3", c.PoolSize())
		}
	})

	t.Run("invalid pool size panics", func(t *testing.T) {
		t.Parallel()
		mustPanicPrecondition(t, "NewCtx", func() { NewCtx(WithPoolSize(0)) })
	})
}

// get is a test shorthand that fails the test on exhaustion.
func get(t *testing.T, c *Ctx) *BN {
	t.Helper()
	bn, err := c.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return bn
}

func TestCheckpointZeroing(t *testing.T) {
	t.Parallel()

	c := NewCtx(WithPoolSize(8))

	c.Start()
	const n = 4
	for i := 0; i < n; i++ {
		bn := get(t, c)
		bn.SetWord(big.Word(0xa0 + i))
		bn.SetNegative(true)
	}
	markBefore := c.Mark()
	c.End()

	if c.Mark() != markBefore-n {
		t.Errorf("mark after End = %d, want %d", c.Mark(), markBefore-n)
	}

	// The same slots, reacquired, must read as cleared over their full
	// capacity.
	c.Start()
	defer c.End()
	for i := 0; i < n; i++ {
		bn := get(t, c)
		if bn.Top() != 0 || bn.IsNegative() {
			t.Fatalf("slot %d not reset", i)
		}
		for j, w := range bn.d {
			if w != 0 {
				t.Fatalf("slot %d word %d not zeroized: %#x", i, j, w)
			}
		}
	}
}

func TestNestingIsolation(t *testing.T) {
	t.Parallel()

	c := NewCtx()

	// Three nesting levels, each tagging its slots with a sentinel from
	// that level. Inner releases must never disturb enclosing levels.
	var live [3][]*BN
	for level := 0; level < 3; level++ {
		c.Start()
		for i := 0; i <= level; i++ {
			bn := get(t, c)
			bn.SetWord(big.Word(1000*(level+1) + i))
			live[level] = append(live[level], bn)
		}
	}

	checkLevel := func(level int) {
		t.Helper()
		for i, bn := range live[level] {
			want := big.Word(1000*(level+1) + i)
			if got := bn.Word(); got != want {
				t.Fatalf("level %d slot %d = %d, want %d", level, i, got, want)
			}
		}
	}

	c.End() // releases level 2
	checkLevel(0)
	checkLevel(1)
	if live[2][0].Top() != 0 {
		t.Error("level 2 slot survived its release")
	}

	c.End() // releases level 1
	checkLevel(0)

	c.End()
	if c.Depth() != 0 || c.Mark() != 0 {
		t.Error("context not empty after final End")
	}
	if c.MaxUsed() != 6 {
		t.Errorf("diagnostic high-water = %d, want 6", c.MaxUsed())
	}
}

func TestMarkRestoredAcrossCheckpoints(t *testing.T) {
	t.Parallel()

	c := NewCtx()
	c.Start()
	get(t, c)
	get(t, c)

	before := c.Mark()
	c.Start()
	get(t, c)
	get(t, c)
	get(t, c)
	c.End()

	if c.Mark() != before {
		t.Errorf("mark = %d after nested release, want %d", c.Mark(), before)
	}
	c.End()
}

func TestPoolExhaustion(t *testing.T) {
	t.Parallel()

	const size = 5
	c := NewCtx(WithPoolSize(size))
	c.Start()
	defer c.End()

	live := make([]*BN, size)
	for i := range live {
		live[i] = get(t, c)
		live[i].SetWord(big.Word(i + 1))
	}

	// Every further request fails the same way, and live slots stay
	// intact.
	for attempt := 0; attempt < 4; attempt++ {
		bn, err := c.Get()
		if bn != nil || !errors.Is(err, ErrPoolExhausted) {
			t.Fatalf("attempt %d: got (%v, %v), want ErrPoolExhausted", attempt, bn, err)
		}
	}
	for i, bn := range live {
		if bn.Word() != big.Word(i+1) {
			t.Errorf("live slot %d corrupted after exhaustion", i)
		}
	}
	if c.Mark() != size {
		t.Errorf("mark moved by failed Get: %d", c.Mark())
	}
}

func TestUnbalancedNesting(t *testing.T) {
	t.Parallel()

	t.Run("End without Start panics", func(t *testing.T) {
		t.Parallel()
		c := NewCtx()
		mustPanicPrecondition(t, "End", func() { c.End() })
	})

	t.Run("Get outside checkpoint panics", func(t *testing.T) {
		t.Parallel()
		c := NewCtx()
		mustPanicPrecondition(t, "Get", func() { c.Get() }) //nolint:errcheck
	})

	t.Run("nesting deeper than the bound panics", func(t *testing.T) {
		t.Parallel()
		c := NewCtx()
		for i := 0; i < MaxNesting; i++ {
			c.Start()
		}
		mustPanicPrecondition(t, "Start", func() { c.Start() })
	})
}

func TestFinal(t *testing.T) {
	t.Parallel()

	c := NewCtx(WithPoolSize(8))
	c.Start()
	bn := get(t, c)
	bn.SetWord(0xfeed)
	ext, err := c.GetExt(ExtMont)
	if err != nil {
		t.Fatal(err)
	}
	ext.SetWord(0xdead)

	c.Final()

	if c.Depth() != 0 || c.Mark() != 0 || c.MaxUsed() != 0 {
		t.Error("Final did not reset bookkeeping")
	}
	if bn.Top() != 0 || ext.Top() != 0 {
		t.Error("Final left values in pool slots")
	}

	// The context is reusable after Final.
	c.Start()
	fresh := get(t, c)
	if fresh.Top() != 0 {
		t.Error("slot dirty after Final")
	}
	c.End()
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	// Pool of 8: acquire 3 outer temporaries holding 1, 2, 3; a nested
	// checkpoint acquires 2 more holding 4, 5. Releasing the inner
	// checkpoint must preserve the outer values and return the mark to
	// 3; releasing the outer checkpoint must clear all five slots.
	c := NewCtx(WithPoolSize(8))

	c.Start()
	outer := make([]*BN, 3)
	for i := range outer {
		outer[i] = get(t, c)
		outer[i].SetWord(big.Word(i + 1))
	}

	c.Start()
	inner := make([]*BN, 2)
	for i := range inner {
		inner[i] = get(t, c)
		inner[i].SetWord(big.Word(i + 4))
	}

	c.End()
	for i, bn := range outer {
		if bn.Word() != big.Word(i+1) {
			t.Fatalf("outer value %d corrupted by inner release", i+1)
		}
	}
	if c.Mark() != 3 {
		t.Fatalf("mark after inner release = %d, want 3", c.Mark())
	}

	c.End()
	c.Start()
	defer c.End()
	for i := 0; i < 5; i++ {
		bn := get(t, c)
		if bn.Top() != 0 {
			t.Fatalf("slot %d reads nonzero after full release", i)
		}
	}
}

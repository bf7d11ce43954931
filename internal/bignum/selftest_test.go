package bignum

import (
	"sync/atomic"
	"testing"
)

// countingTrace records how often each hook fires so a test can confirm an
// option actually reached the contexts SelfTest creates.
type countingTrace struct {
	starts, ends, acquires, extAcquires, extReleases, exhausted atomic.Int64
}

func (t *countingTrace) CheckpointStart(int, int)  { t.starts.Add(1) }
func (t *countingTrace) CheckpointEnd(int, int)    { t.ends.Add(1) }
func (t *countingTrace) Acquire(int)               { t.acquires.Add(1) }
func (t *countingTrace) AcquireExt(ExtPurpose)     { t.extAcquires.Add(1) }
func (t *countingTrace) ReleaseExt(ExtPurpose)     { t.extReleases.Add(1) }
func (t *countingTrace) Exhausted(int)             { t.exhausted.Add(1) }

func TestSelfTest(t *testing.T) {
	t.Parallel()

	if err := SelfTest(); err != nil {
		t.Fatalf("SelfTest() = %v", err)
	}
}

func TestSelfTestForwardsOptions(t *testing.T) {
	t.Parallel()

	trace := &countingTrace{}
	if err := SelfTest(WithTrace(trace)); err != nil {
		t.Fatalf("SelfTest() = %v", err)
	}

	if trace.starts.Load() == 0 || trace.ends.Load() == 0 {
		t.Error("checkpoint hooks never fired")
	}
	if trace.acquires.Load() == 0 || trace.extAcquires.Load() == 0 {
		t.Error("acquisition hooks never fired")
	}
	if trace.extReleases.Load() == 0 {
		t.Error("extended release hook never fired")
	}
	if trace.exhausted.Load() == 0 {
		t.Error("exhaustion hook never fired; the exhaustion section should trip it")
	}
}

package bignum

import (
	"github.com/gitter-badger/OpenCKMS/internal/logging"
)

// Trace is the optional observability hook injected into a Ctx at
// construction. The pool code calls it on every checkpoint transition; it is
// not part of the functional contract and the default implementation does
// nothing. Implementations must be cheap; the arithmetic code stacks and
// unstacks checkpoints constantly.
type Trace interface {
	// CheckpointStart fires after a Start, with the new depth and the
	// boundary mark it pushed.
	CheckpointStart(depth, mark int)

	// CheckpointEnd fires after an End, with the depth that was released
	// and the number of slots zeroized.
	CheckpointEnd(depth, cleared int)

	// Acquire fires when Get hands out the standard-pool slot at index.
	Acquire(index int)

	// AcquireExt and ReleaseExt fire for the purpose-addressed extended
	// pools.
	AcquireExt(purpose ExtPurpose)
	ReleaseExt(purpose ExtPurpose)

	// Exhausted fires when Get fails because the pool capacity was
	// reached.
	Exhausted(capacity int)
}

// nopTrace is the default hook.
type nopTrace struct{}

func (nopTrace) CheckpointStart(int, int)  {}
func (nopTrace) CheckpointEnd(int, int)    {}
func (nopTrace) Acquire(int)               {}
func (nopTrace) AcquireExt(ExtPurpose)     {}
func (nopTrace) ReleaseExt(ExtPurpose)     {}
func (nopTrace) Exhausted(int)             {}

// NopTrace returns the do-nothing trace hook.
func NopTrace() Trace { return nopTrace{} }

// LoggingTrace reports pool activity through the structured logger at debug
// level. Exhaustion is logged as an error since callers treat it as fatal
// for the enclosing operation.
type LoggingTrace struct {
	log logging.Logger
}

// NewLoggingTrace creates a trace hook writing to the given logger.
func NewLoggingTrace(log logging.Logger) *LoggingTrace {
	return &LoggingTrace{log: log}
}

func (t *LoggingTrace) CheckpointStart(depth, mark int) {
	t.log.Debug("checkpoint start", logging.Int("depth", depth), logging.Int("mark", mark))
}

func (t *LoggingTrace) CheckpointEnd(depth, cleared int) {
	t.log.Debug("checkpoint end", logging.Int("depth", depth), logging.Int("cleared", cleared))
}

func (t *LoggingTrace) Acquire(index int) {
	t.log.Debug("pool acquire", logging.Int("index", index))
}

func (t *LoggingTrace) AcquireExt(purpose ExtPurpose) {
	t.log.Debug("ext acquire", logging.String("purpose", purpose.String()))
}

func (t *LoggingTrace) ReleaseExt(purpose ExtPurpose) {
	t.log.Debug("ext release", logging.String("purpose", purpose.String()))
}

func (t *LoggingTrace) Exhausted(capacity int) {
	t.log.Error("pool exhausted", nil, logging.Int("capacity", capacity))
}

// MultiTrace fans a single event stream out to several hooks, letting a Ctx
// feed logging and metrics at the same time.
func MultiTrace(hooks ...Trace) Trace {
	return multiTrace(hooks)
}

type multiTrace []Trace

func (m multiTrace) CheckpointStart(depth, mark int) {
	for _, t := range m {
		t.CheckpointStart(depth, mark)
	}
}

func (m multiTrace) CheckpointEnd(depth, cleared int) {
	for _, t := range m {
		t.CheckpointEnd(depth, cleared)
	}
}

func (m multiTrace) Acquire(index int) {
	for _, t := range m {
		t.Acquire(index)
	}
}

func (m multiTrace) AcquireExt(purpose ExtPurpose) {
	for _, t := range m {
		t.AcquireExt(purpose)
	}
}

func (m multiTrace) ReleaseExt(purpose ExtPurpose) {
	for _, t := range m {
		t.ReleaseExt(purpose)
	}
}

func (m multiTrace) Exhausted(capacity int) {
	for _, t := range m {
		t.Exhausted(capacity)
	}
}

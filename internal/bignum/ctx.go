package bignum

import (
	"errors"
)

// ErrPoolExhausted is returned by Ctx.Get when a checkpoint would need more
// temporaries than the pool holds. It is the one recoverable failure in this
// package: there is no growth path, so the caller must abort the enclosing
// cryptographic operation.
var ErrPoolExhausted = errors.New("bignum: temporary pool exhausted")

// Ctx is the pool allocator for temporary bignums. A fixed array of
// pre-initialised standard BNs is handed out in stack order: Start pushes the
// current allocation mark as a checkpoint, Get peels the next free slot, End
// zeroizes everything acquired since the matching Start and pops the mark.
//
// The discipline exists to support nested call chains,
//
//	modExp()
//	    ctx.Start()
//	    a, _ := ctx.Get()
//	    b, _ := ctx.Get()
//	    montMul()
//	        ctx.Start()
//	        t, _ := ctx.Get()
//	        ctx.End()       // releases t only
//	    ctx.End()           // releases a and b
//
// where every Start must be matched by exactly one End before the enclosing
// checkpoint ends. Violations corrupt the boundary stack; the sanity checks
// make that detectable instead of silently reusing live slots.
//
// A Ctx is owned by one logical call chain and is not safe for concurrent
// use.
type Ctx struct {
	pool    []BN  // standard temporaries, storage allocated once
	stack   []int // per-depth boundary: pool index above which slots are free
	depth   int   // active checkpoint depth, 0 when no checkpoint is open
	maxUsed int   // diagnostic lifetime high-water mark

	extA [ExtASlots]BN // Montgomery intermediate, addressed by purpose
	extB [ExtBSlots]BN // multiplication intermediates, addressed by purpose

	trace Trace
}

// CtxOption configures a Ctx during construction.
type CtxOption func(*ctxConfig)

type ctxConfig struct {
	poolSize int
	trace    Trace
}

// WithPoolSize overrides the standard pool capacity. Used by tests and by
// subsystems whose deepest simultaneous use has been measured below the
// default.
func WithPoolSize(n int) CtxOption {
	return func(c *ctxConfig) { c.poolSize = n }
}

// WithTrace injects an observability hook.
func WithTrace(t Trace) CtxOption {
	return func(c *ctxConfig) { c.trace = t }
}

// NewCtx creates and initialises a pool allocator.
func NewCtx(opts ...CtxOption) *Ctx {
	cfg := ctxConfig{poolSize: DefaultPoolSize, trace: nopTrace{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	require(cfg.poolSize >= 1, "NewCtx", "pool size %d below minimum", cfg.poolSize)
	require(cfg.trace != nil, "NewCtx", "nil trace hook")

	c := &Ctx{
		pool:  make([]BN, cfg.poolSize),
		stack: make([]int, MaxNesting+1),
		trace: cfg.trace,
	}
	c.initSlots()
	return c
}

// initSlots puts every pool slot into its initial cleared state.
func (c *Ctx) initSlots() {
	for i := range c.pool {
		c.pool[i].Init(ClassPoolStd)
	}
	for i := range c.extA {
		c.extA[i].Init(ClassPoolExtA)
	}
	for i := range c.extB {
		c.extB[i].Init(ClassPoolExtB)
	}
}

// Final zeroizes the whole context, every slot's full capacity plus the
// bookkeeping, and restores it to its freshly initialised state so that it
// can be reused for another call chain.
func (c *Ctx) Final() {
	require(sanityCheckCtx(c), "Ctx.Final", "corrupt pool bookkeeping")

	c.initSlots()
	for i := range c.stack {
		c.stack[i] = 0
	}
	c.depth = 0
	c.maxUsed = 0
}

// Start opens a checkpoint: the current allocation mark is pushed and becomes
// the floor that the matching End will unwind to.
func (c *Ctx) Start() {
	require(sanityCheckCtx(c), "Ctx.Start", "corrupt pool bookkeeping")
	require(c.depth < MaxNesting, "Ctx.Start", "checkpoint nesting deeper than %d", MaxNesting)

	c.depth++
	c.stack[c.depth] = c.stack[c.depth-1]
	c.trace.CheckpointStart(c.depth, c.stack[c.depth])
}

// Get peels the next free temporary off the pool. The returned BN is cleared
// and belongs to the active checkpoint; it must not be retained past the
// matching End, which zeroizes and reclaims its storage.
//
// Exceeding the pool capacity fails deterministically with ErrPoolExhausted:
// in-flight slots are never reused and the pool never grows.
func (c *Ctx) Get() (*BN, error) {
	require(sanityCheckCtx(c), "Ctx.Get", "corrupt pool bookkeeping")
	require(c.depth > 0, "Ctx.Get", "Get outside any checkpoint")

	index := c.stack[c.depth]
	if index >= len(c.pool) {
		c.trace.Exhausted(len(c.pool))
		return nil, ErrPoolExhausted
	}

	c.stack[c.depth] = index + 1
	if index+1 > c.maxUsed {
		c.maxUsed = index + 1
	}
	c.trace.Acquire(index)
	return &c.pool[index], nil
}

// End closes the active checkpoint: every slot acquired since the matching
// Start is zeroized and returned to the pool, and the boundary stack pops.
func (c *Ctx) End() {
	require(sanityCheckCtx(c), "Ctx.End", "corrupt pool bookkeeping")
	require(c.depth > 0, "Ctx.End", "End without matching Start")
	require(c.stack[c.depth-1] <= c.stack[c.depth], "Ctx.End",
		"boundary stack not monotonic: unbalanced Start/End nesting")

	floor := c.stack[c.depth-1]
	top := c.stack[c.depth]
	for i := floor; i < top; i++ {
		c.pool[i].Clear()
	}

	c.stack[c.depth] = 0
	c.depth--
	c.trace.CheckpointEnd(c.depth+1, top-floor)
}

// Mark returns the current allocation mark: the pool index above which all
// slots are free. After an End it returns to the value it had before the
// matching Start.
func (c *Ctx) Mark() int { return c.stack[c.depth] }

// Depth returns the current checkpoint nesting depth.
func (c *Ctx) Depth() int { return c.depth }

// MaxUsed returns the diagnostic lifetime high-water mark: the largest number
// of standard slots simultaneously live since initialisation.
func (c *Ctx) MaxUsed() int { return c.maxUsed }

// PoolSize returns the fixed standard-pool capacity.
func (c *Ctx) PoolSize() int { return len(c.pool) }

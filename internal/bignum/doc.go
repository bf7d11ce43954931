// Package bignum implements the fixed-capacity arbitrary-precision integer
// layer used by the public-key code: a sign-magnitude BN value type whose
// storage is allocated once and never grows, a checkpointed pool allocator
// (Ctx) that hands out and reclaims temporary BNs with strict LIFO
// discipline, and the Montgomery and reciprocal reduction contexts that
// precompute per-modulus state for the arithmetic code.
//
// Nothing here grows dynamically: every capacity is sized
// statically for the largest supported modulus, so the hot path performs no
// allocation and leaves no secret material behind: every release path
// zeroizes the full capacity of the slots it reclaims.
//
// A Ctx and everything obtained from it belong to exactly one logical call
// chain. There is no internal locking; distinct Ctx instances may be used
// from distinct goroutines.
package bignum

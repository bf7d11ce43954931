package bignum

import (
	"math/big"
	"runtime"
)

// zeroizeWords overwrites the slice with zeros and prevents the compiler from
// eliminating the stores as dead. Go's garbage collector can still move or
// copy memory, so this cannot guarantee complete sanitization, but it is the
// accepted ecosystem practice (golang/go#33325) and ensures reclaimed pool
// slots never hand a later checkpoint another operation's secret words.
//
// This is distinct from ordinary zero-initialisation: every
// release path in this package (Clear, checkpoint End, context Final,
// reduction-context Free) goes through it.
func zeroizeWords(w []big.Word) {
	for i := range w {
		w[i] = 0
	}
	runtime.KeepAlive(w)
}

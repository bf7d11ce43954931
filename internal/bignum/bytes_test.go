package bignum

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSetBytes(t *testing.T) {
	t.Parallel()

	t.Run("leading zeros ignored", func(t *testing.T) {
		t.Parallel()
		bn := NewBN()
		bn.SetBytes([]byte{0, 0, 0, 0x12, 0x34})
		if bn.Word() != 0x1234 {
			t.Errorf("value = %#x, want 0x1234", bn.Word())
		}
	})

	t.Run("empty and all-zero input give canonical zero", func(t *testing.T) {
		t.Parallel()
		bn := NewBN()
		bn.SetWord(9)
		bn.SetBytes(nil)
		if bn.Top() != 0 {
			t.Error("empty input did not produce canonical zero")
		}
		bn.SetWord(9)
		bn.SetBytes([]byte{0, 0, 0})
		if bn.Top() != 0 {
			t.Error("all-zero input did not produce canonical zero")
		}
	})

	t.Run("maximum supported size accepted", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, MaxPKCBytes)
		for i := range buf {
			buf[i] = byte(i | 1)
		}
		bn := NewBN()
		bn.SetBytes(buf)
		if !bytes.Equal(bn.Bytes(), bytes.TrimLeft(buf, "\x00")) {
			t.Error("maximum-size round trip failed")
		}
	})

	t.Run("oversized input panics", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, StdWords*wordBytes+1)
		buf[0] = 1
		bn := NewBN()
		mustPanicPrecondition(t, "SetBytes", func() { bn.SetBytes(buf) })
	})
}

func TestBytes(t *testing.T) {
	t.Parallel()

	t.Run("zero encodes empty", func(t *testing.T) {
		t.Parallel()
		bn := NewBN()
		if len(bn.Bytes()) != 0 {
			t.Error("zero value produced bytes")
		}
	})

	t.Run("minimal big-endian encoding", func(t *testing.T) {
		t.Parallel()
		bn := NewBN()
		bn.SetBytes([]byte{0x01, 0x00, 0xff})
		if got := bn.Bytes(); !bytes.Equal(got, []byte{0x01, 0x00, 0xff}) {
			t.Errorf("Bytes() = %x", got)
		}
	})
}

func TestBigBridge(t *testing.T) {
	t.Parallel()

	oracle, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	bn := NewBN()
	bn.SetBig(oracle)
	if !bn.IsNegative() {
		t.Error("sign lost through SetBig")
	}
	if bn.Big().Cmp(oracle) != 0 {
		t.Errorf("round trip = %v, want %v", bn.Big(), oracle)
	}
}

// TestByteRoundTrip_PropertyBased verifies SetBytes/Bytes round-trips and
// agreement with the math/big oracle for arbitrary input.
func TestByteRoundTrip_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("SetBytes/Bytes matches math/big", prop.ForAll(
		func(raw []byte) bool {
			if len(raw) > MaxPKCBytes {
				raw = raw[:MaxPKCBytes]
			}
			oracle := new(big.Int).SetBytes(raw)
			bn := NewBN()
			bn.SetBytes(raw)
			return bytes.Equal(bn.Bytes(), oracle.Bytes()) &&
				bn.Big().Cmp(oracle) == 0
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}

package jsonb_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/reoring/jsonb"
)

// deepEqual compares two value trees. NaN equals NaN.
func deepEqual(a, b any) bool {
	switch x := a.(type) {
	case *jsonb.Object:
		y, ok := b.(*jsonb.Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		xk, yk := x.OwnKeys(), y.OwnKeys()
		for i := range xk {
			if xk[i] != yk[i] {
				return false
			}
			xv, _ := x.Get(xk[i])
			yv, _ := y.Get(yk[i])
			if !deepEqual(xv, yv) {
				return false
			}
		}
		return true
	case *jsonb.Array:
		y, ok := b.(*jsonb.Array)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			if !deepEqual(x.At(i), y.At(i)) {
				return false
			}
		}
		return true
	case float64:
		y, ok := b.(float64)
		if !ok {
			return false
		}
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	}
	return a == b
}

func mustStringify(t *testing.T, v any, replacer any, indent any, opts ...jsonb.Options) string {
	t.Helper()
	s, err := jsonb.Stringify(v, replacer, indent, opts...)
	if err != nil {
		t.Fatalf("Stringify: %v", err)
	}
	return s
}

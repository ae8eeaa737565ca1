package jsonb_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/reoring/jsonb"
)

func TestClassify(t *testing.T) {
	var nilObj *jsonb.Object
	var nilSlice []any
	cases := []struct {
		v    any
		want jsonb.Kind
	}{
		{nil, jsonb.KindNull},
		{nilObj, jsonb.KindNull},
		{nilSlice, jsonb.KindNull},
		{jsonb.Undefined, jsonb.KindUndefined},
		{"s", jsonb.KindString},
		{true, jsonb.KindBoolean},
		{1, jsonb.KindFiniteNumber},
		{uint64(1), jsonb.KindFiniteNumber},
		{2.5, jsonb.KindFiniteNumber},
		{math.NaN(), jsonb.KindNaN},
		{math.Inf(1), jsonb.KindPosInfinity},
		{float32(math.Inf(-1)), jsonb.KindNegInfinity},
		{big.NewInt(1), jsonb.KindBigInteger},
		{&jsonb.Function{}, jsonb.KindFunction},
		{jsonb.NewArray(), jsonb.KindArray},
		{[]any{1}, jsonb.KindArray},
		{jsonb.NewObject(), jsonb.KindObject},
		{map[string]any{}, jsonb.KindObject},
		{struct{}{}, jsonb.KindUndefined},
		{[]int{1}, jsonb.KindUndefined},
	}
	for _, tc := range cases {
		if got := jsonb.Classify(tc.v); got != tc.want {
			t.Errorf("Classify(%#v) = %v, want %v", tc.v, got, tc.want)
		}
	}
	if !jsonb.KindArray.IsContainer() || jsonb.KindFunction.IsContainer() {
		t.Fatalf("IsContainer mismatch")
	}
}

func TestObject_Properties(t *testing.T) {
	o := jsonb.ObjectOf("a", 1, "b", 2, "c", 3)
	o.Set("a", 10)
	if !o.Delete("b") || o.Delete("missing") {
		t.Fatalf("Delete result mismatch")
	}
	if keys := o.Keys(); len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("keys = %v", keys)
	}
	if v, _ := o.Get("a"); v != 10 {
		t.Fatalf("a = %v", v)
	}
	if v, _ := o.Get("nope"); v != jsonb.Undefined {
		t.Fatalf("missing key = %v, want Undefined", v)
	}
}

func TestObject_GetterReceiver(t *testing.T) {
	o := jsonb.ObjectOf("base", 2)
	proto := jsonb.NewObject()
	proto.Define("double", jsonb.Property{Getter: &jsonb.Function{Call: func(this any, _ ...any) (any, error) {
		b, err := this.(*jsonb.Object).Get("base")
		if err != nil {
			return nil, err
		}
		return b.(int) * 2, nil
	}}})
	if err := o.SetProto(proto); err != nil {
		t.Fatalf("SetProto: %v", err)
	}
	if v, err := o.Get("double"); err != nil || v != 4 {
		t.Fatalf("double = %v, %v", v, err)
	}
	if err := proto.SetProto(o); !errors.Is(err, jsonb.ErrProtoCycle) {
		t.Fatalf("expected ErrProtoCycle, got %v", err)
	}
}

func TestFunction_InvokeRecoversPanic(t *testing.T) {
	f := &jsonb.Function{Call: func(any, ...any) (any, error) { panic("bad") }}
	_, err := f.Invoke(nil)
	var ex *jsonb.Exception
	if !errors.As(err, &ex) || ex.Name != "panic" || ex.Error() != "panic: bad" {
		t.Fatalf("got %v", err)
	}
	if v, err := (&jsonb.Function{}).Invoke(nil); err != nil || v != jsonb.Undefined {
		t.Fatalf("nil Call: %v %v", v, err)
	}
}

func TestArray_Holes(t *testing.T) {
	a := jsonb.NewArray()
	a.Set(2, "x")
	if a.Len() != 3 || a.At(0) != jsonb.Undefined || a.At(5) != jsonb.Undefined {
		t.Fatalf("got %v", a.Values())
	}
}

func TestQuote_RoundTrip(t *testing.T) {
	var rs []rune
	for r := rune(0); r <= 0xa0; r++ {
		rs = append(rs, r)
	}
	rs = append(rs, 0xad, 0x600, 0x604, 0x70f, 0x17b4, 0x17b5, 0x200c, 0x200f, 0x2028, 0x2029, 0x202f, 0x2060, 0x206f, 0xfeff, 0xfff0, 0xffff, 0x1f600)
	s := string(rs)
	q := jsonb.Quote(s)
	for _, r := range q {
		if r == 0x2028 || r == 0xfeff || r < 0x20 {
			t.Fatalf("quoted text contains raw %U", r)
		}
	}
	got, err := jsonb.Unquote(q)
	if err != nil || got != s {
		t.Fatalf("Unquote(Quote(s)) mismatch: %v", err)
	}
	if _, err := jsonb.Unquote(`"\q"`); !errors.Is(err, jsonb.ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
}

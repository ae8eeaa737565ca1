package jsonb_test

import (
	"math"
	"strings"
	"testing"

	"github.com/reoring/jsonb"
)

func inspect(t *testing.T, v any, opts jsonb.Options, b jsonb.Budget) string {
	t.Helper()
	s, err := jsonb.StringifyForInspection(v, nil, nil, opts, b)
	if err != nil {
		t.Fatalf("StringifyForInspection: %v", err)
	}
	return s
}

func nest(depth int) any {
	var v any = "leaf"
	for i := 0; i < depth; i++ {
		v = jsonb.ObjectOf("a", v)
	}
	return v
}

func TestInspect_DepthCutoff(t *testing.T) {
	got := inspect(t, nest(5), jsonb.DefaultInspectOptions(), jsonb.Budget{MaxLength: jsonb.Unbounded, MaxDepth: 2})
	if got != `{"a":{"a":"{...}"}}` {
		t.Fatalf("got %s", got)
	}
	got = inspect(t, jsonb.NewArray(jsonb.NewArray(jsonb.NewArray(1)), 2), jsonb.DefaultInspectOptions(), jsonb.Budget{MaxLength: jsonb.Unbounded, MaxDepth: 1})
	if got != `["[...]",2]` {
		t.Fatalf("array cutoff: got %s", got)
	}
	if got := inspect(t, nest(5), jsonb.DefaultInspectOptions(), jsonb.DefaultBudget()); got != `{"a":{"a":{"a":{"a":{"a":"leaf"}}}}}` {
		t.Fatalf("unbounded: got %s", got)
	}
}

func TestInspect_SelfReference(t *testing.T) {
	o := jsonb.NewObject()
	o.Set("self", o)
	o.Set("n", 1)
	if got := inspect(t, o, jsonb.DefaultInspectOptions(), jsonb.DefaultBudget()); got != `{"self":"circular reference","n":1}` {
		t.Fatalf("got %s", got)
	}
}

func TestInspect_LongCycle(t *testing.T) {
	a, b := jsonb.NewObject(), jsonb.NewObject()
	a.Set("b", b)
	b.Set("a", a)
	if got := inspect(t, a, jsonb.DefaultInspectOptions(), jsonb.DefaultBudget()); got != `{"b":{"a":"circular reference"}}` {
		t.Fatalf("got %s", got)
	}
	m := map[string]any{}
	m["m"] = m
	if got := inspect(t, m, jsonb.DefaultInspectOptions(), jsonb.DefaultBudget()); got != `{"m":"circular reference"}` {
		t.Fatalf("map cycle: got %s", got)
	}
	shared := jsonb.NewArray(1)
	if got := inspect(t, jsonb.NewArray(shared, shared), jsonb.DefaultInspectOptions(), jsonb.DefaultBudget()); got != `[[1],[1]]` {
		t.Fatalf("siblings are not cycles: got %s", got)
	}
}

func TestInspect_LengthTruncation(t *testing.T) {
	arr := jsonb.NewArray(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	b := jsonb.Budget{MaxLength: 6, MaxDepth: jsonb.Unbounded}
	got := inspect(t, arr, jsonb.DefaultInspectOptions(), b)
	if got != `[1,2,3,4,"..."]` {
		t.Fatalf("got %s", got)
	}
	o := jsonb.ObjectOf("alpha", "aaaaaaaa", "beta", "bbbbbbbb", "gamma", 3)
	if got := inspect(t, o, jsonb.DefaultInspectOptions(), jsonb.Budget{MaxLength: 10, MaxDepth: jsonb.Unbounded}); got != `{"alpha":"aaaaaaaa","..."}` {
		t.Fatalf("object truncation: got %s", got)
	}
}

func TestInspect_LongStringClipped(t *testing.T) {
	b := jsonb.Budget{MaxLength: 10, MaxDepth: jsonb.Unbounded}
	o := jsonb.ObjectOf("s", strings.Repeat("x", 5000))
	if got := inspect(t, o, jsonb.DefaultInspectOptions(), b); got != `{"s":"xxxxx..."}` {
		t.Fatalf("got %s (%d bytes)", got, len(got))
	}
	if got := inspect(t, strings.Repeat("y", 100), jsonb.DefaultInspectOptions(), jsonb.Budget{MaxLength: 4}); got != `"..."` {
		t.Fatalf("no room: got %s", got)
	}
	if got := inspect(t, "short", jsonb.DefaultInspectOptions(), b); got != `"short"` {
		t.Fatalf("fitting string: got %s", got)
	}
}

func TestInspect_ZeroBudgetIsUnbounded(t *testing.T) {
	v := nest(5)
	want := `{"a":{"a":{"a":{"a":{"a":"leaf"}}}}}`
	if got := inspect(t, v, jsonb.DefaultInspectOptions(), jsonb.Budget{}); got != want {
		t.Fatalf("zero budget: got %s", got)
	}
	got, err := jsonb.StringifyForInspection(v, nil, nil, jsonb.DefaultInspectOptions())
	if err != nil || got != want {
		t.Fatalf("default budget: got %s %v", got, err)
	}
	got, err = jsonb.StringifyForInspection(v, nil, nil, jsonb.DefaultInspectOptions(), jsonb.Budget{MaxDepth: 1}, jsonb.Budget{MaxDepth: 2})
	if err != nil || got != `{"a":{"a":"{...}"}}` {
		t.Fatalf("last budget wins: got %s %v", got, err)
	}
}

func TestInspect_TruncationDeterministic(t *testing.T) {
	var rows []any
	for i := 0; i < 200; i++ {
		rows = append(rows, jsonb.ObjectOf("id", i, "name", strings.Repeat("x", i%7), "tags", jsonb.NewArray("a", "b")))
	}
	v := jsonb.NewArray(rows...)
	b := jsonb.Budget{MaxLength: 300, MaxDepth: 3}
	first := inspect(t, v, jsonb.DefaultInspectOptions(), b)
	for i := 0; i < 5; i++ {
		if again := inspect(t, v, jsonb.DefaultInspectOptions(), b); again != first {
			t.Fatalf("run %d differs:\n%s\n%s", i, first, again)
		}
	}
	if !strings.HasSuffix(first, `"..."]`) {
		t.Fatalf("expected truncation sentinel, got %s", first)
	}
}

func TestInspect_MemberFailureIsolated(t *testing.T) {
	o := jsonb.NewObject()
	o.Define("bad", jsonb.Property{Enumerable: true, Getter: &jsonb.Function{Call: func(any, ...any) (any, error) {
		return nil, jsonb.Throw("TypeError", "boom")
	}}})
	o.Define("worse", jsonb.Property{Enumerable: true, Getter: &jsonb.Function{Call: func(any, ...any) (any, error) {
		panic("kaboom")
	}}})
	o.Set("ok", 1)
	want := `{"bad":"TypeError: boom","worse":"panic: kaboom","ok":1}`
	if got := inspect(t, o, jsonb.DefaultInspectOptions(), jsonb.DefaultBudget()); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestInspect_ReplacerPanicIsolated(t *testing.T) {
	rep := func(key string, v any) any {
		if key == "b" {
			panic("no")
		}
		return v
	}
	got, err := jsonb.StringifyForInspection(jsonb.ObjectOf("a", 1, "b", 2), rep, nil, jsonb.DefaultInspectOptions(), jsonb.DefaultBudget())
	if err != nil || got != `{"a":1,"b":"panic: no"}` {
		t.Fatalf("got %s, %v", got, err)
	}
	if _, err := jsonb.StringifyForInspection(1, 3.5, nil, jsonb.DefaultInspectOptions(), jsonb.DefaultBudget()); err == nil {
		t.Fatalf("expected configuration error for bad replacer")
	}
}

func TestInspect_FunctionSummary(t *testing.T) {
	f := &jsonb.Function{Source: "function add(a, b) { return a + b }"}
	if got := inspect(t, f, jsonb.DefaultInspectOptions(), jsonb.DefaultBudget()); got != f.Source {
		t.Fatalf("unbounded: got %s", got)
	}
	if got := inspect(t, f, jsonb.DefaultInspectOptions(), jsonb.Budget{MaxLength: 10, MaxDepth: jsonb.Unbounded}); got != `"ƒ add(a, b)"` {
		t.Fatalf("summary: got %s", got)
	}
	if got := inspect(t, jsonb.ObjectOf("f", f), jsonb.DefaultInspectOptions(), jsonb.Budget{MaxLength: jsonb.Unbounded, MaxDepth: 1}); got != `{"f":"..."}` {
		t.Fatalf("function past depth: got %s", got)
	}
	if got := inspect(t, jsonb.ObjectOf("f", f, "n", 1), jsonb.DefaultOptions(), jsonb.DefaultBudget()); got != `{"n":1}` {
		t.Fatalf("function source off: got %s", got)
	}
}

func TestInspect_PrototypeWalk(t *testing.T) {
	greet := &jsonb.Function{Source: "function greet() {}"}
	proto := jsonb.NewObject()
	proto.Define("greet", jsonb.Property{Value: greet})
	proto.Set("name", "shadowed")
	o := jsonb.ObjectOf("name", "x")
	if err := o.SetProto(proto); err != nil {
		t.Fatalf("SetProto: %v", err)
	}
	want := `{"name":"x","greet":function greet() {},"[[Prototype]]":{"name":"shadowed"}}`
	if got := inspect(t, o, jsonb.DefaultInspectOptions(), jsonb.DefaultBudget()); got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
	if got := mustStringify(t, o, nil, nil); got != `{"name":"x"}` {
		t.Fatalf("round trip shows own keys only, got %s", got)
	}
}

func TestInspect_AccessorDescriptor(t *testing.T) {
	get := &jsonb.Function{Source: "get v() { return 1 }", Call: func(any, ...any) (any, error) { return 1, nil }}
	set := &jsonb.Function{Source: "set v(x) {}"}
	o := jsonb.NewObject()
	o.Define("v", jsonb.Property{Getter: get, Setter: set, Enumerable: true})
	opts := jsonb.DefaultInspectOptions()
	if got := inspect(t, o, opts, jsonb.DefaultBudget()); got != `{"v":1}` {
		t.Fatalf("snapshot: got %s", got)
	}
	opts.IncludeGetters, opts.IncludeSetters = true, true
	if got := inspect(t, o, opts, jsonb.DefaultBudget()); got != `{"v":{"get":get v() { return 1 },"set":set v(x) {}}}` {
		t.Fatalf("descriptor: got %s", got)
	}
}

func TestInspect_DisabledKindsElided(t *testing.T) {
	v := jsonb.NewArray(math.NaN(), 1, jsonb.Undefined, math.Inf(1))
	if got := inspect(t, v, jsonb.StrictJSON(), jsonb.DefaultBudget()); got != `[1]` {
		t.Fatalf("got %s", got)
	}
	if got := inspect(t, v, jsonb.DefaultInspectOptions(), jsonb.DefaultBudget()); got != `[NaN,1,undefined,Infinity]` {
		t.Fatalf("enabled: got %s", got)
	}
}

func TestInspect_Indent(t *testing.T) {
	got, err := jsonb.StringifyForInspection(jsonb.ObjectOf("a", jsonb.NewArray(1)), nil, 2, jsonb.DefaultInspectOptions(), jsonb.DefaultBudget())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got != "{\n  \"a\": [\n    1\n  ]\n}" {
		t.Fatalf("got %q", got)
	}
}

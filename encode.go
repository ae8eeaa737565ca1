package jsonb

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/jsonb/internal/wire"
)

// ReplacerFunc is called with every key, including the root key "", and
// the value read for it. Its result is serialized instead.
type ReplacerFunc func(key string, value any) any

// replacer is the validated replacer argument.
type replacer struct {
	fn   ReplacerFunc
	keys []string
	list bool // keys restricts object members, even when empty
}

func newReplacer(r any) (replacer, error) {
	switch x := r.(type) {
	case nil:
		return replacer{}, nil
	case ReplacerFunc:
		return replacer{fn: x}, nil
	case func(string, any) any:
		return replacer{fn: x}, nil
	case []string:
		return keyList(x), nil
	case []any:
		return keyList(stringsOf(x)), nil
	case *Array:
		if x == nil {
			return replacer{}, nil
		}
		return keyList(stringsOf(x.elems)), nil
	}
	return replacer{}, &ConfigError{Arg: "replacer", Reason: fmt.Sprintf("want a function or a list of keys, got %T", r)}
}

func stringsOf(vs []any) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func keyList(keys []string) replacer {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return replacer{keys: out, list: true}
}

// indentUnit renders an indent argument: an integer is that many spaces,
// a string is used verbatim, anything else means compact output.
func indentUnit(indent any) string {
	var n int64
	switch x := indent.(type) {
	case string:
		return x
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case float64:
		n = int64(x)
	default:
		return ""
	}
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", int(n))
}

// identity returns a comparable identity for reference values.
type identity struct {
	kind Kind
	ptr  uintptr
	n    int
}

func identityOf(v any) (identity, bool) {
	switch x := v.(type) {
	case *Object:
		return identity{kind: KindObject, ptr: reflect.ValueOf(x).Pointer()}, true
	case *Array:
		return identity{kind: KindArray, ptr: reflect.ValueOf(x).Pointer()}, true
	case map[string]any:
		return identity{kind: KindObject, ptr: reflect.ValueOf(x).Pointer(), n: -1}, true
	case []any:
		if len(x) == 0 {
			return identity{}, false
		}
		return identity{kind: KindArray, ptr: reflect.ValueOf(x).Pointer(), n: len(x)}, true
	}
	return identity{}, false
}

// accessorDescriptor substitutes an accessor property by an object holding
// its get/set functions, as selected by opts. ok is false when nothing is
// selected.
func accessorDescriptor(p Property, opts Options) (*Object, bool) {
	if !p.IsAccessor() {
		return nil, false
	}
	d := NewObject()
	if opts.IncludeGetters && p.Getter != nil {
		d.Set("get", p.Getter)
	}
	if opts.IncludeSetters && p.Setter != nil {
		d.Set("set", p.Setter)
	}
	return d, d.Len() > 0
}

// readMember reads key from an object-like container, substituting the
// accessor descriptor when the options ask for it.
func readMember(m members, key string, opts Options) (any, error) {
	if m.obj != nil && (opts.IncludeGetters || opts.IncludeSetters) {
		if p, ok := m.obj.Lookup(key); ok {
			if d, ok := accessorDescriptor(p, opts); ok {
				return d, nil
			}
		}
	}
	return m.get(key)
}

// appendNumber writes a finite number. Integers print exactly.
func appendNumber(dst []byte, v any) []byte {
	switch x := v.(type) {
	case float64:
		return wire.AppendNumber(dst, x)
	case float32:
		return wire.AppendNumber(dst, float64(x))
	case int:
		return strconv.AppendInt(dst, int64(x), 10)
	case int8:
		return strconv.AppendInt(dst, int64(x), 10)
	case int16:
		return strconv.AppendInt(dst, int64(x), 10)
	case int32:
		return strconv.AppendInt(dst, int64(x), 10)
	case int64:
		return strconv.AppendInt(dst, x, 10)
	case uint:
		return strconv.AppendUint(dst, uint64(x), 10)
	case uint8:
		return strconv.AppendUint(dst, uint64(x), 10)
	case uint16:
		return strconv.AppendUint(dst, uint64(x), 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(x), 10)
	case uint64:
		return strconv.AppendUint(dst, x, 10)
	case uintptr:
		return strconv.AppendUint(dst, uint64(x), 10)
	}
	return append(dst, "null"...)
}

// primitive renders a non-container, non-function value. ok is false when
// the kind is disabled (extended kinds) or has no representation.
func primitive(k Kind, v any, opts Options) (string, bool) {
	switch k {
	case KindString:
		return Quote(v.(string)), true
	case KindFiniteNumber:
		return string(appendNumber(nil, v)), true
	case KindBoolean:
		if v.(bool) {
			return "true", true
		}
		return "false", true
	case KindNull:
		return "null", true
	case KindNaN:
		return "NaN", opts.NaN
	case KindPosInfinity:
		return "Infinity", opts.Infinity
	case KindNegInfinity:
		return "-Infinity", opts.NegativeInfinity
	case KindBigInteger:
		return v.(*big.Int).String() + "n", opts.BigInt
	case KindUndefined:
		return "undefined", opts.Undefined
	}
	return "", false
}

// nullWhenDisabled reports whether a disabled kind degrades to null rather
// than being omitted.
func nullWhenDisabled(k Kind) bool {
	switch k {
	case KindNaN, KindPosInfinity, KindNegInfinity, KindBigInteger:
		return true
	}
	return false
}

// functionSource returns the source text of f, synthesizing one for
// functions without source.
func functionSource(f *Function) string {
	if f.Source != "" {
		return f.Source
	}
	return "function " + f.Name + "() { [native code] }"
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinPointer(base, token string) string { return base + "/" + pointerEscaper.Replace(token) }

// encoder carries the traversal context of one Stringify call.
type encoder struct {
	opts   Options
	rep    replacer
	unit   string
	active map[identity]struct{}
}

// Stringify renders v as JSONB text. replacer is nil, a ReplacerFunc (or
// func(string, any) any), or a list of keys; indent is an integer number of
// spaces, a string, or nil for compact output. opts defaults to
// DefaultOptions; the last one given wins.
//
// An empty result with a nil error means v has no representation, such as
// Undefined with the undefined kind disabled.
func Stringify(v any, replacer any, indent any, opts ...Options) (string, error) {
	rep, err := newReplacer(replacer)
	if err != nil {
		return "", err
	}
	e := &encoder{
		opts:   pickOptions(DefaultOptions(), opts),
		rep:    rep,
		unit:   indentUnit(indent),
		active: map[identity]struct{}{},
	}
	s, ok, err := e.value("", v, "", "")
	if !ok {
		return "", err
	}
	return s, nil
}

// value renders the member key holding v. ok is false when the member is
// omitted.
func (e *encoder) value(key string, v any, gap, path string) (string, bool, error) {
	if e.rep.fn != nil {
		v = e.rep.fn(key, v)
	}
	k := Classify(v)
	switch k {
	case KindFunction:
		if !e.opts.IncludeFunctionSource {
			return "", false, nil
		}
		return functionSource(v.(*Function)), true, nil
	case KindArray, KindObject:
		id, ok := identityOf(v)
		if ok {
			if _, cyc := e.active[id]; cyc {
				return "", false, fmt.Errorf("%w at %s", ErrCycle, pointerOrRoot(path))
			}
			e.active[id] = struct{}{}
			defer delete(e.active, id)
		}
		if k == KindArray {
			s, err := e.array(membersOf(v), gap, path)
			return s, err == nil, err
		}
		s, err := e.object(membersOf(v), gap, path)
		return s, err == nil, err
	}
	s, ok := primitive(k, v, e.opts)
	if !ok && nullWhenDisabled(k) {
		return "null", true, nil
	}
	return s, ok, nil
}

func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func (e *encoder) array(m members, gap, path string) (string, error) {
	inner := gap + e.unit
	partial := make([]string, 0, len(m.arr))
	for i, el := range m.arr {
		idx := strconv.Itoa(i)
		s, ok, err := e.value(idx, el, inner, joinPointer(path, idx))
		if err != nil {
			return "", err
		}
		if !ok {
			s = "null"
		}
		partial = append(partial, s)
	}
	return wrap('[', ']', partial, gap, inner), nil
}

func (e *encoder) object(m members, gap, path string) (string, error) {
	inner := gap + e.unit
	keys := m.keys()
	if e.rep.list {
		keys = e.rep.keys
	}
	sep := ":"
	if e.unit != "" {
		sep = ": "
	}
	partial := make([]string, 0, len(keys))
	for _, key := range keys {
		if e.rep.list && !m.has(key) {
			continue
		}
		p := joinPointer(path, key)
		v, err := readMember(m, key, e.opts)
		if err != nil {
			return "", &MemberError{Path: p, Err: err}
		}
		s, ok, err := e.value(key, v, inner, p)
		if err != nil {
			return "", err
		}
		if ok {
			partial = append(partial, Quote(key)+sep+s)
		}
	}
	return wrap('{', '}', partial, gap, inner), nil
}

// wrap joins rendered members in the standard pretty-print layout, or
// compactly when no indent unit is set.
func wrap(left, right byte, partial []string, gap, inner string) string {
	if len(partial) == 0 {
		return string([]byte{left, right})
	}
	var b strings.Builder
	b.WriteByte(left)
	if inner == gap {
		b.WriteString(strings.Join(partial, ","))
	} else {
		b.WriteByte('\n')
		b.WriteString(inner)
		b.WriteString(strings.Join(partial, ",\n"+inner))
		b.WriteByte('\n')
		b.WriteString(gap)
	}
	b.WriteByte(right)
	return b.String()
}

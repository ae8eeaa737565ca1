package jsonb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	placeholderArray  = `"[...]"`
	placeholderObject = `"{...}"`
	placeholderMore   = `"..."`
	placeholderCycle  = `"circular reference"`

	// PrototypeKey is the pseudo-key under which inspection output shows an
	// object's prototype.
	PrototypeKey = "[[Prototype]]"
)

// inspector carries the traversal and budget state of one
// StringifyForInspection call.
type inspector struct {
	opts      Options
	rep       replacer
	unit      string
	budget    Budget
	length    int // bytes of leaves emitted so far
	entries   int // members emitted so far
	ancestors map[identity]struct{}
}

// StringifyForInspection renders v for display within budget. Containers
// nested at budget.MaxDepth or deeper become "[...]" or "{...}", members
// beyond the length budget collapse into a trailing "..." entry, a
// container reached again through its own ancestors renders as
// "circular reference", and a member that fails to read renders as its
// exception text. Only a malformed replacer is an error.
//
// budget defaults to DefaultBudget; the last one given wins.
func StringifyForInspection(v any, replacer any, indent any, opts Options, budget ...Budget) (string, error) {
	rep, err := newReplacer(replacer)
	if err != nil {
		return "", err
	}
	in := &inspector{
		opts:      opts,
		rep:       rep,
		unit:      indentUnit(indent),
		budget:    pickBudget(budget),
		ancestors: map[identity]struct{}{},
	}
	s, _ := in.value("", v, 0, "")
	return s, nil
}

func (in *inspector) emit(s string) string {
	in.length += len(s)
	return s
}

func pickBudget(bs []Budget) Budget {
	if len(bs) == 0 {
		return DefaultBudget()
	}
	return bs[len(bs)-1]
}

func (in *inspector) over() bool {
	if in.budget.MaxLength <= 0 {
		return false
	}
	return in.length > in.budget.MaxLength || in.entries > in.budget.MaxLength/2
}

func (in *inspector) tooDeep(depth int) bool {
	return in.budget.MaxDepth > 0 && depth >= in.budget.MaxDepth
}

func (in *inspector) fits(s string) bool {
	return in.budget.MaxLength <= 0 || in.length+len(s) <= in.budget.MaxLength
}

func (in *inspector) replace(key string, v any) (out any, err error) {
	if in.rep.fn == nil {
		return v, nil
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = Undefined, &Exception{Name: "panic", Message: fmt.Sprint(r)}
		}
	}()
	return in.rep.fn(key, v), nil
}

// exceptionTag renders a member failure as "Name: message".
func exceptionTag(err error) string {
	var ex *Exception
	if errors.As(err, &ex) {
		return ex.Error()
	}
	return "Error: " + err.Error()
}

func (in *inspector) value(key string, v any, depth int, gap string) (string, bool) {
	v, err := in.replace(key, v)
	if err != nil {
		return in.emit(Quote(exceptionTag(err))), true
	}
	k := Classify(v)
	switch k {
	case KindFunction:
		if !in.opts.IncludeFunctionSource {
			return "", false
		}
		if in.tooDeep(depth) {
			return in.emit(placeholderMore), true
		}
		f := v.(*Function)
		if src := functionSource(f); in.fits(src) {
			return in.emit(src), true
		}
		return in.emit(Quote(summarize(f))), true
	case KindArray, KindObject:
		id, tracked := identityOf(v)
		if tracked {
			if _, cyc := in.ancestors[id]; cyc {
				return in.emit(placeholderCycle), true
			}
		}
		if in.tooDeep(depth) {
			if k == KindArray {
				return in.emit(placeholderArray), true
			}
			return in.emit(placeholderObject), true
		}
		if tracked {
			in.ancestors[id] = struct{}{}
			defer delete(in.ancestors, id)
		}
		if k == KindArray {
			return in.array(membersOf(v), depth, gap), true
		}
		return in.object(membersOf(v), depth, gap), true
	}
	if k == KindString {
		return in.emit(in.clip(v.(string))), true
	}
	s, ok := primitive(k, v, in.opts)
	if !ok {
		return "", false
	}
	return in.emit(s), true
}

// clip quotes s, cutting it to the remaining length budget with a "..."
// mark. The clipped literal is never shorter than "...".
func (in *inspector) clip(s string) string {
	q := Quote(s)
	if in.fits(q) {
		return q
	}
	room := in.budget.MaxLength - in.length - len(placeholderMore)
	var b strings.Builder
	used := 0
	for _, r := range s {
		n := len(Quote(string(r))) - 2
		if used+n > room {
			break
		}
		used += n
		b.WriteRune(r)
	}
	return Quote(b.String() + "...")
}

func (in *inspector) array(m members, depth int, gap string) string {
	inner := gap + in.unit
	var partial []string
	for i, el := range m.arr {
		if in.over() {
			partial = append(partial, in.emit(placeholderMore))
			break
		}
		s, ok := in.value(strconv.Itoa(i), el, depth+1, inner)
		if !ok {
			continue
		}
		in.entries++
		partial = append(partial, s)
	}
	return wrap('[', ']', partial, gap, inner)
}

// inspectKeys lists the keys shown for an object: own enumerable keys, then
// the prototype's own keys not already present.
func (in *inspector) inspectKeys(m members) []string {
	if in.rep.list {
		keys := make([]string, 0, len(in.rep.keys))
		for _, k := range in.rep.keys {
			if m.has(k) {
				keys = append(keys, k)
			}
		}
		return keys
	}
	keys := m.keys()
	if m.obj == nil || m.obj.Proto() == nil {
		return keys
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	for _, k := range m.obj.Proto().OwnKeys() {
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

func (in *inspector) object(m members, depth int, gap string) string {
	inner := gap + in.unit
	sep := ":"
	if in.unit != "" {
		sep = ": "
	}
	var partial []string
	add := func(key, s string) {
		in.entries++
		partial = append(partial, in.emit(Quote(key))+sep+s)
	}
	truncated := false
	for _, key := range in.inspectKeys(m) {
		if in.over() {
			truncated = true
			break
		}
		v, err := readMember(m, key, in.opts)
		if err != nil {
			add(key, in.emit(Quote(exceptionTag(err))))
			continue
		}
		if s, ok := in.value(key, v, depth+1, inner); ok {
			add(key, s)
		}
	}
	if !truncated && !in.rep.list && m.obj != nil && m.obj.Proto() != nil {
		if in.over() {
			truncated = true
		} else if s, ok := in.value(PrototypeKey, m.obj.Proto(), depth+1, inner); ok {
			add(PrototypeKey, s)
		}
	}
	if truncated {
		partial = append(partial, in.emit(placeholderMore))
	}
	return wrap('{', '}', partial, gap, inner)
}

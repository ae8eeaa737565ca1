package jsonb

import (
	"errors"
	"sort"
)

// ErrProtoCycle is returned by SetProto when the new prototype chain would
// reach the object itself.
var ErrProtoCycle = errors.New("jsonb: cyclic prototype chain")

// Property is an own property descriptor. A property with a Getter or Setter
// is an accessor property and its Value is ignored.
type Property struct {
	Value      any
	Getter     *Function
	Setter     *Function
	Enumerable bool
}

// IsAccessor reports whether p is an accessor property.
func (p Property) IsAccessor() bool { return p.Getter != nil || p.Setter != nil }

// Object is an ordered property bag with an optional prototype.
type Object struct {
	keys  []string
	props map[string]*Property
	proto *Object
}

// NewObject returns an empty object with no prototype.
func NewObject() *Object { return &Object{props: map[string]*Property{}} }

// ObjectOf builds an object from alternating key/value pairs.
func ObjectOf(kv ...any) *Object {
	o := NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		k, _ := kv[i].(string)
		o.Set(k, kv[i+1])
	}
	return o
}

// Set defines key as an enumerable data property. An existing key keeps its
// position.
func (o *Object) Set(key string, v any) {
	o.Define(key, Property{Value: v, Enumerable: true})
}

// Define installs p as the own property key.
func (o *Object) Define(key string, p Property) {
	if o.props == nil {
		o.props = map[string]*Property{}
	}
	if cur, ok := o.props[key]; ok {
		*cur = p
		return
	}
	o.keys = append(o.keys, key)
	o.props[key] = &p
}

// Delete removes the own property key and reports whether it existed.
func (o *Object) Delete(key string) bool {
	if _, ok := o.props[key]; !ok {
		return false
	}
	delete(o.props, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of own properties.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the own enumerable keys in definition order.
func (o *Object) Keys() []string {
	out := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		if o.props[k].Enumerable {
			out = append(out, k)
		}
	}
	return out
}

// OwnKeys returns every own key, enumerable or not, in definition order.
func (o *Object) OwnKeys() []string { return append([]string(nil), o.keys...) }

// Property returns the own descriptor for key.
func (o *Object) Property(key string) (Property, bool) {
	p, ok := o.props[key]
	if !ok {
		return Property{}, false
	}
	return *p, true
}

// Lookup finds key on o or its prototype chain.
func (o *Object) Lookup(key string) (Property, bool) {
	for cur := o; cur != nil; cur = cur.proto {
		if p, ok := cur.props[key]; ok {
			return *p, true
		}
	}
	return Property{}, false
}

// Get reads key through the prototype chain. Getters run with o as the
// receiver. A missing key reads as Undefined.
func (o *Object) Get(key string) (any, error) {
	p, ok := o.Lookup(key)
	if !ok {
		return Undefined, nil
	}
	if p.IsAccessor() {
		if p.Getter == nil {
			return Undefined, nil
		}
		return p.Getter.Invoke(o)
	}
	return p.Value, nil
}

// Proto returns the prototype, or nil.
func (o *Object) Proto() *Object { return o.proto }

// SetProto replaces the prototype. nil clears it.
func (o *Object) SetProto(p *Object) error {
	for cur := p; cur != nil; cur = cur.proto {
		if cur == o {
			return ErrProtoCycle
		}
	}
	o.proto = p
	return nil
}

// Array is an ordered sequence. Undefined elements are holes.
type Array struct {
	elems []any
}

// NewArray returns an array holding elems.
func NewArray(elems ...any) *Array { return &Array{elems: append([]any(nil), elems...)} }

// Len returns the array length including holes.
func (a *Array) Len() int { return len(a.elems) }

// At returns element i, or Undefined when i is out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.elems) {
		return Undefined
	}
	return a.elems[i]
}

// Set stores v at i, growing the array with holes as needed.
func (a *Array) Set(i int, v any) {
	if i < 0 {
		return
	}
	for len(a.elems) <= i {
		a.elems = append(a.elems, Undefined)
	}
	a.elems[i] = v
}

// Append adds vs to the end.
func (a *Array) Append(vs ...any) { a.elems = append(a.elems, vs...) }

// Values returns a copy of the elements.
func (a *Array) Values() []any { return append([]any(nil), a.elems...) }

// members is the uniform container view used by the serializers.
type members struct {
	arr   []any
	obj   *Object
	m     map[string]any
	mkeys []string
}

func membersOf(v any) members {
	switch x := v.(type) {
	case *Array:
		return members{arr: x.elems}
	case []any:
		return members{arr: x}
	case *Object:
		return members{obj: x}
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return members{m: x, mkeys: keys}
	}
	return members{}
}

// keys returns the own enumerable keys of an object-like container.
func (m members) keys() []string {
	if m.obj != nil {
		return m.obj.Keys()
	}
	return m.mkeys
}

// get reads key from an object-like container.
func (m members) get(key string) (any, error) {
	if m.obj != nil {
		return m.obj.Get(key)
	}
	v, ok := m.m[key]
	if !ok {
		return Undefined, nil
	}
	return v, nil
}

// has reports whether key resolves on the container (own or inherited).
func (m members) has(key string) bool {
	if m.obj != nil {
		_, ok := m.obj.Lookup(key)
		return ok
	}
	_, ok := m.m[key]
	return ok
}

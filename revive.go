package jsonb

import "strconv"

// revive walks v bottom-up under a synthetic root holder {"": v}.
func revive(v any, reviver ReviverFunc) any {
	root := NewObject()
	root.Set("", v)
	return walk(root, "", v, reviver)
}

func walk(holder any, key string, val any, reviver ReviverFunc) any {
	switch x := val.(type) {
	case *Array:
		for i := range x.elems {
			nv := walk(x, strconv.Itoa(i), x.elems[i], reviver)
			x.elems[i] = nv
		}
	case *Object:
		for _, k := range x.Keys() {
			var cur any = Undefined
			if p, ok := x.Property(k); ok {
				cur = p.Value
			}
			nv := walk(x, k, cur, reviver)
			if _, del := nv.(UndefinedType); del {
				x.Delete(k)
			} else {
				x.Set(k, nv)
			}
		}
	}
	return reviver(holder, key, val)
}

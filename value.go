package jsonb

import (
	"fmt"
	"math"
	"math/big"
)

// Kind is the classification tag of a host value.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindString
	KindFiniteNumber
	KindNaN
	KindPosInfinity
	KindNegInfinity
	KindBigInteger
	KindFunction
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindUndefined:    "undefined",
	KindNull:         "null",
	KindBoolean:      "boolean",
	KindString:       "string",
	KindFiniteNumber: "number",
	KindNaN:          "NaN",
	KindPosInfinity:  "Infinity",
	KindNegInfinity:  "-Infinity",
	KindBigInteger:   "bigint",
	KindFunction:     "function",
	KindArray:        "array",
	KindObject:       "object",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsContainer reports whether values of this kind have members.
func (k Kind) IsContainer() bool { return k == KindArray || k == KindObject }

// UndefinedType is the type of Undefined.
type UndefinedType struct{}

// Undefined is the absent value. Inside an *Array it marks a hole.
var Undefined = UndefinedType{}

func (UndefinedType) String() string { return "undefined" }

// Classify maps v to its Kind. Typed nil pointers, maps and slices are Null;
// Go values outside the host model are Undefined.
func Classify(v any) Kind {
	switch x := v.(type) {
	case nil:
		return KindNull
	case UndefinedType:
		return KindUndefined
	case string:
		return KindString
	case bool:
		return KindBoolean
	case float64:
		return classifyFloat(x)
	case float32:
		return classifyFloat(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr:
		return KindFiniteNumber
	case *big.Int:
		if x == nil {
			return KindNull
		}
		return KindBigInteger
	case *Function:
		if x == nil {
			return KindNull
		}
		return KindFunction
	case *Array:
		if x == nil {
			return KindNull
		}
		return KindArray
	case []any:
		if x == nil {
			return KindNull
		}
		return KindArray
	case *Object:
		if x == nil {
			return KindNull
		}
		return KindObject
	case map[string]any:
		if x == nil {
			return KindNull
		}
		return KindObject
	}
	return KindUndefined
}

func classifyFloat(f float64) Kind {
	switch {
	case math.IsNaN(f):
		return KindNaN
	case math.IsInf(f, 1):
		return KindPosInfinity
	case math.IsInf(f, -1):
		return KindNegInfinity
	}
	return KindFiniteNumber
}

// Function is a host callable together with its source text.
type Function struct {
	Name   string
	Source string
	// Call is optional. this is the receiver the property was read from.
	Call func(this any, args ...any) (any, error)
}

// Invoke calls f. A nil Call yields Undefined; a panic is recovered into an
// *Exception named "panic".
func (f *Function) Invoke(this any, args ...any) (v any, err error) {
	if f == nil || f.Call == nil {
		return Undefined, nil
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = Undefined, &Exception{Name: "panic", Message: fmt.Sprint(r)}
		}
	}()
	return f.Call(this, args...)
}

// Exception is the error shape raised by host code, such as a throwing getter.
type Exception struct {
	Name    string
	Message string
}

// Throw returns an *Exception as an error.
func Throw(name, msg string) error { return &Exception{Name: name, Message: msg} }

func (e *Exception) Error() string {
	name := e.Name
	if name == "" {
		name = "Error"
	}
	if e.Message == "" {
		return name
	}
	return name + ": " + e.Message
}

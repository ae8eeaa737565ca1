package engine

import "strconv"

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBigInt
	KindNaN
	KindInfinity
	KindBool
	KindNull
	KindUndefined
)

var kindNames = [...]string{
	KindBeginObject: "begin object",
	KindEndObject:   "end object",
	KindBeginArray:  "begin array",
	KindEndArray:    "end array",
	KindKey:         "key",
	KindString:      "string",
	KindNumber:      "number",
	KindBigInt:      "bigint",
	KindNaN:         "NaN",
	KindInfinity:    "Infinity",
	KindBool:        "bool",
	KindNull:        "null",
	KindUndefined:   "undefined",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Token represents a streaming token with approximate input offset.
//
// Number holds the literal text for KindNumber and the digits (without the
// n suffix) for KindBigInt. Neg marks -Infinity for KindInfinity.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Neg    bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Grammar selects the extended literal tokens admitted on top of JSON.
type Grammar struct {
	BigInt           bool
	Undefined        bool
	Infinity         bool
	NegativeInfinity bool
	NaN              bool
}

// FullGrammar admits every extended literal.
func FullGrammar() Grammar {
	return Grammar{BigInt: true, Undefined: true, Infinity: true, NegativeInfinity: true, NaN: true}
}

// SyntaxError reports malformed input at a byte offset.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return e.Msg + " at offset " + strconv.FormatInt(e.Offset, 10)
}

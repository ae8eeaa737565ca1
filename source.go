package jsonb

import (
	"io"
	"sync"

	eng "github.com/reoring/jsonb/internal/engine"
)

// TokenKind enumerates token kinds. The constants mirror internal/engine so
// drivers outside this module can produce tokens without importing it.
type TokenKind = eng.Kind

const (
	TokenBeginObject = eng.KindBeginObject
	TokenEndObject   = eng.KindEndObject
	TokenBeginArray  = eng.KindBeginArray
	TokenEndArray    = eng.KindEndArray
	TokenKey         = eng.KindKey
	TokenString      = eng.KindString
	TokenNumber      = eng.KindNumber
	TokenBigInt      = eng.KindBigInt
	TokenNaN         = eng.KindNaN
	TokenInfinity    = eng.KindInfinity
	TokenBool        = eng.KindBool
	TokenNull        = eng.KindNull
	TokenUndefined   = eng.KindUndefined
)

// Token describes a token in the input stream. Number holds the literal
// digits (without the n suffix for TokenBigInt); Neg marks -Infinity.
// Offset records the byte position when known (-1 otherwise).
type Token = eng.Token

// Source is a token stream. NextToken returns io.EOF after the root value.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts strict JSON input into a Source via a pluggable SPI.
// The default driver is the built-in lexer; source/gojson provides one
// backed by goccy/go-json.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the built-in driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

// CurrentJSONDriver returns the driver used by JSONReader and JSONBytes.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// defaultJSONDriver runs the built-in lexer with every extension disabled.
type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source {
	b, err := io.ReadAll(r)
	if err != nil {
		return errSource{err: err}
	}
	return eng.NewLexer(string(b), eng.Grammar{})
}
func (defaultJSONDriver) NewBytes(b []byte) Source { return eng.NewLexer(string(b), eng.Grammar{}) }
func (defaultJSONDriver) Name() string             { return "jsonb" }

type errSource struct{ err error }

func (s errSource) NextToken() (Token, error) { return Token{}, s.err }
func (errSource) Location() int64             { return -1 }

// JSONReader wraps an io.Reader as a strict JSON Source.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a strict JSON Source.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }

// TextSource lexes JSONB text with the extended literals enabled in opts.
// It does not run the sanitizer gate; Parse does.
func TextSource(text string, opts Options) Source { return eng.NewLexer(text, opts.grammar()) }

// EnforceSource wraps s with duplicate-key, depth and size enforcement.
func EnforceSource(s Source, l Limits) Source {
	eo := l.enforce()
	if eo.Disabled() {
		return s
	}
	return eng.WrapWithEnforcement(s, eo)
}

// ParseSource builds a value from any Source, applying opts.Limits and then
// the reviver. Drivers report their own syntax errors; they are wrapped in
// a *ParseError.
func ParseSource(src Source, reviver ReviverFunc, opts ...Options) (any, error) {
	o := pickOptions(DefaultOptions(), opts)
	v, err := build(EnforceSource(src, o.Limits))
	if err != nil {
		return nil, toParseError("", err)
	}
	if reviver != nil {
		v = revive(v, reviver)
	}
	return v, nil
}

package jsonb

import (
	"errors"

	"github.com/reoring/jsonb/internal/wire"
)

// Quote returns s as a double-quoted literal. Control characters, the quote,
// the backslash, U+007F through U+009F and the dangerous format characters
// are escaped.
func Quote(s string) string { return string(wire.AppendQuote(nil, s)) }

// Unquote reverses Quote. It accepts any valid quoted literal.
func Unquote(s string) (string, error) {
	b, err := wire.AppendUnquote(nil, s)
	if err != nil {
		pe := &ParseError{Text: s, Offset: -1, Reason: CodeSyntax, Err: err}
		var ue *wire.UnquoteError
		if errors.As(err, &ue) {
			pe.Offset = int64(ue.Offset)
		}
		return "", pe
	}
	return string(b), nil
}

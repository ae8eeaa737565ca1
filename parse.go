package jsonb

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"

	eng "github.com/reoring/jsonb/internal/engine"
	"github.com/reoring/jsonb/internal/sanitize"
)

// ReviverFunc transforms parsed values bottom-up. Returning Undefined
// deletes the member (an array element becomes a hole).
type ReviverFunc func(holder any, key string, value any) any

// Parse reads one JSONB value from text. opts defaults to DefaultOptions;
// when several are given the last wins. Every failure is a *ParseError.
//
// Objects come back as *Object, arrays as *Array, numbers as float64,
// bigint literals as *big.Int.
func Parse(text string, reviver ReviverFunc, opts ...Options) (any, error) {
	o := pickOptions(DefaultOptions(), opts)
	if rest, ok := sanitize.Check(text, o.grammar()); !ok {
		return nil, &ParseError{Text: text, Offset: -1, Reason: CodeRejected,
			Err: fmt.Errorf("input is not a literal (residue %q)", clip(rest, 32))}
	}
	v, err := build(EnforceSource(TextSource(text, o), o.Limits))
	if err != nil {
		return nil, toParseError(text, err)
	}
	if reviver != nil {
		v = revive(v, reviver)
	}
	return v, nil
}

// ParseForInspection is Parse under the inspection defaults.
func ParseForInspection(text string, reviver ReviverFunc, opts ...Options) (any, error) {
	return Parse(text, reviver, pickOptions(DefaultInspectOptions(), opts))
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// build consumes exactly one value from src.
func build(src Source) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &eng.SyntaxError{Offset: src.Location(), Msg: "unexpected end of input"}
		}
		return nil, err
	}
	v, err := buildValue(src, tok)
	if err != nil {
		return nil, err
	}
	switch tok, err := src.NextToken(); {
	case errors.Is(err, io.EOF):
		return v, nil
	case err != nil:
		return nil, err
	default:
		return nil, &eng.SyntaxError{Offset: tok.Offset, Msg: "unexpected trailing data"}
	}
}

func buildValue(src Source, tok Token) (any, error) {
	switch tok.Kind {
	case eng.KindBeginObject:
		obj := NewObject()
		for {
			key, err := next(src)
			if err != nil {
				return nil, err
			}
			if key.Kind == eng.KindEndObject {
				return obj, nil
			}
			if key.Kind != eng.KindKey {
				return nil, &eng.SyntaxError{Offset: key.Offset, Msg: "expected object key, got " + key.Kind.String()}
			}
			vt, err := next(src)
			if err != nil {
				return nil, err
			}
			v, err := buildValue(src, vt)
			if err != nil {
				return nil, err
			}
			obj.Set(key.String, v)
		}
	case eng.KindBeginArray:
		arr := &Array{}
		for {
			et, err := next(src)
			if err != nil {
				return nil, err
			}
			if et.Kind == eng.KindEndArray {
				return arr, nil
			}
			v, err := buildValue(src, et)
			if err != nil {
				return nil, err
			}
			arr.elems = append(arr.elems, v)
		}
	case eng.KindString:
		return tok.String, nil
	case eng.KindNumber:
		f, err := strconv.ParseFloat(tok.Number, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, &eng.SyntaxError{Offset: tok.Offset, Msg: "invalid number " + tok.Number}
		}
		return f, nil
	case eng.KindBigInt:
		n, ok := new(big.Int).SetString(tok.Number, 10)
		if !ok {
			return nil, &eng.SyntaxError{Offset: tok.Offset, Msg: "invalid bigint " + tok.Number}
		}
		return n, nil
	case eng.KindNaN:
		return math.NaN(), nil
	case eng.KindInfinity:
		if tok.Neg {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case eng.KindBool:
		return tok.Bool, nil
	case eng.KindNull:
		return nil, nil
	case eng.KindUndefined:
		return Undefined, nil
	}
	return nil, &eng.SyntaxError{Offset: tok.Offset, Msg: "unexpected " + tok.Kind.String()}
}

func next(src Source) (Token, error) {
	tok, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, &eng.SyntaxError{Offset: src.Location(), Msg: "unexpected end of input"}
	}
	return tok, err
}

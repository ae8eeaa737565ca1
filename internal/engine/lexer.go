package engine

import (
	"io"

	"github.com/reoring/jsonb/internal/wire"
)

type lexState int

const (
	stValue      lexState = iota // a value is required
	stValueOrEnd                 // first slot of an array
	stKey                        // an object key is required
	stKeyOrEnd                   // first slot of an object
	stColon                      // after an object key
	stAfter                      // after a complete value
)

// Lexer tokenizes JSONB text: JSON plus the extended literals enabled by its
// Grammar. It validates structure as it goes, so a token stream that ends in
// io.EOF always describes exactly one well-formed value.
type Lexer struct {
	src   string
	pos   int
	g     Grammar
	stack []containerKind
	st    lexState
}

// NewLexer returns a Lexer over src.
func NewLexer(src string, g Grammar) *Lexer {
	return &Lexer{src: src, g: g}
}

// Location returns the byte offset of the next unread character.
func (l *Lexer) Location() int64 { return int64(l.pos) }

func (l *Lexer) errorf(at int, msg string) error {
	return &SyntaxError{Offset: int64(at), Msg: msg}
}

// NextToken returns the next token, io.EOF after the root value has been
// fully consumed, or a *SyntaxError.
func (l *Lexer) NextToken() (Token, error) {
	for {
		for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
			l.pos++
		}
		if l.pos >= len(l.src) {
			if l.st == stAfter && len(l.stack) == 0 {
				return Token{}, io.EOF
			}
			return Token{}, l.errorf(l.pos, "unexpected end of input")
		}
		c := l.src[l.pos]
		switch l.st {
		case stColon:
			if c != ':' {
				return Token{}, l.errorf(l.pos, "expected ':' after object key")
			}
			l.pos++
			l.st = stValue
			continue
		case stAfter:
			if len(l.stack) == 0 {
				return Token{}, l.errorf(l.pos, "unexpected trailing data")
			}
			top := l.stack[len(l.stack)-1]
			switch {
			case c == ',':
				l.pos++
				if top == kindObject {
					l.st = stKey
				} else {
					l.st = stValue
				}
				continue
			case c == '}' && top == kindObject:
				return l.close(KindEndObject), nil
			case c == ']' && top == kindArray:
				return l.close(KindEndArray), nil
			}
			return Token{}, l.errorf(l.pos, "expected ',' or closing bracket")
		case stKeyOrEnd, stKey:
			if c == '}' && l.st == stKeyOrEnd {
				return l.close(KindEndObject), nil
			}
			if c != '"' {
				return Token{}, l.errorf(l.pos, "object key must be a string")
			}
			off := l.pos
			s, err := l.readString()
			if err != nil {
				return Token{}, err
			}
			l.st = stColon
			return Token{Kind: KindKey, String: s, Offset: int64(off)}, nil
		case stValueOrEnd, stValue:
			if c == ']' && l.st == stValueOrEnd {
				return l.close(KindEndArray), nil
			}
			return l.readValue(c)
		}
	}
}

func (l *Lexer) close(k Kind) Token {
	off := l.pos
	l.pos++
	l.stack = l.stack[:len(l.stack)-1]
	l.st = stAfter
	return Token{Kind: k, Offset: int64(off)}
}

func (l *Lexer) readValue(c byte) (Token, error) {
	off := l.pos
	tok := Token{Offset: int64(off)}
	switch {
	case c == '{':
		l.pos++
		l.stack = append(l.stack, kindObject)
		l.st = stKeyOrEnd
		tok.Kind = KindBeginObject
		return tok, nil
	case c == '[':
		l.pos++
		l.stack = append(l.stack, kindArray)
		l.st = stValueOrEnd
		tok.Kind = KindBeginArray
		return tok, nil
	case c == '"':
		s, err := l.readString()
		if err != nil {
			return Token{}, err
		}
		tok.Kind, tok.String = KindString, s
	case c == '-' || isDigit(c):
		if c == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] == 'I' {
			l.pos++
			word := l.readWord()
			if word != "Infinity" {
				return Token{}, l.errorf(off, "unexpected identifier -"+word)
			}
			if !l.g.NegativeInfinity {
				return Token{}, l.errorf(off, "-Infinity is not enabled")
			}
			tok.Kind, tok.Neg = KindInfinity, true
			break
		}
		if err := l.readNumber(&tok); err != nil {
			return Token{}, err
		}
	case isIdentStart(c):
		word := l.readWord()
		switch {
		case word == "true" || word == "false":
			tok.Kind, tok.Bool = KindBool, word == "true"
		case word == "null":
			tok.Kind = KindNull
		case word == "undefined" && l.g.Undefined:
			tok.Kind = KindUndefined
		case word == "NaN" && l.g.NaN:
			tok.Kind = KindNaN
		case word == "Infinity" && l.g.Infinity:
			tok.Kind = KindInfinity
		case word == "undefined" || word == "NaN" || word == "Infinity":
			return Token{}, l.errorf(off, word+" is not enabled")
		default:
			return Token{}, l.errorf(off, "unexpected identifier "+word)
		}
	default:
		return Token{}, l.errorf(off, "unexpected character "+quoteByte(c))
	}
	l.st = stAfter
	return tok, nil
}

// readString consumes a quoted literal starting at l.pos.
func (l *Lexer) readString() (string, error) {
	start := l.pos
	i := start + 1
	for i < len(l.src) {
		switch l.src[i] {
		case '"':
			b, err := wire.AppendUnquote(nil, l.src[start:i+1])
			if err != nil {
				if ue, ok := err.(*wire.UnquoteError); ok {
					return "", l.errorf(start+ue.Offset, ue.Msg)
				}
				return "", l.errorf(start, err.Error())
			}
			l.pos = i + 1
			return string(b), nil
		case '\\':
			i += 2
		case '\n', '\r':
			return "", l.errorf(i, "raw line break in string")
		default:
			i++
		}
	}
	return "", l.errorf(start, "unterminated string")
}

// readNumber consumes -?(0|[1-9][0-9]*)(.[0-9]+)?([eE][+-]?[0-9]+)? and an
// optional n suffix on integers.
func (l *Lexer) readNumber(tok *Token) error {
	start := l.pos
	i := start
	if l.src[i] == '-' {
		i++
	}
	switch {
	case i < len(l.src) && l.src[i] == '0':
		i++
	case i < len(l.src) && isDigit(l.src[i]):
		for i < len(l.src) && isDigit(l.src[i]) {
			i++
		}
	default:
		return l.errorf(i, "invalid number")
	}
	integer := true
	if i < len(l.src) && l.src[i] == '.' {
		integer = false
		i++
		if i >= len(l.src) || !isDigit(l.src[i]) {
			return l.errorf(i, "invalid number: expected digit after '.'")
		}
		for i < len(l.src) && isDigit(l.src[i]) {
			i++
		}
	}
	if i < len(l.src) && (l.src[i] == 'e' || l.src[i] == 'E') {
		integer = false
		i++
		if i < len(l.src) && (l.src[i] == '+' || l.src[i] == '-') {
			i++
		}
		if i >= len(l.src) || !isDigit(l.src[i]) {
			return l.errorf(i, "invalid number: expected exponent digits")
		}
		for i < len(l.src) && isDigit(l.src[i]) {
			i++
		}
	}
	tok.Kind, tok.Number = KindNumber, l.src[start:i]
	if i < len(l.src) && l.src[i] == 'n' {
		switch {
		case !integer:
			return l.errorf(i, "bigint literal must be an integer")
		case !l.g.BigInt:
			return l.errorf(start, "bigint literals are not enabled")
		}
		tok.Kind = KindBigInt
		i++
	}
	if i < len(l.src) && isIdentPart(l.src[i]) {
		return l.errorf(i, "unexpected character "+quoteByte(l.src[i])+" after number")
	}
	l.pos = i
	return nil
}

func (l *Lexer) readWord() string {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return l.src[start:l.pos]
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func quoteByte(c byte) string {
	const hex = "0123456789abcdef"
	if c >= 0x20 && c < 0x7f {
		return "'" + string(c) + "'"
	}
	return "0x" + string(hex[c>>4]) + string(hex[c&0xf])
}

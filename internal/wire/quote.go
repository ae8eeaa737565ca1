package wire

import (
	"errors"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// asciiEscape records, per ASCII byte, whether it must be escaped:
// 0 means literal, -1 means the short sequence (e.g. \n), +1 means \uXXXX.
var asciiEscape [utf8.RuneSelf]int8

func init() {
	for i := 0; i < ' '; i++ {
		asciiEscape[i] = +1
	}
	for _, c := range []byte{'\b', '\t', '\n', '\f', '\r', '"', '\\'} {
		asciiEscape[c] = -1
	}
	asciiEscape[0x7f] = +1
}

// dangerousRanges lists, as sorted inclusive ranges, the format, separator,
// and byte-order code points that JavaScript engines drop or treat as line
// terminators.
var dangerousRanges = [...][2]rune{
	{0x0000, 0x0000},
	{0x00ad, 0x00ad},
	{0x0600, 0x0604},
	{0x070f, 0x070f},
	{0x17b4, 0x17b5},
	{0x200c, 0x200f},
	{0x2028, 0x202f},
	{0x2060, 0x206f},
	{0xfeff, 0xfeff},
	{0xfff0, 0xffff},
}

// IsDangerous reports whether r is a dangerous code point. These are
// escaped on output and rewritten before parsing.
func IsDangerous(r rune) bool {
	for _, rg := range dangerousRanges {
		if r < rg[0] {
			return false
		}
		if r <= rg[1] {
			return true
		}
	}
	return false
}

// DangerousClass returns a regexp character class matching exactly the
// code points IsDangerous reports.
func DangerousClass() string {
	b := []byte{'['}
	for _, rg := range dangerousRanges {
		b = appendClassRune(b, rg[0])
		if rg[1] != rg[0] {
			b = append(b, '-')
			b = appendClassRune(b, rg[1])
		}
	}
	return string(append(b, ']'))
}

func appendClassRune(b []byte, r rune) []byte {
	b = append(b, `\x{`...)
	b = strconv.AppendInt(b, int64(r), 16)
	return append(b, '}')
}

// NeedsEscape reports whether r must be written as an escape sequence
// inside a quoted literal.
func NeedsEscape(r rune) bool {
	if r < utf8.RuneSelf {
		return asciiEscape[r] != 0
	}
	return (r >= 0x80 && r <= 0x9f) || IsDangerous(r)
}

// AppendQuote appends src to dst as a double-quoted literal.
// Control characters, the quote, backslash, and dangerous code points are
// escaped. Invalid UTF-8 bytes are written as \ufffd.
func AppendQuote(dst []byte, src string) []byte {
	dst = append(dst, '"')
	var i, n int
	for n < len(src) {
		if c := src[n]; c < utf8.RuneSelf {
			n++
			if asciiEscape[c] != 0 {
				dst = append(dst, src[i:n-1]...)
				dst = appendEscapedASCII(dst, c)
				i = n
			}
			continue
		}
		r, rn := utf8.DecodeRuneInString(src[n:])
		if r == utf8.RuneError && rn == 1 {
			dst = append(dst, src[i:n]...)
			dst = appendEscapedUTF16(dst, 0xfffd)
			n += rn
			i = n
			continue
		}
		if NeedsEscape(r) {
			dst = append(dst, src[i:n]...)
			dst = appendEscapedUTF16(dst, uint16(r))
			n += rn
			i = n
			continue
		}
		n += rn
	}
	dst = append(dst, src[i:n]...)
	return append(dst, '"')
}

func appendEscapedASCII(dst []byte, c byte) []byte {
	switch c {
	case '"', '\\':
		return append(dst, '\\', c)
	case '\b':
		return append(dst, "\\b"...)
	case '\t':
		return append(dst, "\\t"...)
	case '\n':
		return append(dst, "\\n"...)
	case '\f':
		return append(dst, "\\f"...)
	case '\r':
		return append(dst, "\\r"...)
	}
	return appendEscapedUTF16(dst, uint16(c))
}

func appendEscapedUTF16(dst []byte, x uint16) []byte {
	const hex = "0123456789abcdef"
	return append(dst, '\\', 'u', hex[(x>>12)&0xf], hex[(x>>8)&0xf], hex[(x>>4)&0xf], hex[(x>>0)&0xf])
}

// UnquoteError describes a malformed quoted literal.
type UnquoteError struct {
	Offset int // byte offset within the literal
	Msg    string
}

func (e *UnquoteError) Error() string {
	return e.Msg + " at offset " + strconv.Itoa(e.Offset)
}

var errNotQuoted = errors.New("literal is not double-quoted")

// AppendUnquote appends the decoded text of the double-quoted literal src
// to dst. It accepts the escapes \" \\ \/ \b \f \n \r \t and \uXXXX,
// pairs UTF-16 surrogates, and replaces lone surrogates with U+FFFD.
// Raw CR and LF are rejected, as is any other escape.
func AppendUnquote(dst []byte, src string) ([]byte, error) {
	if len(src) < 2 || src[0] != '"' || src[len(src)-1] != '"' {
		return dst, errNotQuoted
	}
	body := src[1 : len(src)-1]
	i := 0
	for i < len(body) {
		c := body[i]
		switch {
		case c == '"':
			return dst, &UnquoteError{Offset: i + 1, Msg: "unescaped quote"}
		case c == '\n' || c == '\r':
			return dst, &UnquoteError{Offset: i + 1, Msg: "raw line break in string"}
		case c != '\\':
			dst = append(dst, c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return dst, &UnquoteError{Offset: i + 1, Msg: "truncated escape sequence"}
		}
		switch e := body[i+1]; e {
		case '"', '\\', '/':
			dst = append(dst, e)
			i += 2
		case 'b':
			dst = append(dst, '\b')
			i += 2
		case 'f':
			dst = append(dst, '\f')
			i += 2
		case 'n':
			dst = append(dst, '\n')
			i += 2
		case 'r':
			dst = append(dst, '\r')
			i += 2
		case 't':
			dst = append(dst, '\t')
			i += 2
		case 'u':
			r1, ok := parseHex4(body, i+2)
			if !ok {
				return dst, &UnquoteError{Offset: i + 1, Msg: "invalid \\u escape"}
			}
			i += 6
			if utf16.IsSurrogate(r1) {
				if r2, ok := parseHex4(body, i+2); ok && i+1 < len(body) && body[i] == '\\' && body[i+1] == 'u' {
					if r := utf16.DecodeRune(r1, r2); r != utf8.RuneError {
						dst = utf8.AppendRune(dst, r)
						i += 6
						continue
					}
				}
				r1 = utf8.RuneError
			}
			dst = utf8.AppendRune(dst, r1)
		default:
			return dst, &UnquoteError{Offset: i + 1, Msg: "invalid escape \\" + string(e)}
		}
	}
	return dst, nil
}

func parseHex4(s string, at int) (rune, bool) {
	if at+4 > len(s) {
		return 0, false
	}
	var r rune
	for _, c := range []byte(s[at : at+4]) {
		switch {
		case c >= '0' && c <= '9':
			c -= '0'
		case c >= 'a' && c <= 'f':
			c = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			c = c - 'A' + 10
		default:
			return 0, false
		}
		r = r<<4 | rune(c)
	}
	return r, true
}

// Package sanitize implements the literal-reduction gate that decides
// whether a text may be handed to the value builder. The text is reduced
// through a fixed sequence of substitutions so that any literal-only input
// collapses to brackets, commas, colons, and whitespace, while calls,
// operators, identifiers, and constructor syntax survive to fail the
// residue check.
package sanitize

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/reoring/jsonb/internal/engine"
	"github.com/reoring/jsonb/internal/wire"
)

var (
	dangerous  = regexp.MustCompile(wire.DangerousClass())
	escapePair = regexp.MustCompile(`\\(?:["\\/bfnrt]|u[0-9a-fA-F]{4})`)
	openers    = regexp.MustCompile(`(?:^|:|,)(?:\s*\[)+`)
	residue    = regexp.MustCompile(`^[\],:{}\s]*$`)

	literalCache sync.Map // engine.Grammar -> *regexp.Regexp
)

// literals returns the token pattern for g. Bigint alternatives come before
// plain numbers so that 12n collapses as one token.
func literals(g engine.Grammar) *regexp.Regexp {
	if re, ok := literalCache.Load(g); ok {
		return re.(*regexp.Regexp)
	}
	pattern := `"[^"\\\n\r]*"|true|false|null`
	if g.Undefined {
		pattern += `|undefined`
	}
	switch {
	case g.Infinity && g.NegativeInfinity:
		pattern += `|-?Infinity`
	case g.Infinity:
		pattern += `|Infinity`
	case g.NegativeInfinity:
		pattern += `|-Infinity`
	}
	if g.NaN {
		pattern += `|NaN`
	}
	if g.BigInt {
		pattern += `|-?\d+n`
	}
	pattern += `|-?\d+(?:\.\d*)?(?:[eE][+\-]?\d+)?`
	re := regexp.MustCompile(pattern)
	actual, _ := literalCache.LoadOrStore(g, re)
	return actual.(*regexp.Regexp)
}

// EscapeDangerous rewrites every dangerous code point in text to its
// \uXXXX escape.
func EscapeDangerous(text string) string {
	return dangerous.ReplaceAllStringFunc(text, func(m string) string {
		r := []rune(m)[0]
		return fmt.Sprintf(`\u%04x`, r)
	})
}

// Reduce runs the four substitution stages and returns what is left.
func Reduce(text string, g engine.Grammar) string {
	text = EscapeDangerous(text)
	text = escapePair.ReplaceAllString(text, "@")
	text = literals(g).ReplaceAllString(text, "]")
	return openers.ReplaceAllString(text, "")
}

// Check reports whether text reduces to an accepted residue. The residue is
// returned for diagnostics.
func Check(text string, g engine.Grammar) (string, bool) {
	rest := Reduce(text, g)
	return rest, residue.MatchString(rest)
}

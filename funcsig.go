package jsonb

import (
	"regexp"
	"strings"
)

// Each head pattern ends at the opening parenthesis of the parameter list;
// the list itself is scanned with balanced brackets.
var (
	sigFunction  = regexp.MustCompile(`^\s*(?:async\s+)?function\b\s*\*?\s*([\w$]*)\s*\(`)
	sigArrow     = regexp.MustCompile(`^\s*(?:async\s*)?\(`)
	sigBareArrow = regexp.MustCompile(`^\s*(?:async\s+)?([\w$]+)\s*=>`)
	sigClass     = regexp.MustCompile(`^\s*class\b\s*([\w$]*)`)
	sigCtor      = regexp.MustCompile(`\bconstructor\s*\(`)
	sigMethod    = regexp.MustCompile(`^\s*(?:(?:async|static|get|set)\s+)*\*?\s*([\w$]+)\s*\(`)
	arrowTail    = regexp.MustCompile(`^\s*=>`)
	bodyTail     = regexp.MustCompile(`^\s*\{`)
	spaceRun     = regexp.MustCompile(`\s+`)
)

// paramList scans src from just after an opening parenthesis to its
// matching close. It returns the list and the rest of src after the close.
func paramList(src string) (params, rest string, ok bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				if c != ')' {
					return "", "", false
				}
				return src[:i], src[i+1:], true
			}
			depth--
		}
	}
	return "", "", false
}

// headParams matches re at the start of src and scans the parameter list
// that follows. tail, when set, must match what comes after the list.
func headParams(re, tail *regexp.Regexp, src string) (m []string, params string, ok bool) {
	loc := re.FindStringSubmatchIndex(src)
	if loc == nil {
		return nil, "", false
	}
	params, rest, ok := paramList(src[loc[1]:])
	if !ok || (tail != nil && !tail.MatchString(rest)) {
		return nil, "", false
	}
	m = make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = src[loc[2*i]:loc[2*i+1]]
		}
	}
	return m, params, true
}

// signature extracts the name and parameter list from function source.
// ok is false when the source matches none of the known forms.
func signature(src string) (name, params string, ok bool) {
	if m, p, ok := headParams(sigFunction, nil, src); ok {
		return m[1], p, true
	}
	if m := sigClass.FindStringSubmatch(src); m != nil {
		if loc := sigCtor.FindStringIndex(src); loc != nil {
			if p, _, ok := paramList(src[loc[1]:]); ok {
				return m[1], p, true
			}
		}
		return m[1], "", true
	}
	if _, p, ok := headParams(sigArrow, arrowTail, src); ok {
		return "", p, true
	}
	if m := sigBareArrow.FindStringSubmatch(src); m != nil {
		return "", m[1], true
	}
	if m, p, ok := headParams(sigMethod, bodyTail, src); ok {
		return m[1], p, true
	}
	return "", "", false
}

// splitParams splits a parameter list at top-level commas.
func splitParams(p string) []string {
	var parts []string
	depth, start := 0, 0
	var quote byte
	for i := 0; i < len(p); i++ {
		c := p[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, p[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, p[start:])
}

func normalizeParams(p string) string {
	var out []string
	for _, s := range splitParams(p) {
		s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ", ")
}

// summarize renders the compact "ƒ name(a, b)" form of f. f.Name wins over
// the name found in the source.
func summarize(f *Function) string {
	name, params, _ := signature(f.Source)
	if f.Name != "" {
		name = f.Name
	}
	return "ƒ " + name + "(" + normalizeParams(params) + ")"
}

package jsonb

import (
	"errors"
	"fmt"
	"strings"

	eng "github.com/reoring/jsonb/internal/engine"
)

// Issue and ParseError reason codes.
const (
	CodeSyntax       = "syntax"
	CodeRejected     = "rejected"
	CodeDuplicateKey = eng.CodeDuplicateKey
	CodeParseError   = eng.CodeParseError
	CodeTruncated    = eng.CodeTruncated
)

var (
	// ErrSyntax matches every *ParseError.
	ErrSyntax = errors.New("jsonb: syntax error")
	// ErrConfiguration matches every *ConfigError.
	ErrConfiguration = errors.New("jsonb: configuration error")
	// ErrCycle is returned by Stringify for a value that contains itself.
	ErrCycle = errors.New("jsonb: value contains a cycle")
)

// Issue represents a single diagnostic produced while scanning input.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Offset  int64 // Byte offset in the input (-1 when unknown).
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ParseError is the single failure kind of Parse. It carries the offending
// text, the byte offset and JSON Pointer when known, and a reason code.
type ParseError struct {
	Text   string
	Offset int64
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	b := &strings.Builder{}
	b.WriteString("jsonb: parse failure")
	if e.Offset >= 0 {
		fmt.Fprintf(b, " at offset %d", e.Offset)
	}
	if e.Path != "" {
		fmt.Fprintf(b, " (%s)", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match ErrSyntax.
func (e *ParseError) Is(target error) bool { return target == ErrSyntax }

// AsParseError extracts a *ParseError using errors.As internally.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ConfigError reports a malformed argument detected before traversal.
type ConfigError struct {
	Arg    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("jsonb: invalid %s: %s", e.Arg, e.Reason)
}

// Is makes every ConfigError match ErrConfiguration.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// MemberError wraps a failure raised while reading a member, such as a
// throwing getter.
type MemberError struct {
	Path string
	Err  error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("jsonb: reading %s: %v", e.Path, e.Err)
}

func (e *MemberError) Unwrap() error { return e.Err }

// toParseError converts lexer and enforcement failures into a *ParseError.
func toParseError(text string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsParseError(err); ok {
		return err
	}
	var se *eng.SyntaxError
	if errors.As(err, &se) {
		return &ParseError{Text: text, Offset: se.Offset, Reason: CodeSyntax, Err: errors.New(se.Msg)}
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &ParseError{Text: text, Offset: ie.Offset, Path: ie.Path, Reason: ie.Code, Err: errors.New(ie.Message)}
	}
	return &ParseError{Text: text, Offset: -1, Reason: CodeSyntax, Err: err}
}

func fromEngineIssue(si eng.SimpleIssue) Issue {
	return Issue{Code: si.Code, Path: si.Path, Message: si.Message, Offset: si.Offset}
}

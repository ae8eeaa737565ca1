package jsonb

import (
	eng "github.com/reoring/jsonb/internal/engine"
)

// DetectDuplicateKeys reports every duplicate object key in text, lexed under
// the extended literals enabled in opts. maxIssues < 0 means unlimited; when
// the limit is reached a trailing truncated issue is appended. A syntax error
// is returned as a *ParseError together with the issues found before it.
func DetectDuplicateKeys(text string, opts Options, maxIssues int) (Issues, error) {
	si, err := eng.DetectDuplicateKeys(text, opts.grammar(), maxIssues)
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, fromEngineIssue(s))
	}
	if err != nil {
		return iss, toParseError(text, err)
	}
	return iss, nil
}

package jsonb

import eng "github.com/reoring/jsonb/internal/engine"

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Options toggles the extended kinds and the accessor/function detail.
// A disabled kind degrades to null in round-trip output and is elided in
// inspection output; Parse rejects its literal.
type Options struct {
	BigInt                bool `yaml:"bigint"`
	Undefined             bool `yaml:"undefined"`
	Infinity              bool `yaml:"infinity"`
	NegativeInfinity      bool `yaml:"negativeInfinity"`
	NaN                   bool `yaml:"nan"`
	IncludeGetters        bool `yaml:"includeGetters"`
	IncludeSetters        bool `yaml:"includeSetters"`
	IncludeFunctionSource bool `yaml:"includeFunctionSource"`

	// Limits applies to the parse side only.
	Limits Limits `yaml:"limits"`
}

// Limits bounds parsing. Zero values disable each limit.
type Limits struct {
	MaxDepth       int      `yaml:"maxDepth"`
	MaxBytes       int64    `yaml:"maxBytes"`
	OnDuplicateKey Severity `yaml:"onDuplicateKey"`
	// IssueSink receives non-fatal issues such as duplicate-key warnings.
	IssueSink func(Issue) `yaml:"-"`
}

// Unbounded disables a Budget limit.
const Unbounded = -1

// Budget bounds the inspection codec. Zero or negative values are
// unbounded, so the zero Budget renders everything.
type Budget struct {
	MaxLength int `yaml:"maxLength"`
	MaxDepth  int `yaml:"maxDepth"`
}

// DefaultOptions returns the round-trip defaults: every extended kind on,
// accessor and function detail off.
func DefaultOptions() Options {
	return Options{
		BigInt:           true,
		Undefined:        true,
		Infinity:         true,
		NegativeInfinity: true,
		NaN:              true,
	}
}

// DefaultInspectOptions returns the inspection defaults: DefaultOptions plus
// function source.
func DefaultInspectOptions() Options {
	o := DefaultOptions()
	o.IncludeFunctionSource = true
	return o
}

// DefaultBudget returns an unbounded budget.
func DefaultBudget() Budget { return Budget{MaxLength: Unbounded, MaxDepth: Unbounded} }

// StrictJSON returns options under which input and output are plain JSON.
func StrictJSON() Options { return Options{} }

func pickOptions(def Options, opts []Options) Options {
	if len(opts) == 0 {
		return def
	}
	return opts[len(opts)-1]
}

func (o Options) grammar() eng.Grammar {
	return eng.Grammar{
		BigInt:           o.BigInt,
		Undefined:        o.Undefined,
		Infinity:         o.Infinity,
		NegativeInfinity: o.NegativeInfinity,
		NaN:              o.NaN,
	}
}

func (l Limits) enforce() eng.EnforceOptions {
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(l.OnDuplicateKey),
		MaxDepth:    l.MaxDepth,
		MaxBytes:    l.MaxBytes,
	}
	if sink := l.IssueSink; sink != nil {
		eo.IssueSink = func(si eng.SimpleIssue) { sink(fromEngineIssue(si)) }
	}
	return eo
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

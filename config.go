package jsonb

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the codec settings.
//
//	roundTrip:
//	  bigint: true
//	  nan: false
//	  limits: {maxDepth: 64, onDuplicateKey: warn}
//	inspect:
//	  includeFunctionSource: true
//	budget: {maxLength: 400, maxDepth: 4}
//	indent: 2
type Config struct {
	RoundTrip Options `yaml:"roundTrip"`
	Inspect   Options `yaml:"inspect"`
	Budget    Budget  `yaml:"budget"`
	// Indent is an integer number of spaces or a literal string; absent
	// means compact output.
	Indent any `yaml:"indent"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		RoundTrip: DefaultOptions(),
		Inspect:   DefaultInspectOptions(),
		Budget:    DefaultBudget(),
	}
}

// ParseConfig decodes YAML onto DefaultConfig. Unknown fields are errors.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	switch x := cfg.Indent.(type) {
	case nil, int, string:
	default:
		return Config{}, &ConfigError{Arg: "indent", Reason: fmt.Sprintf("want an integer or a string, got %T", x)}
	}
	return cfg, nil
}

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

var severityNames = map[string]Severity{"ignore": Ignore, "warn": Warn, "error": Error}

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warn"
	case Error:
		return "error"
	}
	return "ignore"
}

// UnmarshalYAML accepts ignore, warn or error.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: severity must be a scalar", value.Line)
	}
	v, ok := severityNames[strings.ToLower(value.Value)]
	if !ok {
		return fmt.Errorf("line %d: unknown severity %q", value.Line, value.Value)
	}
	*s = v
	return nil
}

// MarshalYAML writes the severity name.
func (s Severity) MarshalYAML() (any, error) { return s.String(), nil }

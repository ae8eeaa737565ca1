// Package codec bundles jsonb settings into reusable Encode/Decode values,
// so callers carry one configured codec instead of four arguments.
package codec

import (
	"github.com/reoring/jsonb"
)

// Codec converts between host values and JSONB text.
type Codec interface {
	Encode(v any) (string, error)
	Decode(text string) (any, error)
}

// RoundTrip returns a Codec over Stringify and Parse. indent follows
// Stringify: an integer number of spaces, a string, or nil.
func RoundTrip(opts jsonb.Options, indent any) Codec {
	return &roundTripCodec{opts: opts, indent: indent}
}

type roundTripCodec struct {
	opts   jsonb.Options
	indent any
}

func (c *roundTripCodec) Encode(v any) (string, error) {
	return jsonb.Stringify(v, nil, c.indent, c.opts)
}

func (c *roundTripCodec) Decode(text string) (any, error) {
	return jsonb.Parse(text, nil, c.opts)
}

// Inspection returns a Codec whose Encode renders within budget. Decode is
// ParseForInspection; inspection text is not generally meant to be read
// back.
func Inspection(opts jsonb.Options, indent any, budget jsonb.Budget) Codec {
	return &inspectionCodec{opts: opts, indent: indent, budget: budget}
}

type inspectionCodec struct {
	opts   jsonb.Options
	indent any
	budget jsonb.Budget
}

func (c *inspectionCodec) Encode(v any) (string, error) {
	return jsonb.StringifyForInspection(v, nil, c.indent, c.opts, c.budget)
}

func (c *inspectionCodec) Decode(text string) (any, error) {
	return jsonb.ParseForInspection(text, nil, c.opts)
}

// FromConfig returns the round-trip and inspection codecs described by cfg.
func FromConfig(cfg jsonb.Config) (roundTrip, inspection Codec) {
	return RoundTrip(cfg.RoundTrip, cfg.Indent), Inspection(cfg.Inspect, cfg.Indent, cfg.Budget)
}

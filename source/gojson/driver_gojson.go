// Package gojson adapts goccy/go-json to jsonb: a strict JSON token driver
// and a bridge from arbitrary Go values to JSONB value trees.
package gojson

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/reoring/jsonb"
)

// Driver returns a jsonb.JSONDriver backed by goccy/go-json.
func Driver() jsonb.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) jsonb.Source { return NewReader(r) }
func (driverGoJSON) NewBytes(b []byte) jsonb.Source     { return NewBytes(b) }
func (driverGoJSON) Name() string                       { return "go-json" }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	dec   *j.Decoder
	stack []frame
}

// NewReader wraps an io.Reader into a jsonb.Source using go-json.
func NewReader(r io.Reader) jsonb.Source {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into a jsonb.Source using go-json.
func NewBytes(b []byte) jsonb.Source { return NewReader(bytes.NewReader(b)) }

// valueDone records that a complete value was read in the current container.
func (s *source) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject {
			top.expectingKey = true
		}
	}
}

func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *source) NextToken() (jsonb.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return jsonb.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return jsonb.Token{Kind: jsonb.TokenBeginObject, Offset: -1}, nil
		case '}':
			s.pop()
			return jsonb.Token{Kind: jsonb.TokenEndObject, Offset: -1}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return jsonb.Token{Kind: jsonb.TokenBeginArray, Offset: -1}, nil
		case ']':
			s.pop()
			return jsonb.Token{Kind: jsonb.TokenEndArray, Offset: -1}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			if top := &s.stack[n-1]; top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return jsonb.Token{Kind: jsonb.TokenKey, String: v, Offset: -1}, nil
			}
		}
		s.valueDone()
		return jsonb.Token{Kind: jsonb.TokenString, String: v, Offset: -1}, nil
	case bool:
		s.valueDone()
		return jsonb.Token{Kind: jsonb.TokenBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.valueDone()
		return jsonb.Token{Kind: jsonb.TokenNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.valueDone()
		return jsonb.Token{Kind: jsonb.TokenNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	case nil:
		s.valueDone()
		return jsonb.Token{Kind: jsonb.TokenNull, Offset: -1}, nil
	}
	return jsonb.Token{}, fmt.Errorf("gojson: unexpected token %T", tok)
}

func (s *source) Location() int64 { return -1 }

// FromGo converts an arbitrary Go value into a JSONB value tree by encoding
// it with go-json (honoring json struct tags and Marshaler implementations)
// and parsing the result as strict JSON.
func FromGo(v any) (any, error) {
	b, err := j.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("gojson: marshal %T: %w", v, err)
	}
	return jsonb.ParseSource(NewBytes(b), nil, jsonb.StrictJSON())
}

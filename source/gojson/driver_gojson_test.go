package gojson_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/reoring/jsonb"
	"github.com/reoring/jsonb/source/gojson"
)

func TestDriver_Tokens(t *testing.T) {
	src := gojson.NewBytes([]byte(`{"a":[1,"x",true,null],"b":{"c":"d"}}`))
	var kinds []jsonb.TokenKind
	for {
		tok, err := src.NextToken()
		if err != nil {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []jsonb.TokenKind{
		jsonb.TokenBeginObject,
		jsonb.TokenKey, jsonb.TokenBeginArray, jsonb.TokenNumber, jsonb.TokenString, jsonb.TokenBool, jsonb.TokenNull, jsonb.TokenEndArray,
		jsonb.TokenKey, jsonb.TokenBeginObject, jsonb.TokenKey, jsonb.TokenString, jsonb.TokenEndObject,
		jsonb.TokenEndObject,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestDriver_ParseSource(t *testing.T) {
	v, err := jsonb.ParseSource(gojson.NewReader(strings.NewReader(`{"n":1.5,"s":"x\u00e9"}`)), nil)
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	s, err := jsonb.Stringify(v, nil, nil)
	if err != nil || s != "{\"n\":1.5,\"s\":\"x\u00e9\"}" {
		t.Fatalf("got %s, %v", s, err)
	}
	if _, err := jsonb.ParseSource(gojson.NewBytes([]byte(`{"a":`)), nil); !errors.Is(err, jsonb.ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
}

func TestDriver_SetDefault(t *testing.T) {
	jsonb.SetJSONDriver(gojson.Driver())
	defer jsonb.UseDefaultJSONDriver()
	if name := jsonb.CurrentJSONDriver().Name(); name != "go-json" {
		t.Fatalf("driver = %s", name)
	}
	v, err := jsonb.ParseSource(jsonb.JSONBytes([]byte(`[1,2]`)), nil)
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if a, ok := v.(*jsonb.Array); !ok || a.Len() != 2 {
		t.Fatalf("got %v", v)
	}
}

type point struct {
	X    int      `json:"x"`
	Y    int      `json:"y"`
	Tags []string `json:"tags,omitempty"`
	skip int
}

func TestFromGo(t *testing.T) {
	v, err := gojson.FromGo(point{X: 1, Y: 2, Tags: []string{"a"}, skip: 3})
	if err != nil {
		t.Fatalf("FromGo: %v", err)
	}
	s, err := jsonb.Stringify(v, nil, nil)
	if err != nil || s != `{"x":1,"y":2,"tags":["a"]}` {
		t.Fatalf("got %s, %v", s, err)
	}
	if _, err := gojson.FromGo(make(chan int)); err == nil {
		t.Fatalf("expected marshal error for channel")
	}
}

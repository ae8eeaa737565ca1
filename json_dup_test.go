package jsonb_test

import (
	"errors"
	"testing"

	"github.com/reoring/jsonb"
)

func TestDetectDuplicateKeys(t *testing.T) {
	iss, err := jsonb.DetectDuplicateKeys(`{"a":1,"b":{"c":NaN,"c":2},"a":3}`, jsonb.DefaultOptions(), -1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 2 || iss[0].Path != "/b/c" || iss[1].Path != "/a" {
		t.Fatalf("issues = %v", iss)
	}
	if got, ok := jsonb.AsIssues(iss); !ok || len(got) != 2 {
		t.Fatalf("AsIssues failed")
	}
	if iss.Error() != "duplicate_key at /b/c; duplicate_key at /a" {
		t.Fatalf("summary = %q", iss.Error())
	}

	_, err = jsonb.DetectDuplicateKeys(`{"a":NaN}`, jsonb.StrictJSON(), -1)
	if !errors.Is(err, jsonb.ErrSyntax) {
		t.Fatalf("expected syntax error under strict JSON, got %v", err)
	}
}

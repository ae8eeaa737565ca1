// Package jsonb provides a JSON-superset codec with two faces:
//
//   - A round-trip codec (Stringify/Parse) for values plain JSON cannot carry:
//     undefined, NaN, Infinity, -Infinity, arbitrary-precision integers
//     (12n), function source and accessor descriptors.
//   - A bounded inspection codec (StringifyForInspection) that renders live,
//     possibly cyclic object graphs within a length and depth budget and
//     never fails on a single bad member.
//
// Design policy:
//
//   - Keep only public APIs in the root package; put the lexer, sanitizer and
//     wire formatting under internal/.
//   - Place token drivers under source/, codec presets under codec/, and the
//     CLI under cmd/jsonb.
//   - Traversal state lives in a per-call value, so every entry point is
//     reentrant (a replacer may call Stringify again).
//
// Typical usage:
//
//	text, err := jsonb.Stringify(v, nil, 2)
//	v, err := jsonb.Parse(text, nil)
//
//	view, _ := jsonb.StringifyForInspection(v, nil, 2, jsonb.DefaultInspectOptions(), jsonb.Budget{MaxLength: 200, MaxDepth: 3})
package jsonb

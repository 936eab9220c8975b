package viewspec_test

import (
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	vs "github.com/reoring/viewspec"
	"github.com/reoring/viewspec/i18n"
)

func TestParseJSON_KeepsNumbersAsLiterals(t *testing.T) {
	v, err := vs.ParseJSON([]byte(`{"a": [1, 2.50], "b": null}`), vs.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m := v.(map[string]any)
	arr := m["a"].([]any)
	if arr[0] != json.Number("1") || arr[1] != json.Number("2.50") {
		t.Fatalf("numbers must stay literal, got %#v", arr)
	}
	if b, ok := m["b"]; !ok || b != nil {
		t.Fatalf("null must decode to nil")
	}
}

func TestParseJSON_Failures(t *testing.T) {
	opt := vs.Options{MaxDepth: 2, MaxBytes: 32}
	cases := map[string]string{
		"malformed": `{"a": }`,
		"trailing":  `{} {}`,
		"depth":     `[[[1]]]`,
		"bytes":     `"` + strings.Repeat("x", 40) + `"`,
		"empty":     ``,
		"truncated": `{"a": [1,`,
		"no_colon":  `{"a" 1}`,
		"dbl_comma": `[1,,2]`,
		"no_comma":  `[1 2]`,
		"trail_obj": `{"a":1,}`,
		"no_sep":    `{"a":1 "b":2}`,
		"partial":   `tru`,
	}
	for name, in := range cases {
		_, err := vs.ParseJSON([]byte(in), opt)
		var pe *vs.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%s: expected ParseError, got %v", name, err)
		}
		if _, isData := vs.AsDataError(err); isData {
			t.Fatalf("%s: parse failures are not data errors", name)
		}
	}
}

func TestParseJSONReader_Limit(t *testing.T) {
	_, err := vs.ParseJSONReader(strings.NewReader(`[1, 2, 3, 4, 5, 6, 7, 8, 9]`), vs.Options{MaxBytes: 8})
	var pe *vs.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	_, err = vs.ParseJSONReader(strings.NewReader(`[1 2]`), vs.Options{})
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError for unlimited reader, got %v", err)
	}
	v, err := vs.ParseJSONReader(strings.NewReader(` "ok" `), vs.Options{})
	if err != nil || v != "ok" {
		t.Fatalf("got %v %v", v, err)
	}
}

func TestParseJSON_DuplicateKeys(t *testing.T) {
	in := []byte(`{"a": 1, "b": {"c": true, "c": false}}`)

	v, err := vs.ParseJSON(in, vs.Options{})
	if err != nil {
		t.Fatalf("lenient parse: %v", err)
	}
	if got := v.(map[string]any)["b"].(map[string]any)["c"]; got != false {
		t.Fatalf("last occurrence must win, got %v", got)
	}

	_, err = vs.ParseJSON(in, vs.Options{RejectDuplicateKeys: true})
	var pe *vs.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if !strings.Contains(pe.Error(), "duplicate key 'c'") {
		t.Fatalf("unexpected message %q", pe.Error())
	}
}

func TestParseError_Translated(t *testing.T) {
	_, err := vs.ParseJSON([]byte(`{"a" 1}`), vs.Options{})
	var pe *vs.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if got := pe.Error(); got != "parse error: malformed JSON" {
		t.Fatalf("unexpected message %q", got)
	}

	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	if got := pe.Error(); got != "解析エラー: malformed JSON" {
		t.Fatalf("unexpected message %q", got)
	}
}

package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	got := T(CodeInvalidType, map[string]string{"value": "1", "expected": "'string'"})
	if got != "1 is not of type 'string'" {
		t.Fatalf("unexpected english message: %q", got)
	}
	if got := T(CodeRequired, map[string]string{"property": "'a'"}); got != "'a' is a required property" {
		t.Fatalf("unexpected required message: %q", got)
	}

	SetLanguage("ja")
	if msg := T(CodeRequired, map[string]string{"property": "'a'"}); msg == "'a' is a required property" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBackToCode(t *testing.T) {
	if got := T("nope", nil); got != "nope" {
		t.Fatalf("expected code fallback, got %q", got)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator_CustomAndReset(t *testing.T) {
	SetTranslator(upper{})
	if got := T(CodeRequired, nil); got != "X:required" {
		t.Fatalf("custom translator not used: %q", got)
	}
	SetTranslator(nil)
	if got := T(CodeParseError, nil); got != "parse error" {
		t.Fatalf("expected english after reset, got %q", got)
	}
}

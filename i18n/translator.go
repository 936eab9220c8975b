package i18n

import (
	"strings"
	"sync"
)

// Message codes shared by the body validator and the query coercion engine.
const (
	CodeInvalidType = "invalid_type"
	CodeRequired    = "required"
	CodeParseError  = "parse_error"
)

// Translator retrieves messages for codes. data fills {placeholders} in the
// message template (for example "value", "expected" or "property").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var tmpl string
	switch t.lang {
	case "ja":
		switch code {
		case CodeInvalidType:
			tmpl = "{value} は {expected} 型ではありません"
		case CodeRequired:
			tmpl = "{property} は必須プロパティです"
		case CodeParseError:
			tmpl = "解析エラー"
		}
	default: // "en"
		switch code {
		case CodeInvalidType:
			tmpl = "{value} is not of type {expected}"
		case CodeRequired:
			tmpl = "{property} is a required property"
		case CodeParseError:
			tmpl = "parse error"
		}
	}
	if tmpl == "" {
		return code
	}
	return fill(tmpl, data)
}

func fill(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation. nil restores the
// English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}

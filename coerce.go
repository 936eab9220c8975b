package viewspec

import (
	"errors"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/viewspec/i18n"
	"github.com/reoring/viewspec/internal/engine"
)

// CoerceText converts one raw query-string value according to a scalar
// node. present is false when the key is missing altogether.
//
// Booleans follow a narrow convention: only "true" is true, an empty or
// absent value is false, and any other text fails.
func (n *Node) CoerceText(raw string, present bool) (any, error) {
	switch n.kind {
	case KindString:
		return raw, nil
	case KindBoolean:
		if raw == "true" {
			return true, nil
		}
		if raw != "" {
			return nil, notOfType(raw, present, n.kind)
		}
		return false, nil
	case KindNull:
		if raw != "" {
			return nil, notOfType(raw, present, n.kind)
		}
		return nil, nil
	case KindNumber:
		f, ok := parseFloat(raw)
		if !present || !ok {
			return nil, notOfType(raw, present, n.kind)
		}
		return f, nil
	case KindInteger:
		i, ok := parseInt(raw)
		if !present || !ok {
			return nil, notOfType(raw, present, n.kind)
		}
		return i, nil
	default:
		return nil, Configf("%s schema cannot be coerced from text", n.kind)
	}
}

// CoerceTexts converts the repeated values of one query key according to an
// Array node. The first failing element is reported with its index.
func (n *Node) CoerceTexts(raws []string) ([]any, error) {
	if n.kind != KindArray {
		return nil, Configf("%s schema cannot be coerced from repeated values", n.kind)
	}
	out := make([]any, 0, len(raws))
	for i, raw := range raws {
		v, err := n.elem.CoerceText(raw, true)
		if err != nil {
			if ce, ok := err.(*ConversionError); ok {
				return nil, ce.at(i)
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// CoerceQuery converts a query-string multimap according to an object node
// whose fields are scalars or arrays of scalars. Fields are processed in
// declaration order and only the first failing field is reported, as a
// single-violation *DataError.
//
// Optional fields whose key is absent are left out of the result. A key that
// is present with an empty value is not absent. A repeated key feeding a
// scalar field yields its last value.
func (n *Node) CoerceQuery(values url.Values) (map[string]any, error) {
	if n.kind != KindObject {
		return nil, Configf("%s schema cannot be coerced from a query string", n.kind)
	}
	out := make(map[string]any, len(n.fields))
	for _, f := range n.fields {
		child := f.Node
		raws, present := values[f.Name]
		if child.kind == KindOptional {
			if !present {
				continue
			}
			child = child.elem
		}
		var (
			v   any
			err error
		)
		if child.kind == KindArray {
			v, err = child.CoerceTexts(raws)
		} else {
			raw := ""
			if len(raws) > 0 {
				raw = raws[len(raws)-1]
			}
			v, err = child.CoerceText(raw, len(raws) > 0)
		}
		if err != nil {
			ce, ok := err.(*ConversionError)
			if !ok {
				return nil, err
			}
			ce = ce.at(f.Name)
			return nil, &DataError{Violations: []Violation{{Path: ce.Path, Message: ce.Message}}}
		}
		out[f.Name] = v
	}
	return out, nil
}

func notOfType(raw string, present bool, k Kind) *ConversionError {
	value := "None"
	if present {
		value = raw
	}
	return &ConversionError{
		Path: Path{},
		Message: i18n.T(i18n.CodeInvalidType, map[string]string{
			"value":    engine.QuoteString(value),
			"expected": engine.QuoteString(k.String()),
		}),
	}
}

// parseInt accepts decimal integer text with an optional sign, surrounding
// spaces and underscores between digits. Values outside int64 are kept as a
// json.Number literal.
func parseInt(raw string) (any, bool) {
	s, ok := stripDigitSeparators(strings.TrimSpace(raw))
	if !ok {
		return nil, false
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, true
	}
	if !errors.Is(err, strconv.ErrRange) {
		return nil, false
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return json.Number(b.String()), true
}

// parseFloat accepts decimal and exponent notation, inf, infinity and nan
// in any case with an optional sign, and underscores between digits.
// Overflow yields an infinity. Hexadecimal notation is rejected.
func parseFloat(raw string) (float64, bool) {
	s, ok := stripDigitSeparators(strings.TrimSpace(raw))
	if !ok || s == "" || strings.ContainsAny(s, "xXpP") {
		return 0, false
	}
	if unsigned := strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-"); strings.EqualFold(unsigned, "nan") {
		return math.NaN(), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// stripDigitSeparators removes underscores that sit between two digits and
// fails on any other underscore.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b = append(b, s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return string(b), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

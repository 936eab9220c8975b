package viewspec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/viewspec/i18n"
)

// Path locates a value inside a payload. Elements are object keys (string)
// or array indices (int).
type Path []any

// Pointer renders the path as a JSON Pointer (RFC 6901).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		switch s := seg.(type) {
		case string:
			b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1"))
		case int:
			b.WriteString(strconv.Itoa(s))
		default:
			fmt.Fprint(b, s)
		}
	}
	return b.String()
}

// MarshalJSON keeps the empty path an array rather than null.
func (p Path) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]any(p))
}

// Violation is a single schema failure in the client-visible error payload.
type Violation struct {
	Path    Path   `json:"path"`
	Message string `json:"error"`
}

// DataError is returned by both validators when a payload breaks its schema.
// The body validator reports every violation; query coercion reports one.
type DataError struct {
	Violations []Violation
}

// Error summarizes the first few violations.
func (e *DataError) Error() string {
	if len(e.Violations) == 0 {
		return "data error"
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(e.Violations)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		v := e.Violations[i]
		fmt.Fprintf(b, "%s at %s", v.Message, v.Path.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// MarshalJSON renders the violation list, which is the 400 response body.
func (e *DataError) MarshalJSON() ([]byte, error) {
	if e.Violations == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e.Violations)
}

// AsDataError extracts a *DataError from err.
func AsDataError(err error) (*DataError, bool) {
	var de *DataError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// ConversionError is a failed query-string leaf coercion. It never leaves the
// coercion engine without being turned into a DataError.
type ConversionError struct {
	Path    Path
	Message string
}

func (e *ConversionError) Error() string { return e.Message }

// at prepends seg to the error path.
func (e *ConversionError) at(seg any) *ConversionError {
	return &ConversionError{Path: append(Path{seg}, e.Path...), Message: e.Message}
}

// ConfigurationError reports declaration-time misuse, such as a duplicate
// definition name or a malformed endpoint. It is fatal at startup.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Msg }

// Configf builds a ConfigurationError.
func Configf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is, or wraps, a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ParseError is a transport-level syntax failure (malformed JSON, oversized
// or too deeply nested input). It is distinct from DataError.
type ParseError struct {
	Msg   string
	Cause error
}

func (e *ParseError) Error() string {
	prefix := i18n.T(i18n.CodeParseError, nil)
	if e.Cause == nil {
		return prefix + ": " + e.Msg
	}
	return fmt.Sprintf("%s: %s: %v", prefix, e.Msg, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

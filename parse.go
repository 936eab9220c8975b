package viewspec

import (
	"bytes"
	"errors"
	"io"

	"github.com/reoring/viewspec/internal/engine"
)

// ParseJSON decodes one JSON value. Numbers are kept as json.Number so the
// validator can tell integers from other numbers. Any syntax failure, a
// payload larger than opt.MaxBytes or nested deeper than opt.MaxDepth is
// reported as a *ParseError.
func ParseJSON(data []byte, opt Options) (any, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, &ParseError{Msg: "max bytes exceeded"}
	}
	return decode(data, opt)
}

// ParseJSONReader is ParseJSON over a stream. It reads at most
// opt.MaxBytes+1 bytes.
func ParseJSONReader(r io.Reader, opt Options) (any, error) {
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Msg: "read body", Cause: err}
	}
	return ParseJSON(data, opt)
}

// ParseJSON decodes data with the registry's limits.
func (r *Registry) ParseJSON(data []byte) (any, error) { return ParseJSON(data, r.opt) }

func decode(data []byte, opt Options) (any, error) {
	v, err := engine.DecodeBytes(data, engine.DecodeOptions{
		MaxDepth:            opt.MaxDepth,
		RejectDuplicateKeys: opt.RejectDuplicateKeys,
	})
	if err != nil {
		var dup *engine.DuplicateKeyError
		switch {
		case errors.As(err, &dup):
			return nil, &ParseError{Msg: dup.Error()}
		case errors.Is(err, engine.ErrSyntax):
			return nil, &ParseError{Msg: "malformed JSON"}
		case errors.Is(err, engine.ErrTooDeep):
			return nil, &ParseError{Msg: "max depth exceeded"}
		case errors.Is(err, engine.ErrTrailingData):
			return nil, &ParseError{Msg: "trailing data"}
		default:
			return nil, &ParseError{Msg: "malformed JSON", Cause: err}
		}
	}
	return v, nil
}

// IsBlank reports whether data holds only JSON whitespace.
func IsBlank(data []byte) bool { return len(bytes.TrimSpace(data)) == 0 }

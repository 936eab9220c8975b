package middleware

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	viewspec "github.com/reoring/viewspec"
)

// ctxKeyPayload is a typed context key for the validated request payload.
type ctxKeyPayload struct{}

// ContextWithPayload attaches a validated payload to the context.
func ContextWithPayload(ctx context.Context, payload any) context.Context {
	return context.WithValue(ctx, ctxKeyPayload{}, payload)
}

// PayloadFromContext retrieves the validated payload stored by the dispatcher.
// The boolean is false when the request carried no payload.
func PayloadFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyPayload{})
	return v, v != nil
}

// ErrorPayload shapes violations for JSON responses.
func ErrorPayload(de *viewspec.DataError) []viewspec.Violation {
	if de == nil || len(de.Violations) == 0 {
		return []viewspec.Violation{}
	}
	return de.Violations
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return WriteRaw(w, status, body)
}

// WriteRaw writes an already encoded JSON body.
func WriteRaw(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

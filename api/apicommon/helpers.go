// Package apicommon holds the request and response payloads of the HTTP API
// and small helpers shared by its handlers.
package apicommon

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/merchantkit/checkout-backend/errors"
	"go.vocdoni.io/dvote/log"
)

// CustomerEmailFromContext retrieves the customer email from the context
// provided, expected to be the context of a request handled by the
// authenticator middleware.
func CustomerEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(CustomerEmailKey).(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}

// HTTPWriteJSON helper function allows to write a JSON response. The payload
// is marshaled before any header is written, so a marshal failure still
// produces a proper coded error response.
func HTTPWriteJSON(w http.ResponseWriter, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		errors.ErrMarshalingServerJSONFailed.WithErr(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// HTTPWriteOK helper function allows to write an OK response.
func HTTPWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

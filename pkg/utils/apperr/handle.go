package apperr

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an application error with the logger carried by ctx
func Handle(ctx context.Context, err error) {
	logger := ctxlog.From(ctx)
	logger.Error("application error", "error", err)
}

// HandleHTTP logs err and writes a JSON error body with the given status.
// The detail shown to the client is msg, never the internal error.
func HandleHTTP(w http.ResponseWriter, r *http.Request, err error, status int, msg string) {
	Handle(r.Context(), err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"detail": msg}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode error response", "error", err)
	}
}

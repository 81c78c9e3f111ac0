// Package httpjson holds the JSON envelope helpers shared by HTTP handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/Black-And-White-Club/campus-events/app/shared/apperrors"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Status  string `json:"status,omitempty"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode reads a JSON body into dst. An empty body leaves dst untouched.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Validation("Invalid request body").Wrap(fmt.Errorf("decode body: %w", err))
	}
	return nil
}

// WriteError answers with the status matching err's kind. Errors that carry no
// *apperrors.Error are logged and answered with fallback and a 500, so no
// internal detail reaches the client.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind != apperrors.KindInternal {
		WriteJSON(w, appErr.Kind.HTTPStatus(), ErrorResponse{Error: appErr.Message, Status: appErr.Status})
		return
	}

	if logger != nil {
		logger.ErrorContext(r.Context(), fallback,
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
	}
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fallback})
}

package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"bundle-configurator/service"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 64 << 10

// writeJSON encodes body with the given status
func writeJSON(w http.ResponseWriter, logger *zap.Logger, op string, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error(op+": error encoding response", zap.Error(err))
	}
}

// decodeBody decodes an optional JSON request body into v. An empty body
// leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps service errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrWidgetNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"tableadmin/internal/db"
	"tableadmin/internal/gateway"
	"tableadmin/internal/logger"
	"tableadmin/internal/seed"
)

// errorBody is the envelope of every failed request.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response: %v", err)
	}
}

// writeError maps err to a status and writes the envelope. Store errors keep
// the store's own message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		fields := logger.Fields{"request_id": requestID(r.Context()), "error": err.Error()}
		var se *db.StoreError
		if errors.As(err, &se) {
			fields["op"] = se.Op
			fields["table"] = se.Table
		}
		logger.WithFields(fields).Error("request failed")
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, gateway.ErrInvalidIdentifier),
		errors.Is(err, gateway.ErrInvalidColumn),
		errors.Is(err, gateway.ErrEmptyPayload),
		errors.Is(err, gateway.ErrInvalidPayload),
		errors.Is(err, gateway.ErrUnknownColumn),
		errors.Is(err, errBadPath):
		return http.StatusBadRequest, sentence(err.Error())
	case errors.Is(err, gateway.ErrNotFound), errors.Is(err, seed.ErrNoScript):
		return http.StatusNotFound, sentence(err.Error())
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// sentence capitalizes the first letter of an error message.
func sentence(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Package api holds the JSON response helpers shared by the endpoint sets.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// Message is the body of success and not-found responses that carry no data.
type Message struct {
	Message string `json:"message"`
}

// Error is the body of a failed request.
type Error struct {
	Error string `json:"error"`
}

// OKResponse writes data as JSON with status 200.
func OKResponse(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// MessageResponse writes a {"message": ...} body with the given status.
func MessageResponse(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Message{Message: msg})
}

// ErrorResponse logs err and writes it as a {"error": ...} body.
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, err error) {
	logger.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("error", err))

	writeJSON(w, status, Error{Error: err.Error()})
}

// PathID reads the {id} path value. ok is false when it is not a positive
// integer, in which case no row can match it.
func PathID(r *http.Request) (id uint, ok bool) {
	v, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(data)
}

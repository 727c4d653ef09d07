// Package httpjson holds the JSON request and response helpers shared by the API controllers.
package httpjson

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

var (
	ErrInvalidBody = errors.New("invalid request body")
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func Write(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Error("error encoding JSON response", "error", err)
		status = http.StatusInternalServerError
		b = []byte(`{"error":"Internal server error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, ErrorResponse{Error: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

func InternalServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Internal server error")
}

/*
Decode reads a JSON request body into v. An empty or malformed body yields
ErrInvalidBody.
*/
func Decode(r *http.Request, v any) error {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBody, err.Error())
	}

	if len(b) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidBody)
	}

	if err = json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBody, err.Error())
	}

	return nil
}

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/singme/internal/shared"
	json "github.com/goccy/go-json"
)

var errInternal = errors.New("internal server error")

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []shared.FieldError `json:"fields,omitempty"`
}

// StatusFor maps an error to the HTTP status it should produce.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvalidAmount), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(append(data, '\n'))
	return err
}

// writeError writes err as an [ErrorResponse]. Server errors are logged and replaced with a generic message.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := StatusFor(err)
	body := ErrorResponse{Error: err.Error()}

	if status == http.StatusInternalServerError {
		if !errors.Is(err, errInternal) {
			logger.Error("request failed", "error", err)
		}
		body.Error = http.StatusText(status)
	}

	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}

	if werr := writeJSON(w, status, body); werr != nil {
		logger.Error("failed to write error response", "error", werr)
	}
}

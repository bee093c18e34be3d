package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/knapset/pkg/errors"
	"github.com/matzehuels/knapset/pkg/store"
)

// statusClientClosedRequest is the non-standard status for requests whose
// client went away before the response was written.
const statusClientClosedRequest = 499

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as a JSON error body. Errors without a code are
// reported as INTERNAL_ERROR without their text.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := errs.UserMessage(err)
	if code == errs.ErrCodeInternal && errs.GetCode(err) == "" {
		msg = "internal server error"
	}
	writeJSON(w, status, errorBody{Error: string(code), Message: msg})
}

// classify maps an error to an HTTP status and error code.
func classify(err error) (int, errs.Code) {
	switch {
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, errs.ErrCodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errs.ErrCodeTimeout
	}
	if errors.Is(err, store.ErrRunNotFound) {
		return http.StatusNotFound, errs.ErrCodeRunNotFound
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errs.ErrCodeInvalidInput
	}

	code := errs.GetCode(err)
	switch {
	case code == "":
		return http.StatusInternalServerError, errs.ErrCodeInternal
	case errs.IsInvalid(err):
		return http.StatusBadRequest, code
	case code == errs.ErrCodeNotFound, code == errs.ErrCodeRunNotFound, code == errs.ErrCodeFileNotFound:
		return http.StatusNotFound, code
	case code == errs.ErrCodeInfeasible:
		return http.StatusUnprocessableEntity, code
	case code == errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout, code
	case code == errs.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType, code
	default:
		return http.StatusInternalServerError, code
	}
}

func errNotFound(format string, args ...any) error {
	return errs.New(errs.ErrCodeNotFound, format, args...)
}

func errInvalid(format string, args ...any) error {
	return errs.New(errs.ErrCodeInvalidInput, format, args...)
}

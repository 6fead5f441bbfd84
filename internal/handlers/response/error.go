package response

import (
	"errors"
	"net/http"

	"gitlab.com/results-api.net/internal/domain"
	"gitlab.com/results-api.net/internal/static/errs"
)

// StatusOf maps the error taxonomy onto HTTP status codes. Unknown errors are 500.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, errs.Unauthenticated), errors.Is(err, errs.InvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errs.Forbidden), errors.Is(err, errs.EmailDomainDenied):
		return http.StatusForbidden
	case errors.Is(err, errs.Validation), errors.Is(err, errs.EmailRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.BadReference):
		return http.StatusBadRequest
	case errors.Is(err, errs.NotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf builds the structured message sent for err.
func MessageOf(err error) domain.Message {
	code := StatusOf(err)
	if code == http.StatusForbidden {
		return domain.NewMessage(code, errs.ForbiddenMessage)
	}
	return domain.NewMessage(code, "")
}

// WriteError renders err as a structured message in the requested format.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	msg := MessageOf(err)
	Write(w, r, msg.Code, msg)
}

// WriteMessage renders a structured message for code with the standard reason phrase.
func WriteMessage(w http.ResponseWriter, r *http.Request, code int) {
	Write(w, r, code, domain.NewMessage(code, ""))
}

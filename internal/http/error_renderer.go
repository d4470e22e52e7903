package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/service"
)

// DetermineErrorStatus maps an error returned by a service or the data API to
// the status the UI should answer with.
func DetermineErrorStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, service.ErrSessionEnded), apperrors.IsUnauthorized(err):
		return http.StatusUnauthorized
	case apperrors.IsForbidden(err):
		return http.StatusForbidden
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case apperrors.IsUnavailable(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns text safe to show an end user for err.
func UserMessage(err error) string {
	switch DetermineErrorStatus(err) {
	case http.StatusUnauthorized:
		return "Your session has ended. Please sign in again."
	case http.StatusForbidden:
		return "You do not have access to this data."
	case http.StatusNotFound:
		return "The requested data was not found."
	case http.StatusUnprocessableEntity:
		if msg := apperrors.Message(err); msg != "" {
			return msg
		}
		return "The request was rejected."
	case http.StatusGatewayTimeout, http.StatusBadGateway:
		return "The data service is not responding. Try again shortly."
	default:
		return "Something went wrong."
	}
}

func errCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "authentication_required"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "validation_error"
	case http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusServiceUnavailable:
		return "upstream_unavailable"
	default:
		return "internal_error"
	}
}

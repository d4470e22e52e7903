package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/intego360/intego-ui/internal/errors"
	"github.com/intego360/intego-ui/internal/service"
)

func TestDetermineErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{errors.Join(service.ErrSessionEnded, apperrors.Unauthorized("expired")), http.StatusUnauthorized},
		{apperrors.Forbidden("no"), http.StatusForbidden},
		{fmt.Errorf("list: %w", apperrors.NotFound("farmer")), http.StatusNotFound},
		{apperrors.Validation("bad email"), http.StatusUnprocessableEntity},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{apperrors.Unavailable("down", nil), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetermineErrorStatus(tt.err), "%v", tt.err)
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "bad email", UserMessage(apperrors.Validation("bad email")))
	assert.Equal(t, "Something went wrong.", UserMessage(errors.New("pq: secret detail")))
	assert.Equal(t, "Your session has ended. Please sign in again.", UserMessage(service.ErrSessionEnded))
}

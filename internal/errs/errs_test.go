package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"unauthorized", NewUnauthorizedError("x", true), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("x", true), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("x", true, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NewNotFoundError("x", true, nil), http.StatusNotFound, "NOT_FOUND"},
		{"too many", NewTooManyRequestsError("x"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"upstream", NewUpstreamError("x"), http.StatusInternalServerError, "UPSTREAM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestBadRequest_CustomCode(t *testing.T) {
	code := "SUBDOMINIO_ALREADY_EXISTS"
	err := NewBadRequestError("dup", true, &code, nil, nil)
	assert.Equal(t, code, err.Code)
}

func TestWithAction_DoesNotMutate(t *testing.T) {
	base := NewUnauthorizedError("expired", true)
	withAction := base.WithAction(&Action{Type: ActionTypeRequestLink, Message: "novo link"})

	assert.Nil(t, base.Action)
	assert.Equal(t, ActionTypeRequestLink, withAction.Action.Type)

	renamed := base.WithMessage("outro")
	assert.Equal(t, "expired", base.Message)
	assert.Equal(t, "outro", renamed.Message)
}

func TestIs_MatchesAnyHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewForbiddenError("x", true))
	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}

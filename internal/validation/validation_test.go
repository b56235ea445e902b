package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type linkRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Action string `json:"acao" validate:"required,oneof=boletos reservas"`
	Count  int    `json:"count" validate:"omitempty,max=3"`
}

func (r *linkRequest) Validate() error {
	return validator.New().Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "file", Message: "is required"}}
}

func newContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func requireBadRequest(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Status)
	return httpErr
}

func TestBindAndValidate_OK(t *testing.T) {
	req := &linkRequest{}
	err := BindAndValidate(newContext(`{"email":"ana@example.com","acao":"boletos"}`), req)

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", req.Email)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"email":"nope","count":9}`), &linkRequest{})

	httpErr := requireBadRequest(t, err)
	assert.Equal(t, msgValidationFailed, httpErr.Message)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "Email", Error: "must be a valid email address"},
		{Field: "Action", Error: "is required"},
		{Field: "Count", Error: "must not exceed 3"},
	}, httpErr.Errors)
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	for _, body := range []string{`{"email":`, `{"count":"many"}`} {
		httpErr := requireBadRequest(t, BindAndValidate(newContext(body), &linkRequest{}))
		assert.Equal(t, msgMalformedBody, httpErr.Message)
	}
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	httpErr := requireBadRequest(t, BindAndValidate(newContext(`{}`), &customRequest{}))
	assert.Equal(t, []errs.FieldError{{Field: "file", Error: "is required"}}, httpErr.Errors)
}

type forbiddenRequest struct{}

func (r *forbiddenRequest) Validate() error {
	return errs.NewBadRequestError("ID da administradora não fornecido.", true, nil, nil, nil)
}

func TestBindAndValidate_HTTPErrorPassesThrough(t *testing.T) {
	httpErr := requireBadRequest(t, BindAndValidate(newContext(`{}`), &forbiddenRequest{}))
	assert.Equal(t, "ID da administradora não fornecido.", httpErr.Message)
}

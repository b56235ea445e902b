package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestHandleError_UniqueViolation(t *testing.T) {
	err := HandleError(fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           "23505",
		TableName:      "administradoras",
		ConstraintName: "administradoras_subdominio_key",
	}))

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "SUBDOMINIO_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "Já existe administradora com este subdominio", httpErr.Message)
}

func TestHandleError_ForeignKeyViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23503",
		TableName:  "contatos_juridicos",
		ColumnName: "administradora_id",
	})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "ADMINISTRADORA_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "Administradora informada não existe", httpErr.Message)
}

func TestHandleError_NotNullViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		TableName:  "administradoras",
		ColumnName: "nome_empresa",
	})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, "NOME_EMPRESA_REQUIRED", httpErr.Code)
	assert.Equal(t, []errs.FieldError{{Field: "nome_empresa", Error: "is required"}}, httpErr.Errors)
}

func TestHandleError_NotFound(t *testing.T) {
	httpErr := requireHTTPError(t, HandleError(fmt.Errorf("table:administradoras: %w", pgx.ErrNoRows)))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Administradora não encontrada", httpErr.Message)

	httpErr = requireHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Registro não encontrado", httpErr.Message)
}

func TestHandleError_Passthrough(t *testing.T) {
	forbidden := errs.NewForbiddenError("nope", true)
	assert.Same(t, forbidden, HandleError(forbidden))
}

func TestHandleError_Unknown(t *testing.T) {
	httpErr := requireHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	tests := []struct {
		table, constraint, want string
	}{
		{"administradoras", "administradoras_subdominio_key", "subdominio"},
		{"administradoras", "unique_administradoras_cnpj", "cnpj"},
		{"contatos_juridicos", "contatos_juridicos_pkey", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractColumnForUniqueViolation(tt.table, tt.constraint), tt.constraint)
	}
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23505", Severity: "ERROR"})
	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("wrapped: %w", converted)))
	assert.Equal(t, SeverityError, converted.Severity)
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}

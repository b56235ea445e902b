package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// entityNames gives the display name of each table.
var entityNames = map[string]string{
	"administradoras":    "administradora",
	"contatos_juridicos": "contato jurídico",
}

// notFoundMessages holds the 404 message of each table.
var notFoundMessages = map[string]string{
	"administradoras":    "Administradora não encontrada",
	"contatos_juridicos": "Contato não encontrado",
}

// uniqueSuffix matches the "_key"/"_ukey" suffix Postgres gives unique constraints.
var uniqueSuffix = regexp.MustCompile(`_(?:key|ukey)$`)

// ErrCode reports the Code of an error previously converted by ConvertPgError.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode builds <DOMAIN>_<ACTION> codes, e.g. SUBDOMINIO_ALREADY_EXISTS.
func generateErrorCode(domain string, errType Code) string {
	if domain == "" {
		domain = "record"
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", strings.ToUpper(domain), action)
}

func formatUserFriendlyMessage(sqlErr *Error, column string) string {
	entity := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("%s informada não existe", humanizeText(entity))
	case UniqueViolation:
		if column != "" {
			return fmt.Sprintf("Já existe %s com este %s", entity, column)
		}
		return fmt.Sprintf("Já existe %s com este identificador", entity)
	case NotNullViolation:
		field := sqlErr.ColumnName
		if field == "" {
			field = "campo"
		}
		return fmt.Sprintf("O campo %s é obrigatório", field)
	case CheckViolation:
		return "Um ou mais valores não atendem às regras de cadastro"
	default:
		return "Ocorreu um erro ao processar sua solicitação"
	}
}

// getEntityName prefers the referenced entity of a "<x>_id" column, then
// the table's display name.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return strings.TrimSuffix(strings.ToLower(columnName), "_id")
	}
	if name, ok := entityNames[tableName]; ok {
		return name
	}
	if tableName != "" {
		return strings.ReplaceAll(tableName, "_", " ")
	}
	return "registro"
}

func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.BrazilianPortuguese).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from a constraint
// named "unique_<table>_<column>" or "<table>_<column>_key".
func extractColumnForUniqueViolation(tableName, constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		rest := strings.TrimPrefix(constraintName, "unique_")
		if tableName != "" && strings.HasPrefix(rest, tableName+"_") {
			return strings.TrimPrefix(rest, tableName+"_")
		}
		parts := strings.Split(rest, "_")
		return parts[len(parts)-1]
	}

	if !uniqueSuffix.MatchString(constraintName) {
		return ""
	}
	rest := uniqueSuffix.ReplaceAllString(constraintName, "")
	if tableName != "" && strings.HasPrefix(rest, tableName+"_") {
		return strings.TrimPrefix(rest, tableName+"_")
	}
	parts := strings.Split(rest, "_")
	return parts[len(parts)-1]
}

// HandleError converts a database error into an *errs.HTTPError.
//
//   - *errs.HTTPError: returned unchanged
//   - constraint violations: 400 with a generated code
//   - pgx.ErrNoRows: 404, naming the table when wrapped as "table:<name>:"
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		switch sqlErr.Code {
		case UniqueViolation:
			column := extractColumnForUniqueViolation(sqlErr.TableName, sqlErr.ConstraintName)
			domain := column
			if domain == "" {
				domain = getEntityName(sqlErr.TableName, "")
			}
			code := generateErrorCode(strings.ReplaceAll(domain, " ", "_"), sqlErr.Code)
			return errs.NewBadRequestError(formatUserFriendlyMessage(sqlErr, column), true, &code, nil, nil)

		case ForeignKeyViolation:
			code := generateErrorCode(getEntityName(sqlErr.TableName, sqlErr.ColumnName), sqlErr.Code)
			return errs.NewBadRequestError(formatUserFriendlyMessage(sqlErr, ""), true, &code, nil, nil)

		case NotNullViolation:
			code := generateErrorCode(sqlErr.ColumnName, sqlErr.Code)
			fieldErrors := []errs.FieldError{{
				Field: strings.ToLower(sqlErr.ColumnName),
				Error: "is required",
			}}
			return errs.NewBadRequestError(formatUserFriendlyMessage(sqlErr, ""), true, &code, fieldErrors, nil)

		case CheckViolation, InvalidText:
			code := generateErrorCode(getEntityName(sqlErr.TableName, ""), CheckViolation)
			return errs.NewBadRequestError(formatUserFriendlyMessage(sqlErr, ""), true, &code, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		errMsg := err.Error()
		if idx := strings.Index(errMsg, "table:"); idx >= 0 {
			table := strings.SplitN(errMsg[idx+len("table:"):], ":", 2)[0]
			if message, ok := notFoundMessages[table]; ok {
				return errs.NewNotFoundError(message, true, nil)
			}
			entity := humanizeText(getEntityName(table, ""))
			return errs.NewNotFoundError(fmt.Sprintf("%s não encontrado", entity), true, nil)
		}
		return errs.NewNotFoundError("Registro não encontrado", false, nil)
	}

	return errs.NewInternalServerError()
}

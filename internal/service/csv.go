package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/deppfellow/linkcondo/internal/model"
)

const (
	msgCSVEmpty         = "O arquivo CSV está vazio ou mal formatado. Nenhum dado foi importado."
	msgCSVMissingColumn = "O arquivo CSV deve conter uma coluna chamada 'id_condominio'. Verifique o separador (deve ser ',' ou ';') e o nome da coluna."
)

// Column names of the legal contacts CSV.
const (
	columnCondominiumID = "id_condominio"
	columnReference     = "nome_condominio_referencia"
	columnName          = "name"
	columnEmail         = "email"
	columnPhone         = "phone"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseContactsCSV reads a legal contacts spreadsheet export.
//
// The separator is ';' when the text contains one, ',' otherwise. The
// header must name an id_condominio column; name, email, phone and
// nome_condominio_referencia are optional. Rows without an
// id_condominio are skipped. Zero usable rows is a 400.
func ParseContactsCSV(r io.Reader) ([]model.ContactFields, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errs.NewBadRequestError(msgCSVEmpty, true, nil, nil, nil)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ','
	if bytes.ContainsRune(data, ';') {
		reader.Comma = ';'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errs.NewBadRequestError(msgCSVEmpty, true, nil, nil, nil)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	if _, ok := index[columnCondominiumID]; !ok {
		return nil, errs.NewBadRequestError(msgCSVMissingColumn, true, nil, nil, nil)
	}

	field := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	optional := func(record []string, column string) *string {
		if v := field(record, column); v != "" {
			return &v
		}
		return nil
	}

	var contacts []model.ContactFields
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.NewBadRequestError(msgCSVEmpty, true, nil, nil, nil)
		}

		condominiumID := field(record, columnCondominiumID)
		if condominiumID == "" {
			continue
		}

		contacts = append(contacts, model.ContactFields{
			CondominiumID:        condominiumID,
			CondominiumReference: optional(record, columnReference),
			Name:                 optional(record, columnName),
			Email:                optional(record, columnEmail),
			Phone:                optional(record, columnPhone),
		})
	}

	if len(contacts) == 0 {
		return nil, errs.NewBadRequestError(msgCSVEmpty, true, nil, nil, nil)
	}
	return contacts, nil
}

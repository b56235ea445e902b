package service

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContactsCSV_Separators(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"comma", "id_condominio,name,email\n12,Ana,ana@adv.com\n"},
		{"semicolon", "id_condominio;name;email\n12;Ana;ana@adv.com\n"},
		{"bom and crlf", "\xEF\xBB\xBFid_condominio;name;email\r\n12;Ana;ana@adv.com\r\n"},
		{"padded header", " id_condominio , name , email\n12, Ana , ana@adv.com\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseContactsCSV(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, rows, 1)

			assert.Equal(t, "12", rows[0].CondominiumID)
			require.NotNil(t, rows[0].Name)
			assert.Equal(t, "Ana", *rows[0].Name)
			require.NotNil(t, rows[0].Email)
			assert.Equal(t, "ana@adv.com", *rows[0].Email)
			assert.Nil(t, rows[0].Phone)
			assert.Nil(t, rows[0].CondominiumReference)
		})
	}
}

func TestParseContactsCSV_OptionalColumns(t *testing.T) {
	input := "id_condominio;nome_condominio_referencia;phone\n12;Residencial Sol;\n13;;11 9999-0000\n"

	rows, err := ParseContactsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].CondominiumReference)
	assert.Equal(t, "Residencial Sol", *rows[0].CondominiumReference)
	assert.Nil(t, rows[0].Phone)

	assert.Nil(t, rows[1].CondominiumReference)
	require.NotNil(t, rows[1].Phone)
	assert.Equal(t, "11 9999-0000", *rows[1].Phone)
}

func TestParseContactsCSV_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty", "", msgCSVEmpty},
		{"blank", "  \n\n", msgCSVEmpty},
		{"header only", "id_condominio,name\n", msgCSVEmpty},
		{"rows without id", "id_condominio,name\n,Ana\n,Bia\n", msgCSVEmpty},
		{"missing column", "condominio,name\n12,Ana\n", msgCSVMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContactsCSV(strings.NewReader(tt.input))
			requireHTTPError(t, err, http.StatusBadRequest, tt.message)
		})
	}
}

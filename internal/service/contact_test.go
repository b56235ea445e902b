package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestContactService_ImportReplacesTenantContacts(t *testing.T) {
	store := &fakeContacts{}
	svc := NewContactService(store, nil)

	csv := "id_condominio;name;email;phone\n12;Dra. Ana;ana@adv.com;1199\n;sem id;;\n15;Escritório B;;\n"
	result, err := svc.Import(context.Background(), 4, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, "Sucesso! 2 contatos foram importados.", result.Message)
	assert.Equal(t, int64(4), store.tenantID)
	require.Len(t, store.replaced, 2)
	assert.Equal(t, "12", store.replaced[0].CondominiumID)
	assert.Equal(t, "15", store.replaced[1].CondominiumID)
}

func TestContactService_ImportRejectsBadFile(t *testing.T) {
	store := &fakeContacts{}
	svc := NewContactService(store, nil)

	_, err := svc.Import(context.Background(), 4, strings.NewReader("nome,email\nAna,ana@adv.com\n"))
	requireHTTPError(t, err, http.StatusBadRequest, msgCSVMissingColumn)
	assert.Nil(t, store.replaced)
}

func TestContactService_ImportStoreFailure(t *testing.T) {
	store := &fakeContacts{err: errors.New("tx aborted")}
	svc := NewContactService(store, nil)

	_, err := svc.Import(context.Background(), 4, strings.NewReader("id_condominio\n12\n"))
	require.EqualError(t, err, "tx aborted")
}

func TestContactService_CardsByCondominium(t *testing.T) {
	store := &fakeContacts{contacts: []model.LegalContact{
		{TenantID: 1, CondominiumID: "12", Name: strPtr("Antigo")},
		{TenantID: 1, CondominiumID: "12", Name: strPtr("Novo"), Phone: strPtr("1199")},
		{TenantID: 1, CondominiumID: "", Name: strPtr("Sem condomínio")},
		{TenantID: 2, CondominiumID: "30", Name: strPtr("Outra administradora")},
	}}
	svc := NewContactService(store, nil)

	cards, err := svc.CardsByCondominium(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, cards, 1)
	assert.Equal(t, &model.ContactCard{Name: "Novo", Phone: "1199"}, cards["12"])
}

func TestContactService_DeleteAndList(t *testing.T) {
	store := &fakeContacts{}
	svc := NewContactService(store, nil)

	resp, err := svc.Delete(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, msgContactDeleted, resp.Message)
	assert.Equal(t, int64(9), store.deleted)

	contacts, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
}

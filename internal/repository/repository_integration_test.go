//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/linkcondo/internal/database"
	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("linkcondo"),
		postgres.WithUsername("linkcondo"),
		postgres.WithPassword("linkcondo"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get connection string: %v\n", err)
		os.Exit(1)
	}

	logger := zerolog.Nop()
	if err := database.MigrateDSN(ctx, &logger, dsn); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		os.Exit(1)
	}

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open pool: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func setup(t *testing.T) (*TenantRepository, *ContactRepository) {
	t.Helper()
	t.Cleanup(func() {
		_, err := testPool.Exec(context.Background(), "TRUNCATE administradoras, contatos_juridicos RESTART IDENTITY CASCADE")
		if err != nil {
			t.Logf("failed to truncate tables: %v", err)
		}
	})
	return NewTenantRepository(testPool), NewContactRepository(testPool)
}

func strPtr(s string) *string { return &s }

func createTenant(t *testing.T, repo *TenantRepository, subdomain string) *model.Tenant {
	t.Helper()
	tenant, err := repo.Create(context.Background(), &model.Tenant{
		CompanyName:          "Administradora " + subdomain,
		Subdomain:            subdomain,
		EncryptedAppToken:    "app-cipher",
		EncryptedAccessToken: "api-cipher",
		ContactEmail:         strPtr("contato@" + subdomain + ".com.br"),
	})
	require.NoError(t, err)
	return tenant
}

func TestTenantRepository_CreateAndLookup(t *testing.T) {
	tenants, _ := setup(t)
	ctx := context.Background()

	created := createTenant(t, tenants, "alfa")
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	bySubdomain, err := tenants.GetBySubdomain(ctx, "alfa")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySubdomain.ID)
	assert.Equal(t, "app-cipher", bySubdomain.EncryptedAppToken)

	public, err := tenants.GetPublicBySubdomain(ctx, "alfa")
	require.NoError(t, err)
	assert.Equal(t, "Administradora alfa", public.CompanyName)
	assert.Equal(t, "contato@alfa.com.br", *public.ContactEmail)
	assert.Nil(t, public.LogoURL)

	list, err := tenants.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTenantRepository_NotFoundMapsTo404(t *testing.T) {
	tenants, _ := setup(t)

	_, err := tenants.GetPublicBySubdomain(context.Background(), "inexistente")
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(sqlerr.HandleError(err), &httpErr))
	assert.Equal(t, 404, httpErr.Status)
	assert.Equal(t, "Administradora não encontrada", httpErr.Message)
}

func TestTenantRepository_DuplicateSubdomain(t *testing.T) {
	tenants, _ := setup(t)
	createTenant(t, tenants, "alfa")

	_, err := tenants.Create(context.Background(), &model.Tenant{
		CompanyName:          "Outra",
		Subdomain:            "alfa",
		EncryptedAppToken:    "x",
		EncryptedAccessToken: "y",
	})
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(sqlerr.HandleError(err), &httpErr))
	assert.Equal(t, 400, httpErr.Status)
}

func TestTenantRepository_UpdateKeepsTokensWhenEmpty(t *testing.T) {
	tenants, _ := setup(t)
	ctx := context.Background()
	created := createTenant(t, tenants, "alfa")

	created.CompanyName = "Nova Razão"
	created.EncryptedAppToken = ""
	created.EncryptedAccessToken = "new-api-cipher"
	updated, err := tenants.Update(ctx, created)
	require.NoError(t, err)

	assert.Equal(t, "Nova Razão", updated.CompanyName)
	assert.Equal(t, "app-cipher", updated.EncryptedAppToken)
	assert.Equal(t, "new-api-cipher", updated.EncryptedAccessToken)
}

func TestContactRepository_CRUD(t *testing.T) {
	tenants, contacts := setup(t)
	ctx := context.Background()
	tenant := createTenant(t, tenants, "alfa")

	created, err := contacts.Create(ctx, &model.ContactFields{
		TenantID:      model.ID(tenant.ID),
		CondominiumID: "10",
		Name:          strPtr("Dra. Ana"),
	})
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, created.TenantID)

	updated, err := contacts.Update(ctx, created.ID, &model.ContactFields{
		TenantID:      model.ID(tenant.ID),
		CondominiumID: "11",
		Phone:         strPtr("11 99999-0000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "11", updated.CondominiumID)
	assert.Nil(t, updated.Name)

	require.NoError(t, contacts.Delete(ctx, created.ID))

	err = contacts.Delete(ctx, created.ID)
	var httpErr *errs.HTTPError
	require.True(t, errors.As(sqlerr.HandleError(err), &httpErr))
	assert.Equal(t, "Contato não encontrado", httpErr.Message)
}

func TestContactRepository_ReplaceForTenant(t *testing.T) {
	tenants, contacts := setup(t)
	ctx := context.Background()
	alfa := createTenant(t, tenants, "alfa")
	beta := createTenant(t, tenants, "beta")

	_, err := contacts.Create(ctx, &model.ContactFields{TenantID: model.ID(alfa.ID), CondominiumID: "old"})
	require.NoError(t, err)
	_, err = contacts.Create(ctx, &model.ContactFields{TenantID: model.ID(beta.ID), CondominiumID: "keep"})
	require.NoError(t, err)

	n, err := contacts.ReplaceForTenant(ctx, alfa.ID, []model.ContactFields{
		{CondominiumID: "1", Name: strPtr("A")},
		{CondominiumID: "2", Email: strPtr("b@example.com")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := contacts.ListByTenant(ctx, alfa.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].CondominiumID)
	assert.Equal(t, "2", got[1].CondominiumID)

	others, err := contacts.ListByTenant(ctx, beta.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "keep", others[0].CondominiumID)
}

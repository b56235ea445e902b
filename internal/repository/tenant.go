package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tenantsTable = "administradoras"

const tenantColumns = `id, nome_empresa, subdominio, token_superlogica_app, token_superlogica_api,
	cnpj, contato_cobranca_nome, contato_cobranca_email, contato_cobranca_telefone,
	email_contato, telefone_contato, logo_url, created_at, updated_at`

// TenantRepository stores administradoras.
type TenantRepository struct {
	db querier
}

func NewTenantRepository(pool *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{db: pool}
}

func (r *TenantRepository) List(ctx context.Context) ([]model.Tenant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tenantColumns+` FROM administradoras ORDER BY nome_empresa, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	tenants, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Tenant])
	if err != nil {
		return nil, fmt.Errorf("failed to collect tenants: %w", err)
	}
	return tenants, nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id int64) (*model.Tenant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tenantColumns+` FROM administradoras WHERE id = @id`,
		pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant %d: %w", id, err)
	}

	tenant, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Tenant])
	if err != nil {
		return nil, notFound(tenantsTable, err)
	}
	return tenant, nil
}

// GetBySubdomain returns the full row, encrypted tokens included.
func (r *TenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tenantColumns+` FROM administradoras WHERE subdominio = @subdomain`,
		pgx.NamedArgs{"subdomain": subdomain})
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant %q: %w", subdomain, err)
	}

	tenant, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Tenant])
	if err != nil {
		return nil, notFound(tenantsTable, err)
	}
	return tenant, nil
}

func (r *TenantRepository) GetPublicBySubdomain(ctx context.Context, subdomain string) (*model.PublicTenant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT nome_empresa, logo_url, email_contato, telefone_contato
		FROM administradoras
		WHERE subdominio = @subdomain`,
		pgx.NamedArgs{"subdomain": subdomain})
	if err != nil {
		return nil, fmt.Errorf("failed to get public tenant %q: %w", subdomain, err)
	}

	tenant, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.PublicTenant])
	if err != nil {
		return nil, notFound(tenantsTable, err)
	}
	return tenant, nil
}

// Create inserts a tenant. t carries already encrypted tokens.
func (r *TenantRepository) Create(ctx context.Context, t *model.Tenant) (*model.Tenant, error) {
	rows, err := r.db.Query(ctx, `
		INSERT INTO administradoras (
			nome_empresa, subdominio, token_superlogica_app, token_superlogica_api,
			cnpj, contato_cobranca_nome, contato_cobranca_email, contato_cobranca_telefone,
			email_contato, telefone_contato, logo_url
		) VALUES (
			@nome_empresa, @subdominio, @token_app, @token_api,
			@cnpj, @cobranca_nome, @cobranca_email, @cobranca_telefone,
			@email_contato, @telefone_contato, @logo_url
		)
		RETURNING `+tenantColumns, tenantArgs(t))
	if err != nil {
		return nil, fmt.Errorf("failed to insert tenant: %w", err)
	}

	created, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Tenant])
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update writes every column of t. Empty token fields keep the stored
// ciphertext.
func (r *TenantRepository) Update(ctx context.Context, t *model.Tenant) (*model.Tenant, error) {
	args := tenantArgs(t)
	args["id"] = t.ID

	rows, err := r.db.Query(ctx, `
		UPDATE administradoras SET
			nome_empresa = @nome_empresa,
			subdominio = @subdominio,
			token_superlogica_app = COALESCE(NULLIF(@token_app::text, ''), token_superlogica_app),
			token_superlogica_api = COALESCE(NULLIF(@token_api::text, ''), token_superlogica_api),
			cnpj = @cnpj,
			contato_cobranca_nome = @cobranca_nome,
			contato_cobranca_email = @cobranca_email,
			contato_cobranca_telefone = @cobranca_telefone,
			email_contato = @email_contato,
			telefone_contato = @telefone_contato,
			logo_url = @logo_url
		WHERE id = @id
		RETURNING `+tenantColumns, args)
	if err != nil {
		return nil, fmt.Errorf("failed to update tenant %d: %w", t.ID, err)
	}

	updated, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Tenant])
	if err != nil {
		return nil, notFound(tenantsTable, err)
	}
	return updated, nil
}

func tenantArgs(t *model.Tenant) pgx.NamedArgs {
	return pgx.NamedArgs{
		"nome_empresa":      t.CompanyName,
		"subdominio":        t.Subdomain,
		"token_app":         t.EncryptedAppToken,
		"token_api":         t.EncryptedAccessToken,
		"cnpj":              t.CNPJ,
		"cobranca_nome":     t.BillingContactName,
		"cobranca_email":    t.BillingContactEmail,
		"cobranca_telefone": t.BillingContactPhone,
		"email_contato":     t.ContactEmail,
		"telefone_contato":  t.ContactPhone,
		"logo_url":          t.LogoURL,
	}
}

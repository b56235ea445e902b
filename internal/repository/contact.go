package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contactsTable = "contatos_juridicos"

const contactColumns = `id, administradora_id, id_condominio, nome_condominio_referencia,
	name, email, phone, created_at, updated_at`

// ContactRepository stores the legal contacts of each administradora.
type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) ListByTenant(ctx context.Context, tenantID int64) ([]model.LegalContact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contatos_juridicos
		WHERE administradora_id = @tenant_id
		ORDER BY id_condominio, id`,
		pgx.NamedArgs{"tenant_id": tenantID})
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts of tenant %d: %w", tenantID, err)
	}

	contacts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.LegalContact])
	if err != nil {
		return nil, fmt.Errorf("failed to collect contacts: %w", err)
	}
	return contacts, nil
}

func (r *ContactRepository) Create(ctx context.Context, f *model.ContactFields) (*model.LegalContact, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO contatos_juridicos (
			administradora_id, id_condominio, nome_condominio_referencia, name, email, phone
		) VALUES (
			@tenant_id, @id_condominio, @referencia, @name, @email, @phone
		)
		RETURNING `+contactColumns, contactArgs(f))
	if err != nil {
		return nil, fmt.Errorf("failed to insert contact: %w", err)
	}

	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.LegalContact])
}

func (r *ContactRepository) Update(ctx context.Context, id int64, f *model.ContactFields) (*model.LegalContact, error) {
	args := contactArgs(f)
	args["id"] = id

	rows, err := r.pool.Query(ctx, `
		UPDATE contatos_juridicos SET
			administradora_id = @tenant_id,
			id_condominio = @id_condominio,
			nome_condominio_referencia = @referencia,
			name = @name,
			email = @email,
			phone = @phone
		WHERE id = @id
		RETURNING `+contactColumns, args)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact %d: %w", id, err)
	}

	contact, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.LegalContact])
	if err != nil {
		return nil, notFound(contactsTable, err)
	}
	return contact, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contatos_juridicos WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(contactsTable, pgx.ErrNoRows)
	}
	return nil
}

// ReplaceForTenant deletes every contact of the tenant and inserts
// contacts in their place, atomically.
func (r *ContactRepository) ReplaceForTenant(ctx context.Context, tenantID int64, contacts []model.ContactFields) (int, error) {
	var inserted int64

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM contatos_juridicos WHERE administradora_id = @tenant_id`,
			pgx.NamedArgs{"tenant_id": tenantID}); err != nil {
			return fmt.Errorf("failed to clear contacts of tenant %d: %w", tenantID, err)
		}

		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{contactsTable},
			[]string{"administradora_id", "id_condominio", "nome_condominio_referencia", "name", "email", "phone"},
			pgx.CopyFromSlice(len(contacts), func(i int) ([]any, error) {
				c := contacts[i]
				return []any{tenantID, c.CondominiumID, c.CondominiumReference, c.Name, c.Email, c.Phone}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to insert contacts of tenant %d: %w", tenantID, err)
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(inserted), nil
}

func contactArgs(f *model.ContactFields) pgx.NamedArgs {
	return pgx.NamedArgs{
		"tenant_id":     f.TenantID.Int64(),
		"id_condominio": f.CondominiumID,
		"referencia":    f.CondominiumReference,
		"name":          f.Name,
		"email":         f.Email,
		"phone":         f.Phone,
	}
}

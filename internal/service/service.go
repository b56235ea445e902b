// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated data from the handler, resolves the tenant and its
// Superlógica credentials, enforces what a magic link claim may reach,
// and calls the repositories and the upstream client.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deppfellow/linkcondo/internal/lib/job"
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/superlogica"
)

// TenantStore is the persistence the tenant service relies on.
type TenantStore interface {
	List(ctx context.Context) ([]model.Tenant, error)
	GetByID(ctx context.Context, id int64) (*model.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
	GetPublicBySubdomain(ctx context.Context, subdomain string) (*model.PublicTenant, error)
	Create(ctx context.Context, t *model.Tenant) (*model.Tenant, error)
	Update(ctx context.Context, t *model.Tenant) (*model.Tenant, error)
}

// ContactStore is the persistence the contact service relies on.
type ContactStore interface {
	ListByTenant(ctx context.Context, tenantID int64) ([]model.LegalContact, error)
	Create(ctx context.Context, f *model.ContactFields) (*model.LegalContact, error)
	Update(ctx context.Context, id int64, f *model.ContactFields) (*model.LegalContact, error)
	Delete(ctx context.Context, id int64) error
	ReplaceForTenant(ctx context.Context, tenantID int64, contacts []model.ContactFields) (int, error)
}

// Upstream is the subset of the Superlógica client used by the portal.
type Upstream interface {
	SearchUnitsByEmail(ctx context.Context, creds superlogica.Credentials, email string) ([]superlogica.Unit, error)
	ListCharges(ctx context.Context, creds superlogica.Credentials, condominiumID, unitID string, from, to time.Time) ([]superlogica.Charge, error)
	SecondCopyLink(ctx context.Context, creds superlogica.Credentials, condominiumID, chargeID string, dueDate time.Time) (string, error)
	ListAreas(ctx context.Context, creds superlogica.Credentials, condominiumID string) ([]json.RawMessage, error)
	ListAreaBookings(ctx context.Context, creds superlogica.Credentials, condominiumID, areaID string) (json.RawMessage, error)
	ListCondominiumBookings(ctx context.Context, creds superlogica.Credentials, condominiumID string) ([]superlogica.AreaBookings, error)
	HasDelinquencies(ctx context.Context, creds superlogica.Credentials, condominiumID, unitID string, at time.Time) (bool, error)
	CreateBooking(ctx context.Context, creds superlogica.Credentials, b superlogica.NewBooking) (json.RawMessage, error)
	CancelBooking(ctx context.Context, creds superlogica.Credentials, c superlogica.Cancellation) (json.RawMessage, error)
}

// MailQueue enqueues the magic link email.
type MailQueue interface {
	EnqueueMagicLinkEmail(ctx context.Context, p job.MagicLinkEmailPayload, expiresAt time.Time) error
}

package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/deppfellow/linkcondo/internal/crypto"
	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/deppfellow/linkcondo/internal/lib/job"
	"github.com/deppfellow/linkcondo/internal/magiclink"
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/superlogica"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type fakeTenants struct {
	bySubdomain map[string]*model.Tenant
	created     *model.Tenant
	updated     *model.Tenant
}

func newFakeTenants(tenants ...*model.Tenant) *fakeTenants {
	f := &fakeTenants{bySubdomain: map[string]*model.Tenant{}}
	for _, t := range tenants {
		f.bySubdomain[t.Subdomain] = t
	}
	return f
}

func (f *fakeTenants) List(context.Context) ([]model.Tenant, error) {
	var out []model.Tenant
	for _, t := range f.bySubdomain {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTenants) GetByID(_ context.Context, id int64) (*model.Tenant, error) {
	for _, t := range f.bySubdomain {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTenants) GetBySubdomain(_ context.Context, subdomain string) (*model.Tenant, error) {
	if t, ok := f.bySubdomain[subdomain]; ok {
		return t, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTenants) GetPublicBySubdomain(_ context.Context, subdomain string) (*model.PublicTenant, error) {
	t, ok := f.bySubdomain[subdomain]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &model.PublicTenant{CompanyName: t.CompanyName, LogoURL: t.LogoURL}, nil
}

func (f *fakeTenants) Create(_ context.Context, t *model.Tenant) (*model.Tenant, error) {
	t.ID = int64(len(f.bySubdomain) + 1)
	f.created = t
	f.bySubdomain[t.Subdomain] = t
	return t, nil
}

func (f *fakeTenants) Update(_ context.Context, t *model.Tenant) (*model.Tenant, error) {
	f.updated = t
	return t, nil
}

type fakeContacts struct {
	contacts []model.LegalContact
	err      error
	replaced []model.ContactFields
	tenantID int64
	deleted  int64
}

func (f *fakeContacts) ListByTenant(_ context.Context, tenantID int64) ([]model.LegalContact, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.LegalContact
	for _, c := range f.contacts {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContacts) Create(_ context.Context, fields *model.ContactFields) (*model.LegalContact, error) {
	return &model.LegalContact{TenantID: fields.TenantID.Int64(), CondominiumID: fields.CondominiumID}, nil
}

func (f *fakeContacts) Update(_ context.Context, id int64, fields *model.ContactFields) (*model.LegalContact, error) {
	return &model.LegalContact{Base: model.Base{ID: id}, CondominiumID: fields.CondominiumID}, nil
}

func (f *fakeContacts) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = id
	return nil
}

func (f *fakeContacts) ReplaceForTenant(_ context.Context, tenantID int64, contacts []model.ContactFields) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.tenantID = tenantID
	f.replaced = contacts
	return len(contacts), nil
}

// fakeUpstream stands in for the Superlógica client.
type fakeUpstream struct {
	units    []superlogica.Unit
	unitsErr error

	charges    map[string][]superlogica.Charge
	chargesErr map[string]error
	chargeFrom time.Time
	chargeTo   time.Time

	link        string
	linkCharge  string
	linkDueDate time.Time

	areas         []json.RawMessage
	areaBookings  json.RawMessage
	areaCondo     string
	condoBookings []superlogica.AreaBookings

	delinquent    bool
	delinquencyAt time.Time
	delinquencies int

	created   *superlogica.NewBooking
	cancelled *superlogica.Cancellation

	creds superlogica.Credentials
}

func (f *fakeUpstream) SearchUnitsByEmail(_ context.Context, creds superlogica.Credentials, _ string) ([]superlogica.Unit, error) {
	f.creds = creds
	return f.units, f.unitsErr
}

func (f *fakeUpstream) ListCharges(_ context.Context, creds superlogica.Credentials, _, unitID string, from, to time.Time) ([]superlogica.Charge, error) {
	f.creds = creds
	f.chargeFrom, f.chargeTo = from, to
	if err := f.chargesErr[unitID]; err != nil {
		return nil, err
	}
	return f.charges[unitID], nil
}

func (f *fakeUpstream) SecondCopyLink(_ context.Context, _ superlogica.Credentials, _, chargeID string, dueDate time.Time) (string, error) {
	f.linkCharge, f.linkDueDate = chargeID, dueDate
	return f.link, nil
}

func (f *fakeUpstream) ListAreas(_ context.Context, _ superlogica.Credentials, condominiumID string) ([]json.RawMessage, error) {
	f.areaCondo = condominiumID
	return f.areas, nil
}

func (f *fakeUpstream) ListAreaBookings(_ context.Context, _ superlogica.Credentials, condominiumID, _ string) (json.RawMessage, error) {
	f.areaCondo = condominiumID
	return f.areaBookings, nil
}

func (f *fakeUpstream) ListCondominiumBookings(_ context.Context, _ superlogica.Credentials, _ string) ([]superlogica.AreaBookings, error) {
	return f.condoBookings, nil
}

func (f *fakeUpstream) HasDelinquencies(_ context.Context, _ superlogica.Credentials, _, _ string, at time.Time) (bool, error) {
	f.delinquencies++
	f.delinquencyAt = at
	return f.delinquent, nil
}

func (f *fakeUpstream) CreateBooking(_ context.Context, _ superlogica.Credentials, b superlogica.NewBooking) (json.RawMessage, error) {
	f.created = &b
	return json.RawMessage(`{"status":"200"}`), nil
}

func (f *fakeUpstream) CancelBooking(_ context.Context, _ superlogica.Credentials, c superlogica.Cancellation) (json.RawMessage, error) {
	f.cancelled = &c
	return json.RawMessage(`{"status":"200"}`), nil
}

type fakeMail struct {
	sent      []job.MagicLinkEmailPayload
	expiresAt time.Time
	err       error
}

func (f *fakeMail) EnqueueMagicLinkEmail(_ context.Context, p job.MagicLinkEmailPayload, expiresAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, p)
	f.expiresAt = expiresAt
	return nil
}

func newCipher(t *testing.T) *crypto.AesGcmService {
	t.Helper()
	cipher, err := crypto.NewAesGcmService(testKey)
	require.NoError(t, err)
	return cipher
}

// sealedTenant builds a tenant whose tokens are encrypted with cipher.
func sealedTenant(t *testing.T, cipher crypto.Service, id int64, subdomain string) *model.Tenant {
	t.Helper()
	app, err := cipher.Encrypt("app-token")
	require.NoError(t, err)
	access, err := cipher.Encrypt("access-token")
	require.NoError(t, err)
	return &model.Tenant{
		Base:                 model.Base{ID: id},
		CompanyName:          "Acme Administradora",
		Subdomain:            subdomain,
		EncryptedAppToken:    app,
		EncryptedAccessToken: access,
	}
}

func testClaims(action magiclink.Action, units ...magiclink.Unit) *magiclink.Claims {
	return &magiclink.Claims{Units: units, Subdomain: "acme", Action: action}
}

func requireHTTPError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, status, httpErr.Status)
	require.Equal(t, message, httpErr.Message)
}

package service

import (
	"context"
	"errors"

	"github.com/deppfellow/linkcondo/internal/crypto"
	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/superlogica"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const msgAdminAuthFailed = "Erro interno [Admin Auth failed]."

// ErrMissingCredentials is returned for tenants without both Superlógica tokens.
var ErrMissingCredentials = errors.New("tenant has no superlogica credentials")

// TenantService manages administradoras and unseals their credentials.
type TenantService struct {
	tenants TenantStore
	cipher  crypto.Service
}

func NewTenantService(tenants TenantStore, cipher crypto.Service) *TenantService {
	return &TenantService{tenants: tenants, cipher: cipher}
}

// PublicProfile returns the landing page branding of a tenant.
func (s *TenantService) PublicProfile(ctx context.Context, subdomain string) (*model.PublicTenant, error) {
	return s.tenants.GetPublicBySubdomain(ctx, subdomain)
}

func (s *TenantService) List(ctx context.Context) ([]model.Tenant, error) {
	tenants, err := s.tenants.List(ctx)
	if err != nil {
		return nil, err
	}
	if tenants == nil {
		tenants = []model.Tenant{}
	}
	return tenants, nil
}

func (s *TenantService) Get(ctx context.Context, id int64) (*model.Tenant, error) {
	return s.tenants.GetByID(ctx, id)
}

// Create encrypts both tokens and stores the tenant.
func (s *TenantService) Create(ctx context.Context, req *model.CreateTenantRequest) (*model.Tenant, error) {
	appToken, err := s.cipher.Encrypt(req.AppToken)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to encrypt app token")
	}
	accessToken, err := s.cipher.Encrypt(req.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to encrypt access token")
	}

	tenant, err := s.tenants.Create(ctx, &model.Tenant{
		CompanyName:          req.CompanyName,
		Subdomain:            req.Subdomain,
		EncryptedAppToken:    appToken,
		EncryptedAccessToken: accessToken,
		CNPJ:                 req.CNPJ,
		BillingContactName:   req.BillingContactName,
		BillingContactEmail:  req.BillingContactEmail,
		BillingContactPhone:  req.BillingContactPhone,
		ContactEmail:         req.ContactEmail,
		ContactPhone:         req.ContactPhone,
		LogoURL:              req.LogoURL,
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("tenant_id", tenant.ID).
		Str("subdomain", tenant.Subdomain).
		Msg("tenant created")
	return tenant, nil
}

// Update rewrites the tenant; tokens are re-encrypted only when sent.
func (s *TenantService) Update(ctx context.Context, req *model.UpdateTenantRequest) (*model.Tenant, error) {
	tenant := &model.Tenant{
		Base:                model.Base{ID: req.ID.Int64()},
		CompanyName:         req.CompanyName,
		Subdomain:           req.Subdomain,
		CNPJ:                req.CNPJ,
		BillingContactName:  req.BillingContactName,
		BillingContactEmail: req.BillingContactEmail,
		BillingContactPhone: req.BillingContactPhone,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		LogoURL:             req.LogoURL,
	}

	if req.AppToken != nil {
		sealed, err := s.cipher.Encrypt(*req.AppToken)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to encrypt app token")
		}
		tenant.EncryptedAppToken = sealed
	}
	if req.AccessToken != nil {
		sealed, err := s.cipher.Encrypt(*req.AccessToken)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to encrypt access token")
		}
		tenant.EncryptedAccessToken = sealed
	}

	updated, err := s.tenants.Update(ctx, tenant)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int64("tenant_id", updated.ID).
		Bool("tokens_rotated", req.AppToken != nil || req.AccessToken != nil).
		Msg("tenant updated")
	return updated, nil
}

// Lookup returns the tenant of subdomain, or (nil, nil) when unknown.
func (s *TenantService) Lookup(ctx context.Context, subdomain string) (*model.Tenant, error) {
	tenant, err := s.tenants.GetBySubdomain(ctx, subdomain)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// Unseal decrypts the tenant's Superlógica tokens.
func (s *TenantService) Unseal(tenant *model.Tenant) (superlogica.Credentials, error) {
	if !tenant.HasCredentials() {
		return superlogica.Credentials{}, ErrMissingCredentials
	}

	appToken, err := s.cipher.Decrypt(tenant.EncryptedAppToken)
	if err != nil {
		return superlogica.Credentials{}, pkgerrors.Wrap(err, "failed to decrypt app token")
	}
	accessToken, err := s.cipher.Decrypt(tenant.EncryptedAccessToken)
	if err != nil {
		return superlogica.Credentials{}, pkgerrors.Wrap(err, "failed to decrypt access token")
	}

	return superlogica.Credentials{AppToken: appToken, AccessToken: accessToken}, nil
}

// Credentials resolves the tenant of a claim and its tokens. Every
// failure is reported to the client as the same 500.
func (s *TenantService) Credentials(ctx context.Context, subdomain string) (*model.Tenant, superlogica.Credentials, error) {
	logger := zerolog.Ctx(ctx)

	tenant, err := s.Lookup(ctx, subdomain)
	if err != nil || tenant == nil {
		logger.Error().Err(err).Str("subdomain", subdomain).Msg("failed to resolve tenant of claim")
		return nil, superlogica.Credentials{}, errs.NewInternalServerErrorWithMessage(msgAdminAuthFailed)
	}

	creds, err := s.Unseal(tenant)
	if err != nil {
		logger.Error().Err(err).Str("subdomain", subdomain).Msg("failed to unseal tenant credentials")
		return nil, superlogica.Credentials{}, errs.NewInternalServerErrorWithMessage(msgAdminAuthFailed)
	}

	return tenant, creds, nil
}

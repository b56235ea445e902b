package model

import "strings"

// Tenant is an administradora: a property management company whose
// condominiums are served by the portal.
//
// The Superlógica tokens are stored encrypted and never serialized.
type Tenant struct {
	Base
	CompanyName          string  `json:"nome_empresa" db:"nome_empresa"`
	Subdomain            string  `json:"subdominio" db:"subdominio"`
	EncryptedAppToken    string  `json:"-" db:"token_superlogica_app"`
	EncryptedAccessToken string  `json:"-" db:"token_superlogica_api"`
	CNPJ                 *string `json:"cnpj" db:"cnpj"`
	BillingContactName   *string `json:"contato_cobranca_nome" db:"contato_cobranca_nome"`
	BillingContactEmail  *string `json:"contato_cobranca_email" db:"contato_cobranca_email"`
	BillingContactPhone  *string `json:"contato_cobranca_telefone" db:"contato_cobranca_telefone"`
	ContactEmail         *string `json:"email_contato" db:"email_contato"`
	ContactPhone         *string `json:"telefone_contato" db:"telefone_contato"`
	LogoURL              *string `json:"logo_url" db:"logo_url"`
}

// HasCredentials reports whether both Superlógica tokens are stored.
func (t *Tenant) HasCredentials() bool {
	return t.EncryptedAppToken != "" && t.EncryptedAccessToken != ""
}

// PublicTenant is the branding shown on a tenant's landing page.
type PublicTenant struct {
	CompanyName  string  `json:"nome_empresa" db:"nome_empresa"`
	LogoURL      *string `json:"logo_url" db:"logo_url"`
	ContactEmail *string `json:"email_contato" db:"email_contato"`
	ContactPhone *string `json:"telefone_contato" db:"telefone_contato"`
}

// TenantProfile holds the optional descriptive columns shared by the
// create and update payloads.
type TenantProfile struct {
	CNPJ                *string `json:"cnpj"`
	BillingContactName  *string `json:"contato_cobranca_nome"`
	BillingContactEmail *string `json:"contato_cobranca_email" validate:"omitempty,email"`
	BillingContactPhone *string `json:"contato_cobranca_telefone"`
	ContactEmail        *string `json:"email_contato" validate:"omitempty,email"`
	ContactPhone        *string `json:"telefone_contato"`
	LogoURL             *string `json:"logo_url" validate:"omitempty,url"`
}

// Normalize trims every field and turns blanks into NULL.
func (p *TenantProfile) Normalize() {
	p.CNPJ = trimmed(p.CNPJ)
	p.BillingContactName = trimmed(p.BillingContactName)
	p.BillingContactEmail = trimmed(p.BillingContactEmail)
	p.BillingContactPhone = trimmed(p.BillingContactPhone)
	p.ContactEmail = trimmed(p.ContactEmail)
	p.ContactPhone = trimmed(p.ContactPhone)
	p.LogoURL = trimmed(p.LogoURL)
}

// CreateTenantRequest registers a new administradora. Both tokens are
// required and encrypted before they reach the database.
type CreateTenantRequest struct {
	CompanyName string `json:"nome_empresa" validate:"required"`
	Subdomain   string `json:"subdominio" validate:"required,max=63"`
	AppToken    string `json:"token_superlogica_app" validate:"required"`
	AccessToken string `json:"token_superlogica_api" validate:"required"`
	TenantProfile
}

func (r *CreateTenantRequest) Validate() error {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Subdomain = NormalizeSubdomain(r.Subdomain)
	r.AppToken = strings.TrimSpace(r.AppToken)
	r.AccessToken = strings.TrimSpace(r.AccessToken)
	r.Normalize()
	return validate.Struct(r)
}

// UpdateTenantRequest edits an administradora. Tokens are optional; when
// sent they replace the stored ones.
type UpdateTenantRequest struct {
	ID          ID      `json:"id" validate:"required,gt=0"`
	CompanyName string  `json:"nome_empresa" validate:"required"`
	Subdomain   string  `json:"subdominio" validate:"required,max=63"`
	AppToken    *string `json:"token_superlogica_app"`
	AccessToken *string `json:"token_superlogica_api"`
	TenantProfile
}

func (r *UpdateTenantRequest) Validate() error {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Subdomain = NormalizeSubdomain(r.Subdomain)
	r.AppToken = trimmed(r.AppToken)
	r.AccessToken = trimmed(r.AccessToken)
	r.Normalize()
	return validate.Struct(r)
}

// GetTenantRequest addresses one administradora by id.
type GetTenantRequest struct {
	ID ID `param:"id" validate:"required,gt=0"`
}

func (r *GetTenantRequest) Validate() error {
	return validate.Struct(r)
}

// ListTenantsRequest has no parameters.
type ListTenantsRequest struct{}

func (r *ListTenantsRequest) Validate() error {
	return nil
}

// PublicTenantRequest looks a tenant up by subdomain.
type PublicTenantRequest struct {
	Subdomain string `param:"subdomain" validate:"required"`
}

func (r *PublicTenantRequest) Validate() error {
	r.Subdomain = NormalizeSubdomain(r.Subdomain)
	return validate.Struct(r)
}

// NormalizeSubdomain trims and lower-cases a subdomain.
func NormalizeSubdomain(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

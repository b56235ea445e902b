package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/linkcondo/internal/lib/job"
	"github.com/deppfellow/linkcondo/internal/repository"
	"github.com/deppfellow/linkcondo/internal/server"
)

type Services struct {
	Tenants  *TenantService
	Contacts *ContactService
	Access   *AccessService
	Invoices *InvoiceService
	Bookings *BookingService
	Job      *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// Admin routes verify Clerk session tokens with this key.
	clerk.SetKey(s.Config.Auth.SecretKey)

	tenants := NewTenantService(repos.Tenants, s.Crypto)
	contacts := NewContactService(repos.Contacts, s.Metrics)

	return &Services{
		Tenants:  tenants,
		Contacts: contacts,
		Access:   NewAccessService(tenants, s.Superlogica, s.Signer, s.Job, s.Metrics, s.Config),
		Invoices: NewInvoiceService(tenants, contacts, s.Superlogica, s.Clock),
		Bookings: NewBookingService(tenants, s.Superlogica, s.Clock),
		Job:      s.Job,
	}, nil
}

package repository

import (
	"github.com/deppfellow/linkcondo/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Tenants  *TenantRepository
	Contacts *ContactRepository
}

// NewRepositories builds every repository on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Tenants:  NewTenantRepository(s.DB.Pool),
		Contacts: NewContactRepository(s.DB.Pool),
	}
}

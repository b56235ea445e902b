package service

import (
	"context"
	"fmt"
	"io"

	"github.com/deppfellow/linkcondo/internal/metrics"
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/rs/zerolog"
)

const msgContactDeleted = "Contato excluído com sucesso"

// ContactService manages the legal contacts of each administradora.
type ContactService struct {
	contacts ContactStore
	metrics  *metrics.Metrics
}

func NewContactService(contacts ContactStore, m *metrics.Metrics) *ContactService {
	return &ContactService{contacts: contacts, metrics: m}
}

func (s *ContactService) List(ctx context.Context, tenantID int64) ([]model.LegalContact, error) {
	contacts, err := s.contacts.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []model.LegalContact{}
	}
	return contacts, nil
}

func (s *ContactService) Create(ctx context.Context, req *model.CreateContactRequest) (*model.LegalContact, error) {
	return s.contacts.Create(ctx, &req.ContactFields)
}

func (s *ContactService) Update(ctx context.Context, req *model.UpdateContactRequest) (*model.LegalContact, error) {
	return s.contacts.Update(ctx, req.ID.Int64(), &req.ContactFields)
}

func (s *ContactService) Delete(ctx context.Context, id int64) (*model.MessageResponse, error) {
	if err := s.contacts.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &model.MessageResponse{Message: msgContactDeleted}, nil
}

// Import replaces the tenant's contacts with the rows of a CSV file.
func (s *ContactService) Import(ctx context.Context, tenantID int64, file io.Reader) (*model.ImportResult, error) {
	logger := zerolog.Ctx(ctx).With().Int64("tenant_id", tenantID).Logger()

	rows, err := ParseContactsCSV(file)
	if err != nil {
		s.metrics.ContactImport(metrics.OutcomeRejected, 0)
		logger.Warn().Err(err).Msg("contact import rejected")
		return nil, err
	}

	imported, err := s.contacts.ReplaceForTenant(ctx, tenantID, rows)
	if err != nil {
		s.metrics.ContactImport(metrics.OutcomeFailed, 0)
		return nil, err
	}

	s.metrics.ContactImport(metrics.OutcomeImported, imported)
	logger.Info().Int("imported", imported).Msg("contacts replaced from csv")

	return &model.ImportResult{
		Message:  fmt.Sprintf("Sucesso! %d contatos foram importados.", imported),
		Imported: imported,
	}, nil
}

// CardsByCondominium maps id_condominio to the contact shown to residents.
// When a condominium has several contacts the newest one wins.
func (s *ContactService) CardsByCondominium(ctx context.Context, tenantID int64) (map[string]*model.ContactCard, error) {
	contacts, err := s.contacts.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	cards := make(map[string]*model.ContactCard, len(contacts))
	for i := range contacts {
		id := contacts[i].CondominiumID
		if id == "" {
			continue
		}
		cards[id] = contacts[i].Card()
	}
	return cards, nil
}

package model

import (
	"strings"

	"github.com/deppfellow/linkcondo/internal/errs"
)

// LegalContact is the lawyer or collections office residents of one
// condominium are referred to when they have old debts.
type LegalContact struct {
	Base
	TenantID             int64   `json:"administradora_id" db:"administradora_id"`
	CondominiumID        string  `json:"id_condominio" db:"id_condominio"`
	CondominiumReference *string `json:"nome_condominio_referencia" db:"nome_condominio_referencia"`
	Name                 *string `json:"name" db:"name"`
	Email                *string `json:"email" db:"email"`
	Phone                *string `json:"phone" db:"phone"`
}

// ContactCard is the part of a legal contact shown to residents.
type ContactCard struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Card builds the resident-facing view of c.
func (c *LegalContact) Card() *ContactCard {
	card := &ContactCard{}
	if c.Name != nil {
		card.Name = *c.Name
	}
	if c.Phone != nil {
		card.Phone = *c.Phone
	}
	if c.Email != nil {
		card.Email = *c.Email
	}
	return card
}

// ContactFields are the editable columns of a legal contact.
type ContactFields struct {
	TenantID             ID      `json:"administradora_id" validate:"required,gt=0"`
	CondominiumID        string  `json:"id_condominio" validate:"required"`
	CondominiumReference *string `json:"nome_condominio_referencia"`
	Name                 *string `json:"name"`
	Email                *string `json:"email" validate:"omitempty,email"`
	Phone                *string `json:"phone"`
}

func (f *ContactFields) normalize() {
	f.CondominiumID = strings.TrimSpace(f.CondominiumID)
	f.CondominiumReference = trimmed(f.CondominiumReference)
	f.Name = trimmed(f.Name)
	f.Email = trimmed(f.Email)
	f.Phone = trimmed(f.Phone)
}

// CreateContactRequest adds a legal contact to a tenant.
type CreateContactRequest struct {
	ContactFields
}

func (r *CreateContactRequest) Validate() error {
	r.normalize()
	return validate.Struct(r)
}

// UpdateContactRequest replaces the fields of an existing contact.
type UpdateContactRequest struct {
	ID ID `json:"id" validate:"required,gt=0"`
	ContactFields
}

func (r *UpdateContactRequest) Validate() error {
	r.normalize()
	return validate.Struct(r)
}

// DeleteContactRequest removes one contact. The id may come in the body
// or the query string.
type DeleteContactRequest struct {
	ID ID `json:"id" query:"id" validate:"required,gt=0"`
}

func (r *DeleteContactRequest) Validate() error {
	return validate.Struct(r)
}

// ListContactsRequest lists the contacts of one tenant.
type ListContactsRequest struct {
	TenantID ID `query:"administradora_id" validate:"required,gt=0"`
}

func (r *ListContactsRequest) Validate() error {
	return validate.Struct(r)
}

// ImportContactsRequest carries the administradora of a CSV upload. The
// file itself is read from the multipart "file" part by the handler.
type ImportContactsRequest struct {
	TenantID ID `form:"administradora_id" query:"administradora_id"`
}

func (r *ImportContactsRequest) Validate() error {
	if r.TenantID <= 0 {
		return errs.NewBadRequestError("ID da administradora não fornecido.", true, nil, []errs.FieldError{{
			Field: "administradora_id",
			Error: "is required",
		}}, nil)
	}
	return nil
}

// ImportResult reports a finished CSV import.
type ImportResult struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
}

// MessageResponse is a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

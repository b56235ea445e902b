package handler

import (
	"fmt"

	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/deppfellow/linkcondo/internal/middleware"
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/deppfellow/linkcondo/internal/service"
	"github.com/labstack/echo/v4"
)

const msgMissingFile = "Nenhum arquivo enviado."

// ContactHandler serves the admin legal contact endpoints.
type ContactHandler struct {
	Handler
	contacts *service.ContactService
}

func NewContactHandler(s *server.Server, contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{
		Handler:  NewHandler(s),
		contacts: contacts,
	}
}

func (h *ContactHandler) List(c echo.Context, req *model.ListContactsRequest) ([]model.LegalContact, error) {
	return h.contacts.List(c.Request().Context(), req.TenantID.Int64())
}

func (h *ContactHandler) Create(c echo.Context, req *model.CreateContactRequest) (*model.LegalContact, error) {
	return h.contacts.Create(c.Request().Context(), req)
}

func (h *ContactHandler) Update(c echo.Context, req *model.UpdateContactRequest) (*model.LegalContact, error) {
	return h.contacts.Update(c.Request().Context(), req)
}

func (h *ContactHandler) Delete(c echo.Context, req *model.DeleteContactRequest) (*model.MessageResponse, error) {
	return h.contacts.Delete(c.Request().Context(), req.ID.Int64())
}

// Import replaces the tenant's contacts with the rows of the uploaded
// CSV, sent as the multipart part "file".
func (h *ContactHandler) Import(c echo.Context, req *model.ImportContactsRequest) (*model.ImportResult, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, errs.NewBadRequestError(msgMissingFile, true, nil, []errs.FieldError{{
			Field: "file",
			Error: "is required",
		}}, nil)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded csv: %w", err)
	}
	defer file.Close()

	middleware.GetLogger(c).Info().
		Int64("administradora_id", req.TenantID.Int64()).
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Msg("importing legal contacts")

	return h.contacts.Import(c.Request().Context(), req.TenantID.Int64(), file)
}

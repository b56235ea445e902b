package email

import (
	"context"
	"fmt"
)

// MagicLinkData fills the magic_link template.
type MagicLinkData struct {
	Link         string
	AccessLabel  string
	CompanyName  string
	ValidMinutes int
}

// SendMagicLinkEmail sends the access link to a resident.
func (c *Client) SendMagicLinkEmail(ctx context.Context, to string, data MagicLinkData) error {
	if data.CompanyName == "" {
		data.CompanyName = "Administradora"
	}

	return c.SendEmail(
		ctx,
		to,
		fmt.Sprintf("LinkCondo - %s (%s)", data.AccessLabel, data.CompanyName),
		TemplateMagicLink,
		data,
	)
}

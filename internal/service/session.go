package service

import (
	"github.com/deppfellow/linkcondo/internal/magiclink"
	"github.com/deppfellow/linkcondo/internal/model"
)

// Session exposes a verified claim to the portal landing page.
func Session(claims *magiclink.Claims) *model.SessionResponse {
	units := make([]model.SessionUnit, 0, len(claims.Units))
	for _, u := range claims.Units {
		units = append(units, model.SessionUnit{
			CondominiumID:   u.CondominiumID,
			CondominiumName: u.CondominiumName,
			UnitID:          u.UnitID,
			Label:           u.Label,
		})
	}

	resp := &model.SessionResponse{
		Units:     units,
		Subdomain: claims.Subdomain,
		Action:    string(claims.Action),
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return resp
}

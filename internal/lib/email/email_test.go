package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/deppfellow/linkcondo/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_MagicLink(t *testing.T) {
	html, err := Render(TemplateMagicLink, MagicLinkData{
		Link:         "https://alfa.example.com/portal?token=a.b.c",
		AccessLabel:  "Boletos",
		CompanyName:  "Alfa & Filhos",
		ValidMinutes: 15,
	})
	require.NoError(t, err)

	assert.Contains(t, html, `href="https://alfa.example.com/portal?token=a.b.c"`)
	assert.Contains(t, html, "(Boletos)")
	assert.Contains(t, html, "válido por 15 minutos")
	assert.Contains(t, html, "Alfa &amp; Filhos")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}

func TestRender_PreviewDataCoversEveryTemplate(t *testing.T) {
	for name, data := range PreviewData {
		_, err := Render(name, data)
		assert.NoError(t, err, name)
	}
}

func TestSendMagicLinkEmail(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	cfg := &config.Config{
		Integration: config.IntegrationConfig{ResendAPIKey: "re_test"},
		MagicLink:   config.MagicLinkConfig{SenderName: "LinkCondo", SenderAddress: "nao-responda@example.com"},
	}
	logger := zerolog.Nop()
	client := NewClient(cfg, &logger)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.client.BaseURL = base

	err = client.SendMagicLinkEmail(context.Background(), "morador@example.com", MagicLinkData{
		Link:         "https://alfa.example.com/portal?token=x",
		AccessLabel:  "Reservas",
		ValidMinutes: 15,
	})
	require.NoError(t, err)

	assert.Equal(t, "LinkCondo <nao-responda@example.com>", got["from"])
	assert.Equal(t, []any{"morador@example.com"}, got["to"])
	assert.Equal(t, "LinkCondo - Reservas (Administradora)", got["subject"])
	assert.Contains(t, got["html"], "https://alfa.example.com/portal?token=x")
}

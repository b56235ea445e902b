package router

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/linkcondo/internal/config"
	"github.com/deppfellow/linkcondo/internal/handler"
	"github.com/deppfellow/linkcondo/internal/magiclink"
	"github.com/deppfellow/linkcondo/internal/metrics"
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/deppfellow/linkcondo/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	l := zerolog.Nop()

	signer, err := magiclink.NewSigner("0123456789abcdef0123456789abcdef", 15*time.Minute, nil)
	require.NoError(t, err)

	registry := metrics.NewRegistry()
	observability := config.DefaultObservabilityConfig()
	observability.HealthChecks.Enabled = false

	s := &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Server:        config.ServerConfig{CORSAllowedOrigins: []string{"*"}, BodyLimit: "64K"},
			RateLimit:     config.RateLimitConfig{RequestsPerMinute: 5, Burst: 3},
			Observability: observability,
		},
		Logger:   &l,
		Signer:   signer,
		Registry: registry,
		Metrics:  metrics.New(registry),
	}

	return NewRouter(s, handler.NewHandlers(s, &service.Services{}))
}

func TestNewRouter_Routes(t *testing.T) {
	r := newTestRouter(t)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /status",
		"GET /metrics",
		"GET /docs",
		"GET /api/public/tenant/:subdomain",
		"POST /api/solicitar-link",
		"GET /api/portal/sessao",
		"POST /api/obter-boletos",
		"POST /api/obter-link-pdf",
		"POST /api/reservas/areas",
		"POST /api/reservas/areasreservas",
		"POST /api/reservas/minhas-reservas",
		"POST /api/reservas/solicitar",
		"POST /api/reservas/cancelar",
		"GET /api/admin/clientes",
		"GET /api/admin/clientes/:id",
		"POST /api/admin/clientes",
		"PUT /api/admin/clientes",
		"GET /api/admin/contatos",
		"POST /api/admin/contatos",
		"PUT /api/admin/contatos",
		"DELETE /api/admin/contatos",
		"POST /api/admin/contatos/import",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestNewRouter_Guards(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"status", http.MethodGet, "/status", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"resident route without link", http.MethodPost, "/api/obter-boletos", http.StatusUnauthorized},
		{"booking route without link", http.MethodPost, "/api/reservas/areas", http.StatusUnauthorized},
		{"session without link", http.MethodGet, "/api/portal/sessao", http.StatusUnauthorized},
		{"admin without session", http.MethodGet, "/api/admin/clientes", http.StatusUnauthorized},
		{"unknown api route", http.MethodGet, "/api/nao-existe", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestNewRouter_RateLimitKeysOnPeerAddress(t *testing.T) {
	r := newTestRouter(t)

	statuses := make([]int, 0, 10)
	for i := range 10 {
		req := httptest.NewRequest(http.MethodPost, "/api/solicitar-link", bytes.NewBufferString("{}"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		req.Header.Set(echo.HeaderXRealIP, fmt.Sprintf("198.51.100.%d", i+1))
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	for _, status := range statuses[:3] {
		assert.Equal(t, http.StatusBadRequest, status)
	}
	for _, status := range statuses[3:] {
		assert.Equal(t, http.StatusTooManyRequests, status)
	}
}

func TestNewRouter_BodyLimit(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/contatos/import", bytes.NewReader(make([]byte, 128*1024)))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)

	m.MagicLinkRequested("boletos", OutcomeSent)
	m.MagicLinkRequested("boletos", OutcomeSent)
	m.MagicLinkRequested("reservas", OutcomeNoMatch)
	m.ContactImport(OutcomeImported, 12)
	m.ContactImport(OutcomeRejected, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MagicLinkRequests.WithLabelValues("boletos", OutcomeSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MagicLinkRequests.WithLabelValues("reservas", OutcomeNoMatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContactImports.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.ContactsImported))
}

func TestObserveUpstream(t *testing.T) {
	m := New(NewRegistry())

	m.ObserveUpstream("cobranca/index", 200, 300*time.Millisecond)
	m.ObserveUpstream("cobranca/index", 0, time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(m.UpstreamDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.MagicLinkRequested("boletos", OutcomeSent)
		m.ObserveUpstream("x", 200, time.Second)
		m.ContactImport(OutcomeImported, 3)
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/public/tenant/:subdomain", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/metrics", echo.WrapHandler(Handler(reg)))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/tenant/acme", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `linkcondo_http_request_duration_seconds_count{method="GET",route="/api/public/tenant/:subdomain",status_code="204"} 1`))
	assert.Contains(t, body, "go_goroutines")
}

// Package superlogica is the HTTP client of the Superlógica condominium API.
//
// Every call is authenticated per tenant with the app_token and
// access_token headers, runs once (no retries) and maps failures onto
// the Portuguese messages residents see:
//
//   - GET 404 or an empty body is an empty result
//   - any other non-2xx is "Falha na comunicação com o sistema (<status>)."
//   - a body that is not JSON is "Resposta inválida recebida do sistema."
//   - form calls surface the API's own "msg" when it sends one
package superlogica

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deppfellow/linkcondo/internal/config"
	"github.com/deppfellow/linkcondo/internal/metrics"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Credentials authenticate calls on behalf of one tenant.
type Credentials struct {
	AppToken    string
	AccessToken string
}

// Error is a failure whose Message is shown to the resident.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

const (
	msgInvalidResponse = "Resposta inválida recebida do sistema."
	msgReadFailure     = "Erro ao ler resposta da Superlógica."
)

func communicationError(status int) *Error {
	return &Error{Status: status, Message: fmt.Sprintf("Falha na comunicação com o sistema (%d).", status)}
}

// maxBodySize bounds how much of a response is read.
const maxBodySize = 10 << 20

// Client calls the Superlógica API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// noRedirect returns 3xx responses to the caller instead of following them.
	noRedirect *http.Client
	metrics    *metrics.Metrics
}

// NewClient builds a client from config. When nrApp is non-nil every call
// is recorded as an external segment of the current transaction.
func NewClient(cfg config.SuperlogicaConfig, nrApp *newrelic.Application, m *metrics.Metrics) *Client {
	var transport http.RoundTripper = http.DefaultTransport
	if nrApp != nil {
		transport = newrelic.NewRoundTripper(transport)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		noRedirect: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		metrics: m,
	}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) do(ctx context.Context, client *http.Client, creds Credentials, method, endpoint string, query url.Values, form url.Values) (*response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, endpoint)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("app_token", creds.AppToken)
	req.Header.Set("access_token", creds.AccessToken)

	logger := zerolog.Ctx(ctx).With().Str("upstream", endpoint).Str("upstream_method", method).Logger()

	start := time.Now()
	res, err := client.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, 0, time.Since(start))
		logger.Error().Err(err).Msg("superlogica request failed")
		return nil, &Error{
			Message: "Erro de rede ao conectar com a Superlógica: " + err.Error(),
			cause:   errors.Wrapf(err, "%s %s", method, endpoint),
		}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	c.metrics.ObserveUpstream(endpoint, res.StatusCode, time.Since(start))
	if err != nil {
		logger.Error().Err(err).Int("status", res.StatusCode).Msg("superlogica response could not be read")
		return nil, &Error{Status: res.StatusCode, Message: msgReadFailure, cause: errors.WithStack(err)}
	}

	logger.Debug().Int("status", res.StatusCode).Dur("duration", time.Since(start)).Msg("superlogica request completed")

	return &response{status: res.StatusCode, header: res.Header, body: data}, nil
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

// getValue performs a GET and returns the JSON body, or nil for a 404 or
// an empty body.
func (c *Client) getValue(ctx context.Context, creds Credentials, endpoint string, query url.Values) (json.RawMessage, error) {
	res, err := c.do(ctx, c.httpClient, creds, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return nil, err
	}

	if !ok(res.status) {
		if res.status == http.StatusNotFound {
			return nil, nil
		}
		zerolog.Ctx(ctx).Error().
			Int("status", res.status).
			Str("upstream", endpoint).
			Str("body", truncate(res.body, 512)).
			Msg("superlogica returned an error status")
		return nil, communicationError(res.status)
	}

	trimmed := bytes.TrimSpace(res.body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		zerolog.Ctx(ctx).Error().Str("upstream", endpoint).Str("body", truncate(trimmed, 512)).Msg("superlogica returned invalid json")
		return nil, &Error{Status: res.status, Message: msgInvalidResponse}
	}
	return json.RawMessage(trimmed), nil
}

// getList performs a GET where a list is expected. A single object is
// wrapped into a one-element list; scalars are an empty list.
func (c *Client) getList(ctx context.Context, creds Credentials, endpoint string, query url.Values) ([]json.RawMessage, error) {
	value, err := c.getValue(ctx, creds, endpoint, query)
	if err != nil || value == nil {
		return nil, err
	}
	return asList(value)
}

func asList(value json.RawMessage) ([]json.RawMessage, error) {
	switch value[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(value, &items); err != nil {
			return nil, &Error{Message: msgInvalidResponse, cause: err}
		}
		return items, nil
	case '{':
		return []json.RawMessage{value}, nil
	default:
		return nil, nil
	}
}

// sendForm performs a form-encoded POST or PUT. An empty body is {}.
func (c *Client) sendForm(ctx context.Context, creds Credentials, method, endpoint string, form url.Values) (json.RawMessage, error) {
	res, err := c.do(ctx, c.httpClient, creds, method, endpoint, nil, form)
	if err != nil {
		return nil, err
	}

	if !ok(res.status) {
		zerolog.Ctx(ctx).Error().
			Int("status", res.status).
			Str("upstream", endpoint).
			Str("body", truncate(res.body, 512)).
			Msg("superlogica rejected form request")

		var apiErr struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(res.body, &apiErr) == nil && apiErr.Msg != "" {
			return nil, &Error{Status: res.status, Message: apiErr.Msg}
		}
		return nil, communicationError(res.status)
	}

	trimmed := bytes.TrimSpace(res.body)
	if len(trimmed) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(trimmed) {
		return nil, &Error{Status: res.status, Message: msgInvalidResponse}
	}
	return json.RawMessage(trimmed), nil
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

// decodeList decodes each item into T. Items of an unexpected shape are
// skipped, as the API mixes summary rows into some listings.
func decodeList[T any](ctx context.Context, endpoint string, items []json.RawMessage) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("upstream", endpoint).Msg("skipping unexpected item")
			continue
		}
		out = append(out, v)
	}
	return out
}

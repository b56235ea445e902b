// Package server defines the core Server struct that composes the portal's
// main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
//   - redis client
//   - background job worker (asynq) delivering magic link emails
//   - the Prometheus registry and portal metrics
//   - the credential cipher, magic link signer and Superlógica client
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/linkcondo/internal/config"
	"github.com/deppfellow/linkcondo/internal/crypto"
	"github.com/deppfellow/linkcondo/internal/database"
	"github.com/deppfellow/linkcondo/internal/lib/job"
	"github.com/deppfellow/linkcondo/internal/magiclink"
	"github.com/deppfellow/linkcondo/internal/metrics"
	"github.com/deppfellow/linkcondo/internal/superlogica"
	"github.com/jonboulle/clockwork"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/linkcondo/internal/logger"
)

// redisPingTimeout bounds the start-up Redis check.
const redisPingTimeout = 5 * time.Second

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself; that one is private and configured
// by SetupHTTPServer.
type Server struct {
	Config *config.Config

	// Logger is the application's root structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	DB    *database.Database
	Redis *redis.Client

	// Job runs the email worker and enqueues magic link emails.
	Job *job.JobService

	// Registry is served at /metrics; Metrics holds the portal collectors.
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// Crypto seals the Superlógica tokens stored per tenant.
	Crypto crypto.Service

	// Signer issues and verifies magic link claims.
	Signer *magiclink.Signer

	// Superlogica is the upstream billing and bookings API.
	Superlogica *superlogica.Client

	// Clock is the time source for invoice windows and booking dates.
	Clock clockwork.Clock

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server; that is done in SetupHTTPServer + Start.
// A Redis outage at start-up is logged but not fatal: only the email
// queue depends on it, and solicitar-link reports enqueue failures.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	cipher, err := crypto.NewAesGcmService(cfg.Crypto.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential cipher: %w", err)
	}

	clock := clockwork.NewRealClock()

	signer, err := magiclink.NewSigner(cfg.MagicLink.SigningSecret, cfg.MagicLink.TTL, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize magic link signer: %w", err)
	}

	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to redis, magic link emails will fail until it is reachable")
	}

	jobService := job.NewJobService(logger, cfg)
	jobService.InitHandlers(cfg, logger)

	if err := jobService.Start(); err != nil {
		_ = db.Close()
		return nil, err
	}

	registry := metrics.NewRegistry()
	portalMetrics := metrics.New(registry)

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Job:           jobService,
		Registry:      registry,
		Metrics:       portalMetrics,
		Crypto:        cipher,
		Signer:        signer,
		Superlogica:   superlogica.NewClient(cfg.Superlogica, loggerService.GetApplication(), portalMetrics),
		Clock:         clock,
	}, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then releases the job worker, Redis and the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/linkcondo/internal/middleware"
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

type dependencyCheck struct {
	name string
	ping func(ctx context.Context) error
}

// dependencies lists the configured checks whose client exists.
func (h *HealthHandler) dependencies() []dependencyCheck {
	cfg := h.server.Config.Observability.HealthChecks

	var deps []dependencyCheck
	if cfg.Includes("database") && h.server.DB != nil {
		deps = append(deps, dependencyCheck{name: "database", ping: h.server.DB.Ping})
	}
	if cfg.Includes("redis") && h.server.Redis != nil {
		deps = append(deps, dependencyCheck{name: "redis", ping: func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}})
	}
	return deps
}

// CheckHealth pings every configured dependency. Any failure turns the
// response into a 503.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]checkResult),
	}

	timeout := h.server.Config.Observability.HealthChecks.Timeout
	for _, dep := range h.dependencies() {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		depStart := time.Now()
		err := dep.ping(ctx)
		cancel()
		elapsed := time.Since(depStart)

		if err != nil {
			response.Status = statusUnhealthy
			response.Checks[dep.name] = checkResult{
				Status:       statusUnhealthy,
				ResponseTime: elapsed.String(),
				Error:        err.Error(),
			}

			logger.Error().
				Err(err).
				Str("check", dep.name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			h.recordFailure(map[string]any{
				"check_type":       dep.name,
				"operation":        "health_check",
				"error_type":       dep.name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
			continue
		}

		response.Checks[dep.name] = checkResult{
			Status:       statusHealthy,
			ResponseTime: elapsed.String(),
		}
		logger.Debug().
			Str("check", dep.name).
			Dur("response_time", elapsed).
			Msg("health check passed")
	}

	if response.Status == statusUnhealthy {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("service unhealthy")

		h.recordFailure(map[string]any{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(attrs map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}

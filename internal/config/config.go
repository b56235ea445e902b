// Package config manages environment variables.
//
// It reads LINKCONDO_ variables (optionally from a `.env` file),
// loads them into structured Go types, applies defaults for the
// optional blocks and validates that required values are present
// so the portal fails fast on bad or missing secrets.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values (database, Clerk key, encryption key, signing secret).
//   - Provide sane defaults for optional blocks (magic link TTL, Superlógica URL, observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the LINKCONDO_ prefix, lowercased, and the "."
	delimiter is used for nesting:

	  LINKCONDO_SERVER.PORT          -> server.port       -> Config.Server.Port
	  LINKCONDO_MAGIC_LINK.TTL       -> magic_link.ttl    -> Config.MagicLink.TTL
	  LINKCONDO_CRYPTO.ENCRYPTION_KEY -> crypto.encryption_key
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "LINKCONDO_"

// Config is the root configuration object for the portal.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Crypto        CryptoConfig         `koanf:"crypto" validate:"required"`
	MagicLink     MagicLinkConfig      `koanf:"magic_link" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Superlogica   SuperlogicaConfig    `koanf:"superlogica"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment
// (local, development, production). Used to tag logs and to pick the
// scheme of generated magic links.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// IsProduction reports whether the portal runs in production.
func (p Primary) IsProduction() bool {
	return p.Env == "production"
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	// TrustedProxies lists the CIDR ranges whose X-Forwarded-For hops are
	// believed. Empty means the peer address is the client address.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"omitempty,dive,cidr"`
	// BodyLimit caps request bodies, e.g. "5M".
	BodyLimit string `koanf:"body_limit"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
// Redis backs the email job queue.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores the Clerk secret key used to verify admin sessions.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// CryptoConfig holds the key protecting Superlógica credentials at rest.
//
// EncryptionKey must be 64 hex characters (32 bytes, AES-256).
type CryptoConfig struct {
	EncryptionKey string `koanf:"encryption_key" validate:"required,len=64,hexadecimal"`
}

// MagicLinkConfig controls issuance of the resident access links.
type MagicLinkConfig struct {
	// SigningSecret is the HMAC secret for the bearer claim.
	SigningSecret string `koanf:"signing_secret" validate:"required,min=32"`

	// TTL is how long a link stays valid. Defaults to 15 minutes.
	TTL time.Duration `koanf:"ttl" validate:"min=1m"`

	// BaseURL overrides the link origin. When empty the request host is used.
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`

	// SenderName and SenderAddress build the "From" header of the email.
	SenderName    string `koanf:"sender_name"`
	SenderAddress string `koanf:"sender_address" validate:"omitempty,email"`
}

// IntegrationConfig holds third-party provider keys.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`
}

// SuperlogicaConfig points the upstream client at the billing API.
type SuperlogicaConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`
}

// RateLimitConfig throttles magic link requests per client IP.
type RateLimitConfig struct {
	// RequestsPerMinute of 0 falls back to the default.
	RequestsPerMinute int `koanf:"requests_per_minute" validate:"min=1"`
	Burst             int `koanf:"burst" validate:"min=1"`
}

// LoadConfig loads configuration from LINKCONDO_ environment variables,
// applies defaults and validates the result.
//
// Behavior summary:
//   - Loads env vars with prefix LINKCONDO_ (keys lowercased, prefix trimmed)
//   - Unmarshals into Config
//   - Fills optional blocks (magic link, Superlógica, rate limit, observability)
//   - Validates struct tags, then observability rules
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// Defaults applied when the matching variable is absent.
const (
	DefaultMagicLinkTTL       = 15 * time.Minute
	DefaultSuperlogicaBaseURL = "https://api.superlogica.net/v2/condor"
	DefaultSuperlogicaTimeout = 30 * time.Second
	DefaultSenderName         = "LinkCondo"
	DefaultSenderAddress      = "nao-responda@iadev.app"
	DefaultRateLimitPerMinute = 5
	DefaultRateLimitBurst     = 3
	DefaultBodyLimit          = "5M"
)

const serviceName = "linkcondo"

// applyDefaults fills zero values of the optional blocks.
func (c *Config) applyDefaults() {
	if c.MagicLink.TTL == 0 {
		c.MagicLink.TTL = DefaultMagicLinkTTL
	}
	if c.MagicLink.SenderName == "" {
		c.MagicLink.SenderName = DefaultSenderName
	}
	if c.MagicLink.SenderAddress == "" {
		c.MagicLink.SenderAddress = DefaultSenderAddress
	}
	c.MagicLink.BaseURL = strings.TrimRight(c.MagicLink.BaseURL, "/")

	if c.Superlogica.BaseURL == "" {
		c.Superlogica.BaseURL = DefaultSuperlogicaBaseURL
	}
	if c.Superlogica.Timeout == 0 {
		c.Superlogica.Timeout = DefaultSuperlogicaTimeout
	}

	if c.Server.BodyLimit == "" {
		c.Server.BodyLimit = DefaultBodyLimit
	}

	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = DefaultRateLimitPerMinute
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = DefaultRateLimitBurst
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env.
	c.Observability.ServiceName = serviceName
	c.Observability.Environment = c.Primary.Env
}

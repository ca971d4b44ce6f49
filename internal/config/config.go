// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ProviderSMTP    = "smtp"
	ProviderMailgun = "mailgun"

	StoreMemory   = "memory"
	StorePostgres = "postgres"

	// LeadStoreLocal as LEAD_STORE_URL records leads in this process, without
	// an HTTP hop to the hook.
	LeadStoreLocal = "local"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	BrandName      string   `env:"BRAND_NAME" envDefault:"Neuro"`
	// TrustedProxies may set X-Forwarded-For / X-Real-IP (addresses or CIDRs).
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	AdminEmail           string `env:"ADMIN_EMAIL"`
	FallbackContactEmail string `env:"FALLBACK_CONTACT_EMAIL"`

	Mail      MailConfig
	LeadStore LeadStoreConfig
	RateLimit RateLimitConfig
	Log       LogConfig

	DatabaseURL string `env:"DATABASE_URL"`
	RabbitMQURL string `env:"RABBITMQ_URL"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type MailConfig struct {
	Provider      string `env:"MAIL_PROVIDER" envDefault:"smtp"`
	Host          string `env:"MAIL_HOST"`
	Port          int    `env:"MAIL_PORT" envDefault:"587"`
	User          string `env:"MAIL_USER"`
	Pass          string `env:"MAIL_PASS"`
	From          string `env:"MAIL_FROM"`
	MailgunDomain string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey string `env:"MAILGUN_API_KEY"`
}

// Configured reports whether the selected provider has its credentials.
func (m MailConfig) Configured() bool {
	switch m.Provider {
	case ProviderMailgun:
		return m.MailgunDomain != "" && m.MailgunAPIKey != "" && m.FromAddress() != ""
	default:
		return m.Host != "" && m.User != "" && m.Pass != ""
	}
}

func (m MailConfig) FromAddress() string {
	if m.From != "" {
		return m.From
	}
	return m.User
}

type LeadStoreConfig struct {
	URL     string        `env:"LEAD_STORE_URL"`
	Secret  string        `env:"LEAD_STORE_SECRET"`
	Timeout time.Duration `env:"LEAD_STORE_TIMEOUT" envDefault:"10s"`
	// QueueSize bounds the in-process side channel used without a broker.
	QueueSize int `env:"LEAD_QUEUE_SIZE" envDefault:"100"`
}

func (l LeadStoreConfig) InProcess() bool {
	return l.URL == LeadStoreLocal
}

type RateLimitConfig struct {
	Max    int           `env:"RATE_LIMIT_MAX" envDefault:"5"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	Store  string        `env:"RATE_LIMIT_STORE" envDefault:"memory"`
	// SweepSchedule is a cron spec for dropping expired windows.
	SweepSchedule string `env:"RATE_LIMIT_SWEEP" envDefault:"@every 10m"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// FallbackContact is the address users are told to write to when
// notification fails.
func (c *Config) FallbackContact() string {
	if c.FallbackContactEmail != "" {
		return c.FallbackContactEmail
	}
	return c.AdminEmail
}

// Load parses the process environment. Missing mail settings are not an
// error here: the service starts and reports itself misconfigured per request.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Mail.Provider {
	case ProviderSMTP, ProviderMailgun:
	default:
		return fmt.Errorf("MAIL_PROVIDER must be %q or %q, got %q", ProviderSMTP, ProviderMailgun, c.Mail.Provider)
	}

	switch c.RateLimit.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("RATE_LIMIT_STORE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("RATE_LIMIT_STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.RateLimit.Store)
	}

	if c.RateLimit.Max <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

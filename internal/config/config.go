// Package config loads runtime settings from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Contact pipeline flows.
const (
	FlowDraft     = "draft"
	FlowSummarize = "summarize"
	FlowDirect    = "direct"
)

// Development admin login used when ADMIN_USERNAME / ADMIN_PASSWORD are unset.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// Config holds all application configuration
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	GinMode      string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	ContentFile  string `env:"CONTENT_FILE"`
	DatabasePath string `env:"DATABASE_PATH"`

	// Proxies whose X-Forwarded-For is believed. Empty trusts none.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	Gemini  GeminiConfig  `envPrefix:"GEMINI_"`
	Contact ContactConfig `envPrefix:"CONTACT_"`
	SMTP    SMTPConfig    `envPrefix:"SMTP_"`
	Admin   AdminConfig   `envPrefix:"ADMIN_"`
	Privacy PrivacyConfig
}

// GeminiConfig configures the generative-AI assistant.
type GeminiConfig struct {
	APIKey  string        `env:"API_KEY"`
	Model   string        `env:"MODEL" envDefault:"gemini-2.0-flash"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"20s"`
}

// ContactConfig configures the inquiry pipeline.
type ContactConfig struct {
	Flow       string `env:"FLOW" envDefault:"draft"`
	OwnerEmail string `env:"OWNER_EMAIL" envDefault:"your.email@example.com"`
}

// SMTPConfig holds outbound mail credentials. Mail is simulated unless
// both User and Pass are set.
type SMTPConfig struct {
	Host string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port string `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
}

// AdminConfig holds dashboard credentials and session signing.
type AdminConfig struct {
	Username      string        `env:"USERNAME" envDefault:"admin"`
	Password      string        `env:"PASSWORD" envDefault:"admin123"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// PrivacyConfig controls visitor tracking.
type PrivacyConfig struct {
	HashSalt         string        `env:"HASH_SALT"`
	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
	CleanupInterval  time.Duration `env:"VISITOR_CLEANUP_INTERVAL" envDefault:"24h"`
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// FromMap reads configuration from the given variables only.
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Contact.Flow = strings.ToLower(strings.TrimSpace(cfg.Contact.Flow))
	switch cfg.Contact.Flow {
	case FlowDraft, FlowSummarize, FlowDirect:
	default:
		return nil, fmt.Errorf("CONTACT_FLOW must be one of draft, summarize, direct (got %q)", cfg.Contact.Flow)
	}

	if cfg.Admin.SessionSecret == "" {
		secret, err := randomHex(32)
		if err != nil {
			return nil, err
		}
		cfg.Admin.SessionSecret = secret
	}
	if cfg.Privacy.HashSalt == "" {
		salt, err := randomHex(32)
		if err != nil {
			return nil, err
		}
		cfg.Privacy.HashSalt = salt
	}

	return &cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// AssistantEnabled reports whether an AI key is configured.
func (c *Config) AssistantEnabled() bool {
	return c.Gemini.APIKey != ""
}

// EffectiveFlow is the configured flow, downgraded to direct when no
// assistant is available.
func (c *Config) EffectiveFlow() string {
	if !c.AssistantEnabled() {
		return FlowDirect
	}
	return c.Contact.Flow
}

// SMTPEnabled reports whether real mail delivery is configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTP.User != "" && c.SMTP.Pass != ""
}

// UsesDefaultAdminUsername reports whether the admin login name is the
// development default.
func (c *Config) UsesDefaultAdminUsername() bool {
	return c.Admin.Username == DefaultAdminUsername
}

// UsesDefaultAdminPassword reports whether the admin password is the
// development default.
func (c *Config) UsesDefaultAdminPassword() bool {
	return c.Admin.Password == DefaultAdminPassword
}

// StorageEnabled reports whether a sqlite database is configured.
func (c *Config) StorageEnabled() bool {
	return c.DatabasePath != ""
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Store    StoreConfig    `yaml:"store"`
	Minio    MinioConfig    `yaml:"minio"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Render   RenderConfig   `yaml:"render"`
	Users    []User         `yaml:"users"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// RateLimit is the number of requests a client may make per minute
	RateLimit int `yaml:"rate_limit"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type StoreConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"max_conns"`
}

type MinioConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

type DeliveryConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	// PaymentLink may contain {contract_id} and {contract_number}
	PaymentLink    string `yaml:"payment_link"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Filename       string `yaml:"filename"`
}

// Timeout returns the webhook call timeout
func (d DeliveryConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

type RenderConfig struct {
	LogoTimeoutSeconds int   `yaml:"logo_timeout_seconds"`
	LogoMaxBytes       int64 `yaml:"logo_max_bytes"`

	// LogoAllowedHosts may resolve to internal addresses. The minio
	// endpoint is always allowed when minio is enabled.
	LogoAllowedHosts []string `yaml:"logo_allowed_hosts"`
}

// LogoTimeout returns the logo download timeout
func (r RenderConfig) LogoTimeout() time.Duration {
	return time.Duration(r.LogoTimeoutSeconds) * time.Second
}

// User is an account created at startup
type User struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"display_name"`
}

// Load reads a YAML config file. ${VAR} references are replaced with the
// values of environment variables before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 100
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 24
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	if c.Store.MaxConns == 0 {
		c.Store.MaxConns = 10
	}
	if c.Minio.Bucket == "" {
		c.Minio.Bucket = "contracts"
	}
	if c.Minio.ExpireDays == 0 {
		c.Minio.ExpireDays = 7
	}
	if c.Delivery.WebhookURL == "" {
		c.Delivery.WebhookURL = "http://localhost:5678/webhook-test/send-contract"
	}
	if c.Delivery.PaymentLink == "" {
		c.Delivery.PaymentLink = "https://pagamento.com/123"
	}
	if c.Delivery.TimeoutSeconds == 0 {
		c.Delivery.TimeoutSeconds = 30
	}
	if c.Delivery.Filename == "" {
		c.Delivery.Filename = "contrato.pdf"
	}
	if c.Render.LogoTimeoutSeconds == 0 {
		c.Render.LogoTimeoutSeconds = 5
	}
	if c.Render.LogoMaxBytes == 0 {
		c.Render.LogoMaxBytes = 2 << 20
	}
}

// Validate checks settings that have no sensible default
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Minio.Enabled && c.Minio.Endpoint == "" {
		return fmt.Errorf("minio.endpoint is required when minio is enabled")
	}
	return nil
}

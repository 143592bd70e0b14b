// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. HOSTEL_API_URL.
const Prefix = "hostel"

// Config holds everything the CLI, the portal and the mock backend read.
type Config struct {
	APIURL            string        `envconfig:"API_URL" default:"http://localhost:8080"`
	PortalURL         string        `envconfig:"PORTAL_URL" default:"http://localhost:5173"`
	Home              string        `ignored:"true"` // HOSTEL_HOME, see Load
	Token             string        `ignored:"true"` // HOSTEL_TOKEN, see Load
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	CheckTimeout      time.Duration `envconfig:"CHECK_TIMEOUT" default:"5s"`
	ExpiryNoticeDelay time.Duration `envconfig:"EXPIRY_NOTICE_DELAY" default:"2s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	Mock Mock // HOSTEL_MOCK_*
}

// Mock configures the bundled backend.
type Mock struct {
	Addr           string        `envconfig:"ADDR" default:":8080"`
	JWTSecret      string        `envconfig:"JWT_SECRET" default:"hostel-dev-secret-change-me"`
	JWTExpiry      time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`
	RedisURL       string        `envconfig:"REDIS_URL"`
	BcryptCost     int           `envconfig:"BCRYPT_COST" default:"6"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS"`
	GinMode        string        `envconfig:"GIN_MODE" default:"release"`
}

// Load reads an optional .env file and then the HOSTEL_* environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	// Read directly: envconfig would fall back to the unprefixed HOME and TOKEN.
	cfg.Home = os.Getenv("HOSTEL_HOME")
	cfg.Token = os.Getenv("HOSTEL_TOKEN")
	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config.Load: home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".hostel")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("API_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if c.RequestTimeout <= 0 || c.CheckTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.ExpiryNoticeDelay < 0 {
		return errors.New("EXPIRY_NOTICE_DELAY must not be negative")
	}
	if c.Mock.BcryptCost < 4 || c.Mock.BcryptCost > 31 {
		return fmt.Errorf("MOCK_BCRYPT_COST out of range: %d", c.Mock.BcryptCost)
	}
	return nil
}

// SessionPath is where the session credential is kept between runs.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Home, "session.json")
}

// LogPath is the portal's log file; the terminal belongs to the UI.
func (c *Config) LogPath() string {
	return filepath.Join(c.Home, "hostel.log")
}

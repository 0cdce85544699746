package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the client and the stub
// backend.
type Config struct {
	APIBaseURL     string        `envconfig:"PDA_API_URL" default:"http://localhost:3000"`
	RequestTimeout time.Duration `envconfig:"PDA_TIMEOUT" default:"10s"`
	StateDir       string        `envconfig:"PDA_STATE_DIR"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogFile   string `envconfig:"PDA_LOG_FILE"`

	StubAddr         string        `envconfig:"STUB_ADDR" default:":3000"`
	StubJWTSecret    string        `envconfig:"STUB_JWT_SECRET" default:"pontoaula-dev"`
	StubSeed         bool          `envconfig:"STUB_SEED" default:"true"`
	StubReadTimeout  time.Duration `envconfig:"STUB_READ_TIMEOUT" default:"15s"`
	StubWriteTimeout time.Duration `envconfig:"STUB_WRITE_TIMEOUT" default:"15s"`
	StubTokenTTL     time.Duration `envconfig:"STUB_TOKEN_TTL" default:"12h"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("api base url must be provided")
	}
	return &cfg, nil
}

// StatePath resolves the client state file location, defaulting to the
// user configuration directory.
func (c *Config) StatePath() (string, error) {
	dir := c.StateDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "pontoaula")
	}
	return filepath.Join(dir, "state.json"), nil
}

package arena

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey indicates the provider credential was not configured.
// It is fatal and surfaced before any run starts.
var ErrMissingAPIKey = errors.New("API key not configured")

var validate = validator.New()

// Config is the engine's configuration surface. It can be loaded from a
// YAML file, from environment variables, or both (environment wins).
type Config struct {
	// Provider selects the LLM backend.
	Provider string `yaml:"provider" validate:"required,oneof=anthropic openai google"`

	// APIKey authenticates against the provider.
	APIKey string `yaml:"api_key" validate:"required"`

	// Model overrides the provider's default model when set.
	Model string `yaml:"model"`

	// MaxConcurrentMatches caps simultaneous grading calls.
	MaxConcurrentMatches int `yaml:"max_concurrent_matches" validate:"min=1,max=20"`

	// GradingTimeoutSeconds is the per-call deadline for grading calls.
	GradingTimeoutSeconds int `yaml:"grading_timeout_seconds" validate:"min=1,max=600"`
}

// DefaultConfig returns the configuration defaults before any source is
// applied.
func DefaultConfig() Config {
	return Config{
		Provider:              "anthropic",
		MaxConcurrentMatches:  5,
		GradingTimeoutSeconds: 60,
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML
// file, and environment overrides, then validates it. An empty path
// skips the file step.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration, mapping a missing credential to
// ErrMissingAPIKey so callers can distinguish it from shape errors.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: set ARENA_API_KEY or ANTHROPIC_API_KEY, or add api_key to the config file", ErrMissingAPIKey)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GradingTimeout returns the per-call deadline as a duration.
func (c *Config) GradingTimeout() time.Duration {
	return time.Duration(c.GradingTimeoutSeconds) * time.Second
}

// applyEnv overlays environment variables onto the configuration.
// ARENA_API_KEY wins over the provider-specific ANTHROPIC_API_KEY.
func (c *Config) applyEnv() {
	if v := os.Getenv("ARENA_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("ARENA_API_KEY"); v != "" {
		c.APIKey = v
	} else if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	if v := os.Getenv("ARENA_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("MAX_CONCURRENT_MATCHES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrentMatches = n
		}
	}
	if v := os.Getenv("GRADING_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.GradingTimeoutSeconds = n
		}
	}
}

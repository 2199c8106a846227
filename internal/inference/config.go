package inference

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL        = "http://localhost:11434"
	defaultModel          = "llama3.2-vision"
	defaultTimeoutSeconds = 300
)

// Config captures the connection parameters for the model runtime.
type Config struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Env names the environment variables that override Config values.
type Env struct {
	BaseURL string
	Model   string
	Timeout string
}

// Timeout returns the request deadline for a single inference call.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Finalize fills defaults, applies environment overrides, and validates.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.TimeoutSeconds > 0 {
		c.TimeoutSeconds = overlay.TimeoutSeconds
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) loadEnv(env *Env) error {
	if v := os.Getenv(env.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(env.Model); v != "" {
		c.Model = v
	}
	if v := os.Getenv(env.Timeout); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.Timeout, err)
		}
		c.TimeoutSeconds = seconds
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid inference base url %q: %w", c.BaseURL, err)
	}
	if c.Model == "" {
		return fmt.Errorf("inference model is required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("inference timeout must be positive")
	}
	return nil
}

// Package config loads service configuration from layered sources: a base
// TOML file, an optional environment-specific overlay, and MEDSCAN_* variable
// overrides, in increasing precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/vantrel/medscan/internal/inference"
	"github.com/vantrel/medscan/pkg/database"
	"github.com/vantrel/medscan/pkg/middleware"
	"github.com/vantrel/medscan/pkg/pagination"
	"github.com/vantrel/medscan/pkg/storage"
)

const (
	// BaseConfigFile is the always-loaded configuration file.
	BaseConfigFile = "config.toml"
	// EnvVar selects the environment overlay, e.g. MEDSCAN_ENV=production
	// loads config.production.toml on top of the base file.
	EnvVar = "MEDSCAN_ENV"
)

// Config is the root service configuration.
type Config struct {
	Environment     string `toml:"-"`
	ShutdownTimeout string `toml:"shutdown_timeout"`

	Server    ServerConfig     `toml:"server"`
	Database  database.Config  `toml:"database"`
	Storage   storage.Config   `toml:"storage"`
	Inference inference.Config `toml:"inference"`
	API       APIConfig        `toml:"api"`
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load builds the finalized configuration from the layered sources.
// Missing config files are not errors; defaults and environment variables
// alone form a valid configuration.
func Load(logger *slog.Logger) (*Config, error) {
	config := &Config{Environment: os.Getenv(EnvVar)}

	if err := loadFile(BaseConfigFile, config, logger); err != nil {
		return nil, err
	}

	if config.Environment != "" {
		overlay := &Config{}
		overlayFile := fmt.Sprintf("config.%s.toml", config.Environment)

		if err := loadFile(overlayFile, overlay, logger); err != nil {
			return nil, err
		}
		config.merge(overlay)
	}

	if err := config.finalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadFile(path string, into *Config, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("config file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	logger.Info("loaded config file", "path", path)
	return nil
}

func (c *Config) merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}

	c.Server.merge(overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Inference.Merge(&overlay.Inference)
	c.API.merge(overlay.API)
}

func (c *Config) finalize() error {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	if err := c.Server.finalize(serverEnv{
		Host: "MEDSCAN_SERVER_HOST",
		Port: "MEDSCAN_SERVER_PORT",
	}); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Database.Finalize(&database.Env{
		Host:            "MEDSCAN_DB_HOST",
		Port:            "MEDSCAN_DB_PORT",
		Name:            "MEDSCAN_DB_NAME",
		User:            "MEDSCAN_DB_USER",
		Password:        "MEDSCAN_DB_PASSWORD",
		SSLMode:         "MEDSCAN_DB_SSL_MODE",
		MaxOpenConns:    "MEDSCAN_DB_MAX_OPEN_CONNS",
		MaxIdleConns:    "MEDSCAN_DB_MAX_IDLE_CONNS",
		ConnMaxLifetime: "MEDSCAN_DB_CONN_MAX_LIFETIME",
		ConnTimeout:     "MEDSCAN_DB_CONN_TIMEOUT",
	}); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.Storage.Finalize(&storage.Env{
		ContainerName:    "MEDSCAN_STORAGE_CONTAINER",
		ConnectionString: "MEDSCAN_STORAGE_CONNECTION_STRING",
	}); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := c.Inference.Finalize(&inference.Env{
		BaseURL: "MEDSCAN_INFERENCE_BASE_URL",
		Model:   "MEDSCAN_INFERENCE_MODEL",
		Timeout: "MEDSCAN_INFERENCE_TIMEOUT",
	}); err != nil {
		return fmt.Errorf("inference config: %w", err)
	}

	if err := c.API.finalize(apiEnv{
		BasePath:      "MEDSCAN_API_BASE_PATH",
		MaxUploadSize: "MEDSCAN_API_MAX_UPLOAD_SIZE",
		Pagination: pagination.ConfigEnv{
			DefaultPageSize: "MEDSCAN_API_DEFAULT_PAGE_SIZE",
			MaxPageSize:     "MEDSCAN_API_MAX_PAGE_SIZE",
		},
		CORS: middleware.CORSEnv{
			Enabled: "MEDSCAN_API_CORS_ENABLED",
			Origins: "MEDSCAN_API_CORS_ORIGINS",
			MaxAge:  "MEDSCAN_API_CORS_MAX_AGE",
		},
	}); err != nil {
		return fmt.Errorf("api config: %w", err)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/vantrel/medscan/pkg/formatting"
	"github.com/vantrel/medscan/pkg/middleware"
	"github.com/vantrel/medscan/pkg/pagination"
)

// APIConfig holds HTTP API settings shared across modules.
type APIConfig struct {
	BasePath      string `toml:"base_path"`
	MaxUploadSize string `toml:"max_upload_size"`

	Pagination pagination.Config     `toml:"pagination"`
	CORS       middleware.CORSConfig `toml:"cors"`
}

type apiEnv struct {
	BasePath      string
	MaxUploadSize string
	Pagination    pagination.ConfigEnv
	CORS          middleware.CORSEnv
}

// MaxUploadSizeBytes returns the upload cap as a byte count.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxUploadSize)
	return n
}

func (c *APIConfig) finalize(env apiEnv) error {
	c.loadDefaults()
	c.loadEnv(env)

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Pagination.Finalize(&env.Pagination); err != nil {
		return err
	}
	return c.CORS.Finalize(&env.CORS)
}

func (c *APIConfig) merge(o APIConfig) {
	if o.BasePath != "" {
		c.BasePath = o.BasePath
	}
	if o.MaxUploadSize != "" {
		c.MaxUploadSize = o.MaxUploadSize
	}
	c.Pagination.Merge(&o.Pagination)
	c.CORS.Merge(&o.CORS)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv(env apiEnv) {
	if v := os.Getenv(env.BasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(env.MaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base_path must start with /")
	}
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	return nil
}

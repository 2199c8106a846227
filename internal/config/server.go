package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type serverEnv struct {
	Host string
	Port string
}

// Addr renders the listen address for net/http.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) finalize(env serverEnv) error {
	c.loadDefaults()
	if err := c.loadEnv(env); err != nil {
		return err
	}
	return c.validate()
}

func (c *ServerConfig) merge(o ServerConfig) {
	if o.Host != "" {
		c.Host = o.Host
	}
	if o.Port > 0 {
		c.Port = o.Port
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
}

func (c *ServerConfig) loadEnv(env serverEnv) error {
	if v := os.Getenv(env.Host); v != "" {
		c.Host = v
	}
	if v := os.Getenv(env.Port); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.Port, err)
		}
		c.Port = port
	}
	return nil
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Port)
	}
	return nil
}

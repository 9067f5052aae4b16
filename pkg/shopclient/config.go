package shopclient

import (
	"errors"
	"strings"
	"time"
)

// Config holds the storefront API client configuration
type Config struct {
	BaseURL   string        // e.g. http://localhost:8080
	Timeout   time.Duration // default 30s
	CacheSize int           // cached GET responses, default 256
	ClientID  string        // optional; adopted from the first response otherwise
}

// Validate checks the configuration and fills defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 256
	}
	return nil
}

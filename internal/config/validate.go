package config

import (
	"fmt"
	"strings"
)

// Validate проверяет значения, которые cleanenv не умеет проверить сам.
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("http_client_timeout must be > 0 (got %s)", c.RequestTimeout)
	}
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("generation.timeout must be > 0 (got %s)", c.Generation.Timeout)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be in [0, 2] (got %v)", c.Generation.Temperature)
	}
	if c.Generation.TopP <= 0 || c.Generation.TopP > 1 {
		return fmt.Errorf("generation.top_p must be in (0, 1] (got %v)", c.Generation.TopP)
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("gemini.model is required")
	}

	c.History.Backend = strings.ToLower(strings.TrimSpace(c.History.Backend))
	switch c.History.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("history.backend must be memory or redis (got %q)", c.History.Backend)
	}
	if c.History.MaxWords <= 0 {
		return fmt.Errorf("history.max_words must be > 0 (got %d)", c.History.MaxWords)
	}
	if c.History.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required for redis history backend")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("API key not found: set MOONSHOT_API_KEY in the environment or a .env file")

// Credentials holds the service API key. It is read from the environment only
// and is never written to the config file.
type Credentials struct {
	MoonshotKey string `env:"MOONSHOT_API_KEY"`
	FallbackKey string `env:"BREAKCHECK_API_KEY"`
}

// LoadCredentials reads Credentials from the process environment.
func LoadCredentials() (Credentials, error) {
	var c Credentials
	if err := env.Parse(&c); err != nil {
		return Credentials{}, fmt.Errorf("parsing credentials: %w", err)
	}
	return c, nil
}

// APIKey returns MOONSHOT_API_KEY, falling back to BREAKCHECK_API_KEY.
func (c Credentials) APIKey() (string, error) {
	if c.MoonshotKey != "" {
		return c.MoonshotKey, nil
	}
	if c.FallbackKey != "" {
		return c.FallbackKey, nil
	}
	return "", ErrMissingCredential
}

// String masks the key so a stray log line cannot leak it.
func (c Credentials) String() string {
	if _, err := c.APIKey(); err != nil {
		return "Credentials{unset}"
	}
	return "Credentials{set}"
}

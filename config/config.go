package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	// PostgreSQL (content: posts, case studies, modules, categories)
	DatabaseURL string `env:"DATABASE_URL"`

	// ClickHouse (analytics events)
	ClickHouseHost     string `env:"CLICKHOUSE_HOST"`
	ClickHousePort     int    `env:"CLICKHOUSE_NATIVE_PORT" envDefault:"9000"`
	ClickHouseDB       string `env:"CLICKHOUSE_DB_NAME"`
	ClickHouseUsername string `env:"CLICKHOUSE_USERNAME"`
	ClickHousePassword string `env:"CLICKHOUSE_PASSWORD"`

	// Session tokens minted after the OAuth callback
	JWTSecret string `env:"JWT_SECRET_KEY"`

	// OAuth identity provider
	OAuthClientID     string `env:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string `env:"OAUTH_CLIENT_SECRET"`
	OAuthAuthURL      string `env:"OAUTH_AUTH_URL"`
	OAuthTokenURL     string `env:"OAUTH_TOKEN_URL"`
	OAuthRedirectURL  string `env:"OAUTH_REDIRECT_URL"`

	// Frontend origin allowed by CORS
	FrontendOrigin string `env:"FE_ORIGIN" envDefault:"http://localhost:3000"`
}

// IsRelease reports whether the server runs in release mode. Cookie
// Secure flags key off this.
func (c Config) IsRelease() bool {
	return c.GinMode == "release"
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

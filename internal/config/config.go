package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ProviderKeys holds the API credentials for the three upstream providers.
type ProviderKeys struct {
	NewsAPI  string
	NewsData string
	Guardian string
}

// Config holds all configuration for the application
type Config struct {
	// Storage
	DBPath   string
	RedisURL string

	// Server settings
	ServerHost string
	ServerPort int
	APIKey     string

	// Ingestion settings
	Providers       ProviderKeys
	Interval        time.Duration
	ProviderTimeout time.Duration

	// Token codec
	HashSalt string

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns an initial configuration with hardcoded defaults.
// Provider credentials and the API key only come from the environment.
func DefaultConfig() *Config {
	logLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		DBPath:     DefaultDBPath,
		RedisURL:   DefaultRedisURL,
		ServerHost: DefaultServerHost,
		ServerPort: DefaultServerPort,
		APIKey:     GetEnvString("NEWSLOOM_API_KEY", ""),
		Providers: ProviderKeys{
			NewsAPI:  GetEnvString("NEWSLOOM_NEWSAPI_KEY", ""),
			NewsData: GetEnvString("NEWSLOOM_NEWSDATA_KEY", ""),
			Guardian: GetEnvString("NEWSLOOM_GUARDIAN_KEY", ""),
		},
		Interval:        time.Duration(DefaultInterval) * time.Minute,
		ProviderTimeout: time.Duration(DefaultProviderTimeout) * time.Second,
		HashSalt:        GetEnvString("NEWSLOOM_HASH_SALT", DefaultHashSalt),
		LogLevel:        logLevel,
	}
}

// ListenAddr returns the formatted listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

package config

// Constants defining default values for application configuration
const (
	DefaultDBPath   = "./newsloom.db"
	DefaultRedisURL = "redis://localhost:6379/0"

	DefaultServerPort = 8080
	DefaultServerHost = "" // Empty string means all interfaces

	DefaultInterval        = 60 // Minutes between ingestion runs
	DefaultProviderTimeout = 15 // Seconds per provider request

	DefaultPerPage = 10
	MaxPerPage     = 100

	DefaultLogLevel = "info"

	// Salt for the public id token codec. Changing it invalidates every
	// token already handed out to clients.
	DefaultHashSalt = "newsloom"
)

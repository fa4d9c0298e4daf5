package config

// Defaults
const (
	DefaultPrefix = "/usr/local"

	// MaxRetries bounds extra download attempts; the backoff doubles each time.
	MaxRetries = 10
)

// Environment variables
const (
	EnvPrefix  = "MIA_PREFIX"
	EnvConfig  = "MIA_CONFIG"
	EnvVersion = "MIA_VERSION"
	EnvBaseURL = "MIA_BASE_URL"
)

// Lua schema field names and globals
const (
	luaGlobalMia       = "mia"
	luaFieldPrefix     = "prefix"
	luaFieldVersion    = "version"
	luaFieldBaseURL    = "base_url"
	luaFieldDisable    = "disable_sudo"
	luaFieldRetries    = "retries"
	maxConfigSizeBytes = 1 << 20
)

// Legacy config layout
const (
	legacyConfigName    = ".algorithmia"
	legacyMigratingName = ".algorithmia.migrating"
	migratedConfigName  = "config"
)

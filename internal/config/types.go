package config

// Config represents the complete voicetyprd configuration.
type Config struct {
	App   AppConfig   `yaml:"app"`
	API   APIConfig   `yaml:"api,omitempty"`
	Logs  LogsConfig  `yaml:"logs,omitempty"`
	Vault VaultConfig `yaml:"vault,omitempty"`
	Paths PathsConfig `yaml:"paths,omitempty"`
}

// AppConfig defines core application settings.
type AppConfig struct {
	// Identifier is the OS-level bundle identifier. Dev and prod builds use
	// different identifiers so they clear their own preference records
	// independently.
	Identifier string `yaml:"identifier"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

// APIConfig defines the local HTTP API settings.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	// APIKey is the bearer token required on all /v1 endpoints.
	APIKey string `yaml:"api_key"`
}

// LogsConfig defines log file retention settings.
type LogsConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

// VaultConfig controls the secure credential store.
type VaultConfig struct {
	// PassphraseEnv names the environment variable that carries the vault
	// passphrase. The passphrase itself never lives in the config file.
	PassphraseEnv string `yaml:"passphrase_env"`
}

// PathsConfig optionally pins directories that are otherwise resolved from
// the platform conventions. Used for relocated installs and tests.
type PathsConfig struct {
	DataDir  string `yaml:"data_dir,omitempty"`
	LogDir   string `yaml:"log_dir,omitempty"`
	CacheDir string `yaml:"cache_dir,omitempty"`
}

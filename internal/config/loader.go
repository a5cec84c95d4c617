// Package config handles configuration loading, saving, and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultIdentifier is the production bundle identifier.
	DefaultIdentifier = "com.ideaplexa.voicetypr"

	// DefaultRetentionDays is how long dated log files are kept.
	DefaultRetentionDays = 30

	// FileName is the config file name.
	FileName = "voicetyprd.yaml"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Identifier: DefaultIdentifier,
			LogLevel:   "INFO",
			LogFormat:  "json",
		},
		API: APIConfig{
			Enabled: true,
			Listen:  "127.0.0.1:43117",
		},
		Logs: LogsConfig{
			RetentionDays: DefaultRetentionDays,
		},
		Vault: VaultConfig{
			PassphraseEnv: "VOICETYPRD_VAULT_PASSPHRASE",
		},
	}
}

// Load reads and parses configuration from a file, applying defaults for
// unset fields. A missing file yields the defaults, not an error.
func Load(configPath string) (*Config, error) {
	cfg, err := LoadYAMLOrDefault(configPath, Default)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DiscoverConfigPath finds the config file by checking standard locations.
// Priority order: $VOICETYPRD_CONFIG, ~/.config/voicetyprd/, /etc/voicetyprd/.
// If none exists, the user location is returned so Load falls back to defaults.
func DiscoverConfigPath() (string, error) {
	if path := os.Getenv("VOICETYPRD_CONFIG"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	userPath := filepath.Join(home, ".config", "voicetyprd", FileName)
	if FileExists(userPath) {
		return userPath, nil
	}

	etcPath := filepath.Join("/etc", "voicetyprd", FileName)
	if FileExists(etcPath) {
		return etcPath, nil
	}

	return userPath, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.App.Identifier == "" {
		cfg.App.Identifier = def.App.Identifier
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = def.App.LogLevel
	}
	if cfg.App.LogFormat == "" {
		cfg.App.LogFormat = def.App.LogFormat
	}
	if cfg.API.Listen == "" {
		cfg.API.Listen = def.API.Listen
	}
	if cfg.Logs.RetentionDays == 0 {
		cfg.Logs.RetentionDays = def.Logs.RetentionDays
	}
	if cfg.Vault.PassphraseEnv == "" {
		cfg.Vault.PassphraseEnv = def.Vault.PassphraseEnv
	}
}

func validate(cfg *Config) error {
	if cfg.App.Identifier == "" {
		return fmt.Errorf("app.identifier is required")
	}
	if cfg.Logs.RetentionDays < 0 {
		return fmt.Errorf("logs.retention_days must be non-negative")
	}
	if cfg.API.Enabled && cfg.API.Listen == "" {
		return fmt.Errorf("api.listen is required when API is enabled")
	}
	return nil
}

// LoadYAML loads a YAML file into the provided struct.
func LoadYAML(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}
	return nil
}

// SaveYAML saves a struct to a YAML file.
func SaveYAML(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadYAMLOrDefault loads a YAML file, or returns default if file doesn't exist.
func LoadYAMLOrDefault[T any](path string, defaultFn func() *T) (*T, error) {
	if !FileExists(path) {
		return defaultFn(), nil
	}

	var v T
	if err := LoadYAML(path, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

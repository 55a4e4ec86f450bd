package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete armory configuration
type Config struct {
	Version int    `json:"version" mapstructure:"version"`
	DataDir string `json:"dataDir" mapstructure:"dataDir"`

	Seed    SeedConfig    `json:"seed" mapstructure:"seed"`
	Backup  BackupConfig  `json:"backup" mapstructure:"backup"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// SeedConfig controls reference-data synchronization behavior
type SeedConfig struct {
	// DemoWeapons enables inserting demonstration weapons into an empty store.
	// Disabled in the shipped configuration; the mechanism stays available.
	DemoWeapons bool `json:"demoWeapons" mapstructure:"demoWeapons"`
}

// BackupConfig contains backup settings
type BackupConfig struct {
	// Dir overrides the default <dataDir>/backups location when non-empty
	Dir string `json:"dir" mapstructure:"dir"`
	// Compress writes gzip-compressed backup artifacts
	Compress bool `json:"compress" mapstructure:"compress"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Seed: SeedConfig{
			DemoWeapons: false,
		},
		Backup: BackupConfig{
			Dir:      "",
			Compress: false,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <dataDir>/config.json
func LoadConfig(dataDir string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("version", 1)
	v.SetDefault("seed.demoWeapons", false)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dataDir)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := DefaultConfig()
			cfg.DataDir = dataDir
			return cfg, nil
		}
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	return &cfg, nil
}

// Save writes the configuration to <dataDir>/config.json
func (c *Config) Save(dataDir string) error {
	configPath := filepath.Join(dataDir, "config.json")

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(configPath, data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}

	switch c.Logging.Format {
	case "", "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be \"human\" or \"json\""}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

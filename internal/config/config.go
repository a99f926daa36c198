// Package config provides Viper-based configuration loading for the tracker.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// DataConfig locates on-disk inputs.
type DataConfig struct {
	// Dir holds encounter files for the file backend and the default log file.
	Dir string `mapstructure:"dir"`
	// Bestiary is the creature source: .csv, .yaml or .yml. Empty disables it.
	Bestiary string `mapstructure:"bestiary"`
}

// SessionConfig holds interactive session settings.
type SessionConfig struct {
	// Autosave is the encounter id loaded at startup and written at exit.
	Autosave string `mapstructure:"autosave"`
	// Players is the encounter id loaded when the autosave cannot be.
	Players string `mapstructure:"players"`
	// Prompt is printed before every command.
	Prompt string `mapstructure:"prompt"`
	// HistorySize caps the number of remembered command lines.
	HistorySize int `mapstructure:"history_size"`
	// ScriptInstructionLimit caps Lua opcodes per script; 0 uses the scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// StorageConfig selects where encounters are persisted.
type StorageConfig struct {
	// Backend is "file" or "postgres".
	Backend string `mapstructure:"backend"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// ConnectTimeout bounds dialing and the startup ping; 0 waits on ctx alone.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout" or a file path. Empty means tracker.log in the data directory.
	Output string `mapstructure:"output"`
}

// Config is the top-level application configuration.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Session  SessionConfig  `mapstructure:"session"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateData(c.Data); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSession(c.Session); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Backend == BackendPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateData(d DataConfig) error {
	if d.Dir == "" {
		return fmt.Errorf("data.dir must not be empty")
	}
	if d.Bestiary != "" {
		switch strings.ToLower(filepath.Ext(d.Bestiary)) {
		case ".csv", ".yaml", ".yml":
		default:
			return fmt.Errorf("data.bestiary must be a .csv, .yaml or .yml file, got %q", d.Bestiary)
		}
	}
	return nil
}

func validateSession(s SessionConfig) error {
	var errs []string
	ids := []struct{ key, id string }{
		{"session.autosave", s.Autosave},
		{"session.players", s.Players},
	}
	for _, e := range ids {
		if e.id == "" || e.id == "." || e.id == ".." || strings.ContainsAny(e.id, `/\`) {
			errs = append(errs, fmt.Sprintf("%s must be a plain encounter id, got %q", e.key, e.id))
		}
	}
	if s.HistorySize < 1 {
		errs = append(errs, fmt.Sprintf("session.history_size must be >= 1, got %d", s.HistorySize))
	}
	if s.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("session.script_instruction_limit must be >= 0, got %d", s.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	if s.Backend != BackendFile && s.Backend != BackendPostgres {
		return fmt.Errorf("storage.backend must be one of [file, postgres], got %q", s.Backend)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if d.ConnectTimeout < 0 {
		errs = append(errs, fmt.Sprintf("database.connect_timeout must be >= 0, got %s", d.ConnectTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// NewViper returns a Viper instance with defaults and TRACKER_ environment
// overrides applied. If path is non-empty it is set as the config file.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}

	// Environment variable overrides with TRACKER_ prefix
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if cfg.Logging.Output == "" && cfg.Data.Dir != "" {
		cfg.Logging.Output = filepath.Join(cfg.Data.Dir, "tracker.log")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.bestiary", "data/monsters.csv")

	v.SetDefault("session.autosave", "autosave")
	v.SetDefault("session.players", "players")
	v.SetDefault("session.prompt", "~$ ")
	v.SetDefault("session.history_size", 100)
	v.SetDefault("session.script_instruction_limit", 100_000)

	v.SetDefault("storage.backend", BackendFile)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "tracker")
	v.SetDefault("database.password", "tracker")
	v.SetDefault("database.name", "tracker")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.connect_timeout", "5s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "")
}

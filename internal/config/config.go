// Package config loads application configuration from the environment and an
// optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"sedcoRecords/internal/auth"
	"sedcoRecords/internal/db"
)

const devSessionSecret = "dev-secret-change-me"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	Admin    AdminConfig
	Client   ClientConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path       string // SQLite database file path
	SampleData bool   // seed one demo entrepreneur into an empty store
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	SessionSecret   string        // HS256 signing secret for session tokens
	SessionTTL      time.Duration // lifetime of a session token
	BcryptCost      int
	MaxAttempts     int           // failed logins before lockout
	LockoutDuration time.Duration // how long a lockout lasts
}

// AdminConfig is the administrator account created on first start.
type AdminConfig struct {
	Email    string
	Name     string
	Password string
}

// ClientConfig contains settings of the local client state.
type ClientConfig struct {
	StatePath string // YAML file holding session, remembered email and lockout state
}

// env mirrors the flat variable names read through Viper.
type env struct {
	DBPath          string `mapstructure:"DB_PATH"`
	SeedSampleData  bool   `mapstructure:"SEED_SAMPLE_DATA"`
	SessionSecret   string `mapstructure:"SESSION_SECRET"`
	SessionTTL      string `mapstructure:"SESSION_TTL"`
	BcryptCost      int    `mapstructure:"BCRYPT_COST"`
	AdminEmail      string `mapstructure:"ADMIN_EMAIL"`
	AdminName       string `mapstructure:"ADMIN_NAME"`
	AdminPassword   string `mapstructure:"ADMIN_PASSWORD"`
	StatePath       string `mapstructure:"STATE_PATH"`
	MaxAttempts     int    `mapstructure:"LOGIN_MAX_ATTEMPTS"`
	LockoutDuration string `mapstructure:"LOCKOUT_DURATION"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment. SESSION_SECRET is required.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.SessionSecret == "" {
		return nil, errors.New("config: SESSION_SECRET is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a default SESSION_SECRET.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load(devSessionSecret)
}

func load(secretDefault string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("DB_PATH", db.DefaultPath)
	v.SetDefault("SEED_SAMPLE_DATA", true)
	v.SetDefault("SESSION_SECRET", secretDefault)
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("ADMIN_EMAIL", "admin@sedco.gov.my")
	v.SetDefault("ADMIN_NAME", "Admin User")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("STATE_PATH", ".sedco-state.yaml")
	v.SetDefault("LOGIN_MAX_ATTEMPTS", auth.DefaultMaxAttempts)
	v.SetDefault("LOCKOUT_DURATION", auth.DefaultLockoutDuration.String())

	var e env
	if err := v.Unmarshal(&e); err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(e.SessionTTL)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("config: invalid SESSION_TTL %q", e.SessionTTL)
	}
	lockout, err := time.ParseDuration(e.LockoutDuration)
	if err != nil || lockout <= 0 {
		return nil, fmt.Errorf("config: invalid LOCKOUT_DURATION %q", e.LockoutDuration)
	}
	if e.BcryptCost < bcrypt.MinCost || e.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("config: BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if e.MaxAttempts <= 0 {
		return nil, errors.New("config: LOGIN_MAX_ATTEMPTS must be positive")
	}
	if e.DBPath == "" {
		return nil, errors.New("config: DB_PATH must be set")
	}

	return &Config{
		Database: DatabaseConfig{Path: e.DBPath, SampleData: e.SeedSampleData},
		Auth: AuthConfig{
			SessionSecret:   e.SessionSecret,
			SessionTTL:      ttl,
			BcryptCost:      e.BcryptCost,
			MaxAttempts:     e.MaxAttempts,
			LockoutDuration: lockout,
		},
		Admin:  AdminConfig{Email: e.AdminEmail, Name: e.AdminName, Password: e.AdminPassword},
		Client: ClientConfig{StatePath: e.StatePath},
	}, nil
}

// StoreConfig returns the store settings derived from c.
func (c *Config) StoreConfig() db.StoreConfig {
	return db.StoreConfig{
		Path: c.Database.Path,
		Seed: db.SeedConfig{
			AdminEmail:    c.Admin.Email,
			AdminName:     c.Admin.Name,
			AdminPassword: c.Admin.Password,
			SampleData:    c.Database.SampleData,
		},
	}
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, State: %s, Admin: %s, Lockout: %d/%s, Auth: *** (masked) ***}",
		c.Database.Path, c.Client.StatePath, c.Admin.Email, c.Auth.MaxAttempts, c.Auth.LockoutDuration)
}

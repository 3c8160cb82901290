package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/edulearn/backend/internal/pkg/helpers"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port               string   `yaml:"port" env:"SERVER_PORT"`
		Mode               string   `yaml:"mode" env:"SERVER_MODE"`
		StoragePath        string   `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		PublicPrefix       string   `yaml:"public_prefix" env:"SERVER_PUBLIC_PREFIX"`
		MaxUploadBytes     int64    `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES"`
		MaxBulkUploadBytes int64    `yaml:"max_bulk_upload_bytes" env:"SERVER_MAX_BULK_UPLOAD_BYTES"`
		CORSOrigins        []string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS" envSeparator:","`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsPath  string `yaml:"migrations_path" env:"DB_MIGRATIONS_PATH"`
	} `yaml:"database"`

	JWT struct {
		Secret               string `yaml:"secret" env:"JWT_SECRET"`
		Issuer               string `yaml:"issuer" env:"JWT_ISSUER"`
		Header               string `yaml:"header" env:"JWT_HEADER"`
		UserTokenExpiration  string `yaml:"user_token_expiration" env:"JWT_USER_TOKEN_EXPIRATION"`
		AdminTokenExpiration string `yaml:"admin_token_expiration" env:"JWT_ADMIN_TOKEN_EXPIRATION"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Content struct {
		// CascadeSubjectDelete removes a subject's topics and contents with it.
		// When false the topics and contents are kept with a cleared parent reference.
		CascadeSubjectDelete bool `yaml:"cascade_subject_delete" env:"CONTENT_CASCADE_SUBJECT_DELETE"`
		// AtomicBulkUpload writes a whole bulk payload in one transaction.
		AtomicBulkUpload bool `yaml:"atomic_bulk_upload" env:"CONTENT_ATOMIC_BULK_UPLOAD"`
	} `yaml:"content"`

	Security struct {
		LoginRatePerMinute float64 `yaml:"login_rate_per_minute" env:"SECURITY_LOGIN_RATE_PER_MINUTE"`
		LoginBurst         int     `yaml:"login_burst" env:"SECURITY_LOGIN_BURST"`
	} `yaml:"security"`

	Seed struct {
		Enabled       bool   `yaml:"enabled" env:"SEED_ENABLED"`
		AdminUsername string `yaml:"admin_username" env:"SEED_ADMIN_USERNAME"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		AdminRole     string `yaml:"admin_role" env:"SEED_ADMIN_ROLE"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from defaults, an optional YAML file, an optional
// .env file and the process environment, in that order of precedence (last wins).
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.PublicPrefix = "/uploads"
	config.Server.MaxUploadBytes = 50 << 20
	config.Server.MaxBulkUploadBytes = 10 << 20
	config.Server.CORSOrigins = []string{"*"}

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "edulearn"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsPath = "migrations"

	config.JWT.Issuer = "edulearn"
	config.JWT.Header = "x-auth-token"
	config.JWT.UserTokenExpiration = "24h"
	config.JWT.AdminTokenExpiration = "168h"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Content.CascadeSubjectDelete = true
	config.Content.AtomicBulkUpload = false

	config.Security.LoginRatePerMinute = 10
	config.Security.LoginBurst = 5

	config.Seed.Enabled = true
	config.Seed.AdminUsername = "admin"
	config.Seed.AdminEmail = "admin@edulearn.com"
	config.Seed.AdminPassword = "admin123"
	config.Seed.AdminRole = "superadmin"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if strings.TrimSpace(config.JWT.Header) == "" {
		return fmt.Errorf("JWT header name is required")
	}

	if _, err := helpers.ParseDurationStrict(config.JWT.UserTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT user token expiration format: %w", err)
	}
	if _, err := helpers.ParseDurationStrict(config.JWT.AdminTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT admin token expiration format: %w", err)
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server max_upload_bytes must be positive")
	}
	if config.Server.MaxBulkUploadBytes <= 0 {
		return fmt.Errorf("server max_bulk_upload_bytes must be positive")
	}
	if config.Server.StoragePath == "" {
		return fmt.Errorf("server storage_path is required")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

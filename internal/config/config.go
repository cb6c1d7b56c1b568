package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yigit/campuscare/internal/pkg/helpers"
	"gopkg.in/yaml.v3"
)

// Supported storage drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
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
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		MongoURI        string `yaml:"mongo_uri" env:"MONGO_URI"`
		MongoDatabase   string `yaml:"mongo_database" env:"MONGO_DATABASE"`
	} `yaml:"database"`

	JWT struct {
		TokenTTL string `yaml:"token_ttl" env:"JWT_TOKEN_TTL"`
		Issuer   string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Stream struct {
		BaseURL string `yaml:"base_url" env:"STREAM_BASE_URL"`
		APIKey  string `yaml:"api_key" env:"STREAM_API_KEY"`
		// APISecret signs student tokens.
		APISecret string `yaml:"api_secret" env:"STREAM_API_SECRET"`
		// ServiceToken authorizes server-side calls to Stream.
		ServiceToken string `yaml:"service_token" env:"STREAM_API_TOKEN"`
		MaxAttempts  int    `yaml:"max_attempts" env:"STREAM_MAX_ATTEMPTS"`
	} `yaml:"stream"`

	Assignment struct {
		MaxAttempts int `yaml:"max_attempts" env:"ASSIGNMENT_MAX_ATTEMPTS"`
	} `yaml:"assignment"`

	Timeouts struct {
		Storage  string `yaml:"storage" env:"TIMEOUT_STORAGE"`
		External string `yaml:"external" env:"TIMEOUT_EXTERNAL"`
	} `yaml:"timeouts"`

	Phone struct {
		DefaultRegion string `yaml:"default_region" env:"PHONE_DEFAULT_REGION"`
	} `yaml:"phone"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	} `yaml:"cors"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS"`
		Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
	} `yaml:"rate_limit"`

	Security struct {
		BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
	} `yaml:"security"`

	Seed struct {
		Counselors int `yaml:"counselors" env:"SEED_COUNSELORS"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, a .env file in the working
// directory and environment variables, in increasing precedence
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Variables already present in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "campuscare"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"
	config.Database.MongoURI = "mongodb://localhost:27017"
	config.Database.MongoDatabase = "campuscare"

	// 1000 days
	config.JWT.TokenTTL = "24000h"
	config.JWT.Issuer = "campuscare"

	config.Stream.MaxAttempts = 3
	config.Assignment.MaxAttempts = 5

	config.Timeouts.Storage = "5s"
	config.Timeouts.External = "10s"

	config.Phone.DefaultRegion = "NG"

	config.CORS.AllowedOrigins = []string{"*"}

	config.RateLimit.RequestsPerSecond = 5
	config.RateLimit.Burst = 10

	config.Security.BcryptCost = 12

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case DriverMongo:
		if config.Database.MongoURI == "" {
			return fmt.Errorf("mongo uri is required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Stream.APISecret == "" {
		return fmt.Errorf("stream api secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.TokenTTL); err != nil {
		return fmt.Errorf("invalid JWT token ttl format: %w", err)
	}

	if config.Assignment.MaxAttempts < 1 {
		return fmt.Errorf("assignment max attempts must be at least 1")
	}

	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Mode, "development")
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

// ConnMaxLifetime is the parsed database connection lifetime
func (c *Config) ConnMaxLifetime() time.Duration {
	return helpers.ParseDuration(c.Database.ConnMaxLifetime, time.Hour)
}

// TokenTTL is the parsed validity of issued student tokens
func (c *Config) TokenTTL() time.Duration {
	return helpers.ParseDuration(c.JWT.TokenTTL, 24000*time.Hour)
}

// StorageTimeout bounds every storage round trip
func (c *Config) StorageTimeout() time.Duration {
	return helpers.ParseDuration(c.Timeouts.Storage, 5*time.Second)
}

// ExternalTimeout bounds every call to an external service
func (c *Config) ExternalTimeout() time.Duration {
	return helpers.ParseDuration(c.Timeouts.External, 10*time.Second)
}

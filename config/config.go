package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// DriverPostgres selects the PostgreSQL gorm driver
	DriverPostgres = "postgres"
	// DriverMySQL selects the MySQL gorm driver
	DriverMySQL = "mysql"
	// DriverSQLite selects the SQLite gorm driver (local file or :memory:)
	DriverSQLite = "sqlite"

	defaultJWTSecret = "dev-only-change-me"
)

// Config holds all application configuration
type Config struct {
	DatabaseDriver     string        `env:"DATABASE_DRIVER" env-default:"postgres"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	Port               string        `env:"PORT" env-default:"8080"`
	GoEnv              string        `env:"GO_ENV" env-default:"development"`
	JWTSecret          string        `env:"JWT_SECRET" env-default:"dev-only-change-me"`
	JWTIssuer          string        `env:"JWT_ISSUER" env-default:"el-ostaa-api"`
	JWTAudience        string        `env:"JWT_AUDIENCE" env-default:"el-ostaa"`
	TokenTTL           time.Duration `env:"TOKEN_TTL" env-default:"24h"`
	ManagerPassword    string        `env:"MANAGER_PASSWORD" env-default:"manager123"`
	StaffAdminPassword string        `env:"STAFF_ADMIN_PASSWORD" env-default:"admin123"`
	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" env-default:"0"`
	AWSRegion          string        `env:"AWS_REGION" env-default:"us-east-1"`
	AWSS3Bucket        string        `env:"AWS_S3_BUCKET"`
	AWSAccessKeyID     string        `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string        `env:"AWS_SECRET_ACCESS_KEY"`
	UploadDir          string        `env:"UPLOAD_DIR" env-default:"./uploads"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
	ReadTimeout        time.Duration `env:"READ_TIMEOUT" env-default:"15s"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT" env-default:"15s"`
	LogLevel           string        `env:"LOG_LEVEL" env-default:"info"`
}

var current *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// Hosted deployments set variables directly
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	current = cfg
	return cfg, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverMySQL:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for driver %q", c.DatabaseDriver)
		}
	case DriverSQLite:
		// empty URL falls back to a local file
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// UsesS3 reports whether uploaded images and backups go to S3
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

// UsesRedis reports whether a Redis server is configured
func (c *Config) UsesRedis() bool {
	return c.RedisAddr != ""
}

// GetConfig returns the configuration loaded by Load or set by SetConfig
func GetConfig() *Config {
	return current
}

// SetConfig replaces the active configuration (primarily for testing)
func SetConfig(cfg *Config) {
	current = cfg
}

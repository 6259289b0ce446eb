package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"retail-ledger/internal/domain"
)

const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
)

type Config struct {
	// Persistence
	DataBackend string
	DataFile    string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// HTTP Server
	ServerPort string

	// Logging
	LogLevel  string
	LogFormat string

	// Checking account policy
	CheckingLimit          string
	CheckingMaxWithdrawals string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DataBackend: getEnv("DATA_BACKEND", BackendJSON),
		DataFile:    getEnv("DATA_FILE", "banco_dados.json"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "retail_ledger"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		ServerPort: getEnv("SERVER_PORT", "8080"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		CheckingLimit:          getEnv("CHECKING_LIMIT", "500"),
		CheckingMaxWithdrawals: getEnv("CHECKING_MAX_WITHDRAWALS", "3"),
	}
}

// Validate returns one error listing every invalid setting.
func (c *Config) Validate() error {
	var errors []string

	switch c.DataBackend {
	case BackendJSON:
		if c.DataFile == "" {
			errors = append(errors, "data file cannot be empty when using json backend")
		}
	case BackendPostgres:
		if c.DBHost == "" || c.DBName == "" || c.DBUser == "" {
			errors = append(errors, "DB_HOST, DB_NAME and DB_USER are required when using postgres backend")
		}
		if port, err := strconv.Atoi(c.DBPort); err != nil || port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid database port '%s'", c.DBPort))
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]",
			c.DataBackend, BackendJSON, BackendPostgres))
	}

	// "0" lets the OS pick a free port.
	if port, err := strconv.Atoi(c.ServerPort); err != nil {
		errors = append(errors, fmt.Sprintf("invalid server port '%s': must be a number", c.ServerPort))
	} else if port < 0 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid server port %d: must be between 0 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if limit, err := decimal.NewFromString(c.CheckingLimit); err != nil {
		errors = append(errors, fmt.Sprintf("invalid checking limit '%s': must be a decimal", c.CheckingLimit))
	} else if !limit.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid checking limit %s: must be positive", c.CheckingLimit))
	}
	if n, err := strconv.Atoi(c.CheckingMaxWithdrawals); err != nil {
		errors = append(errors, fmt.Sprintf("invalid max withdrawals '%s': must be a number", c.CheckingMaxWithdrawals))
	} else if n < 0 {
		errors = append(errors, fmt.Sprintf("invalid max withdrawals %d: cannot be negative", n))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// GetDBConnectionString builds the lib/pq connection string.
func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// CheckingPolicy returns the configured withdrawal policy. Invalid values
// fall back to the defaults; Validate reports them.
func (c *Config) CheckingPolicy() domain.CheckingPolicy {
	policy := domain.DefaultCheckingPolicy()
	if limit, err := decimal.NewFromString(c.CheckingLimit); err == nil && limit.IsPositive() {
		policy.Limit = limit
	}
	if n, err := strconv.Atoi(c.CheckingMaxWithdrawals); err == nil && n >= 0 {
		policy.MaxWithdrawals = n
	}
	return policy
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

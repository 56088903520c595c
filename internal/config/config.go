// Package config reads the configuration from the environment.
//
// A .env file in the working directory is loaded first if it exists. Variables
// that are already set in the environment take precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SimplePlanningStudio/EasyBudget-sub001/internal/models"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	APIURL      string
	Port        string
	GinMode     string
	CORSOrigins []string
	EnablePprof bool

	// Logging
	LogFormat string

	// Database
	DBPath string

	// Behavior
	CategoryDeletePolicy     models.CategoryDeletePolicy
	TransactionHorizonMonths int
	BudgetHorizonMonths      int

	// Worker
	WorkerInterval time.Duration

	// AMQP. Events are not published when the URL is empty.
	AMQPURL      string
	AMQPExchange string
}

// Load reads the configuration. The result is not validated.
func Load() *Config {
	// Missing .env files are fine, e.g. in containers
	_ = godotenv.Load()

	return &Config{
		APIURL:      getEnv("API_URL", ""),
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "release"),
		CORSOrigins: strings.Fields(getEnv("CORS_ALLOW_ORIGINS", "")),
		EnablePprof: getEnv("ENABLE_PPROF", "false") == "true",

		LogFormat: getEnv("LOG_FORMAT", ""),

		DBPath: getEnv("DB_PATH", "data/easybudget.db"),

		CategoryDeletePolicy:     models.CategoryDeletePolicy(getEnv("CATEGORY_DELETE_POLICY", string(models.Orphan))),
		TransactionHorizonMonths: getEnvInt("TRANSACTION_HORIZON_MONTHS", models.HorizonMonths[models.TransactionSeries]),
		BudgetHorizonMonths:      getEnvInt("BUDGET_HORIZON_MONTHS", models.HorizonMonths[models.BudgetSeries]),

		WorkerInterval: getEnvDuration("RECURRING_WORKER_INTERVAL", time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "easybudget"),
	}
}

// Validate validates the configuration and returns an error listing all
// problems
func (c *Config) Validate() error {
	var errors []string

	if c.APIURL == "" {
		errors = append(errors, "API_URL must be set to the URL the API is reachable at")
	} else if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid API URL '%s': must be an absolute URL", c.APIURL))
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errors = append(errors, fmt.Sprintf("invalid gin mode '%s': must be one of debug, release, test", c.GinMode))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if !c.CategoryDeletePolicy.Valid() {
		errors = append(errors, fmt.Sprintf("invalid category delete policy '%s': must be one of orphan, cascade, reassignToMisc", c.CategoryDeletePolicy))
	}

	if c.TransactionHorizonMonths < 1 {
		errors = append(errors, fmt.Sprintf("invalid transaction horizon %d: must be at least 1 month", c.TransactionHorizonMonths))
	}

	if c.BudgetHorizonMonths < 1 {
		errors = append(errors, fmt.Sprintf("invalid budget horizon %d: must be at least 1 month", c.BudgetHorizonMonths))
	}

	if c.WorkerInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid worker interval %v: must be at least 1 second", c.WorkerInterval))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// HorizonMonths returns the materialization horizons per series kind.
func (c *Config) HorizonMonths() map[models.SeriesKind]int {
	return map[models.SeriesKind]int{
		models.TransactionSeries: c.TransactionHorizonMonths,
		models.BudgetSeries:      c.BudgetHorizonMonths,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Telegram
	BotToken string

	// Database
	DataBackend  string // sqlite | postgres | memory
	SQLiteDBPath string
	PostgresURL  string

	// AMQP (optional event stream)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Intent gateway
	ModelType      string // openai | local
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	LocalModelURL  string
	LocalModelName string

	// LLM request timeout
	ModelTimeout time.Duration
}

func Load() *Config {
	return &Config{
		BotToken: getEnv("BOT_TOKEN", ""),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/dime.db"),
		PostgresURL:  getEnv("POSTGRES_URL", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "dime"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),

		ModelType:      getEnv("MODEL_TYPE", "local"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LocalModelURL:  getEnv("LOCAL_MODEL_URL", "http://localhost:11434/v1"),
		LocalModelName: getEnv("LOCAL_MODEL_NAME", "llama3"),

		ModelTimeout: getEnvDuration("MODEL_TIMEOUT", 30*time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	validBackends := []string{"sqlite", "postgres", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
	}
	if c.DataBackend == "postgres" && c.PostgresURL == "" {
		errs = append(errs, "POSTGRES_URL is required when using postgres backend")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.ModelType {
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, "OPENAI_API_KEY is required when MODEL_TYPE is openai")
		}
	case "local":
		if c.LocalModelURL == "" {
			errs = append(errs, "LOCAL_MODEL_URL is required when MODEL_TYPE is local")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid model type '%s': must be 'openai' or 'local'", c.ModelType))
	}

	if c.ModelTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid model timeout %v: must be at least 1 second", c.ModelTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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

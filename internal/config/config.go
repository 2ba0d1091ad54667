package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
		// BaseURL is the public base URL used to build magic links
		BaseURL string `yaml:"base_url" env:"APP_BASE_URL"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Email struct {
		// Provider selects the sender: sendgrid, smtp or console
		Provider    string `yaml:"provider" env:"EMAIL_PROVIDER"`
		SendgridKey string `yaml:"sendgrid_key" env:"SENDGRID_API_KEY"`
		SMTPHost    string `yaml:"smtp_host" env:"SMTP_HOST"`
		SMTPPort    int    `yaml:"smtp_port" env:"SMTP_PORT"`
		SMTPUser    string `yaml:"smtp_user" env:"SMTP_USER"`
		SMTPPass    string `yaml:"smtp_pass" env:"SMTP_PASS"`
		FromName    string `yaml:"from_name" env:"FROM_NAME"`
		FromEmail   string `yaml:"from_email" env:"FROM_EMAIL"`
	} `yaml:"email"`

	Mailer struct {
		DelayMinMS int `yaml:"delay_min_ms" env:"EMAIL_DELAY_MIN_MS"`
		DelayMaxMS int `yaml:"delay_max_ms" env:"EMAIL_DELAY_MAX_MS"`
		BatchSize  int `yaml:"batch_size" env:"BATCH_SIZE"`
		BatchDelay int `yaml:"batch_delay_s" env:"BATCH_DELAY"`
		MaxRetries int `yaml:"max_retries" env:"MAX_RETRIES"`
	} `yaml:"mailer"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Config file is optional; environment variables alone are enough
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
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
	config.Server.BaseURL = "http://localhost:8080"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "sweek"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.Email.Provider = "console"
	config.Email.FromName = "V1 @ Michigan"
	config.Email.SMTPPort = 587

	config.Mailer.DelayMinMS = 500
	config.Mailer.DelayMaxMS = 1500
	config.Mailer.BatchSize = 100
	config.Mailer.BatchDelay = 30
	config.Mailer.MaxRetries = 3

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	switch config.Email.Provider {
	case "sendgrid", "smtp", "console":
	default:
		return fmt.Errorf("unknown email provider: %q", config.Email.Provider)
	}

	if config.Mailer.DelayMinMS > config.Mailer.DelayMaxMS {
		return fmt.Errorf("mailer delay_min_ms must not exceed delay_max_ms")
	}

	return nil
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

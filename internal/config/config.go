package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	Push      PushConfig      `yaml:"push"`
	JWT       JWTConfig       `yaml:"jwt"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// PushConfig contains Firebase Cloud Messaging settings
type PushConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// GatewayConfig contains settings for the payment gateway webhook.
// APIKeyHash is the bcrypt hash of the key the gateway presents.
type GatewayConfig struct {
	APIKeyHash string `yaml:"api_key_hash"`
}

// LedgerConfig contains wallet ledger settings
type LedgerConfig struct {
	ClearingPeriodDays int    `yaml:"clearing_period_days"`
	DefaultCurrency    string `yaml:"default_currency"`
}

// PricingConfig contains platform fee settings
type PricingConfig struct {
	PlatformFeePercent int `yaml:"platform_fee_percent"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReleaseClearedFunds  string `yaml:"release_cleared_funds"`
	SendOverdueReminders string `yaml:"send_overdue_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromEmail = val
	}

	// Push
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Push.CredentialsFile = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Gateway
	if val := os.Getenv("GATEWAY_API_KEY_HASH"); val != "" {
		c.Gateway.APIKeyHash = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Ledger
	if val := os.Getenv("LEDGER_CLEARING_PERIOD_DAYS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Ledger.ClearingPeriodDays)
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Email validation
	if c.Email.APIKey == "" {
		return fmt.Errorf("email API key is required")
	}
	if c.Email.FromEmail == "" {
		return fmt.Errorf("email from address is required")
	}

	// Push validation
	if c.Push.Enabled && c.Push.CredentialsFile == "" {
		return fmt.Errorf("push credentials file is required when push is enabled")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Ledger defaults
	if c.Ledger.ClearingPeriodDays <= 0 {
		c.Ledger.ClearingPeriodDays = 7
	}
	if c.Ledger.DefaultCurrency == "" {
		c.Ledger.DefaultCurrency = "USD"
	}

	// Pricing defaults
	if c.Pricing.PlatformFeePercent < 0 || c.Pricing.PlatformFeePercent > 100 {
		return fmt.Errorf("invalid platform fee percent: %d", c.Pricing.PlatformFeePercent)
	}
	if c.Pricing.PlatformFeePercent == 0 {
		c.Pricing.PlatformFeePercent = 10
	}

	// Scheduler defaults
	if c.Scheduler.ReleaseClearedFunds == "" {
		c.Scheduler.ReleaseClearedFunds = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.SendOverdueReminders == "" {
		c.Scheduler.SendOverdueReminders = "0 0 3 * * *" // 3 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

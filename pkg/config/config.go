package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// JWT configuration
	JWT JWTConfig `mapstructure:"jwt"`

	// OTP configuration
	OTP OTPConfig `mapstructure:"otp"`

	// SMTP configuration
	SMTP SMTPConfig `mapstructure:"smtp"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  int    `mapstructure:"connect_timeout"`
}

// DSN returns the PostgreSQL connection string for this configuration
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.ConnectTimeout,
	)
}

// JWTConfig holds JWT configuration. SecretKey is required at startup:
// a missing signing secret is a configuration error, never a per-request one.
type JWTConfig struct {
	SecretKey       string `mapstructure:"secret_key"`
	SessionTTL      int    `mapstructure:"session_ttl"`
	AdminSessionTTL int    `mapstructure:"admin_session_ttl"`
	Issuer          string `mapstructure:"issuer"`
	Audience        string `mapstructure:"audience"`
}

// SessionDuration returns the default session TTL as a duration
func (c *JWTConfig) SessionDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}

// AdminSessionDuration returns the admin session TTL as a duration
func (c *JWTConfig) AdminSessionDuration() time.Duration {
	return time.Duration(c.AdminSessionTTL) * time.Second
}

// OTPConfig holds one-time code configuration, for both the admin login
// second factor and password reset codes
type OTPConfig struct {
	Digits   int `mapstructure:"digits"`
	TTL      int `mapstructure:"ttl"`
	ResetTTL int `mapstructure:"reset_ttl"`
}

// Duration returns the login OTP time-to-live as a duration
func (c *OTPConfig) Duration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// ResetDuration returns the password reset code time-to-live as a duration
func (c *OTPConfig) ResetDuration() time.Duration {
	return time.Duration(c.ResetTTL) * time.Second
}

// SMTPConfig holds outbound email configuration
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/healthheaven")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Override with environment variables
	overrideWithEnv(&config)

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.idle_timeout", 120)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "healthheaven")
	viper.SetDefault("database.user", "healthheaven")
	viper.SetDefault("database.ssl_mode", "require")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)
	viper.SetDefault("database.connect_timeout", 5)

	// JWT defaults
	viper.SetDefault("jwt.session_ttl", 3600)              // 1 hour
	viper.SetDefault("jwt.admin_session_ttl", 7*24*3600)   // 7 days
	viper.SetDefault("jwt.issuer", "healthify-server")
	viper.SetDefault("jwt.audience", "healthify-app")

	// OTP defaults
	viper.SetDefault("otp.digits", 6)
	viper.SetDefault("otp.ttl", 600)       // 10 minutes
	viper.SetDefault("otp.reset_ttl", 900) // 15 minutes

	// SMTP defaults
	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)

	// Logging defaults
	viper.SetDefault("log_level", "info")
}

// overrideWithEnv overrides configuration with environment variables
func overrideWithEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if jwtSecret := os.Getenv("JWT_SECRET_KEY"); jwtSecret != "" {
		config.JWT.SecretKey = jwtSecret
	}

	if user := os.Getenv("EMAIL_USER"); user != "" {
		config.SMTP.Username = user
		if config.SMTP.From == "" {
			config.SMTP.From = user
		}
	}

	if pass := os.Getenv("EMAIL_PASS"); pass != "" {
		config.SMTP.Password = pass
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.LogLevel = logLevel
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.JWT.SecretKey == "" {
		return fmt.Errorf("JWT secret key is required")
	}

	if config.Database.Password == "" {
		return fmt.Errorf("database password is required")
	}

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.OTP.Digits < 4 || config.OTP.Digits > 10 {
		return fmt.Errorf("invalid OTP length: %d", config.OTP.Digits)
	}

	if config.OTP.TTL <= 0 {
		return fmt.Errorf("invalid OTP TTL: %d", config.OTP.TTL)
	}

	if config.OTP.ResetTTL <= 0 {
		return fmt.Errorf("invalid password reset TTL: %d", config.OTP.ResetTTL)
	}

	return nil
}

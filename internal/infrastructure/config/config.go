package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the client
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	API    APIConfig    `mapstructure:"api"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Logger LoggerConfig `mapstructure:"logger"`
	Stub   StubConfig   `mapstructure:"stub"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// APIConfig holds the task service endpoint configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig selects the auth strategy and session persistence keys
type AuthConfig struct {
	UseMock      bool          `mapstructure:"use_mock"`
	TokenKey     string        `mapstructure:"token_key"`
	UserKey      string        `mapstructure:"user_key"`
	SessionFile  string        `mapstructure:"session_file"`
	MockSecret   string        `mapstructure:"mock_secret"`
	MockTokenTTL time.Duration `mapstructure:"mock_token_ttl"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// StubConfig configures the in-process stub task service
type StubConfig struct {
	Port              int           `mapstructure:"port"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

// Load loads configuration from the environment and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "TaskMaster Client")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)

	// API defaults
	viper.SetDefault("api.base_url", "http://localhost:8081/api")
	viper.SetDefault("api.timeout", "30s")

	// Auth defaults
	viper.SetDefault("auth.use_mock", true)
	viper.SetDefault("auth.token_key", "taskmaster_token")
	viper.SetDefault("auth.user_key", "taskmaster_user")
	viper.SetDefault("auth.session_file", "")
	viper.SetDefault("auth.mock_secret", "mock-signing-secret")
	viper.SetDefault("auth.mock_token_ttl", "24h")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.output", "stderr")

	// Stub defaults
	viper.SetDefault("stub.port", 8081)
	viper.SetDefault("stub.metrics_enabled", true)
	viper.SetDefault("stub.rate_limit_requests", 100)
	viper.SetDefault("stub.rate_limit_window", "1m")
}

func bindEnvVars() {
	// App
	viper.BindEnv("app.name", "APP_NAME")
	viper.BindEnv("app.version", "APP_VERSION")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("app.debug", "APP_DEBUG")

	// API
	viper.BindEnv("api.base_url", "API_URL")
	viper.BindEnv("api.timeout", "API_TIMEOUT")

	// Auth
	viper.BindEnv("auth.use_mock", "USE_MOCK_AUTH")
	viper.BindEnv("auth.token_key", "AUTH_TOKEN_KEY")
	viper.BindEnv("auth.user_key", "AUTH_USER_KEY")
	viper.BindEnv("auth.session_file", "AUTH_SESSION_FILE")
	viper.BindEnv("auth.mock_secret", "AUTH_MOCK_SECRET")
	viper.BindEnv("auth.mock_token_ttl", "AUTH_MOCK_TOKEN_TTL")

	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.format", "LOG_FORMAT")
	viper.BindEnv("logger.output", "LOG_OUTPUT")
	viper.BindEnv("logger.filename", "LOG_FILENAME")

	// Stub
	viper.BindEnv("stub.port", "STUB_PORT")
	viper.BindEnv("stub.metrics_enabled", "STUB_METRICS_ENABLED")
	viper.BindEnv("stub.rate_limit_requests", "STUB_RATE_LIMIT_REQUESTS")
	viper.BindEnv("stub.rate_limit_window", "STUB_RATE_LIMIT_WINDOW")
}

func validateConfig(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api base url is required")
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}

	if cfg.Auth.TokenKey == "" || cfg.Auth.UserKey == "" {
		return fmt.Errorf("session token and user keys are required")
	}

	if cfg.Auth.TokenKey == cfg.Auth.UserKey {
		return fmt.Errorf("session token and user keys must differ")
	}

	if cfg.Stub.Port <= 0 || cfg.Stub.Port > 65535 {
		return fmt.Errorf("stub port must be between 1 and 65535")
	}

	return nil
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}

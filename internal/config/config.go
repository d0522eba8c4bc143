// Package config provides configuration loading and validation for the
// MeFirst application. Values come from defaults, an optional config.yaml,
// and MEFIRST_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration parameters.
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Language    LanguageConfig    `mapstructure:"language"`
	Chat        ChatConfig        `mapstructure:"chat"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// GeminiConfig holds settings for the generative text gateway.
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"           validate:"required"`
	ModelName       string        `mapstructure:"model_name"        validate:"required"`
	Temperature     float32       `mapstructure:"temperature"       validate:"min=0,max=2"`
	MaxOutputTokens int32         `mapstructure:"max_output_tokens" validate:"min=1"`
	Timeout         time.Duration `mapstructure:"timeout"           validate:"min=1s,max=10m"`
}

// LanguageConfig holds settings for the text analytics gateway. The
// credential itself is read by the Cloud client from
// GOOGLE_APPLICATION_CREDENTIALS.
type LanguageConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s,max=10m"`
}

// ChatConfig holds user-facing chat texts.
type ChatConfig struct {
	Greeting string `mapstructure:"greeting" validate:"required"`
}

// MaintenanceConfig controls the scheduled database maintenance task.
type MaintenanceConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Load reads configuration from defaults, an optional config.yaml in the
// working directory, and MEFIRST_* environment variables, then validates
// the result.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MEFIRST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bare GEMINI_API_KEY name is accepted as a fallback for the
	// credential, matching how the SDK itself is usually configured.
	_ = v.BindEnv("gemini.api_key", "MEFIRST_GEMINI_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config file is fine, defaults and env cover everything.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("gemini.model_name", DefaultGeminiModel)
	v.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	v.SetDefault("gemini.max_output_tokens", DefaultGeminiMaxOutputTokens)
	v.SetDefault("gemini.timeout", DefaultGatewayTimeout)

	v.SetDefault("language.timeout", DefaultGatewayTimeout)

	v.SetDefault("chat.greeting", DefaultChatGreeting)

	v.SetDefault("maintenance.enabled", DefaultMaintenanceEnabled)
	v.SetDefault("maintenance.schedule", DefaultMaintenanceSchedule)
}

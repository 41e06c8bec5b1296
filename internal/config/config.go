package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, for example
// RECIPE_PLANNER_BACKEND or RECIPE_PLANNER_REDIS_ADDR.
const EnvPrefix = "RECIPE_PLANNER"

// Config holds the configuration for the application.
type Config struct {
	DataDir      string `mapstructure:"data_dir" validate:"required"`
	Backend      string `mapstructure:"backend" validate:"oneof=file sqlite redis"`
	DatabasePath string `mapstructure:"database_path" validate:"required"`
	KeyPrefix    string `mapstructure:"key_prefix"`

	Redis RedisConfig `mapstructure:"redis"`

	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string `mapstructure:"log_format" validate:"oneof=json console"`
	MetricsAddr string `mapstructure:"metrics_addr"`
	InboxDir    string `mapstructure:"inbox_dir" validate:"required"`

	DefaultServings int `mapstructure:"default_servings" validate:"min=1,max=99"`
	HistoryLimit    int `mapstructure:"history_limit" validate:"min=1,max=1000"`
}

// RedisConfig selects the Redis server used by the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

// NewFromEnv builds a Config from defaults, an optional recipe-planner.yaml in
// the working directory, and RECIPE_PLANNER_* environment variables.
func NewFromEnv() (*Config, error) {
	return Load("")
}

// Load reads configPath (or searches for recipe-planner.yaml when empty),
// applies environment overrides and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("recipe-planner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults cover a missing file.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("backend", "file")
	v.SetDefault("database_path", "data/recipe-planner.db")
	v.SetDefault("key_prefix", "recipeApp_")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("inbox_dir", "data/inbox")

	v.SetDefault("default_servings", 2)
	v.SetDefault("history_limit", 100)
}

var validate = validator.New()

// Validate checks field ranges and backend-specific requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed %q validation (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	if c.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when backend is redis")
	}
	return nil
}

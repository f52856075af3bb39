package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. RECIPE_SERVER_PORT.
const EnvPrefix = "RECIPE"

// keys without defaults still need to be bound so AutomaticEnv can see them.
var envOnlyKeys = []string{
	"database.url",
	"analysis.base_url",
}

// Load configuration from environment variables, an optional .env file and
// an optional config.yaml in the working directory.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the given config file instead of
// searching for config.yaml. A missing explicit file is an error.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate applies struct tags and the cross-section rules of Config.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Store.Backend == BackendPostgres && cfg.Database.URL == "" {
		return fmt.Errorf("config validation failed: database.url is required for the %s backend",
			BackendPostgres)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.max_body_bytes", 16*1024)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.backend", BackendPostgres)

	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("dispatcher.worker_count", 4)
	v.SetDefault("dispatcher.queue_size", 100)
	v.SetDefault("dispatcher.job_timeout", 5*time.Minute)
	v.SetDefault("dispatcher.stalled_job_age", 30*time.Minute)
	v.SetDefault("dispatcher.stalled_check_interval", 5*time.Minute)

	v.SetDefault("analysis.timeout", 30*time.Second)
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables.
// Variables use the FILEDEPOT_ prefix with underscores separating groups,
// e.g. FILEDEPOT_SERVER_PORT or FILEDEPOT_DATABASE_NAME. Environment
// variables take precedence over defaults. Returns a populated Config or
// an error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("FILEDEPOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every key so that viper
// binds the corresponding environment variable even when it is unset.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("cache.host", "127.0.0.1")
	v.SetDefault("cache.port", 6379)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 27017)
	v.SetDefault("database.name", "files_manager")

	v.SetDefault("storage.root", "/tmp/files_manager")

	v.SetDefault("queue.user_workers", 2)
	v.SetDefault("queue.file_workers", 2)
	v.SetDefault("queue.buffer_size", 100)

	v.SetDefault("readiness.attempts", 10)
	v.SetDefault("readiness.interval", time.Second)
}

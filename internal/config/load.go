package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every automatically bound environment variable.
const EnvPrefix = "TASKS"

// envBindings maps config keys to environment variables that do not follow
// the TASKS_ naming scheme.
var envBindings = []struct {
	key    string
	envVar []string
}{
	{"database.user", []string{"DB_USER", "TASKS_DATABASE_USER"}},
	{"database.password", []string{"DB_PASSWORD", "TASKS_DATABASE_PASSWORD"}},
	{"database.host", []string{"DB_HOST", "TASKS_DATABASE_HOST"}},
	{"database.name", []string{"DB_NAME", "TASKS_DATABASE_NAME"}},
	{"database.url", []string{"DATABASE_URL", "TASKS_DATABASE_URL"}},
}

// Load configuration from environment variables and optionally a config.yaml
// file in the working directory. Environment variables take precedence over
// values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the given config file instead of
// searching the working directory. An empty path falls back to the search.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, b := range envBindings {
		args := append([]string{b.key}, b.envVar...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", b.key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("cors.allowed_origins", []string{"*"})
}

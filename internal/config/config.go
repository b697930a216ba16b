// Package config loads umlgen settings from defaults, an optional config
// file and UMLGEN_* environment variables.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/matthewbaird/umlgen/internal/errors"
)

// Config is the full umlgen configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Model    ModelConfig    `mapstructure:"model"`
	EventBus EventBusConfig `mapstructure:"eventbus"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig configures the activity journal. An empty Path keeps the
// journal in memory.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// ModelConfig points at the CUE model to open. Empty loads the built-in sample.
type ModelConfig struct {
	Path string `mapstructure:"path"`
}

// EventBusConfig sizes the in-process event bus.
type EventBusConfig struct {
	Buffer int `mapstructure:"buffer"`
}

// SetDefaults registers the default value of every option.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("model.path", "")
	v.SetDefault("eventbus.buffer", 256)
}

// New returns a viper instance with defaults and environment binding.
// configFile may be empty, in which case umlgen.{yaml,toml} is searched in
// the working directory and missing files are not an error.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("UMLGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", configFile)
		}
		return v, nil
	}

	v.SetConfigName("umlgen")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}
	return v, nil
}

// Load builds the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port %d out of range", c.Server.Port)
	}
	if c.EventBus.Buffer < 1 {
		return errors.WithHint(
			errors.Newf("eventbus.buffer must be positive, got %d", c.EventBus.Buffer),
			"omit the option to use the default of 256")
	}
	return nil
}

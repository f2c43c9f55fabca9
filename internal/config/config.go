package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "CHESSRULES"

type Config struct {
	Engine      EngineConfig      `mapstructure:"engine"`
	Spectator   SpectatorConfig   `mapstructure:"spectator"`
	Development DevelopmentConfig `mapstructure:"development"`
}

type EngineConfig struct {
	// StartFEN overrides the standard starting position when set.
	StartFEN string `mapstructure:"start_fen"`
}

type SpectatorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

type DevelopmentConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// Load reads config.yaml from the working directory or ./config. A missing
// file is not an error; defaults and CHESSRULES_* environment variables
// still apply.
func Load() (*Config, error) {
	return load(viper.New(), "")
}

// LoadFile reads the given config file instead of searching for one.
func LoadFile(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Enable environment variables
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("engine.start_fen", "")
	v.SetDefault("spectator.enabled", false)
	v.SetDefault("spectator.host", "localhost")
	v.SetDefault("spectator.port", 8090)
	v.SetDefault("development.debug", false)
	v.SetDefault("development.log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that only matter once the spectator feed is
// enabled. Call it again after applying command line overrides.
func (c *Config) Validate() error {
	if c.Spectator.Enabled && (c.Spectator.Port <= 0 || c.Spectator.Port > 65535) {
		return fmt.Errorf("invalid spectator port %d", c.Spectator.Port)
	}
	return nil
}

// SpectatorAddr is the listen address of the spectator feed.
func (c *Config) SpectatorAddr() string {
	return fmt.Sprintf("%s:%d", c.Spectator.Host, c.Spectator.Port)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Room    RoomConfig    `mapstructure:"room"`
	Bot     BotConfig     `mapstructure:"bot"`
}

// ServerConfig holds network settings.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RoomConfig controls room lifecycle.
type RoomConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// BotConfig controls bot pacing. SpeedFactor scales every reaction delay;
// below 1 makes bots faster, useful in local play and demos.
type BotConfig struct {
	SpeedFactor float64 `mapstructure:"speed_factor"`
}

// Load reads configuration from the given file, falling back to defaults
// and CHUDOPOLY_* environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("room.idle_timeout", 30*time.Minute)
	v.SetDefault("room.sweep_interval", time.Minute)
	v.SetDefault("bot.speed_factor", 1.0)

	v.SetEnvPrefix("CHUDOPOLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Bot.SpeedFactor <= 0 {
		return nil, fmt.Errorf("bot.speed_factor must be positive, got %v", cfg.Bot.SpeedFactor)
	}
	return &cfg, nil
}

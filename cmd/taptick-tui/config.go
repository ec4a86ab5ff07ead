package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tempokit/taptick/internal/model"
	"github.com/tempokit/taptick/internal/socketrpc"
	"github.com/spf13/viper"
)

// cliConfig holds only TUI-relevant configuration.
type cliConfig struct {
	UpdateInterval time.Duration `mapstructure:"update-interval"`
	InactivityWait time.Duration `mapstructure:"inactivity-wait"`
	MaxHistory     int           `mapstructure:"max-history"`
	Meter          string        `mapstructure:"meter"`
	Method         string        `mapstructure:"method"`
	SocketPath     string        `mapstructure:"socket-path"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("TAPTICK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("update-interval", model.DefaultUpdateInterval)
	v.SetDefault("inactivity-wait", model.DefaultInactivityWait)
	v.SetDefault("max-history", model.DefaultMaxIntervalHistory)
	v.SetDefault("meter", model.DefaultMeter.String())
	v.SetDefault("method", model.DefaultMethod.String())
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "taptick", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

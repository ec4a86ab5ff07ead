package main

import (
	"time"

	"github.com/tempokit/taptick/internal/model"
)

const (
	defaultInactivityWait = model.DefaultInactivityWait
	defaultMaxHistory     = model.DefaultMaxIntervalHistory
	defaultBindHost       = "127.0.0.1"
	defaultAPIPort        = 3000
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	InactivityWait time.Duration `mapstructure:"inactivity-wait"`
	MaxHistory     int           `mapstructure:"max-history"`
	Meter          string        `mapstructure:"meter"`
	Method         string        `mapstructure:"method"`
	APIEnabled     bool          `mapstructure:"api-enabled"`
	APIPort        int           `mapstructure:"api-port"`
	APIAddr        string        `mapstructure:"api-addr"`
	SocketPath     string        `mapstructure:"socket-path"`
	ConfigPath     string        `mapstructure:"-"` // not from config file
}

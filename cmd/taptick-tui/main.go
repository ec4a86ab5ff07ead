package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tempokit/taptick/internal/model"
	"github.com/tempokit/taptick/internal/socketrpc"
	"github.com/tempokit/taptick/internal/tracker"
	"github.com/tempokit/taptick/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var socketPath string
	var standalone bool
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/taptick/config.yml)")
	flag.StringVar(&socketPath, "socket", "", "override socket path to connect to taptick service")
	flag.BoolVar(&standalone, "standalone", false, "run with an embedded tracker instead of connecting to a service")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Taptick CLI - Tap Tempo Client\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if socketPath != "" {
		cfg.SocketPath = socketPath
	}

	if err := runTUI(cfg, standalone); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg cliConfig, standalone bool) error {
	var tempo model.TempoController

	if standalone {
		meter, err := model.ParseMeter(cfg.Meter)
		if err != nil {
			return err
		}
		method, err := model.ParseCountMethod(cfg.Method)
		if err != nil {
			return err
		}
		tr := tracker.New(tracker.Config{
			MaxHistory:     cfg.MaxHistory,
			InactivityWait: cfg.InactivityWait,
			Meter:          meter,
			Method:         method,
		})
		defer tr.Close()
		tempo = tr
	} else {
		client, err := socketrpc.Dial(cfg.SocketPath)
		if err != nil {
			return fmt.Errorf("cannot connect to taptick service at %s: %w\nIs the taptick service running? Start it with: taptick (or pass -standalone)", cfg.SocketPath, err)
		}
		defer client.Close()
		tempo = client
	}

	screen := tui.NewModel(tempo, cfg.UpdateInterval)

	p := tea.NewProgram(screen, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

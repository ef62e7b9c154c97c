// wstest is an interactive terminal client for poking at WebSocket
// servers. Type an endpoint, press enter to connect, then type messages;
// text frames from the server show up in the log above the input.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/omochice/wstest/internal/client"
	"github.com/omochice/wstest/internal/config"
	"github.com/omochice/wstest/internal/logging"
	transport "github.com/omochice/wstest/internal/transport/ws"
	"github.com/omochice/wstest/internal/tui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		endpoint    string
		configPath  string
		logFile     string
		logLevel    string
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("wstest", pflag.ContinueOnError)
	flagSet.StringVarP(&endpoint, "url", "u", "", "WebSocket endpoint to connect to on startup (ws:// or wss://)")
	flagSet.StringVar(&configPath, "config", "", "path to YAML config (default: $XDG_CONFIG_HOME/wstest/config.yaml)")
	flagSet.StringVar(&logFile, "log-file", "", "write JSON log records to this file")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	dialTimeout := flagSet.Duration("dial-timeout", 0, "timeout for the TCP connect and handshake")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if showVersion {
		fmt.Printf("wstest %s\n", version)
		return nil
	}

	args := flagSet.Args()
	switch {
	case len(args) > 1:
		return fmt.Errorf("unexpected argument: %s", args[1])
	case len(args) == 1 && endpoint != "":
		return fmt.Errorf("endpoint given both as --url and as argument")
	case len(args) == 1:
		endpoint = args[0]
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if endpoint == "" {
		endpoint = cfg.Endpoint
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if flagSet.Changed("dial-timeout") {
		cfg.DialTimeout = *dialTimeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	dialer := transport.Dialer{Timeout: cfg.DialTimeout, CloseTimeout: cfg.CloseTimeout}
	session := client.NewSession(dialer, client.Options{
		QueueSize:   cfg.QueueSize,
		SendTimeout: cfg.SendTimeout,
	}, logger)
	session.Start()
	defer session.Close()

	logger.Info("starting", "version", version, "endpoint", endpoint)

	model := tui.New(session, tui.Options{
		Endpoint:        endpoint,
		RefreshInterval: cfg.RefreshInterval,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}

	logger.Info("exiting")
	return nil
}

// loadConfig reads path, or the default location when path is empty. Only
// the default location may be missing.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path, false)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path, true)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `wstest: interactive WebSocket tester.

Usage:
  wstest [flags] [endpoint]

Keys:
  tab           switch between the endpoint and the message field
  enter         connect to the endpoint, or send the message
  ctrl+r        reconnect to the endpoint and clear the log
  pgup/pgdown   scroll the log
  esc, ctrl+c   quit

Flags:
`)
	flagSet.PrintDefaults()
}

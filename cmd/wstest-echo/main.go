// wstest-echo is a WebSocket echo server for trying out wstest. It greets
// every client and sends each data frame back unchanged.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/omochice/wstest/internal/logging"
	"github.com/omochice/wstest/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr     string
		greeting string
		logLevel string
	)

	flagSet := pflag.NewFlagSet("wstest-echo", pflag.ContinueOnError)
	flagSet.StringVar(&addr, "addr", ":8080", "address to listen on")
	flagSet.StringVar(&greeting, "greeting", server.DefaultGreeting, "text sent to each client after the handshake (empty disables)")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	srv := server.New(addr, server.Options{Greeting: greeting, Logger: logger})
	if err := srv.Listen(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig.String())
		srv.Stop()
		if err := <-errChan; err != nil {
			return err
		}
	}

	logger.Info("echo server stopped")
	return nil
}

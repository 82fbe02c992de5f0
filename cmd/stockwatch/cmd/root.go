package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockwatch/lib/configutil"
	"stockwatch/services/monitor"
	monitordb "stockwatch/services/monitor/db"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stockwatch",
	Short: "stockwatch monitors product pages for availability and price changes.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "config.json5",
		"path to the monitor config file",
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (monitor.Config, error) {
	config, err := configutil.Read[monitor.Config](configPath)
	if err != nil {
		return monitor.Config{}, fmt.Errorf("failed to read %s: %w", configPath, err)
	}
	if len(config.Products) == 0 {
		return monitor.Config{}, fmt.Errorf("no products configured in %s", configPath)
	}
	return config, nil
}

func buildService(config monitor.Config) (monitor.Service, error) {
	db, err := config.State.OpenDB(monitordb.Schema)
	if err != nil {
		return monitor.Service{}, fmt.Errorf("failed to open state database: %w", err)
	}

	var notifiers []monitor.Notifier
	if config.WebhookUrl != "" {
		notifiers = append(notifiers, monitor.NewDiscordNotifier(config.WebhookUrl))
	}
	if config.Email != nil {
		notifiers = append(notifiers, monitor.NewEmailNotifier(*config.Email))
	}

	return monitor.NewService(
		monitor.NewFetcher(config.Fetch),
		monitor.NewStore(db),
		notifiers,
		config.NotifyAll,
	), nil
}

// Returns a context that will live until Ctrl+C is pressed
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

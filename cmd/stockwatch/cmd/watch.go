package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"stockwatch/lib/telemetry"

	random "github.com/mazen160/go-random"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// maximum random delay before each scheduled pass, so repeated checks
// do not hit the storefront at a perfectly regular cadence
const maxJitterSeconds = 30

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Check products continuously on the configured interval until interrupted.",
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		interval := config.IntervalMinutes
		if interval <= 0 {
			return fmt.Errorf("watch requires interval_minutes > 0 in %s", configPath)
		}

		ctx := signalContext()
		tel, err := telemetry.SetupFromEnv(ctx, "stockwatch")
		if err == nil {
			defer tel.Shutdown(context.Background())
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to setup telemetry: %w", err)
		}
		telemetry.InstrumentPerfStats(ctx)

		service, err := buildService(config)
		if err != nil {
			return err
		}

		pass := func() {
			jitter, err := random.IntRange(0, maxJitterSeconds)
			if err == nil && jitter > 0 {
				time.Sleep(time.Duration(jitter) * time.Second)
			}

			statuses, err := service.CheckAll(ctx, config.Products)
			if err != nil {
				slog.ErrorContext(ctx, "monitoring pass finished with errors", "err", err)
			}
			slog.InfoContext(ctx, "monitoring pass finished", "products", len(statuses))
		}

		pass()

		c := cron.New()
		_, err = c.AddFunc(fmt.Sprintf("@every %dm", interval), pass)
		if err != nil {
			return err
		}
		c.Start()
		defer c.Stop()

		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"stockwatch/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single monitoring pass and print the current status of every product.",
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		tel, err := telemetry.SetupFromEnv(ctx, "stockwatch")
		if err == nil {
			defer tel.Shutdown(context.Background())
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to setup telemetry: %w", err)
		}

		service, err := buildService(config)
		if err != nil {
			return err
		}

		statuses, checkErr := service.CheckAll(ctx, config.Products)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Product", "Availability", "Price", "URL"})
		for _, status := range statuses {
			availability := "unknown"
			if status.InStock != nil {
				if *status.InStock {
					availability = "in stock"
				} else {
					availability = "out of stock"
				}
			}
			price := "unknown"
			if status.Price != "" {
				price = status.Price
				if status.Currency != "" {
					price = fmt.Sprintf("%s %s", status.Price, status.Currency)
				}
			}
			t.AppendRow(table.Row{status.Name, availability, price, status.URL})
		}
		t.Render()

		return checkErr
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

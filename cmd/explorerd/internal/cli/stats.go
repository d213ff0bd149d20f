package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print indexed record counts for every database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

func runStats() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	app, closeApp, err := openApp(flagDataDir, cfg, log, prometheus.NewRegistry(), true)
	if err != nil {
		return err
	}
	defer closeApp()

	masterCount, err := app.Master.RecordCount()
	if err != nil {
		return fmt.Errorf("explorerd: master record count: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Database", "Positions"})
	t.AppendRow(table.Row{"master", masterCount})
	for _, variant := range allVariants {
		n, err := app.Lichess[variant].RecordCount()
		if err != nil {
			return fmt.Errorf("explorerd: %s record count: %w", variant, err)
		}
		t.AppendRow(table.Row{variant.String(), n})
	}
	t.Render()
	return nil
}

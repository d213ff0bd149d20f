package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lila-explorer/openingexplorer/internal/config"
	"github.com/lila-explorer/openingexplorer/internal/explog"
)

var (
	flagConfigPath string
	flagDataDir    string
	flagDebug      bool
)

// Root builds explorerd's command tree: serve, import, stats, each
// sharing the same --config/--data-dir/--debug persistent flags.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "explorerd",
		Short: "Opening-explorer position database service",
		Long: `explorerd indexes master and Lichess games into per-variant
position databases and serves the aggregated move statistics over
HTTP, mirroring the query/import surface the Lichess opening explorer
exposes.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "explorer.toml", "path to the explorer.* TOML config file")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "data", "directory holding the on-disk position databases")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug-level logging")

	root.AddCommand(serveCmd(), importCmd(), statsCmd())
	return root
}

// loadConfig reads flagConfigPath if present, overlaying onto
// config.Default(); a missing file is not an error, matching
// explorerd's "runs with sane defaults out of the box" intent.
func loadConfig() (config.Config, error) {
	raw, err := os.ReadFile(flagConfigPath)
	if os.IsNotExist(err) {
		return config.Default(), nil
	}
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(raw)
}

func newLogger() (*explog.Logger, error) {
	return explog.New(explog.Options{Debug: flagDebug})
}

package cli

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lila-explorer/openingexplorer/internal/importer"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

func importCmd() *cobra.Command {
	var masterPath, lichessPath, variantName string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-load one PGN file (many games, blank-line separated) into a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if masterPath == "" && lichessPath == "" {
				return fmt.Errorf("explorerd: import needs --master or --lichess")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			app, closeApp, err := openApp(flagDataDir, cfg, log, prometheus.NewRegistry(), false)
			if err != nil {
				return err
			}
			defer closeApp()

			fs := afero.NewOsFs()
			if masterPath != "" {
				if err := importMasterFile(fs, masterPath, app); err != nil {
					return err
				}
			}
			if lichessPath != "" {
				variant, ok := zobrist.ParseVariant(variantName)
				if !ok {
					return fmt.Errorf("explorerd: unknown --variant %q", variantName)
				}
				if err := importLichessFile(fs, lichessPath, variant, app); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&masterPath, "master", "", "PGN file of master games to import")
	cmd.Flags().StringVar(&lichessPath, "lichess", "", "PGN file of Lichess games to import")
	cmd.Flags().StringVar(&variantName, "variant", "chess", "variant the --lichess file's games belong to")
	return cmd
}

// readPGNFile reads path's full text. For the real OS filesystem it
// memory-maps the file rather than copying it into a []byte, the
// teacher's own approach to reading large, read-mostly files cheaply;
// any other afero.Fs (the in-memory one tests use) falls back to a
// plain read.
func readPGNFile(fs afero.Fs, path string) (string, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return "", fmt.Errorf("explorerd: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return "", nil
	}
	if _, ok := fs.(*afero.OsFs); !ok {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return "", fmt.Errorf("explorerd: read %s: %w", path, err)
		}
		return string(data), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("explorerd: open %s: %w", path, err)
	}
	defer f.Close()
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return "", fmt.Errorf("explorerd: mmap %s: %w", path, err)
	}
	defer m.Unmap()
	return string(m), nil
}

func importMasterFile(fs afero.Fs, path string, app *App) error {
	text, err := readPGNFile(fs, path)
	if err != nil {
		return err
	}
	imp := importer.MasterImporter{
		Pipeline: importer.Pipeline{
			Store:    app.Master,
			Table:    zobrist.TableFor(zobrist.VariantStandard),
			MaxPlies: app.Config.Master.MaxPlies,
		},
		Pgn: app.MasterPgn,
	}

	var accepted, rejected int
	for _, game := range importer.SplitBatch(text) {
		ok, err := imp.Import(game)
		if err != nil {
			return fmt.Errorf("explorerd: master import: %w", err)
		}
		if ok {
			accepted++
		} else {
			rejected++
		}
	}
	app.Log.Info("master import complete", "file", path, "accepted", accepted, "rejected", rejected)
	return nil
}

func importLichessFile(fs afero.Fs, path string, variant zobrist.Variant, app *App) error {
	text, err := readPGNFile(fs, path)
	if err != nil {
		return err
	}
	positions, ok := app.Lichess[variant]
	if !ok {
		return fmt.Errorf("explorerd: variant %s has no open store", variant)
	}
	imp := importer.LichessImporter{
		Pipeline: importer.Pipeline{
			Store:    positions,
			Table:    zobrist.TableFor(variant),
			MaxPlies: app.Config.MaxPliesFor(variant),
		},
		Info: app.GameInfo,
	}

	games := importer.SplitBatch(text)
	var accepted, rejected int64
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, game := range games {
		game := game
		g.Go(func() error {
			ok, err := imp.Import(game)
			if err != nil {
				return fmt.Errorf("explorerd: lichess import: %w", err)
			}
			if ok {
				atomic.AddInt64(&accepted, 1)
			} else {
				atomic.AddInt64(&rejected, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	app.Log.Info("lichess import complete", "file", path, "variant", variant.String(), "accepted", accepted, "rejected", rejected)
	return nil
}

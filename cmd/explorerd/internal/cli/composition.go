// Package cli is explorerd's composition root: it owns config loading,
// opening every MDBX-backed store exactly once, and wiring them into
// the HTTP server or the one-shot subcommands. Nothing outside this
// package opens a store.Open*Store call directly.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lila-explorer/openingexplorer/internal/config"
	"github.com/lila-explorer/openingexplorer/internal/explog"
	"github.com/lila-explorer/openingexplorer/internal/metrics"
	"github.com/lila-explorer/openingexplorer/internal/store"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

// allVariants is every zobrist.Variant explorerd opens a PositionStore
// for, spanning the full spec §6 variant enum.
var allVariants = []zobrist.Variant{
	zobrist.VariantStandard,
	zobrist.VariantChess960,
	zobrist.VariantFromPosition,
	zobrist.VariantKingOfTheHill,
	zobrist.VariantThreeCheck,
	zobrist.VariantAntichess,
	zobrist.VariantAtomic,
	zobrist.VariantHorde,
	zobrist.VariantRacingKings,
	zobrist.VariantCrazyhouse,
}

// App is every long-lived collaborator explorerd's subcommands share.
type App struct {
	Config  config.Config
	Log     *explog.Logger
	Metrics *metrics.Registry

	Master    *store.MasterStore
	MasterPgn *store.PgnStore
	GameInfo  *store.GameInfoStore
	Lichess   map[zobrist.Variant]*store.PositionStore
}

// openApp loads cfg's explorer.store tuning, opens the master store and
// one PositionStore per variant under dataDir, and returns the App plus
// a close function that releases every environment, logging (not
// failing) individual close errors — by the time shutdown runs there is
// nothing left to propagate an error to.
func openApp(dataDir string, cfg config.Config, log *explog.Logger, reg prometheus.Registerer, readOnly bool) (*App, func(), error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("explorerd: create data dir %s: %w", dataDir, err)
	}

	envOpt := store.EnvOptions{
		MapSize:    int64(cfg.Store.MapSize.Bytes()),
		GrowStep:   int64(cfg.Store.GrowStep.Bytes()),
		MaxReaders: cfg.Store.MaxReaders,
		ReadOnly:   readOnly,
	}

	app := &App{
		Config:  cfg,
		Log:     log,
		Metrics: metrics.NewRegistry(reg),
		Lichess: make(map[zobrist.Variant]*store.PositionStore, len(allVariants)),
	}
	var closers []func() error

	master, err := store.OpenMasterStore(filepath.Join(dataDir, "master"), envOpt)
	if err != nil {
		return nil, nil, fmt.Errorf("explorerd: open master store: %w", err)
	}
	app.Master = master
	closers = append(closers, master.Close)

	masterPgn, err := store.OpenPgnStore(filepath.Join(dataDir, "master"), envOpt)
	if err != nil {
		closeAll(closers)
		return nil, nil, fmt.Errorf("explorerd: open master pgn store: %w", err)
	}
	app.MasterPgn = masterPgn
	closers = append(closers, masterPgn.Close)

	gameInfo, err := store.OpenGameInfoStore(filepath.Join(dataDir, "lichess"), envOpt)
	if err != nil {
		closeAll(closers)
		return nil, nil, fmt.Errorf("explorerd: open gameInfo store: %w", err)
	}
	app.GameInfo = gameInfo
	closers = append(closers, gameInfo.Close)

	for _, variant := range allVariants {
		positions, err := store.OpenPositionStore(filepath.Join(dataDir, "lichess"), variant, envOpt)
		if err != nil {
			closeAll(closers)
			return nil, nil, fmt.Errorf("explorerd: open %s position store: %w", variant, err)
		}
		app.Lichess[variant] = positions
		closers = append(closers, positions.Close)
	}

	closeFn := func() { closeAll(closers) }
	return app, closeFn, nil
}

// closeAll runs every closer, logging (not stopping on) failures, in
// reverse-of-open order so later-opened stores (which may depend on
// earlier ones being available during their own teardown) close first.
func closeAll(closers []func() error) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			fmt.Fprintf(os.Stderr, "explorerd: close store: %v\n", err)
		}
	}
}

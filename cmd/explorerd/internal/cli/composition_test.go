package cli

import (
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/lila-explorer/openingexplorer/internal/config"
	"github.com/lila-explorer/openingexplorer/internal/explog"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

func testLogger(t *testing.T) *explog.Logger {
	t.Helper()
	log, err := explog.New(explog.Options{})
	require.NoError(t, err)
	return log
}

func TestOpenAppOpensEveryVariantStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	app, closeApp, err := openApp(dir, config.Default(), testLogger(t), prometheus.NewRegistry(), false)
	require.NoError(t, err)
	defer closeApp()

	require.NotNil(t, app.Master)
	require.NotNil(t, app.MasterPgn)
	require.NotNil(t, app.GameInfo)
	require.Len(t, app.Lichess, len(allVariants))
	for _, variant := range allVariants {
		require.NotNil(t, app.Lichess[variant], "variant %s", variant)
	}

	n, err := app.Master.RecordCount()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestOpenAppReadOnlyReopensExistingDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	app, closeApp, err := openApp(dir, config.Default(), testLogger(t), prometheus.NewRegistry(), false)
	require.NoError(t, err)
	closeApp()

	roApp, closeRO, err := openApp(dir, config.Default(), testLogger(t), prometheus.NewRegistry(), true)
	require.NoError(t, err)
	defer closeRO()

	_ = app
	n, err := roApp.Master.RecordCount()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestOpenAppReopensSameDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	app1, close1, err := openApp(dir, config.Default(), testLogger(t), prometheus.NewRegistry(), false)
	require.NoError(t, err)

	inserted, err := app1.MasterPgn.Store("gid00001", "[Event \"x\"]\n\n1. e4 1-0\n")
	require.NoError(t, err)
	require.True(t, inserted)
	close1()

	app2, close2, err := openApp(dir, config.Default(), testLogger(t), prometheus.NewRegistry(), false)
	require.NoError(t, err)
	defer close2()

	pgn, ok, err := app2.MasterPgn.Get("gid00001")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, pgn, "1. e4 1-0")
}

func TestAllVariantsCoversEveryZobristVariant(t *testing.T) {
	seen := make(map[zobrist.Variant]bool, len(allVariants))
	for _, v := range allVariants {
		seen[v] = true
	}
	for v := zobrist.VariantStandard; v <= zobrist.VariantCrazyhouse; v++ {
		require.True(t, seen[v], "variant %s missing from allVariants", v)
	}
}

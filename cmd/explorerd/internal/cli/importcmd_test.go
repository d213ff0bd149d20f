package cli

import (
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/lila-explorer/openingexplorer/internal/config"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

const testMasterPGN = `[Event "Test"]
[Site "?"]
[White "Carlsen, Magnus"]
[Black "Caruana, Fabiano"]
[Result "1-0"]
[WhiteElo "2839"]
[BlackElo "2820"]
[TimeControl "5400+30"]
[GameId "abcdefgh"]

1. e4 e5 2. Nf3 Nc6 1-0
`

const testLichessPGN = `[Event "Rated Blitz game"]
[Site "lichess.org/ij1k2l3"]
[White "alice"]
[Black "bob"]
[Result "0-1"]
[WhiteElo "1800"]
[BlackElo "1850"]
[TimeControl "180+0"]
[Date "2024.03.01"]

1. d4 d5 2. c4 e6 0-1
`

func TestReadPGNFileFallsBackOnMemMapFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "games.pgn", []byte(testMasterPGN), 0o644))

	text, err := readPGNFile(fs, "games.pgn")
	require.NoError(t, err)
	require.Equal(t, testMasterPGN, text)
}

func TestReadPGNFileEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "empty.pgn", nil, 0o644))

	text, err := readPGNFile(fs, "empty.pgn")
	require.NoError(t, err)
	require.Empty(t, text)
}

func TestImportMasterFileIndexesAcceptedGame(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	app, closeApp, err := openApp(dir, config.Default(), testLogger(t), prometheus.NewRegistry(), false)
	require.NoError(t, err)
	defer closeApp()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "master.pgn", []byte(testMasterPGN+"\n"+testMasterPGN), 0o644))

	require.NoError(t, importMasterFile(fs, "master.pgn", app))

	_, ok, err := app.MasterPgn.Get("abcdefgh")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestImportLichessFileIndexesAcceptedGame(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	app, closeApp, err := openApp(dir, config.Default(), testLogger(t), prometheus.NewRegistry(), false)
	require.NoError(t, err)
	defer closeApp()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "lichess.pgn", []byte(testLichessPGN), 0o644))

	require.NoError(t, importLichessFile(fs, "lichess.pgn", zobrist.VariantStandard, app))

	exists, err := app.GameInfo.Exists("ij1k2l3")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestImportLichessFileUnknownVariantStoreErrors(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	app, closeApp, err := openApp(dir, config.Default(), testLogger(t), prometheus.NewRegistry(), false)
	require.NoError(t, err)
	defer closeApp()
	delete(app.Lichess, zobrist.VariantStandard)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "lichess.pgn", []byte(testLichessPGN), 0o644))

	err = importLichessFile(fs, "lichess.pgn", zobrist.VariantStandard, app)
	require.Error(t, err)
}

package explog_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lila-explorer/openingexplorer/internal/explog"
)

func TestNewWithoutFilePathLogsToConsoleOnly(t *testing.T) {
	logger, err := explog.New(explog.Options{})
	require.NoError(t, err)
	logger.Info("starting up", "component", "test")
	_ = logger.Sync() // stderr sync can return EINVAL on some platforms; not a test failure
}

func TestNewWithFilePathCreatesRotatingSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explorer.log")
	logger, err := explog.New(explog.Options{FilePath: path, Debug: true})
	require.NoError(t, err)
	logger.Warn("import rejected", "gameId", "abcdefgh", "reason", "underrated")
	require.NoError(t, logger.Sync())
}

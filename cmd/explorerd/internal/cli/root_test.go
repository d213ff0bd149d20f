package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lila-explorer/openingexplorer/internal/config"
)

func TestLoadConfigFallsBackToDefaultWhenMissing(t *testing.T) {
	old := flagConfigPath
	defer func() { flagConfigPath = old }()

	flagConfigPath = filepath.Join(t.TempDir(), "does-not-exist.toml")
	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	old := flagConfigPath
	defer func() { flagConfigPath = old }()

	path := filepath.Join(t.TempDir(), "explorer.toml")
	require.NoError(t, os.WriteFile(path, []byte("[explorer.master]\nmaxPlies = 15\n"), 0o644))
	flagConfigPath = path

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, 15, cfg.Master.MaxPlies)
	require.Equal(t, config.Default().Cache.TTL, cfg.Cache.TTL)
}

func TestLoadConfigRejectsMalformedPlies(t *testing.T) {
	old := flagConfigPath
	defer func() { flagConfigPath = old }()

	path := filepath.Join(t.TempDir(), "explorer.toml")
	require.NoError(t, os.WriteFile(path, []byte("[explorer.master]\nmaxPlies = -1\n"), 0o644))
	flagConfigPath = path

	_, err := loadConfig()
	require.Error(t, err)
}

func TestRootRegistersEverySubcommand(t *testing.T) {
	root := Root()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.Contains(t, names, "serve")
	require.Contains(t, names, "import")
	require.Contains(t, names, "stats")
}

// Package config loads the static explorer.* TOML configuration tree
// (spec §6), applies defaults, and validates the result once at
// startup. Nothing here is reloaded at runtime.
package config

import (
	"fmt"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/pelletier/go-toml/v2"

	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

// MasterConfig controls the master importer.
type MasterConfig struct {
	MaxPlies int `toml:"maxPlies"`
}

// LichessConfig controls the Lichess importer, per variant.
type LichessConfig struct {
	MaxPlies        int            `toml:"maxPlies"`
	MaxPliesVariant map[string]int `toml:"variants"`
}

// CacheConfig controls internal/respcache.
type CacheConfig struct {
	TTL      time.Duration `toml:"ttl"`
	MaxMoves int           `toml:"maxMoves"`
}

// StoreConfig controls per-MDBX-environment tuning. These affect
// performance only, never query/import semantics.
type StoreConfig struct {
	MapSize    datasize.ByteSize `toml:"mapSize"`
	GrowStep   datasize.ByteSize `toml:"growStep"`
	MaxReaders int               `toml:"maxReaders"`
}

// Config is the full explorer.* tree.
type Config struct {
	Master     MasterConfig  `toml:"master"`
	Lichess    LichessConfig `toml:"lichess"`
	Cache      CacheConfig   `toml:"cache"`
	CorsHeader bool          `toml:"corsHeader"`
	Store      StoreConfig   `toml:"store"`
}

// document is the top-level TOML shape: everything lives under the
// [explorer] table.
type document struct {
	Explorer Config `toml:"explorer"`
}

const (
	defaultMasterMaxPlies  = 40
	defaultLichessMaxPlies = 40
	defaultCacheTTL        = 10 * time.Minute
	defaultCacheMaxMoves   = 40
	defaultMaxReaders      = 126
)

var (
	defaultMapSize  = 4 * datasize.GB
	defaultGrowStep = 2 * datasize.GB
)

// Default returns a Config with every spec §6 default applied.
func Default() Config {
	return Config{
		Master:  MasterConfig{MaxPlies: defaultMasterMaxPlies},
		Lichess: LichessConfig{MaxPlies: defaultLichessMaxPlies, MaxPliesVariant: map[string]int{}},
		Cache:   CacheConfig{TTL: defaultCacheTTL, MaxMoves: defaultCacheMaxMoves},
		Store: StoreConfig{
			MapSize:    defaultMapSize,
			GrowStep:   defaultGrowStep,
			MaxReaders: defaultMaxReaders,
		},
	}
}

// Load parses raw TOML text, overlays it onto Default(), and validates
// the result.
func Load(raw []byte) (Config, error) {
	doc := document{Explorer: Default()}
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return Config{}, fmt.Errorf("config: parse toml: %w", err)
	}
	cfg := doc.Explorer
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that would violate a spec bound
// (plies must be positive, cache bounds non-negative, per-variant
// overrides must name a real variant).
func (c Config) Validate() error {
	if c.Master.MaxPlies <= 0 {
		return fmt.Errorf("config: explorer.master.maxPlies must be positive, got %d", c.Master.MaxPlies)
	}
	if c.Lichess.MaxPlies <= 0 {
		return fmt.Errorf("config: explorer.lichess.maxPlies must be positive, got %d", c.Lichess.MaxPlies)
	}
	for name, plies := range c.Lichess.MaxPliesVariant {
		if _, ok := zobrist.ParseVariant(name); !ok {
			return fmt.Errorf("config: explorer.lichess.variants.%s: unknown variant", name)
		}
		if plies <= 0 {
			return fmt.Errorf("config: explorer.lichess.variants.%s: maxPlies must be positive, got %d", name, plies)
		}
	}
	if c.Cache.MaxMoves < 0 {
		return fmt.Errorf("config: explorer.cache.maxMoves must be non-negative, got %d", c.Cache.MaxMoves)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config: explorer.cache.ttl must be non-negative, got %s", c.Cache.TTL)
	}
	if c.Store.MaxReaders <= 0 {
		return fmt.Errorf("config: explorer.store.maxReaders must be positive, got %d", c.Store.MaxReaders)
	}
	return nil
}

// MaxPliesFor returns the Lichess per-variant override if one is
// configured, otherwise the blanket explorer.lichess.maxPlies default.
func (c Config) MaxPliesFor(v zobrist.Variant) int {
	if n, ok := c.Lichess.MaxPliesVariant[v.String()]; ok {
		return n
	}
	return c.Lichess.MaxPlies
}

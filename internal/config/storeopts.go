package config

import "github.com/lila-explorer/openingexplorer/internal/store"

// EnvOptions converts the configured store tuning into the EnvOptions
// one of internal/store's Open* constructors expects. Path is left
// zero: each Open* constructor fills it in from its own dir/filename
// convention, overwriting whatever is set here.
func (c Config) EnvOptions() store.EnvOptions {
	return store.EnvOptions{
		MapSize:    int64(c.Store.MapSize.Bytes()),
		GrowStep:   int64(c.Store.GrowStep.Bytes()),
		MaxReaders: c.Store.MaxReaders,
	}
}

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/erigontech/mdbx-go/mdbx"
	"github.com/gofrs/flock"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
)

// EnvOptions configures one MDBX environment. MapSize is the maximum
// size libmdbx will grow the file to; it costs only address space, not
// disk, until pages are actually written.
type EnvOptions struct {
	Path        string
	MapSize     int64
	GrowStep    int64
	MaxReaders  int
	ReadOnly    bool
}

const (
	defaultGrowStep   = 2 << 30  // 2 GiB
	lockAcquireBudget = 5 * time.Second
)

// openEnv opens (creating if absent) the MDBX environment file at
// opt.Path, sized for every table in tableCfg (the tables themselves are
// opened by ensureTables), guarding the open against concurrent
// openers from other processes with an advisory flock — libmdbx itself
// only serializes writers within one already-open environment, not the
// initial create-and-map race between two separate processes.
func openEnv(opt EnvOptions) (*mdbx.Env, error) {
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir %s: %w", filepath.Dir(opt.Path), err)
	}

	lock := flock.New(opt.Path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockAcquireBudget)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil || !locked {
		return nil, fmt.Errorf("store: lock %s: %w", opt.Path, apperr.ErrStoreIO)
	}
	defer lock.Unlock()

	env, err := mdbx.NewEnv()
	if err != nil {
		return nil, fmt.Errorf("store: new env: %w", err)
	}
	if err := env.SetOption(mdbx.OptMaxDB, uint64(len(tableCfg))); err != nil {
		return nil, fmt.Errorf("store: set max dbs: %w", err)
	}
	growStep := opt.GrowStep
	if growStep == 0 {
		growStep = defaultGrowStep
	}
	if err := env.SetGeometry(-1, -1, int(opt.MapSize), int(growStep), -1, -1); err != nil {
		return nil, fmt.Errorf("store: set geometry: %w", err)
	}
	if opt.MaxReaders > 0 {
		if err := env.SetOption(mdbx.OptMaxReaders, uint64(opt.MaxReaders)); err != nil {
			return nil, fmt.Errorf("store: set max readers: %w", err)
		}
	}

	flags := mdbx.NoSubdir
	if opt.ReadOnly {
		flags |= mdbx.Readonly
	}

	openOp := func() error {
		return env.Open(opt.Path, flags, 0o644)
	}
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(openOp, b); err != nil {
		return nil, fmt.Errorf("store: open %s: %w: %w", opt.Path, err, apperr.ErrStoreIO)
	}
	return env, nil
}

// ensureTables opens every table in tableCfg within one write
// transaction, creating any that are missing.
func ensureTables(env *mdbx.Env) error {
	return env.Update(func(txn *mdbx.Txn) error {
		for name, cfg := range tableCfg {
			if _, err := txn.OpenDBISimple(name, cfg.flags); err != nil {
				return fmt.Errorf("store: open table %s: %w", name, err)
			}
		}
		return nil
	})
}

package store

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/erigontech/mdbx-go/mdbx"
)

// stringKeyedStore is the shared shape behind GameInfoStore and
// PgnStore: an MDBX table keyed by the 8-character base-62 game id,
// holding LZMA-compressed values, with store() providing the
// first-write-wins dedup semantics §4.7's concurrency note requires.
type stringKeyedStore struct {
	env   *mdbx.Env
	dbi   mdbx.DBI
	table string
}

func openStringKeyedStore(path, table string, opt EnvOptions) (*stringKeyedStore, error) {
	opt.Path = path
	env, err := openEnv(opt)
	if err != nil {
		return nil, err
	}
	if err := ensureTables(env); err != nil {
		env.Close()
		return nil, err
	}
	var dbi mdbx.DBI
	err = env.View(func(txn *mdbx.Txn) error {
		d, err := txn.OpenDBISimple(table, 0)
		dbi = d
		return err
	})
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("store: open %s table: %w", table, err)
	}
	return &stringKeyedStore{env: env, dbi: dbi, table: table}, nil
}

func (s *stringKeyedStore) Close() error {
	s.env.Close()
	return nil
}

// store writes compressed value under id only if id is absent, and
// reports whether this call is the one that actually inserted it.
func (s *stringKeyedStore) store(id string, plain []byte) (bool, error) {
	compressed, err := compress(plain)
	if err != nil {
		return false, err
	}
	inserted := false
	err = s.env.Update(func(txn *mdbx.Txn) error {
		_, err := txn.Get(s.dbi, []byte(id))
		if err == nil {
			return nil // already present: first write already won
		}
		if !errors.Is(err, mdbx.ErrNotFound) {
			return err
		}
		inserted = true
		return txn.Put(s.dbi, []byte(id), compressed, 0)
	})
	if err != nil {
		return false, fmt.Errorf("store: %s store: %w", s.table, err)
	}
	return inserted, nil
}

func (s *stringKeyedStore) get(id string) ([]byte, bool, error) {
	var plain []byte
	found := false
	err := s.env.View(func(txn *mdbx.Txn) error {
		raw, err := txn.Get(s.dbi, []byte(id))
		if err != nil {
			if errors.Is(err, mdbx.ErrNotFound) {
				return nil
			}
			return err
		}
		decoded, err := decompress(raw)
		if err != nil {
			return err
		}
		plain = decoded
		found = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("store: %s get: %w", s.table, err)
	}
	return plain, found, nil
}

func (s *stringKeyedStore) exists(id string) (bool, error) {
	found := false
	err := s.env.View(func(txn *mdbx.Txn) error {
		_, err := txn.Get(s.dbi, []byte(id))
		if err != nil {
			if errors.Is(err, mdbx.ErrNotFound) {
				return nil
			}
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("store: %s exists: %w", s.table, err)
	}
	return found, nil
}

// delete removes id unconditionally (used by /master/{id} DELETE).
func (s *stringKeyedStore) delete(id string) error {
	err := s.env.Update(func(txn *mdbx.Txn) error {
		err := txn.Del(s.dbi, []byte(id), nil)
		if errors.Is(err, mdbx.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("store: %s delete: %w", s.table, err)
	}
	return nil
}

func joinPath(dir, name string) string {
	return filepath.Join(dir, name)
}

package store

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/erigontech/mdbx-go/mdbx"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
	"github.com/lila-explorer/openingexplorer/internal/entry"
	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/pack"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

const masterFileName = "master.kct"

// MasterStore is `master.kct`: the single, variant-agnostic, unpartitioned
// position database the master (non-Lichess) corpus is indexed into.
// Values are plain movestats.SubEntry wire records (entry.MasterEntry),
// with the same formatBlocks envelope tag as PositionStore for symmetry.
type MasterStore struct {
	env *mdbx.Env
	dbi mdbx.DBI
}

// OpenMasterStore opens (creating if absent) master.kct under dir.
func OpenMasterStore(dir string, opt EnvOptions) (*MasterStore, error) {
	opt.Path = filepath.Join(dir, masterFileName)
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
		d, err := txn.OpenDBISimple(tblPositions, 0)
		dbi = d
		return err
	})
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("store: open master positions table: %w", err)
	}
	return &MasterStore{env: env, dbi: dbi}, nil
}

// Close releases the underlying MDBX environment.
func (s *MasterStore) Close() error {
	s.env.Close()
	return nil
}

// Get returns the MasterEntry stored at key, or ok=false if absent.
func (s *MasterStore) Get(key zobrist.Key) (entry.MasterEntry, bool, error) {
	kb := keyBytes(key)
	var out entry.MasterEntry
	found := false
	err := s.env.View(func(txn *mdbx.Txn) error {
		raw, err := txn.Get(s.dbi, kb)
		if err != nil {
			if errors.Is(err, mdbx.ErrNotFound) {
				return nil
			}
			return err
		}
		out, err = decodeMasterValue(raw)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return entry.MasterEntry{}, false, fmt.Errorf("store: master get: %w", err)
	}
	return out, found, nil
}

// Merge inserts ref/move into the MasterEntry at key inside one write
// transaction.
func (s *MasterStore) Merge(key zobrist.Key, ref gameref.Ref, move pack.MoveToken) error {
	kb := keyBytes(key)
	return s.env.Update(func(txn *mdbx.Txn) error {
		raw, err := txn.Get(s.dbi, kb)
		var e entry.MasterEntry
		if err != nil {
			if !errors.Is(err, mdbx.ErrNotFound) {
				return err
			}
			e = entry.NewMasterEntry()
		} else {
			e, err = decodeMasterValue(raw)
			if err != nil {
				return err
			}
		}
		entry.InsertMaster(&e, ref, move)
		return txn.Put(s.dbi, kb, encodeMasterValue(e), 0)
	})
}

// Subtract removes ref/move from the MasterEntry at key, deleting the
// record if it becomes empty.
func (s *MasterStore) Subtract(key zobrist.Key, ref gameref.Ref, move pack.MoveToken) error {
	kb := keyBytes(key)
	return s.env.Update(func(txn *mdbx.Txn) error {
		raw, err := txn.Get(s.dbi, kb)
		if err != nil {
			if errors.Is(err, mdbx.ErrNotFound) {
				return nil
			}
			return err
		}
		e, err := decodeMasterValue(raw)
		if err != nil {
			return err
		}
		e.Remove(ref, move)
		if e.IsEmpty() {
			if err := txn.Del(s.dbi, kb, nil); err != nil && !errors.Is(err, mdbx.ErrNotFound) {
				return err
			}
			return nil
		}
		return txn.Put(s.dbi, kb, encodeMasterValue(e), 0)
	})
}

// RecordCount returns the number of master positions currently indexed.
func (s *MasterStore) RecordCount() (uint64, error) {
	var n uint64
	err := s.env.View(func(txn *mdbx.Txn) error {
		stat, err := txn.StatDBI(s.dbi)
		if err != nil {
			return err
		}
		n = stat.Entries
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("store: master record count: %w", err)
	}
	return n, nil
}

func encodeMasterValue(e entry.MasterEntry) []byte {
	return append([]byte{formatBlocks}, entry.EncodeMaster(e)...)
}

func decodeMasterValue(raw []byte) (entry.MasterEntry, error) {
	if len(raw) == 0 || raw[0] != formatBlocks {
		return entry.MasterEntry{}, fmt.Errorf("store: unknown master value format: %w", apperr.ErrMalformed)
	}
	return entry.DecodeMaster(raw[1:])
}

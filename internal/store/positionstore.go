// Package store wraps MDBX environments (one per chess variant's
// position table, plus the shared gameInfo and pgn tables) behind the
// get/merge/subtract/exists/recordCount contract the query and importer
// packages depend on. Every mutation runs inside a single MDBX write
// transaction, so MDBX's own single-writer isolation is the only
// concurrency control this package needs: no in-process locking above
// that boundary.
package store

import (
	"encoding/binary"
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

// formatBlocks is the single byte prefixed to every stored Entry value.
// It exists purely as an extension point (Design Note 2): future wire
// layouts get their own tag without disturbing readers of this one.
const formatBlocks byte = 0x01

// PositionStore is the per-variant `{variant}.kct` environment: Zobrist
// key -> packed Entry.
type PositionStore struct {
	env     *mdbx.Env
	dbi     mdbx.DBI
	variant zobrist.Variant
}

// OpenPositionStore opens (creating if absent) the position table for
// variant under dir/<variant>.kct.
func OpenPositionStore(dir string, variant zobrist.Variant, opt EnvOptions) (*PositionStore, error) {
	opt.Path = filepath.Join(dir, variantFileName(variant))
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
		return nil, fmt.Errorf("store: open positions table: %w", err)
	}
	return &PositionStore{env: env, dbi: dbi, variant: variant}, nil
}

func variantFileName(v zobrist.Variant) string {
	return v.String() + ".kct"
}

// Close releases the underlying MDBX environment.
func (s *PositionStore) Close() error {
	s.env.Close()
	return nil
}

func keyBytes(k zobrist.Key) []byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], k.Hi)
	binary.BigEndian.PutUint64(buf[8:], k.Lo)
	return buf[:]
}

// Get returns the Entry stored at key, or ok=false if the position has
// never been indexed.
func (s *PositionStore) Get(key zobrist.Key) (entry.Entry, bool, error) {
	var out entry.Entry
	found := false
	err := s.env.View(func(txn *mdbx.Txn) error {
		raw, err := txn.Get(s.dbi, keyBytes(key))
		if err != nil {
			if errors.Is(err, mdbx.ErrNotFound) {
				return nil
			}
			return err
		}
		out, err = decodeValue(raw)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return entry.Entry{}, false, fmt.Errorf("store: get: %w", err)
	}
	return out, found, nil
}

// Exists reports whether key has at least one recorded game, without
// paying to decode the value.
func (s *PositionStore) Exists(key zobrist.Key) (bool, error) {
	found := false
	err := s.env.View(func(txn *mdbx.Txn) error {
		_, err := txn.Get(s.dbi, keyBytes(key))
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
		return false, fmt.Errorf("store: exists: %w", err)
	}
	return found, nil
}

// Merge performs the accept-visitor RMW: read the Entry at key (or
// start empty), insert ref/move, and write the result back, all inside
// one MDBX write transaction.
func (s *PositionStore) Merge(key zobrist.Key, ref gameref.Ref, move pack.MoveToken) error {
	return s.env.Update(func(txn *mdbx.Txn) error {
		kb := keyBytes(key)
		e, err := readOrEmpty(txn, s.dbi, kb)
		if err != nil {
			return err
		}
		e.InsertRef(ref, move)
		return txn.Put(s.dbi, kb, encodeValue(e), 0)
	})
}

// Subtract performs the reversing RMW: removes ref/move from the Entry
// at key, deleting the record entirely if no cell survives.
func (s *PositionStore) Subtract(key zobrist.Key, ref gameref.Ref, move pack.MoveToken) error {
	return s.env.Update(func(txn *mdbx.Txn) error {
		kb := keyBytes(key)
		e, err := readOrEmpty(txn, s.dbi, kb)
		if err != nil {
			return err
		}
		e.RemoveRef(ref, move)
		if len(e.Cells) == 0 {
			if err := txn.Del(s.dbi, kb, nil); err != nil && !errors.Is(err, mdbx.ErrNotFound) {
				return err
			}
			return nil
		}
		return txn.Put(s.dbi, kb, encodeValue(e), 0)
	})
}

// RecordCount returns the number of positions currently indexed.
func (s *PositionStore) RecordCount() (uint64, error) {
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
		return 0, fmt.Errorf("store: record count: %w", err)
	}
	return n, nil
}

func readOrEmpty(txn *mdbx.Txn, dbi mdbx.DBI, key []byte) (entry.Entry, error) {
	raw, err := txn.Get(dbi, key)
	if err != nil {
		if errors.Is(err, mdbx.ErrNotFound) {
			return entry.New(), nil
		}
		return entry.Entry{}, err
	}
	return decodeValue(raw)
}

func encodeValue(e entry.Entry) []byte {
	return append([]byte{formatBlocks}, entry.Encode(e)...)
}

func decodeValue(raw []byte) (entry.Entry, error) {
	if len(raw) == 0 || raw[0] != formatBlocks {
		return entry.Entry{}, fmt.Errorf("store: unknown value format: %w", apperr.ErrMalformed)
	}
	return entry.Decode(raw[1:])
}

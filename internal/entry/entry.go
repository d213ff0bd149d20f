// Package entry implements the sparse (RatingBand x SpeedBucket) -> SubEntry
// map stored under one position key (Entry), and MasterEntry, the
// degenerate single-cell record used by the master database.
//
// The wire format is a concatenation of per-cell blocks (spec §4.4); there
// is no index or length prefix for the block sequence itself, so the
// decoder simply reads blocks until the buffer is exhausted. A cell's
// band/speed are never written explicitly - they are inferred from the
// first GameRef in its block, per Design Note 3 (no back-pointers: the
// encoder threads each selected top-game ref into its cell's block by
// value during one pass over the cells).
package entry

import (
	"fmt"
	"sort"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/movestats"
	"github.com/lila-explorer/openingexplorer/internal/pack"
	"github.com/lila-explorer/openingexplorer/internal/ratingband"
)

// maxRecentGames is how many of a cell's own newest games survive encode.
const maxRecentGames = 2

// maxTopGamesPerSpeed is how many games, pooled across all bands of one
// speed bucket, survive encode by highest averageRating.
const maxTopGamesPerSpeed = 4

// CellKey identifies one (RatingBand, SpeedBucket) cell of an Entry.
type CellKey struct {
	Band  ratingband.Band
	Speed ratingband.SpeedBucket
}

// Entry is the cross-product of SubEntrys indexed by (band, speed). Empty
// cells are never stored: the key set of Cells is exactly the set of
// bands/speeds that have recorded at least one game.
type Entry struct {
	Cells map[CellKey]movestats.SubEntry
}

// New returns an empty Entry.
func New() Entry {
	return Entry{Cells: make(map[CellKey]movestats.SubEntry)}
}

// InsertRef routes ref/move to the cell its band and speed select,
// creating the cell if this is the first game to reach it.
func (e *Entry) InsertRef(ref gameref.Ref, move pack.MoveToken) {
	if e.Cells == nil {
		e.Cells = make(map[CellKey]movestats.SubEntry)
	}
	key := CellKey{Band: ratingband.Of(ref.AverageRating), Speed: ref.Speed}
	se := e.Cells[key]
	se.Insert(ref, move)
	e.Cells[key] = se
}

// RemoveRef reverses InsertRef, dropping the cell entirely if it becomes
// empty as a result.
func (e *Entry) RemoveRef(ref gameref.Ref, move pack.MoveToken) {
	key := CellKey{Band: ratingband.Of(ref.AverageRating), Speed: ref.Speed}
	se, ok := e.Cells[key]
	if !ok {
		return
	}
	se.Remove(ref, move)
	if se.IsEmpty() {
		delete(e.Cells, key)
	} else {
		e.Cells[key] = se
	}
}

// TotalGames sums the game count across every cell.
func (e Entry) TotalGames() uint64 {
	var total uint64
	for _, se := range e.Cells {
		total += se.Total().Total()
	}
	return total
}

// Encode serializes e as a concatenation of per-cell blocks in
// ascending (band, speed) order, which keeps the byte encoding of a
// given Entry value deterministic.
func Encode(e Entry) []byte {
	topBySpeed := collectTopGamesBySpeed(e)

	keys := make([]CellKey, 0, len(e.Cells))
	for k := range e.Cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Band != keys[j].Band {
			return keys[i].Band < keys[j].Band
		}
		return keys[i].Speed < keys[j].Speed
	})

	var dst []byte
	for _, key := range keys {
		se := e.Cells[key]
		persist := selectPersistedRefs(se, topBySpeed[key.Speed])
		dst = pack.PutVaruint(dst, uint64(len(persist)))
		for _, ref := range persist {
			enc := gameref.Encode(ref)
			dst = append(dst, enc[:]...)
		}
		dst = movestats.EncodeMovesOnly(dst, se.Moves)
	}
	return dst
}

// Decode reads the block sequence Encode writes, inferring each block's
// cell from its first GameRef.
func Decode(src []byte) (Entry, error) {
	e := New()
	for len(src) > 0 {
		n, rest, err := pack.Varuint(src)
		if err != nil {
			return Entry{}, fmt.Errorf("entry: block count: %w", err)
		}
		if n == 0 {
			return Entry{}, fmt.Errorf("entry: block with zero refs: %w", apperr.ErrMalformed)
		}
		refs := make([]gameref.Ref, 0, n)
		var key CellKey
		for i := uint64(0); i < n; i++ {
			if len(rest) < 8 {
				return Entry{}, fmt.Errorf("entry: gameref: %w", apperr.ErrTruncated)
			}
			ref, err := gameref.Decode(rest[:8])
			if err != nil {
				return Entry{}, err
			}
			rest = rest[8:]
			if i == 0 {
				key = CellKey{Band: ratingband.Of(ref.AverageRating), Speed: ref.Speed}
			}
			refs = append(refs, ref)
		}
		moves, next, err := movestats.DecodeMovesOnly(rest)
		if err != nil {
			return Entry{}, err
		}
		e.Cells[key] = movestats.SubEntry{Moves: moves, Games: refs}
		src = next
	}
	return e, nil
}

// collectTopGamesBySpeed pools every cell's games by speed bucket
// (across all bands) and keeps the top maxTopGamesPerSpeed by rating.
func collectTopGamesBySpeed(e Entry) map[ratingband.SpeedBucket][]gameref.Ref {
	pool := make(map[ratingband.SpeedBucket][]gameref.Ref)
	for key, se := range e.Cells {
		pool[key.Speed] = append(pool[key.Speed], se.Games...)
	}
	out := make(map[ratingband.SpeedBucket][]gameref.Ref, len(pool))
	for speed, games := range pool {
		out[speed] = movestats.SelectTopGames(games, maxTopGamesPerSpeed)
	}
	return out
}

// selectPersistedRefs merges a cell's own most-recent games with the
// subset of the speed-wide top-games list that belongs to this cell's
// band, then de-duplicates by gameId.
func selectPersistedRefs(se movestats.SubEntry, topForSpeed []gameref.Ref) []gameref.Ref {
	seen := make(map[string]bool)
	var out []gameref.Ref

	recent := se.Games
	if len(recent) > maxRecentGames {
		recent = recent[:maxRecentGames]
	}
	for _, ref := range recent {
		if !seen[ref.GameID] {
			seen[ref.GameID] = true
			out = append(out, ref)
		}
	}

	cellBand := ratingband.Of(se.Games[0].AverageRating)
	for _, ref := range topForSpeed {
		if ratingband.Of(ref.AverageRating) != cellBand {
			continue
		}
		if !seen[ref.GameID] {
			seen[ref.GameID] = true
			out = append(out, ref)
		}
	}
	return out
}

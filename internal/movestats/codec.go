package movestats

import (
	"fmt"
	"sort"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/pack"
)

// maxTopGames is the number of GameRefs the master pipeline keeps per
// SubEntry, selected by highest averageRating with ties broken toward
// whichever ref was inserted later.
const maxTopGames = 4

// EncodeMovesOnly writes varuint(m) followed by m *
// [token][varuint white][varuint draws][varuint black][varuint ratingSum],
// in ascending move-token order so the encoding is deterministic.
func EncodeMovesOnly(dst []byte, moves map[pack.MoveToken]Stats) []byte {
	type kv struct {
		move  pack.MoveToken
		stats Stats
	}
	sorted := make([]kv, 0, len(moves))
	for move, s := range moves {
		sorted = append(sorted, kv{move, s})
	}
	sort.Slice(sorted, func(i, j int) bool {
		return pack.EncodeMoveToken(sorted[i].move) < pack.EncodeMoveToken(sorted[j].move)
	})

	dst = pack.PutVaruint(dst, uint64(len(sorted)))
	for _, e := range sorted {
		dst = pack.PutMoveToken(dst, e.move)
		dst = pack.PutVaruint(dst, e.stats.White)
		dst = pack.PutVaruint(dst, e.stats.Draws)
		dst = pack.PutVaruint(dst, e.stats.Black)
		dst = pack.PutVaruint(dst, e.stats.RatingSum)
	}
	return dst
}

// DecodeMovesOnly reads the format EncodeMovesOnly writes, returning the
// decoded map and the unconsumed remainder of src.
func DecodeMovesOnly(src []byte) (map[pack.MoveToken]Stats, []byte, error) {
	n, rest, err := pack.Varuint(src)
	if err != nil {
		return nil, nil, fmt.Errorf("movestats: move count: %w", err)
	}
	moves := make(map[pack.MoveToken]Stats, n)
	for i := uint64(0); i < n; i++ {
		word, r1, err := pack.MoveTokenWord(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("movestats: move token: %w", err)
		}
		move, err := pack.DecodeMoveToken(word)
		if err != nil {
			return nil, nil, err
		}
		white, r2, err := pack.Varuint(r1)
		if err != nil {
			return nil, nil, fmt.Errorf("movestats: white: %w", err)
		}
		draws, r3, err := pack.Varuint(r2)
		if err != nil {
			return nil, nil, fmt.Errorf("movestats: draws: %w", err)
		}
		black, r4, err := pack.Varuint(r3)
		if err != nil {
			return nil, nil, fmt.Errorf("movestats: black: %w", err)
		}
		ratingSum, r5, err := pack.Varuint(r4)
		if err != nil {
			return nil, nil, fmt.Errorf("movestats: ratingSum: %w", err)
		}
		moves[move] = Stats{White: white, Draws: draws, Black: black, RatingSum: ratingSum}
		rest = r5
	}
	return moves, rest, nil
}

// Encode writes the full SubEntry wire form (spec §4.3): moves, then a
// trailing run of 8-byte GameRefs selected by the master top-games
// policy (top maxTopGames by averageRating, ties won by later insertion).
func Encode(dst []byte, e SubEntry) []byte {
	dst = EncodeMovesOnly(dst, e.Moves)
	for _, ref := range SelectTopGames(e.Games, maxTopGames) {
		enc := gameref.Encode(ref)
		dst = append(dst, enc[:]...)
	}
	return dst
}

// Decode reads the full SubEntry wire form, consuming GameRefs until src
// is exhausted (readers accept any number of refs, per spec §4.3).
func Decode(src []byte) (SubEntry, error) {
	moves, rest, err := DecodeMovesOnly(src)
	if err != nil {
		return SubEntry{}, err
	}
	var games []gameref.Ref
	for len(rest) > 0 {
		if len(rest) < 8 {
			return SubEntry{}, fmt.Errorf("movestats: trailing gameref: %w", apperr.ErrTruncated)
		}
		ref, err := gameref.Decode(rest[:8])
		if err != nil {
			return SubEntry{}, err
		}
		games = append(games, ref)
		rest = rest[8:]
	}
	return SubEntry{Moves: moves, Games: games}, nil
}

// SelectTopGames returns up to max refs from games chosen by highest
// AverageRating. Insertion order in games is newest-first (Insert
// prepends), so a stable sort by descending rating naturally resolves
// ties toward the most recently inserted ref.
func SelectTopGames(games []gameref.Ref, max int) []gameref.Ref {
	sorted := append([]gameref.Ref{}, games...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AverageRating > sorted[j].AverageRating
	})
	if max >= 0 && len(sorted) > max {
		sorted = sorted[:max]
	}
	return sorted
}

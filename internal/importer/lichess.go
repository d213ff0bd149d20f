package importer

import (
	"fmt"
	"strconv"

	"github.com/corentings/chess/v2"

	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/store"
)

// GameInfoStore is the auxiliary store the Lichess importer writes
// first, its insert-if-absent Store call implementing the
// first-write-wins dedup contract (spec §4.7's concurrency note).
type GameInfoStore interface {
	Store(id string, info store.GameInfo) (bool, error)
}

// LichessImporter ingests games destined for one variant's rating/speed
// partitioned PositionStore, deduplicated by gameId against the
// GameInfo store.
type LichessImporter struct {
	Pipeline Pipeline
	Info     GameInfoStore
}

// Import parses, reserves the gameId, and (only for the reservation's
// winner) replays pgnText's plies and records its metadata as one
// Lichess game. The returned bool is the "first write wins" signal; an
// unparsable PGN is a rejection (false, nil), not an error.
//
// Info.Store is the atomic insert-if-absent call that decides the
// winner, and it runs before Replay, not after: two concurrent imports
// of the same gameId must never both reach Replay, or both would merge
// the same plies into the position store.
func (imp LichessImporter) Import(pgnText string) (accepted bool, err error) {
	game, err := ParsePGN(pgnText)
	if err != nil {
		return false, nil
	}

	ref, err := DeriveGameRef(game, "Site")
	if err != nil {
		return false, err
	}

	info := gameInfoFromGame(game, ref)
	won, err := imp.Info.Store(ref.GameID, info)
	if err != nil {
		return false, fmt.Errorf("importer: store gameinfo: %w", err)
	}
	if !won {
		return false, nil
	}

	if err := imp.Pipeline.Replay(game, ref); err != nil {
		return false, err
	}
	return true, nil
}

func gameInfoFromGame(game *chess.Game, ref gameref.Ref) store.GameInfo {
	info := store.GameInfo{
		WhiteName:   game.GetTagPair("White"),
		WhiteRating: ref.AverageRating,
		BlackName:   game.GetTagPair("Black"),
		BlackRating: ref.AverageRating,
	}
	if elo, ok := parseEloTag(game.GetTagPair("WhiteElo")); ok {
		info.WhiteRating = elo
	}
	if elo, ok := parseEloTag(game.GetTagPair("BlackElo")); ok {
		info.BlackRating = elo
	}
	if year, ok := parseYearTag(game.GetTagPair("Date")); ok {
		info.Year = year
		info.YearKnown = true
	}
	return info
}

// parseYearTag reads the leading "YYYY" out of a PGN "Date" tag
// ("YYYY.MM.DD", with "??" segments for unknown parts).
func parseYearTag(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

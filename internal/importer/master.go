package importer

import (
	"fmt"

	"github.com/corentings/chess/v2"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
)

const masterMinRating = 2200

// PgnStore is the auxiliary store the master importer writes first: its
// insert-if-absent Store call reserves the gameId before any ply is
// replayed, so a record's presence does not by itself imply that every
// ply of that game was indexed (a replay that fails part-way leaves only
// a prefix of the plies merged).
type PgnStore interface {
	Store(id string, pgn string) (bool, error)
}

// MasterImporter ingests games destined for the single, unpartitioned
// master database: strong (rating >= 2200) games starting from the
// standard position, deduplicated by gameId against the PGN store.
type MasterImporter struct {
	Pipeline Pipeline
	Pgn      PgnStore
}

// Import parses, validates, reserves the gameId, and (only for the
// reservation's winner) replays pgnText as one master game. It reports
// whether this call indexed the game; a rejected game (unparsable, wrong
// start, underrated, or already seen) is not an error, just a no-op the
// caller can log.
//
// The PGN store's insert-if-absent Store call is what decides the
// winner, and it runs before Replay, not after: two concurrent imports
// of the same gameId must never both reach Replay, or both would merge
// the same plies into the position store.
func (imp MasterImporter) Import(pgnText string) (accepted bool, err error) {
	game, err := ParsePGN(pgnText)
	if err != nil {
		return false, nil
	}

	if !startsFromStandardPosition(game) {
		return false, nil
	}

	ref, err := DeriveGameRef(game, "GameId")
	if err != nil {
		if apperr.Is(err, apperr.ErrValidation) {
			return false, nil
		}
		return false, err
	}
	if ref.AverageRating < masterMinRating {
		return false, nil
	}

	won, err := imp.Pgn.Store(ref.GameID, pgnText)
	if err != nil {
		return false, fmt.Errorf("importer: store pgn: %w", err)
	}
	if !won {
		return false, nil
	}

	if err := imp.Pipeline.Replay(game, ref); err != nil {
		return false, err
	}
	return true, nil
}

// startsFromStandardPosition rejects games tagged with a custom
// starting FEN (the "from position" variant), the PGN-level signal for
// "not the standard start" — a Game's initial position is the real
// chess starting position unless its "FEN" tag says otherwise.
func startsFromStandardPosition(game *chess.Game) bool {
	return game.GetTagPair("FEN") == ""
}

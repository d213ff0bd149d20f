package query

import (
	"fmt"

	"github.com/corentings/chess/v2"

	"github.com/lila-explorer/openingexplorer/internal/pack"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

// Child is one legal move out of a queried position, paired with the
// hash of the position it leads to and the same MoveToken the store
// indexes moves by, so a caller can match a Child back to the
// RankedMove it corresponds to in a Result.
type Child struct {
	UCI   string
	SAN   string
	Key   zobrist.Key
	Move  chess.Move
	Token pack.MoveToken
}

// TokenFor derives the board-move MoveToken for m, the same encoding
// internal/importer uses when replaying a game's plies (promotions get
// roles 1..4; drops are out of scope here, matching the importer's own
// board-move-only coverage).
func TokenFor(m chess.Move) pack.MoveToken {
	role := uint8(0)
	if promo := m.Promo(); promo != chess.NoPieceType {
		role = promotionRole(promo)
	}
	return pack.MoveToken{Orig: uint8(m.S1()), Dest: uint8(m.S2()), Role: role}
}

func promotionRole(pt chess.PieceType) uint8 {
	switch pt {
	case chess.Knight:
		return 1
	case chess.Bishop:
		return 2
	case chess.Rook:
		return 3
	case chess.Queen:
		return 4
	default:
		return 0
	}
}

// ChildIterator walks game's legal moves exactly once (Design Note
// "generator-style move enumeration": finite, one-shot, not
// restartable), deduplicating the two castling moves that share a rook
// target so O-O/O-O-O each surface a single child regardless of how
// many rook-destination variants the move generator yields.
type ChildIterator struct {
	game   *chess.Game
	table  *zobrist.Table
	moves  []chess.Move
	cursor int
	sawOO  bool
	sawOOO bool
}

// NewChildIterator builds an iterator over game's legal moves, hashed
// with table.
func NewChildIterator(game *chess.Game, table *zobrist.Table) *ChildIterator {
	return &ChildIterator{game: game, table: table, moves: game.ValidMoves()}
}

// Next returns the next (deduplicated) child, or ok=false once the
// iterator is exhausted.
func (it *ChildIterator) Next() (Child, bool, error) {
	for it.cursor < len(it.moves) {
		m := it.moves[it.cursor]
		it.cursor++

		if m.HasTag(chess.KingSideCastle) {
			if it.sawOO {
				continue
			}
			it.sawOO = true
		}
		if m.HasTag(chess.QueenSideCastle) {
			if it.sawOOO {
				continue
			}
			it.sawOOO = true
		}

		child, err := it.resolve(m)
		if err != nil {
			return Child{}, false, err
		}
		return child, true, nil
	}
	return Child{}, false, nil
}

// resolve replays m on a clone of it.game to obtain the resulting
// position, and hashes it. Cloning (rather than mutating it.game) keeps
// the iterator side-effect-free on the caller's game.
func (it *ChildIterator) resolve(m chess.Move) (Child, error) {
	before := it.game.Position()
	san := chess.AlgebraicNotation{}.Encode(before, &m)
	uci := chess.UCINotation{}.Encode(before, &m)

	clone := it.game.Clone()
	if err := clone.PushMove(san, nil); err != nil {
		return Child{}, fmt.Errorf("query: replay child move %s: %w", san, err)
	}

	key := it.table.Hash(clone.Position())
	return Child{UCI: uci, SAN: san, Key: key, Move: m, Token: TokenFor(m)}, nil
}

// Package importer turns PGN text into PositionStore/MasterStore
// merges. MasterImporter and LichessImporter share the parse ->
// derive-GameRef -> replay-plies shape through Pipeline, composed
// rather than inherited, and diverge only in their rejection rules and
// which auxiliary store records the dedup/cancellation invariant.
package importer

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/pack"
	"github.com/lila-explorer/openingexplorer/internal/ratingband"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

// PositionMerger is the store-side dependency Pipeline replays plies
// into. *store.PositionStore and *store.MasterStore both satisfy it.
type PositionMerger interface {
	Merge(key zobrist.Key, ref gameref.Ref, move pack.MoveToken) error
}

const defaultMaxPlies = 40

// Pipeline is the shared parse/replay machinery both concrete importers
// build on: it never decides acceptance or writes to an auxiliary
// store, that's each importer's own job.
type Pipeline struct {
	Store    PositionMerger
	Table    *zobrist.Table
	MaxPlies int
}

// ParsePGN decodes one PGN game's text into a *chess.Game.
func ParsePGN(pgnText string) (*chess.Game, error) {
	opt, err := chess.PGN(strings.NewReader(pgnText))
	if err != nil {
		return nil, fmt.Errorf("importer: parse pgn: %w: %w", err, apperr.ErrMalformed)
	}
	return chess.NewGame(opt), nil
}

// DeriveGameRef reads the tag pairs and outcome off game and builds the
// GameRef the rest of the pipeline carries. idTag names the header tag
// holding the external game id ("GameId" or "Site", depending on
// source); a URL-valued tag such as "https://lichess.org/ij1k2l3"
// contributes only the text after its last '/'. If the tag is absent or
// empty, a random 8-character id is substituted, a random 8-character id
// used for testing fixtures.
func DeriveGameRef(game *chess.Game, idTag string) (gameref.Ref, error) {
	whiteElo, whiteOK := parseEloTag(game.GetTagPair("WhiteElo"))
	blackElo, blackOK := parseEloTag(game.GetTagPair("BlackElo"))
	if !whiteOK || !blackOK {
		return gameref.Ref{}, fmt.Errorf("importer: missing rating tags: %w", apperr.ErrValidation)
	}
	avgRating := uint16((int(whiteElo) + int(blackElo)) / 2)

	id := game.GetTagPair(idTag)
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	if id == "" {
		id = randomGameID()
	}

	return gameref.Ref{
		GameID:        id,
		Winner:        winnerFromOutcome(game.Outcome()),
		Speed:         ratingband.ClassifySpeed(game.GetTagPair("TimeControl")),
		AverageRating: avgRating,
	}, nil
}

func parseEloTag(s string) (uint16, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return uint16(n), true
}

func winnerFromOutcome(o chess.Outcome) gameref.Winner {
	switch o.String() {
	case "1-0":
		return gameref.WinnerWhite
	case "0-1":
		return gameref.WinnerBlack
	default:
		return gameref.WinnerDraw
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomGameID() string {
	buf := make([]byte, 8)
	for i := range buf {
		buf[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(buf)
}

// Replay walks game's plies up to p.MaxPlies (or defaultMaxPlies if
// unset), merging (hash, ref, move) into p.Store for each one.
func (p Pipeline) Replay(game *chess.Game, ref gameref.Ref) error {
	maxPlies := p.MaxPlies
	if maxPlies <= 0 {
		maxPlies = defaultMaxPlies
	}

	positions := game.Positions()
	moves := game.Moves()
	n := len(moves)
	if n > maxPlies {
		n = maxPlies
	}
	for i := 0; i < n; i++ {
		situationBefore := positions[i]
		token := moveToken(moves[i])
		key := p.Table.Hash(situationBefore)
		if err := p.Store.Merge(key, ref, token); err != nil {
			return fmt.Errorf("importer: merge ply %d: %w", i, err)
		}
	}
	return nil
}

// PositionSubtractor is the reverse of PositionMerger: the store-side
// dependency ReplaySubtract undoes a game's plies into. Both
// *store.PositionStore and *store.MasterStore satisfy it.
type PositionSubtractor interface {
	Subtract(key zobrist.Key, ref gameref.Ref, move pack.MoveToken) error
}

// ReplaySubtract walks game's plies exactly as Replay does, but calls
// Subtract against dst instead of Merge against p.Store, undoing a
// previously-imported game (spec's `/master/{id}` DELETE).
func (p Pipeline) ReplaySubtract(dst PositionSubtractor, game *chess.Game, ref gameref.Ref) error {
	maxPlies := p.MaxPlies
	if maxPlies <= 0 {
		maxPlies = defaultMaxPlies
	}

	positions := game.Positions()
	moves := game.Moves()
	n := len(moves)
	if n > maxPlies {
		n = maxPlies
	}
	for i := 0; i < n; i++ {
		token := moveToken(moves[i])
		key := p.Table.Hash(positions[i])
		if err := dst.Subtract(key, ref, token); err != nil {
			return fmt.Errorf("importer: subtract ply %d: %w", i, err)
		}
	}
	return nil
}

// moveToken derives a board-move MoveToken from m. Drop-move (Crazyhouse)
// derivation depends on corentings/chess/v2 API surface that was not
// present in the vendored reference files, so this handles standard
// board moves only.
func moveToken(m *chess.Move) pack.MoveToken {
	role := uint8(0)
	if promo := m.Promo(); promo != chess.NoPieceType {
		role = promotionRole(promo)
	}
	return pack.MoveToken{Orig: uint8(m.S1()), Dest: uint8(m.S2()), Role: role}
}

// promotionRole maps a promotion piece type to the move-token's 1..4
// promotion role range (pawns and kings can never be promotion targets).
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

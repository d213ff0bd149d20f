package httpapi

import (
	"strconv"

	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/importer"
)

func winnerString(w gameref.Winner) string {
	switch w {
	case gameref.WinnerWhite:
		return "white"
	case gameref.WinnerBlack:
		return "black"
	default:
		return "draw"
	}
}

// masterGameDisplay resolves a master GameRef's display fields by
// re-reading its stored PGN text and parsing the same header tags the
// importer derived the ref from. The PGN store is the only place a
// master game's player names live; there is no separate info table for
// the master database the way there is for Lichess.
func (s *Server) masterGameDisplay(ref gameref.Ref) gameDTO {
	dto := gameDTO{ID: ref.GameID, Winner: winnerString(ref.Winner)}
	pgnText, ok, err := s.masterPgn.Get(ref.GameID)
	if err != nil || !ok {
		return dto
	}
	game, err := importer.ParsePGN(pgnText)
	if err != nil {
		return dto
	}
	dto.White = playerDTO{Name: game.GetTagPair("White"), Rating: parseEloOr(game.GetTagPair("WhiteElo"))}
	dto.Black = playerDTO{Name: game.GetTagPair("Black"), Rating: parseEloOr(game.GetTagPair("BlackElo"))}
	if year, ok := parseYearOr(game.GetTagPair("Date")); ok {
		dto.Year = year
	}
	return dto
}

// lichessGameDisplay resolves a Lichess GameRef's display fields from
// the compact GameInfo record the importer wrote alongside it.
func (s *Server) lichessGameDisplay(ref gameref.Ref) gameDTO {
	dto := gameDTO{ID: ref.GameID, Winner: winnerString(ref.Winner)}
	info, ok, err := s.gameInfo.Get(ref.GameID)
	if err != nil || !ok {
		return dto
	}
	dto.White = playerDTO{Name: info.WhiteName, Rating: info.WhiteRating}
	dto.Black = playerDTO{Name: info.BlackName, Rating: info.BlackRating}
	if info.YearKnown {
		dto.Year = info.Year
	}
	return dto
}

func parseEloOr(s string) uint16 {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return uint16(n)
}

func parseYearOr(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

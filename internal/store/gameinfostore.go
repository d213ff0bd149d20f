package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
)

const gameInfoFileName = "gameInfo.kct"

// GameInfo is the per-game metadata recorded alongside the Lichess
// position index, just enough to render search-result rows without a
// second round trip to Lichess.
type GameInfo struct {
	WhiteName   string
	WhiteRating uint16
	BlackName   string
	BlackRating uint16
	Year        int  // 0 when YearKnown is false
	YearKnown   bool
}

// GameInfoStore is `gameInfo.kct`: gameId -> GameInfo, the record the
// importer writes *first* for a Lichess game, its insert-if-absent Store
// reserving the gameId before any ply is replayed. Its presence does not
// by itself imply that every ply of that game was indexed.
type GameInfoStore struct {
	inner *stringKeyedStore
}

// OpenGameInfoStore opens (creating if absent) gameInfo.kct under dir.
func OpenGameInfoStore(dir string, opt EnvOptions) (*GameInfoStore, error) {
	inner, err := openStringKeyedStore(joinPath(dir, gameInfoFileName), tblGameInfo, opt)
	if err != nil {
		return nil, err
	}
	return &GameInfoStore{inner: inner}, nil
}

func (s *GameInfoStore) Close() error { return s.inner.Close() }

// Store writes info under id only if id has never been seen before,
// reporting whether this call is the one that won the race.
func (s *GameInfoStore) Store(id string, info GameInfo) (bool, error) {
	return s.inner.store(id, []byte(formatGameInfo(info)))
}

// Get returns the GameInfo for id, or ok=false if never recorded.
func (s *GameInfoStore) Get(id string) (GameInfo, bool, error) {
	raw, ok, err := s.inner.get(id)
	if err != nil || !ok {
		return GameInfo{}, ok, err
	}
	info, err := parseGameInfo(string(raw))
	if err != nil {
		return GameInfo{}, false, err
	}
	return info, true, nil
}

// Exists reports whether a GameInfo record for id is present. The Lichess
// importer does not call it: its dedup check is Store's insert-if-absent.
func (s *GameInfoStore) Exists(id string) (bool, error) {
	return s.inner.exists(id)
}

func formatGameInfo(info GameInfo) string {
	year := "?"
	if info.YearKnown {
		year = strconv.Itoa(info.Year)
	}
	return strings.Join([]string{
		info.WhiteName,
		strconv.Itoa(int(info.WhiteRating)),
		info.BlackName,
		strconv.Itoa(int(info.BlackRating)),
		year,
	}, "|")
}

func parseGameInfo(s string) (GameInfo, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 5 {
		return GameInfo{}, fmt.Errorf("store: gameInfo field count: %w", apperr.ErrMalformed)
	}
	whiteRating, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return GameInfo{}, fmt.Errorf("store: gameInfo whiteRating: %w", apperr.ErrMalformed)
	}
	blackRating, err := strconv.ParseUint(parts[3], 10, 16)
	if err != nil {
		return GameInfo{}, fmt.Errorf("store: gameInfo blackRating: %w", apperr.ErrMalformed)
	}
	info := GameInfo{
		WhiteName:   parts[0],
		WhiteRating: uint16(whiteRating),
		BlackName:   parts[2],
		BlackRating: uint16(blackRating),
	}
	if parts[4] != "?" {
		year, err := strconv.Atoi(parts[4])
		if err != nil {
			return GameInfo{}, fmt.Errorf("store: gameInfo year: %w", apperr.ErrMalformed)
		}
		info.Year = year
		info.YearKnown = true
	}
	return info, nil
}

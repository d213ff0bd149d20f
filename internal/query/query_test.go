package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lila-explorer/openingexplorer/internal/entry"
	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/pack"
	"github.com/lila-explorer/openingexplorer/internal/query"
	"github.com/lila-explorer/openingexplorer/internal/ratingband"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

type fakeProbe struct {
	entries map[zobrist.Key]entry.Entry
}

func (f fakeProbe) Get(key zobrist.Key) (entry.Entry, bool, error) {
	e, ok := f.entries[key]
	return e, ok, nil
}

func ref(id string, w gameref.Winner, speed ratingband.SpeedBucket, rating uint16) gameref.Ref {
	return gameref.Ref{GameID: id, Winner: w, Speed: speed, AverageRating: rating}
}

var e4e5 = pack.MoveToken{Orig: 12, Dest: 28}
var d4d5 = pack.MoveToken{Orig: 11, Dest: 27}

func allBandsSpeeds() ([]ratingband.Band, []ratingband.SpeedBucket) {
	return ratingband.All(), ratingband.AllSpeeds()
}

func TestProbeAggregatesAcrossRequestedCellsOnly(t *testing.T) {
	e := entry.New()
	e.InsertRef(ref("g0000001", gameref.WinnerWhite, ratingband.Blitz, 1550), e4e5)
	e.InsertRef(ref("g0000002", gameref.WinnerBlack, ratingband.Classical, 2450), d4d5)

	key := zobrist.Key{Hi: 1, Lo: 2}
	probe := fakeProbe{entries: map[zobrist.Key]entry.Entry{key: e}}
	eng := query.Engine{}

	bands, _ := allBandsSpeeds()
	res, err := eng.Probe(probe, key, query.Filter{
		RatingBands: bands,
		Speeds:      []ratingband.SpeedBucket{ratingband.Blitz},
		MaxMoves:    10,
		TopGames:    4,
		RecentGames: 10,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), res.Total.Total())
	require.Len(t, res.Moves, 1)
	require.Equal(t, e4e5, res.Moves[0].Move)
}

func TestProbeAbsentPositionIsEmptyNotError(t *testing.T) {
	probe := fakeProbe{entries: map[zobrist.Key]entry.Entry{}}
	eng := query.Engine{}
	bands, speeds := allBandsSpeeds()
	res, err := eng.Probe(probe, zobrist.Key{Hi: 9, Lo: 9}, query.Filter{RatingBands: bands, Speeds: speeds, MaxMoves: 5})
	require.NoError(t, err)
	require.True(t, res.Total.IsZero())
	require.Empty(t, res.Moves)
}

func TestTopGamesIsolatedPerRequestedSpeed(t *testing.T) {
	e := entry.New()
	for i := 0; i < 10; i++ {
		id := string(rune('a'+i)) + "0000001"
		e.InsertRef(ref(id, gameref.WinnerDraw, ratingband.Classical, uint16(2501+i)), e4e5)
	}
	e.InsertRef(ref("abcdefgh", gameref.WinnerDraw, ratingband.Classical, 2871), e4e5)
	for i := 0; i < 9; i++ {
		id := string(rune('a'+i)) + "0000002"
		e.InsertRef(ref(id, gameref.WinnerDraw, ratingband.Bullet, uint16(2777+i)), d4d5)
	}

	key := zobrist.Key{Hi: 3, Lo: 4}
	probe := fakeProbe{entries: map[zobrist.Key]entry.Entry{key: e}}
	eng := query.Engine{}

	bands, _ := allBandsSpeeds()
	res, err := eng.Probe(probe, key, query.Filter{
		RatingBands: bands,
		Speeds:      []ratingband.SpeedBucket{ratingband.Classical},
		MaxMoves:    10,
		TopGames:    4,
		RecentGames: 0,
	})
	require.NoError(t, err)

	found := false
	for _, g := range res.TopGames {
		if g.GameID == "abcdefgh" {
			found = true
		}
	}
	require.True(t, found, "highest-rated classical game must appear even though bullet games rate higher")
}

func TestTopGamesEmptyWhenTopBandNotRequested(t *testing.T) {
	e := entry.New()
	e.InsertRef(ref("g0000001", gameref.WinnerWhite, ratingband.Classical, 2700), e4e5)
	e.InsertRef(ref("g0000002", gameref.WinnerBlack, ratingband.Classical, 1050), d4d5)

	key := zobrist.Key{Hi: 5, Lo: 6}
	probe := fakeProbe{entries: map[zobrist.Key]entry.Entry{key: e}}
	eng := query.Engine{}

	res, err := eng.Probe(probe, key, query.Filter{
		RatingBands: []ratingband.Band{ratingband.Of(1050)},
		Speeds:      []ratingband.SpeedBucket{ratingband.Classical},
		MaxMoves:    10,
		TopGames:    4,
	})
	require.NoError(t, err)
	require.Empty(t, res.TopGames, "excluding the top-rated slice must yield no top games at all")
}

func TestRecentGamesTruncated(t *testing.T) {
	e := entry.New()
	e.InsertRef(ref("g0000001", gameref.WinnerDraw, ratingband.Classical, 2620), e4e5)
	e.InsertRef(ref("g0000002", gameref.WinnerDraw, ratingband.Classical, 2610), e4e5)
	e.InsertRef(ref("g0000003", gameref.WinnerDraw, ratingband.Classical, 2650), e4e5)

	key := zobrist.Key{Hi: 7, Lo: 8}
	probe := fakeProbe{entries: map[zobrist.Key]entry.Entry{key: e}}
	eng := query.Engine{}

	bands, speeds := allBandsSpeeds()
	res, err := eng.Probe(probe, key, query.Filter{RatingBands: bands, Speeds: speeds, MaxMoves: 5, RecentGames: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"g0000003", "g0000002"}, []string{res.RecentGames[0].GameID, res.RecentGames[1].GameID})
}

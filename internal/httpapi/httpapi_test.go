package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/lila-explorer/openingexplorer/internal/config"
	"github.com/lila-explorer/openingexplorer/internal/explog"
	"github.com/lila-explorer/openingexplorer/internal/httpapi"
	"github.com/lila-explorer/openingexplorer/internal/metrics"
	"github.com/lila-explorer/openingexplorer/internal/respcache"
	"github.com/lila-explorer/openingexplorer/internal/store"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

const masterGamePGN = `[Event "Test"]
[Site "?"]
[White "Carlsen, Magnus"]
[Black "Caruana, Fabiano"]
[Result "1-0"]
[WhiteElo "2839"]
[BlackElo "2820"]
[TimeControl "5400+30"]
[GameId "abcdefgh"]

1. e4 e5 2. Nf3 Nc6 1-0
`

const lichessGamePGN = `[Event "Rated Blitz game"]
[Site "lichess.org/ij1k2l3"]
[White "alice"]
[Black "bob"]
[Result "0-1"]
[WhiteElo "1800"]
[BlackElo "1850"]
[TimeControl "180+0"]
[Date "2024.03.01"]

1. d4 d5 2. c4 e6 0-1
`

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func newTestServer(t *testing.T) *httpapi.Server {
	t.Helper()
	dir := t.TempDir()
	envOpt := store.EnvOptions{MapSize: 64 << 20, GrowStep: 16 << 20, MaxReaders: 8}

	master, err := store.OpenMasterStore(dir, envOpt)
	require.NoError(t, err)
	t.Cleanup(func() { _ = master.Close() })

	masterPgn, err := store.OpenPgnStore(dir, envOpt)
	require.NoError(t, err)
	t.Cleanup(func() { _ = masterPgn.Close() })

	gameInfo, err := store.OpenGameInfoStore(dir, envOpt)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gameInfo.Close() })

	standard, err := store.OpenPositionStore(dir, zobrist.VariantStandard, envOpt)
	require.NoError(t, err)
	t.Cleanup(func() { _ = standard.Close() })

	cfg := config.Default()
	log, err := explog.New(explog.Options{})
	require.NoError(t, err)

	return httpapi.New(httpapi.Deps{
		Config:    cfg,
		Logger:    log,
		Metrics:   metrics.NewRegistry(prometheus.NewRegistry()),
		Cache:     respcache.New(0, 0, cfg.Cache.MaxMoves),
		Master:    master,
		MasterPgn: masterPgn,
		GameInfo:  gameInfo,
		Lichess:   map[zobrist.Variant]*store.PositionStore{zobrist.VariantStandard: standard},
	})
}

func TestMasterQueryMissingFENIsValidationError(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/master", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "validation")
}

func TestMasterQueryUnknownFENIsValidationError(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/master?fen=not-a-fen", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMasterImportQueryAndDelete(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	putReq := httptest.NewRequest(http.MethodPut, "/master", strings.NewReader(masterGamePGN))
	putRec := httptest.NewRecorder()
	router.ServeHTTP(putRec, putReq)
	require.Equal(t, http.StatusOK, putRec.Code)
	require.Contains(t, putRec.Body.String(), `"accepted":1`)

	getReq := httptest.NewRequest(http.MethodGet, "/master?fen="+startFEN, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)
	require.Contains(t, getRec.Body.String(), `"white":1`)
	require.Contains(t, getRec.Body.String(), `"uci":"e2e4"`)

	pgnReq := httptest.NewRequest(http.MethodGet, "/master/pgn/abcdefgh", nil)
	pgnRec := httptest.NewRecorder()
	router.ServeHTTP(pgnRec, pgnReq)
	require.Equal(t, http.StatusOK, pgnRec.Code)
	require.Contains(t, pgnRec.Body.String(), "Carlsen")

	delReq := httptest.NewRequest(http.MethodDelete, "/master/abcdefgh", nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, delReq)
	require.Equal(t, http.StatusNoContent, delRec.Code)

	missingReq := httptest.NewRequest(http.MethodGet, "/master/pgn/abcdefgh", nil)
	missingRec := httptest.NewRecorder()
	router.ServeHTTP(missingRec, missingReq)
	require.Equal(t, http.StatusNotFound, missingRec.Code)
}

func TestMasterImportRejectsUnderratedGame(t *testing.T) {
	srv := newTestServer(t)
	weak := strings.ReplaceAll(strings.ReplaceAll(masterGamePGN, `"2839"`, `"1200"`), `"2820"`, `"1100"`)

	req := httptest.NewRequest(http.MethodPut, "/master", strings.NewReader(weak))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"accepted":0`)
	require.Contains(t, rec.Body.String(), `"rejected":1`)
}

func TestLichessImportAndQuery(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	putReq := httptest.NewRequest(http.MethodPut, "/lichess", strings.NewReader(lichessGamePGN))
	putRec := httptest.NewRecorder()
	router.ServeHTTP(putRec, putReq)
	require.Equal(t, http.StatusOK, putRec.Code)
	require.Contains(t, putRec.Body.String(), `"accepted":1`)

	getReq := httptest.NewRequest(http.MethodGet, "/lichess?fen="+startFEN, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)
	require.Contains(t, getRec.Body.String(), `"black":1`)
}

func TestLichessQueryUnknownVariantIsValidationError(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/lichess?fen="+startFEN+"&variant=bughouse", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsReflectsImportedGames(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/master", strings.NewReader(masterGamePGN)))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/lichess", strings.NewReader(lichessGamePGN)))

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `"masterGames":`)
	require.NotContains(t, body, `"masterGames":0`)
	require.Contains(t, body, `"chess":`)
	require.NotContains(t, body, `"chess":0`)
}

package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/corentings/chess/v2"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
	"github.com/lila-explorer/openingexplorer/internal/gameref"
	"github.com/lila-explorer/openingexplorer/internal/pack"
	"github.com/lila-explorer/openingexplorer/internal/query"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

func (s *Server) handleMasterQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fen, err := requiredFEN(q)
	if err != nil {
		writeError(w, err)
		return
	}
	moves, err := intParam(q, "moves", defaultMoves, minMoves, maxMovesParam)
	if err != nil {
		writeError(w, err)
		return
	}
	topGames, err := intParam(q, "topGames", defaultTopGames, 0, maxTopGamesParam)
	if err != nil {
		writeError(w, err)
		return
	}

	cacheKey := respcacheKey("master", fen, r.URL.RawQuery)
	if s.respondFromCache(w, fen, cacheKey) {
		return
	}

	game, err := gameFromFEN(fen)
	if err != nil {
		writeError(w, err)
		return
	}

	started := time.Now()
	table := zobrist.TableFor(zobrist.VariantStandard)
	key := table.Hash(game.Position())
	result, err := (query.Engine{Table: table}).ProbeMaster(s.master, key, moves, topGames, masterRecentGames)
	s.observeQuery("master", started)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := s.buildResponse(game, table, result, s.masterGameDisplay)
	s.respondAndCache(w, fen, cacheKey, resp)
}

func (s *Server) handleLichessQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fen, err := requiredFEN(q)
	if err != nil {
		writeError(w, err)
		return
	}
	variant, err := variantParam(q)
	if err != nil {
		writeError(w, err)
		return
	}
	speeds, err := speedsParam(q)
	if err != nil {
		writeError(w, err)
		return
	}
	bands, err := ratingsParam(q)
	if err != nil {
		writeError(w, err)
		return
	}
	moves, err := intParam(q, "moves", defaultMoves, minMoves, maxMovesParam)
	if err != nil {
		writeError(w, err)
		return
	}
	topGames, err := intParam(q, "topGames", defaultTopGames, 0, maxTopGamesParam)
	if err != nil {
		writeError(w, err)
		return
	}
	recentGames, err := intParam(q, "recentGames", defaultRecentGames, 0, maxRecentGamesParam)
	if err != nil {
		writeError(w, err)
		return
	}

	positions, ok := s.lichess[variant]
	if !ok {
		writeError(w, fmt.Errorf("httpapi: variant %q has no open store: %w", variant, apperr.ErrValidation))
		return
	}

	cacheKey := respcacheKey(variant.String(), fen, r.URL.RawQuery)
	if s.respondFromCache(w, fen, cacheKey) {
		return
	}

	game, err := gameFromFEN(fen)
	if err != nil {
		writeError(w, err)
		return
	}

	started := time.Now()
	table := zobrist.TableFor(variant)
	key := table.Hash(game.Position())
	result, err := (query.Engine{Table: table}).Probe(positions, key, query.Filter{
		RatingBands: bands,
		Speeds:      speeds,
		TopGames:    topGames,
		RecentGames: recentGames,
		MaxMoves:    moves,
	})
	s.observeQuery(variant.String(), started)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := s.buildResponse(game, table, result, s.lichessGameDisplay)
	s.respondAndCache(w, fen, cacheKey, resp)
}

// buildResponse shapes a query.Result into the wire queryResponse. The
// store only keeps each move as a compact MoveToken, so a ChildIterator
// over the queried position recovers UCI/SAN text; display resolves
// each game reference's player names/ratings (differs between the
// master PGN store and the Lichess GameInfo store).
func (s *Server) buildResponse(game *chess.Game, table *zobrist.Table, result query.Result, display func(gameref.Ref) gameDTO) queryResponse {
	resp := queryResponse{
		White:         result.Total.White,
		Draws:         result.Total.Draws,
		Black:         result.Total.Black,
		AverageRating: result.Total.AverageRating(),
	}

	childByToken := make(map[pack.MoveToken]query.Child, len(result.Moves))
	it := query.NewChildIterator(game, table)
	for {
		child, ok, err := it.Next()
		if err != nil || !ok {
			break
		}
		childByToken[child.Token] = child
	}

	resp.Moves = make([]moveDTO, 0, len(result.Moves))
	for _, rm := range result.Moves {
		dto := moveDTO{
			White:         rm.Stats.White,
			Draws:         rm.Stats.Draws,
			Black:         rm.Stats.Black,
			AverageRating: rm.Stats.AverageRating(),
		}
		if child, ok := childByToken[rm.Move]; ok {
			dto.UCI = child.UCI
			dto.SAN = child.SAN
		}
		resp.Moves = append(resp.Moves, dto)
	}

	resp.TopGames = make([]gameDTO, 0, len(result.TopGames))
	for _, ref := range result.TopGames {
		resp.TopGames = append(resp.TopGames, display(ref))
	}
	resp.RecentGames = make([]gameDTO, 0, len(result.RecentGames))
	for _, ref := range result.RecentGames {
		resp.RecentGames = append(resp.RecentGames, display(ref))
	}

	return resp
}

func (s *Server) observeQuery(database string, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.QueryDuration.WithLabelValues(database).Observe(time.Since(started).Seconds())
}

func gameFromFEN(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("httpapi: invalid fen %q: %w: %w", fen, err, apperr.ErrValidation)
	}
	return chess.NewGame(opt), nil
}

package httpapi

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/lila-explorer/openingexplorer/internal/respcache"
)

func respcacheKey(database, fen, rawQuery string) string {
	return respcache.Key(database, fen, rawQuery)
}

// respondFromCache writes the cached body for key, if present, and
// reports whether it did. A bypassed fen (deep in the game, past
// explorer.cache.maxMoves) always misses without consulting the LRU.
func (s *Server) respondFromCache(w http.ResponseWriter, fen, key string) bool {
	if s.cache == nil || s.cache.Bypass(fen) {
		return false
	}
	body, ok := s.cache.Get(key)
	if !ok {
		if s.metrics != nil {
			s.metrics.ResponseCacheMiss.Inc()
		}
		return false
	}
	if s.metrics != nil {
		s.metrics.ResponseCacheHit.Inc()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(body)
	return true
}

// respondAndCache encodes resp, writes it, and (unless bypassed) stores
// it under key for subsequent identical requests.
func (s *Server) respondAndCache(w http.ResponseWriter, fen, key string, resp queryResponse) {
	body, err := json.Marshal(resp)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(body)
	if s.cache != nil && !s.cache.Bypass(fen) {
		s.cache.Put(key, body)
	}
}

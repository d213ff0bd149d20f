package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
)

// handleMasterPGN serves the raw stored PGN text for one master game id.
func (s *Server) handleMasterPGN(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pgnText, ok, err := s.masterPgn.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, fmt.Errorf("httpapi: no master game %q: %w", id, apperr.ErrNotFound))
		return
	}
	w.Header().Set("Content-Type", "application/x-chess-pgn; charset=utf-8")
	_, _ = w.Write([]byte(pgnText))
}

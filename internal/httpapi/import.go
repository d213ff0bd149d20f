package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"runtime"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/lila-explorer/openingexplorer/internal/apperr"
	"github.com/lila-explorer/openingexplorer/internal/importer"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

const maxImportBody = 64 << 20 // 64MiB; generous for a single PGN or a modest batch

type importReport struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// handleMasterImport ingests a single master PGN (body = text). A
// rejection (underrated, duplicate, non-standard start, unparsable) is
// not a transport error: spec §7 has the caller inspect the response
// body rather than a 4xx/5xx status.
func (s *Server) handleMasterImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBody))
	if err != nil {
		writeError(w, fmt.Errorf("httpapi: read body: %w", apperr.ErrValidation))
		return
	}

	accepted, err := s.masterImporter.Import(string(body))
	if err != nil {
		s.metricsImportRejected("master", "storeIO")
		writeError(w, err)
		return
	}
	if accepted {
		s.metricsImportAccepted("master")
	} else {
		s.log.Warn("master import rejected", "reason", "validation, underrated, or duplicate")
		s.metricsImportRejected("master", "rejected")
	}
	writeJSON(w, importReport{Accepted: boolToInt(accepted), Rejected: boolToInt(!accepted)})
}

// handleMasterDelete subtracts one previously imported master game by
// id, per spec §6's DELETE /master/{id}.
func (s *Server) handleMasterDelete(w http.ResponseWriter, r *http.Request) {
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

	game, err := importer.ParsePGN(pgnText)
	if err != nil {
		writeError(w, err)
		return
	}
	ref, err := importer.DeriveGameRef(game, "GameId")
	if err != nil {
		writeError(w, err)
		return
	}

	pipeline := importer.Pipeline{Table: zobrist.TableFor(zobrist.VariantStandard), MaxPlies: s.cfg.Master.MaxPlies}
	if err := pipeline.ReplaySubtract(s.master, game, ref); err != nil {
		writeError(w, err)
		return
	}
	if err := s.masterPgn.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLichessImport ingests a batch of Lichess PGNs, games separated
// by a blank line, fanning the batch out over a bounded worker pool
// (spec §4.7's "[NEW] Batch parallelism" note).
func (s *Server) handleLichessImport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	variant, err := variantParam(q)
	if err != nil {
		writeError(w, err)
		return
	}
	positions, ok := s.lichess[variant]
	if !ok {
		writeError(w, fmt.Errorf("httpapi: variant %q has no open store: %w", variant, apperr.ErrValidation))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBody))
	if err != nil {
		writeError(w, fmt.Errorf("httpapi: read body: %w", apperr.ErrValidation))
		return
	}

	games := importer.SplitBatch(string(body))
	imp := importer.LichessImporter{
		Pipeline: importer.Pipeline{
			Store:    positions,
			Table:    zobrist.TableFor(variant),
			MaxPlies: s.cfg.MaxPliesFor(variant),
		},
		Info: s.gameInfo,
	}

	var accepted, rejected int64
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, pgnText := range games {
		pgnText := pgnText
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			ok, err := imp.Import(pgnText)
			if err != nil {
				return err
			}
			if ok {
				atomic.AddInt64(&accepted, 1)
			} else {
				s.log.Warn("lichess import rejected", "reason", "duplicate or unparsable")
				atomic.AddInt64(&rejected, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.metricsImportRejected(variant.String(), "storeIO")
		writeError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.ImportAccepted.WithLabelValues(variant.String()).Add(float64(accepted))
	}
	writeJSON(w, importReport{Accepted: int(accepted), Rejected: int(rejected)})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *Server) metricsImportAccepted(pipeline string) {
	if s.metrics != nil {
		s.metrics.ImportAccepted.WithLabelValues(pipeline).Inc()
	}
}

func (s *Server) metricsImportRejected(pipeline, reason string) {
	if s.metrics != nil {
		s.metrics.ImportRejected.WithLabelValues(pipeline, reason).Inc()
	}
}


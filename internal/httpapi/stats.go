package httpapi

import "net/http"

// handleStats reports the indexed record counts for the master database
// and each open Lichess variant database, feeding the metrics.StoreRecords
// gauge on the way so scraped metrics and this endpoint stay consistent.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{LichessGames: make(map[string]uint64, len(s.lichess))}

	if n, err := s.master.RecordCount(); err != nil {
		writeError(w, err)
		return
	} else {
		resp.MasterGames = n
		if s.metrics != nil {
			s.metrics.StoreRecords.WithLabelValues("master").Set(float64(n))
		}
	}

	for variant, positions := range s.lichess {
		n, err := positions.RecordCount()
		if err != nil {
			writeError(w, err)
			return
		}
		resp.LichessGames[variant.String()] = n
		if s.metrics != nil {
			s.metrics.StoreRecords.WithLabelValues(variant.String()).Set(float64(n))
		}
	}

	writeJSON(w, resp)
}

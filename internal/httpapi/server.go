// Package httpapi is the service's HTTP boundary: chi routing, JSON
// encoding, CORS, gzip, and the response cache all live here. Nothing
// below this package imports net/http; httpapi maps internal/apperr
// kinds to status codes at the edge, per the core/transport split
// spec §7 describes.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"

	"github.com/lila-explorer/openingexplorer/internal/config"
	"github.com/lila-explorer/openingexplorer/internal/explog"
	"github.com/lila-explorer/openingexplorer/internal/importer"
	"github.com/lila-explorer/openingexplorer/internal/metrics"
	"github.com/lila-explorer/openingexplorer/internal/query"
	"github.com/lila-explorer/openingexplorer/internal/respcache"
	"github.com/lila-explorer/openingexplorer/internal/store"
	"github.com/lila-explorer/openingexplorer/internal/zobrist"
)

// Deps are the already-opened collaborators a Server is built from.
// cmd/explorerd's composition root constructs these once at startup.
type Deps struct {
	Config config.Config
	Logger *explog.Logger
	Metrics *metrics.Registry
	Cache   *respcache.Cache

	Master    *store.MasterStore
	MasterPgn *store.PgnStore
	GameInfo  *store.GameInfoStore
	Lichess   map[zobrist.Variant]*store.PositionStore
}

// Server holds every dependency a handler needs and exposes the
// composed chi.Router cmd/explorerd mounts under http.Server.
type Server struct {
	cfg     config.Config
	log     *explog.Logger
	metrics *metrics.Registry
	cache   *respcache.Cache

	master    *store.MasterStore
	masterPgn *store.PgnStore
	gameInfo  *store.GameInfoStore
	lichess   map[zobrist.Variant]*store.PositionStore

	masterImporter importer.MasterImporter
}

// New builds a Server from deps. Deps.Lichess must contain one
// PositionStore per supported zobrist.Variant; New does not open stores
// itself.
func New(deps Deps) *Server {
	s := &Server{
		cfg:       deps.Config,
		log:       deps.Logger,
		metrics:   deps.Metrics,
		cache:     deps.Cache,
		master:    deps.Master,
		masterPgn: deps.MasterPgn,
		gameInfo:  deps.GameInfo,
		lichess:   deps.Lichess,
	}
	s.masterImporter = importer.MasterImporter{
		Pipeline: importer.Pipeline{
			Store:    deps.Master,
			Table:    zobrist.TableFor(zobrist.VariantStandard),
			MaxPlies: deps.Config.Master.MaxPlies,
		},
		Pgn: deps.MasterPgn,
	}
	return s
}

// Router builds the chi.Mux exposing spec §6's HTTP surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	if s.cfg.CorsHeader {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodDelete},
		}))
	}

	compress := gzhttp.GzipHandler

	r.Method(http.MethodGet, "/master", compress(http.HandlerFunc(s.handleMasterQuery)))
	r.Method(http.MethodGet, "/master/pgn/{id}", compress(http.HandlerFunc(s.handleMasterPGN)))
	r.Put("/master", s.handleMasterImport)
	r.Delete("/master/{id}", s.handleMasterDelete)

	r.Method(http.MethodGet, "/lichess", compress(http.HandlerFunc(s.handleLichessQuery)))
	r.Put("/lichess", s.handleLichessImport)

	r.Method(http.MethodGet, "/stats", compress(http.HandlerFunc(s.handleStats)))

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Info("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) lichessEngine(variant zobrist.Variant) query.Engine {
	return query.Engine{Table: zobrist.TableFor(variant)}
}

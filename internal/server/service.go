package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hendrikb/pipeline-monitor/internal/common"
	"github.com/hendrikb/pipeline-monitor/internal/export"
	"github.com/hendrikb/pipeline-monitor/internal/logstream"
	"github.com/hendrikb/pipeline-monitor/internal/pipeline"
	"github.com/hendrikb/pipeline-monitor/internal/reconcile"
	"github.com/hendrikb/pipeline-monitor/internal/repository"
)

// Service wires the reconstruction core to its HTTP surface. Handlers hold
// no business logic: they call the core with data and render its outputs.
type Service struct {
	cfg        *common.Config
	logger     *slog.Logger
	stages     *pipeline.StageSet
	feed       *logstream.Feed
	repo       *repository.TransactionRepository
	export     *export.Service
	reconciler *reconcile.Reconciler
}

func NewService(
	cfg *common.Config,
	logger *slog.Logger,
	stages *pipeline.StageSet,
	feed *logstream.Feed,
	repo *repository.TransactionRepository,
	exportSvc *export.Service,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:        cfg,
		logger:     logger,
		stages:     stages,
		feed:       feed,
		repo:       repo,
		export:     exportSvc,
		reconciler: reconcile.NewReconciler(logger),
	}
}

// Router builds the HTTP routing table.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/process", func(r chi.Router) {
			r.Get("/logs", s.handleGetLogs)
			r.Post("/logs", s.handleAppendLog)
			r.Get("/state", s.handleState)
			r.Get("/stream", s.handleStream)
			r.Get("/items", s.handleGetItems)
			r.Post("/items/import", s.handleImportItems)
			r.Get("/media/{filename}", s.handleMedia)
		})
		r.Get("/transactions", s.handleListTransactions)
		r.Get("/stats", s.handleStats)
		r.Get("/export", s.handleExport)
	})

	return r
}

func (s *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}

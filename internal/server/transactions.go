package server

import (
	"net/http"
	"strconv"

	"github.com/hendrikb/pipeline-monitor/internal/common"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
)

func (s *Service) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			s.writeErrorMessage(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = v
	}

	txs, err := s.repo.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, common.WrapError(err, "list transactions"))
		return
	}
	if txs == nil {
		txs = []entity.Transaction{}
	}
	s.writeJSON(w, http.StatusOK, txs)
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repo.Stats(r.Context())
	if err != nil {
		s.writeError(w, common.WrapError(err, "aggregate stats"))
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	b, err := s.export.ExportTransactionsXLSX(r.Context())
	if err != nil {
		s.writeError(w, common.WrapError(err, "export transactions"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		s.logger.Warn("export.write", "error", err)
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hendrikb/pipeline-monitor/internal/common"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
	"github.com/hendrikb/pipeline-monitor/internal/reconcile"
)

// handleGetItems builds a fresh editable batch from the raw-items store.
// Every call replaces the previous batch wholesale; nothing is merged
// across reloads.
func (s *Service) handleGetItems(w http.ResponseWriter, r *http.Request) {
	year := s.cfg.Worker.DefaultYear
	if q := r.URL.Query().Get("year"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 2000 || v > 2100 {
			s.writeErrorMessage(w, http.StatusBadRequest, "year must be a 4-digit year")
			return
		}
		year = v
	}

	raw, err := s.reconciler.LoadRawItems(s.cfg.Worker.ItemsPath)
	if err != nil {
		s.writeError(w, common.WrapError(err, "load raw items"))
		return
	}
	items := s.reconciler.BuildItems(raw, year)

	w.Header().Set("Cache-Control", "no-store")
	s.writeJSON(w, http.StatusOK, map[string]any{"items": items, "year": year})
}

// handleImportItems commits the importable subset of a reviewed batch.
// Ineligible rows are skipped silently; a batch with zero importable items
// is the one user-facing validation error.
func (s *Service) handleImportItems(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []entity.EditableItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "body must be a JSON object with items")
		return
	}

	if err := reconcile.ValidateBatch(body.Items); err != nil {
		s.writeError(w, err)
		return
	}

	txs := reconcile.ToTransactions(reconcile.ImportableItems(body.Items))
	if len(txs) == 0 {
		s.writeErrorMessage(w, http.StatusBadRequest, "no valid items found")
		return
	}

	imported, err := s.repo.InsertBatch(r.Context(), txs)
	if err != nil {
		s.writeError(w, common.WrapError(err, "persist transactions"))
		return
	}
	s.logger.Info("items.import.ok", "imported", imported)
	s.writeJSON(w, http.StatusOK, map[string]int{"imported": imported})
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hendrikb/pipeline-monitor/internal/common"
	"github.com/hendrikb/pipeline-monitor/internal/entity"
	"github.com/hendrikb/pipeline-monitor/internal/logstream"
	"github.com/hendrikb/pipeline-monitor/internal/pipeline"
)

// handleGetLogs returns the full normalized record history from the
// persisted store.
func (s *Service) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	history, err := logstream.ReadHistory(s.cfg.Worker.LogPath)
	if err != nil {
		s.writeError(w, common.WrapError(err, "read log store"))
		return
	}
	if history == nil {
		history = []entity.LogRecord{}
	}
	w.Header().Set("Cache-Control", "no-store")
	s.writeJSON(w, http.StatusOK, history)
}

// handleAppendLog accepts one pushed record from the worker-side plumbing,
// persists it and fans it out to live subscribers. The only schema
// requirement on ingest is a non-empty message; everything else is
// tolerated and normalized downstream.
func (s *Service) handleAppendLog(w http.ResponseWriter, r *http.Request) {
	var rec entity.LogRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "record must be a JSON object")
		return
	}
	if rec.Message == "" {
		s.writeErrorMessage(w, http.StatusBadRequest, "record needs a message field")
		return
	}

	if err := logstream.Append(s.cfg.Worker.LogPath, rec); err != nil {
		s.writeError(w, common.WrapError(err, "append log store"))
		return
	}
	s.feed.Publish(rec)
	s.writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

// handleState reconstructs the latest run from the persisted history. The
// reconstruction is stateless: a reload never blocks on, or is affected
// by, an in-flight live subscription.
func (s *Service) handleState(w http.ResponseWriter, r *http.Request) {
	history, err := logstream.ReadHistory(s.cfg.Worker.LogPath)
	if err != nil {
		s.writeError(w, common.WrapError(err, "read log store"))
		return
	}
	run := logstream.SelectLatest(logstream.SplitRuns(history, s.stages.IsRunEnd))
	state := pipeline.Reconstruct(s.stages, run)
	w.Header().Set("Cache-Control", "no-store")
	s.writeJSON(w, http.StatusOK, state)
}

// handleStream serves live records over SSE until the client goes away.
// Detaching cancels only this subscription, never the worker.
func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeErrorMessage(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for rec := range s.feed.Subscribe(r.Context()) {
		b, err := json.Marshal(rec)
		if err != nil {
			s.logger.Error("stream.encode", "error", err)
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", b)
		flusher.Flush()
	}
}

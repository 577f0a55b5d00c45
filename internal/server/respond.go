package server

import (
	"encoding/json"
	"net/http"

	"github.com/hendrikb/pipeline-monitor/internal/common"
)

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("http.encode", "error", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	s.logger.Error("http.error", "error", err)
	s.writeJSON(w, common.HTTPStatus(err), map[string]string{"error": common.UserMessage(err)})
}

func (s *Service) writeErrorMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

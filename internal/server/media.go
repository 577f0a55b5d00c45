package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/hendrikb/pipeline-monitor/internal/pipeline"
)

// handleMedia serves the worker's static result images from a fixed
// allowlist. Anything else is a 404, including traversal attempts.
func (s *Service) handleMedia(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	switch name {
	case pipeline.MediaStitched, pipeline.MediaOCRResult:
	default:
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(filepath.Join(s.cfg.Worker.MediaDir, name))
	if err != nil {
		s.logger.Warn("media.open", "filename", name, "error", err)
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Disposition", `inline; filename="`+name+`"`)
	if _, err := io.Copy(w, f); err != nil {
		s.logger.Warn("media.copy", "filename", name, "error", err)
	}
}

package api

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub000/internal/render"
)

// handleTeeSheet handles GET /teesheet: the printable HTML document.
func (s *Server) handleTeeSheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	days, err := s.deps.View(r.Context())
	if err != nil {
		writeCommandError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(render.TeeSheetHTML(s.tourName, days)))
}

// handleTeeSheetPDF handles GET /teesheet.pdf. Returns 501 when PDF
// export is disabled in configuration.
func (s *Server) handleTeeSheetPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if s.pdf == nil {
		writeError(w, http.StatusNotImplemented, "pdf_disabled", nil)
		return
	}
	days, err := s.deps.View(r.Context())
	if err != nil {
		writeCommandError(w, err)
		return
	}
	data, err := s.pdf.Export(render.TeeSheetHTML(s.tourName, days))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "pdf_failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="teesheet.pdf"`)
	_, _ = w.Write(data)
}

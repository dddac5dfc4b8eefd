package api

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub000/internal/adapters/roster"
)

// handleRosterImport handles POST /roster/import. The request body is the
// CSV file; ?encoding=euc-kr overrides the configured default.
func (s *Server) handleRosterImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	encoding := s.rosterEncoding
	if q := r.URL.Query().Get("encoding"); q != "" {
		encoding = q
	}

	parser := roster.NewParser(roster.WithEncoding(encoding))
	participants, err := parser.Parse(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_roster", err)
		return
	}

	imported, err := s.deps.ImportRoster(r.Context(), participants)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Imported int `json:"imported"`
	}{Imported: imported})
}

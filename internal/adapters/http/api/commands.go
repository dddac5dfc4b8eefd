package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

type toggleRequest struct {
	ParticipantID string `json:"participant_id"`
	SlotID        string `json:"slot_id"`
}

func (r toggleRequest) validate() error {
	switch {
	case strings.TrimSpace(r.ParticipantID) == "":
		return errMissingField("participant_id")
	case strings.TrimSpace(r.SlotID) == "":
		return errMissingField("slot_id")
	}
	return nil
}

// handleToggle handles POST /assignments/toggle.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decodeCommand(w, r, &req, func() error { return req.validate() }) {
		return
	}
	res, err := s.deps.Toggle(r.Context(), req.ParticipantID, req.SlotID)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type bulkAssignRequest struct {
	ParticipantIDs []string `json:"participant_ids"`
	Dates          []string `json:"dates"`
	Mode           string   `json:"mode"` // "all" or "specific"
}

func (r bulkAssignRequest) validate() error {
	if len(r.ParticipantIDs) == 0 {
		return errMissingField("participant_ids")
	}
	switch r.Mode {
	case "all":
	case "specific":
		if len(r.Dates) == 0 {
			return errMissingField("dates")
		}
	default:
		return errBadField("mode", "must be all or specific")
	}
	return nil
}

// handleBulkAssign handles POST /assignments/bulk.
func (s *Server) handleBulkAssign(w http.ResponseWriter, r *http.Request) {
	var req bulkAssignRequest
	if !decodeCommand(w, r, &req, func() error { return req.validate() }) {
		return
	}
	res, err := s.deps.BulkAssign(r.Context(), req.ParticipantIDs, req.Dates, req.Mode == "all")
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleAutoAssign handles POST /assignments/auto.
func (s *Server) handleAutoAssign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	res, err := s.deps.AutoAssign(r.Context())
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type moveGroupRequest struct {
	FromSlotID string `json:"from_slot_id"`
	ToSlotID   string `json:"to_slot_id"`
}

func (r moveGroupRequest) validate() error {
	switch {
	case strings.TrimSpace(r.FromSlotID) == "":
		return errMissingField("from_slot_id")
	case strings.TrimSpace(r.ToSlotID) == "":
		return errMissingField("to_slot_id")
	}
	return nil
}

// handleMoveGroup handles POST /assignments/move.
func (s *Server) handleMoveGroup(w http.ResponseWriter, r *http.Request) {
	var req moveGroupRequest
	if !decodeCommand(w, r, &req, func() error { return req.validate() }) {
		return
	}
	res, err := s.deps.MoveGroup(r.Context(), req.FromSlotID, req.ToSlotID)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type adjustRequest struct {
	ParticipantIDs []string          `json:"participant_ids"`
	Targets        map[string]string `json:"targets"` // date -> slot id
}

func (r adjustRequest) validate() error {
	if len(r.ParticipantIDs) == 0 {
		return errMissingField("participant_ids")
	}
	if len(r.Targets) == 0 {
		return errMissingField("targets")
	}
	return nil
}

// handleAdjust handles POST /assignments/adjust.
func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if !decodeCommand(w, r, &req, func() error { return req.validate() }) {
		return
	}
	res, err := s.deps.AdjustGroupSchedule(r.Context(), req.ParticipantIDs, req.Targets)
	if err != nil {
		// Committed dates are reported even when a later one failed.
		writeJSON(w, http.StatusBadGateway, struct {
			Result any    `json:"result"`
			Error  string `json:"error"`
		}{Result: res, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type clearDateRequest struct {
	Date string `json:"date"`
}

func (r clearDateRequest) validate() error {
	if strings.TrimSpace(r.Date) == "" {
		return errMissingField("date")
	}
	return nil
}

// handleClearDate handles POST /assignments/clear.
func (s *Server) handleClearDate(w http.ResponseWriter, r *http.Request) {
	var req clearDateRequest
	if !decodeCommand(w, r, &req, func() error { return req.validate() }) {
		return
	}
	res, err := s.deps.ClearDate(r.Context(), req.Date)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRefresh handles POST /assignments/refresh.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := s.deps.Refresh(r.Context()); err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// decodeCommand enforces POST + JSON body + request validation.
func decodeCommand(w http.ResponseWriter, r *http.Request, dst any, validate func() error) bool {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return false
	}
	if err := validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return false
	}
	return true
}

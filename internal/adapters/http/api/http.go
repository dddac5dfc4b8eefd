// Package api declares HTTP contracts and route registration for the
// assignment console.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/whalechillz/go-singsing-sub000/internal/app"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/engine"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
	"github.com/whalechillz/go-singsing-sub000/internal/render"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Toggle(ctx context.Context, participantID, slotID string) (model.CommandResult, error)
	BulkAssign(ctx context.Context, participantIDs, dates []string, allDates bool) (model.CommandResult, error)
	AutoAssign(ctx context.Context) (model.CommandResult, error)
	MoveGroup(ctx context.Context, fromSlotID, toSlotID string) (model.CommandResult, error)
	AdjustGroupSchedule(ctx context.Context, participantIDs []string, targets map[string]string) (model.CommandResult, error)
	ClearDate(ctx context.Context, date string) (model.CommandResult, error)
	Refresh(ctx context.Context) error
	ImportRoster(ctx context.Context, participants []model.Participant) (int, error)
	View(ctx context.Context) ([]model.DayView, error)
	GetStats() map[string]any
}

// Server wires HTTP routes for the assignment API.
type Server struct {
	deps           Dependencies
	tourName       string
	rosterEncoding string
	pdf            *render.PDFExporter
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithTourName sets the display name used on the printable tee sheet.
func WithTourName(name string) ServerOption {
	return func(s *Server) {
		if name != "" {
			s.tourName = name
		}
	}
}

// WithRosterEncoding sets the default charset expected on roster uploads.
func WithRosterEncoding(enc string) ServerOption {
	return func(s *Server) {
		if enc != "" {
			s.rosterEncoding = enc
		}
	}
}

// WithPDFExporter enables the tee-sheet PDF endpoint.
func WithPDFExporter(pdf *render.PDFExporter) ServerOption {
	return func(s *Server) {
		s.pdf = pdf
	}
}

// NewServer creates the API server.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		deps:           deps,
		tourName:       "Tour",
		rosterEncoding: "utf-8",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.handleStats, "stats"))
	mux.HandleFunc("/assignments", MetricsMiddleware(s.handleView, "assignments"))
	mux.HandleFunc("/assignments/toggle", MetricsMiddleware(s.handleToggle, "toggle"))
	mux.HandleFunc("/assignments/bulk", MetricsMiddleware(s.handleBulkAssign, "bulk"))
	mux.HandleFunc("/assignments/auto", MetricsMiddleware(s.handleAutoAssign, "auto"))
	mux.HandleFunc("/assignments/move", MetricsMiddleware(s.handleMoveGroup, "move"))
	mux.HandleFunc("/assignments/adjust", MetricsMiddleware(s.handleAdjust, "adjust"))
	mux.HandleFunc("/assignments/clear", MetricsMiddleware(s.handleClearDate, "clear"))
	mux.HandleFunc("/assignments/refresh", MetricsMiddleware(s.handleRefresh, "refresh"))
	mux.HandleFunc("/roster/import", MetricsMiddleware(s.handleRosterImport, "roster_import"))
	mux.HandleFunc("/teesheet", MetricsMiddleware(s.handleTeeSheet, "teesheet"))
	mux.HandleFunc("/teesheet.pdf", MetricsMiddleware(s.handleTeeSheetPDF, "teesheet_pdf"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeCommandError translates engine and service errors to HTTP codes.
func writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrUnknownSlot):
		writeError(w, http.StatusNotFound, "unknown_slot", err)
	case errors.Is(err, engine.ErrCapacityExceeded):
		writeError(w, http.StatusConflict, "capacity_exceeded", err)
	case errors.Is(err, engine.ErrInsufficientCapacity):
		writeError(w, http.StatusConflict, "insufficient_capacity", err)
	case errors.Is(err, engine.ErrEmptySource):
		writeError(w, http.StatusConflict, "empty_source", err)
	case errors.Is(err, engine.ErrDateMismatch):
		writeError(w, http.StatusBadRequest, "date_mismatch", err)
	case errors.Is(err, app.ErrStaleState):
		writeError(w, http.StatusConflict, "stale_state", err)
	case errors.Is(err, app.ErrPersistenceFailure):
		writeError(w, http.StatusBadGateway, "persistence_failure", err)
	case errors.Is(err, app.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/whalechillz/go-singsing-sub000/internal/adapters/http/api"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/engine"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// stubDeps records the last call and returns canned results.
type stubDeps struct {
	result   model.CommandResult
	err      error
	days     []model.DayView
	imported int

	lastCommand string
	lastPIDs    []string
	lastDates   []string
	lastAll     bool
	lastTargets map[string]string
}

func (s *stubDeps) Toggle(_ context.Context, pid, sid string) (model.CommandResult, error) {
	s.lastCommand = "toggle"
	s.lastPIDs = []string{pid}
	return s.result, s.err
}

func (s *stubDeps) BulkAssign(_ context.Context, pids, dates []string, allDates bool) (model.CommandResult, error) {
	s.lastCommand = "bulk"
	s.lastPIDs, s.lastDates, s.lastAll = pids, dates, allDates
	return s.result, s.err
}

func (s *stubDeps) AutoAssign(context.Context) (model.CommandResult, error) {
	s.lastCommand = "auto"
	return s.result, s.err
}

func (s *stubDeps) MoveGroup(_ context.Context, from, to string) (model.CommandResult, error) {
	s.lastCommand = "move"
	return s.result, s.err
}

func (s *stubDeps) AdjustGroupSchedule(_ context.Context, pids []string, targets map[string]string) (model.CommandResult, error) {
	s.lastCommand = "adjust"
	s.lastPIDs, s.lastTargets = pids, targets
	return s.result, s.err
}

func (s *stubDeps) ClearDate(_ context.Context, date string) (model.CommandResult, error) {
	s.lastCommand = "clear"
	s.lastDates = []string{date}
	return s.result, s.err
}

func (s *stubDeps) Refresh(context.Context) error {
	s.lastCommand = "refresh"
	return s.err
}

func (s *stubDeps) ImportRoster(_ context.Context, ps []model.Participant) (int, error) {
	s.lastCommand = "import"
	return s.imported, s.err
}

func (s *stubDeps) View(context.Context) ([]model.DayView, error) {
	return s.days, s.err
}

func (s *stubDeps) GetStats() map[string]any {
	return map[string]any{"started": true}
}

func newTestServer(deps api.Dependencies, opts ...api.ServerOption) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

func post(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCommandRoutes(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &stubDeps{result: model.CommandResult{Applied: 1}}
		mux := newTestServer(deps)

		Convey("When toggling with a valid body", func() {
			rec := post(mux, "/assignments/toggle", `{"participant_id":"p1","slot_id":"s1"}`)

			Convey("Then the command runs and the result comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastCommand, ShouldEqual, "toggle")
				var res model.CommandResult
				So(json.Unmarshal(rec.Body.Bytes(), &res), ShouldBeNil)
				So(res.Applied, ShouldEqual, 1)
			})
		})

		Convey("When toggling with a missing field", func() {
			rec := post(mux, "/assignments/toggle", `{"participant_id":"p1"}`)

			Convey("Then the request is rejected before the service", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(deps.lastCommand, ShouldBeEmpty)
				So(rec.Body.String(), ShouldContainSubstring, "slot_id")
			})
		})

		Convey("When bulk-assigning in all-dates mode", func() {
			rec := post(mux, "/assignments/bulk", `{"participant_ids":["p1","p2"],"mode":"all"}`)

			Convey("Then the mode maps to the all-dates flag", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastAll, ShouldBeTrue)
				So(deps.lastPIDs, ShouldResemble, []string{"p1", "p2"})
			})
		})

		Convey("When bulk-assigning specific mode without dates", func() {
			rec := post(mux, "/assignments/bulk", `{"participant_ids":["p1"],"mode":"specific"}`)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a command is sent with GET", func() {
			rec := get(mux, "/assignments/toggle")

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When adjusting and a date fails mid-way", func() {
			deps.err = engine.ErrInsufficientCapacity
			deps.result = model.CommandResult{Applied: 2}
			rec := post(mux, "/assignments/adjust", `{"participant_ids":["p1"],"targets":{"2025-06-11":"s1"}}`)

			Convey("Then the partial result rides along with the error", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
				So(rec.Body.String(), ShouldContainSubstring, `"applied":2`)
				So(rec.Body.String(), ShouldContainSubstring, "error")
			})
		})
	})
}

func TestErrorMapping(t *testing.T) {
	Convey("Given a server whose commands fail", t, func() {
		deps := &stubDeps{}
		mux := newTestServer(deps)

		cases := map[error]int{
			engine.ErrUnknownSlot:      http.StatusNotFound,
			engine.ErrCapacityExceeded: http.StatusConflict,
			engine.ErrDateMismatch:     http.StatusBadRequest,
		}
		for err, want := range cases {
			deps.err = err
			rec := post(mux, "/assignments/toggle", `{"participant_id":"p1","slot_id":"s1"}`)
			So(rec.Code, ShouldEqual, want)
		}
	})
}

func TestReadRoutes(t *testing.T) {
	Convey("Given a server with a populated view", t, func() {
		deps := &stubDeps{days: []model.DayView{{Date: "2025-06-11"}}}
		mux := newTestServer(deps, api.WithTourName("Jeju Open"))

		Convey("When fetching the assignment view", func() {
			rec := get(mux, "/assignments")

			Convey("Then the days serialize under a days key", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"2025-06-11"`)
			})
		})

		Convey("When fetching stats", func() {
			rec := get(mux, "/stats")

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("When fetching the tee sheet", func() {
			rec := get(mux, "/teesheet")

			Convey("Then HTML renders with the tour name", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(rec.Body.String(), ShouldContainSubstring, "Jeju Open")
			})
		})

		Convey("When fetching the PDF without an exporter", func() {
			rec := get(mux, "/teesheet.pdf")

			So(rec.Code, ShouldEqual, http.StatusNotImplemented)
		})

		Convey("When probing health", func() {
			rec := get(mux, "/healthz")

			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestRosterImportRoute(t *testing.T) {
	Convey("Given a server accepting roster uploads", t, func() {
		deps := &stubDeps{imported: 2}
		mux := newTestServer(deps)

		Convey("When posting a valid CSV", func() {
			rec := post(mux, "/roster/import", "name,team\nKim Minsoo,A\nLee Jiyeon,B\n")

			Convey("Then the import count comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastCommand, ShouldEqual, "import")
				So(rec.Body.String(), ShouldContainSubstring, `"imported":2`)
			})
		})

		Convey("When posting a CSV without a name column", func() {
			rec := post(mux, "/roster/import", "id,phone\np1,010\n")

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.lastCommand, ShouldBeEmpty)
		})
	})
}

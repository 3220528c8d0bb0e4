// Package web exposes the planning engine over HTTP for the web UI. All
// schedule logic lives below the planner; handlers only translate between
// HTTP and planner calls.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/napthedev/vinuni-course-planner/internal/calendar"
	appLog "github.com/napthedev/vinuni-course-planner/internal/log"
	"github.com/napthedev/vinuni-course-planner/internal/model"
	"github.com/napthedev/vinuni-course-planner/internal/planner"
	"github.com/napthedev/vinuni-course-planner/internal/schedule"
)

// Server provides the planner HTTP API.
type Server struct {
	planner *planner.Planner
	window  calendar.Window
	router  *mux.Router
}

// NewServer constructs a Server over the given planner.
func NewServer(p *planner.Planner, window calendar.Window) *Server {
	s := &Server{
		planner: p,
		window:  window,
		router:  mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/courses", s.handleCourses).Methods(http.MethodGet)

	api.HandleFunc("/selection", s.handleGetSelection).Methods(http.MethodGet)
	api.HandleFunc("/selection", s.handleAddSelection).Methods(http.MethodPost)
	api.HandleFunc("/selection", s.handleClearSelection).Methods(http.MethodDelete)
	api.HandleFunc("/selection/list.txt", s.handleListText).Methods(http.MethodGet)
	api.HandleFunc("/selection/export.csv", s.handleExportCSV).Methods(http.MethodGet)
	api.HandleFunc("/selection/export.ics", s.handleExportICS).Methods(http.MethodGet)
	api.HandleFunc("/selection/{section}", s.handleRemoveSelection).Methods(http.MethodDelete)

	api.HandleFunc("/calendar", s.handleCalendar).Methods(http.MethodGet)

	api.HandleFunc("/filters", s.handleGetFilters).Methods(http.MethodGet)
	api.HandleFunc("/filters", s.handlePutFilters).Methods(http.MethodPut)
	api.HandleFunc("/filters/preset", s.handlePreset).Methods(http.MethodPost)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// courseDTO augments a catalog record with selection hints for the UI.
type courseDTO struct {
	model.CourseRecord
	CreditValue    float64 `json:"creditValue"`
	TBA            bool    `json:"tba"`
	Selected       bool    `json:"selected"`
	CourseSelected bool    `json:"courseSelected"`
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	records := s.planner.SearchCourses(query)

	dtos := make([]courseDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, courseDTO{
			CourseRecord:   rec,
			CreditValue:    schedule.CreditValue(rec.Credits),
			TBA:            !rec.HasSchedule(),
			Selected:       s.planner.IsSelected(rec.Section),
			CourseSelected: s.planner.IsCourseSelected(rec.Course),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"courses": dtos,
		"count":   len(dtos),
	})
}

// selectionResponse is the JSON shape of the working set.
type selectionResponse struct {
	Entries      []model.SelectionEntry `json:"entries"`
	TotalCredits float64                `json:"totalCredits"`
	CanExport    bool                   `json:"canExport"`
}

func (s *Server) handleGetSelection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, selectionResponse{
		Entries:      s.planner.Entries(),
		TotalCredits: s.planner.TotalCredits(),
		CanExport:    s.planner.CanExport(),
	})
}

func (s *Server) handleAddSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Section string `json:"section"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Section == "" {
		writeError(w, http.StatusBadRequest, "body must be {\"section\": \"...\"}")
		return
	}

	switch err := s.planner.Add(req.Section); {
	case errors.Is(err, planner.ErrUnknownSection):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, planner.ErrSectionSelected), errors.Is(err, planner.ErrCourseSelected):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		appLog.Error("web: add selection failed", err, "section", req.Section)
		writeError(w, http.StatusInternalServerError, "failed to add section")
	default:
		s.handleGetSelection(w, r)
	}
}

func (s *Server) handleRemoveSelection(w http.ResponseWriter, r *http.Request) {
	section := mux.Vars(r)["section"]

	if err := s.planner.Remove(section); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.handleGetSelection(w, r)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.planner.Clear()
	s.handleGetSelection(w, r)
}

func (s *Server) handleListText(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.planner.CourseListText()))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, _ *http.Request) {
	csv, err := s.planner.ExportCSV()
	if err != nil {
		appLog.Error("web: csv export failed", err)
		writeError(w, http.StatusInternalServerError, "failed to export csv")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="vinuni-courses.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}

func (s *Server) handleExportICS(w http.ResponseWriter, _ *http.Request) {
	ics, err := s.planner.ExportICS()
	if err != nil {
		// Empty or conflicting working set; resolve conflicts first.
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="vinuni-courses.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics))
}

func (s *Server) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"window": s.window,
		"labels": calendar.TimeLabels(s.window),
		"days":   calendar.Project(s.planner.Entries(), s.window),
	})
}

// filterResponse carries the filter state plus derived display info.
type filterResponse struct {
	schedule.FilterState
	Active      bool   `json:"active"`
	Description string `json:"description"`
}

func (s *Server) handleGetFilters(w http.ResponseWriter, _ *http.Request) {
	f := s.planner.Filter()
	writeJSON(w, http.StatusOK, filterResponse{
		FilterState: f,
		Active:      f.Active(),
		Description: f.Description(),
	})
}

func (s *Server) handlePutFilters(w http.ResponseWriter, r *http.Request) {
	var f schedule.FilterState
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter state")
		return
	}
	s.planner.SetFilter(f)
	s.handleGetFilters(w, r)
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Preset string `json:"preset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "body must be {\"preset\": \"...\"}")
		return
	}
	if req.Preset != "" {
		if _, ok := schedule.Presets[req.Preset]; !ok {
			writeError(w, http.StatusNotFound, "unknown preset")
			return
		}
	}
	s.planner.ApplyPreset(req.Preset)
	s.handleGetFilters(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("web: failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Veraticus/budgetsim/internal/common"
	"github.com/Veraticus/budgetsim/internal/config"
	"github.com/Veraticus/budgetsim/internal/export"
	"github.com/Veraticus/budgetsim/internal/model"
	"github.com/Veraticus/budgetsim/internal/simulation"
)

// SimulateRequest is the body of POST /simulate.
type SimulateRequest struct {
	model.BudgetInput
	Seed    *uint64 `json:"seed,omitempty"`
	Advisor string  `json:"advisor,omitempty"`
}

// Results is the payload of a successful simulation.
type Results struct {
	MonthlyResults  []model.MonthRecord `json:"monthly_results"`
	Recommendations []string            `json:"recommendations"`
	InputParameters model.BudgetConfig  `json:"input_parameters"`
	Summary         model.Summary       `json:"summary"`
	CSVFilename     string              `json:"csv_filename,omitempty"`
	RunID           string              `json:"run_id"`
	Seed            uint64              `json:"seed"`
}

// Response wraps every /simulate reply.
type Response struct {
	Results *Results `json:"results,omitempty"`
	Error   string   `json:"error,omitempty"`
	Success bool     `json:"success"`
}

// NewResults assembles the response payload for a finished run. The summary
// is rounded for presentation.
func NewResults(res *simulation.Result, recs []string, csvFilename string) *Results {
	return &Results{
		MonthlyResults:  res.Months,
		Summary:         res.Summary.Rounded(),
		InputParameters: res.Config,
		Recommendations: recs,
		CSVFilename:     csvFilename,
		RunID:           res.ID,
		Seed:            res.Seed,
	}
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err))
		return
	}

	cfg, err := req.Config()
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	advisor := strings.ToLower(req.Advisor)
	if advisor == "" {
		advisor = s.defaultAdvisor
	}
	if err := config.ValidateAdvisor(advisor); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	strategy, ok := s.strategies[advisor]
	if !ok {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("advisor %q is not configured on this server", advisor))
		return
	}

	var res *simulation.Result
	if req.Seed != nil {
		res, err = s.engine.RunWithSeed(r.Context(), cfg, *req.Seed)
	} else {
		res, err = s.engine.Run(r.Context(), cfg)
	}
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}

	recs := strategy.Recommend(r.Context(), res.Config, res.Months)

	var filename string
	if len(res.Months) > 0 {
		filename = export.Filename(res.GeneratedAt, res.ID)
		if err := export.WriteCSV(filepath.Join(s.exportDir, filename), res.Months); err != nil {
			s.fail(w, http.StatusInternalServerError, err)
			return
		}
	}

	s.logger.Info("simulation served",
		"run_id", res.ID,
		"months", len(res.Months),
		"advisor", advisor,
		"csv_filename", filename)

	writeJSON(w, http.StatusOK, Response{Success: true, Results: NewResults(res, recs, filename)})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".csv" {
		notFound(w)
		return
	}

	f, err := os.Open(filepath.Join(s.exportDir, name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to open export", "filename", name, "error", err)
		}
		notFound(w)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		notFound(w)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("simulation request failed", "error", err)
	} else {
		s.logger.Debug("simulation request rejected", "error", err)
	}
	writeJSON(w, status, Response{Success: false, Error: err.Error()})
}

func statusFor(err error) int {
	if common.IsInputError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

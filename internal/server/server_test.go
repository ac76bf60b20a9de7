package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgetsim/internal/config"
	"github.com/Veraticus/budgetsim/internal/export"
	"github.com/Veraticus/budgetsim/internal/model"
	"github.com/Veraticus/budgetsim/internal/simulation"
)

const exampleBody = `{
	"monthly_income": 5000,
	"fixed_expenses": {"rent": 1500},
	"variable_expenses": {"food": 400},
	"savings_goal": 500,
	"simulation_months": 3,
	"seed": 42
}`

type stubStrategy []string

func (s stubStrategy) Recommend(context.Context, model.BudgetConfig, []model.MonthRecord) []string {
	return s
}

func newTestServer(t *testing.T, opts ...Option) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	return New(simulation.NewEngine(), dir, opts...), dir
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/simulate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func TestSimulateExampleBudget(t *testing.T) {
	srv, dir := newTestServer(t)

	rec, resp := post(t, srv.Handler(), exampleBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	require.True(t, resp.Success)
	require.NotNil(t, resp.Results)
	results := resp.Results

	require.Len(t, results.MonthlyResults, 3)
	assert.Equal(t, uint64(42), results.Seed)
	assert.NotEmpty(t, results.RunID)
	assert.NotEmpty(t, results.Recommendations)
	assert.LessOrEqual(t, len(results.Recommendations), 6)
	assert.Equal(t, 5000.0, results.InputParameters.MonthlyIncome)
	assert.Equal(t, 3, results.Summary.Months)

	for i, m := range results.MonthlyResults {
		assert.Equal(t, i+1, m.Month)
		assert.Equal(t, 1500.0, m.FixedExpenses)
	}

	require.NotEmpty(t, results.CSVFilename)
	exported, err := export.ReadCSV(filepath.Join(dir, results.CSVFilename))
	require.NoError(t, err)
	require.Len(t, exported, 3)
	for i, m := range exported {
		assert.Equal(t, results.MonthlyResults[i].Month, m.Month)
		assert.Equal(t, results.MonthlyResults[i].Income, m.Income)
		assert.Equal(t, results.MonthlyResults[i].SavingsGoalMet, m.SavingsGoalMet)
	}
}

func TestSimulateSeedIsReproducible(t *testing.T) {
	srv, _ := newTestServer(t)

	_, first := post(t, srv.Handler(), exampleBody)
	_, second := post(t, srv.Handler(), exampleBody)

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, first.Results.MonthlyResults, second.Results.MonthlyResults)
	assert.NotEqual(t, first.Results.RunID, second.Results.RunID)
	assert.NotEqual(t, first.Results.CSVFilename, second.Results.CSVFilename)
}

func TestSimulateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"monthly_income": `, "invalid configuration"},
		{"missing income", `{"savings_goal": 100}`, "monthly_income"},
		{"wrong type", `{"monthly_income": "a lot", "savings_goal": 1}`, "invalid configuration"},
		{"negative expense", `{"monthly_income": 100, "savings_goal": 1, "fixed_expenses": {"rent": -5}}`, "fixed_expenses.rent"},
		{"unknown advisor", `{"monthly_income": 100, "savings_goal": 1, "advisor": "oracle"}`, "advisor"},
		{"unconfigured advisor", `{"monthly_income": 100, "savings_goal": 1, "advisor": "llm"}`, "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t)

			rec, resp := post(t, srv.Handler(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			assert.Nil(t, resp.Results)
			assert.Contains(t, resp.Error, tt.want)
		})
	}
}

func TestSimulateAcceptsNumericStrings(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, resp := post(t, srv.Handler(),
		`{"monthly_income": "5000", "savings_goal": "500", "simulation_months": "2", "fixed_expenses": {"rent": "1500"}, "seed": 7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)
	assert.Len(t, resp.Results.MonthlyResults, 2)
	assert.Equal(t, 5000.0, resp.Results.InputParameters.MonthlyIncome)
	assert.Equal(t, 1500.0, resp.Results.InputParameters.FixedExpenses["rent"])
}

func TestSimulateUsesRequestedAdvisor(t *testing.T) {
	srv, _ := newTestServer(t, WithStrategy(config.AdvisorLLM, stubStrategy{"generated advice."}))

	body := strings.Replace(exampleBody, `"seed": 42`, `"seed": 42, "advisor": "LLM"`, 1)
	rec, resp := post(t, srv.Handler(), body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"generated advice."}, resp.Results.Recommendations)
}

func TestSimulateDefaultAdvisor(t *testing.T) {
	srv, _ := newTestServer(t,
		WithStrategy(config.AdvisorLLM, stubStrategy{"generated advice."}),
		WithDefaultAdvisor(config.AdvisorLLM))

	_, resp := post(t, srv.Handler(), exampleBody)
	assert.Equal(t, []string{"generated advice."}, resp.Results.Recommendations)
}

func TestSimulateZeroMonths(t *testing.T) {
	srv, dir := newTestServer(t)

	rec, resp := post(t, srv.Handler(), `{"monthly_income": 3000, "savings_goal": 100, "simulation_months": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)
	assert.Empty(t, resp.Results.MonthlyResults)
	assert.Contains(t, rec.Body.String(), `"monthly_results":[]`)
	assert.Empty(t, resp.Results.CSVFilename)
	assert.Equal(t, []string{"No simulation results to analyze. Run a simulation first."}, resp.Results.Recommendations)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownload(t *testing.T) {
	srv, _ := newTestServer(t)
	_, resp := post(t, srv.Handler(), exampleBody)
	require.True(t, resp.Success)

	req := httptest.NewRequest(http.MethodGet, "/download/"+resp.Results.CSVFilename, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), resp.Results.CSVFilename)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, strings.Join(export.Header, ","), lines[0])
}

func TestDownloadNotFound(t *testing.T) {
	srv, dir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.csv"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	for _, name := range []string{"missing.csv", ".hidden.csv", "notes.txt", "secret"} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/download/"+name, nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSimulateRequiresPost(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/simulate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	assert.NoError(t, <-done)
}

func TestResponseEncoding(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(Response{Success: false, Error: "boom"}))
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, buf.String())
}

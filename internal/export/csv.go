// Package export writes simulated months to flat CSV files and reads them back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Veraticus/budgetsim/internal/common"
	"github.com/Veraticus/budgetsim/internal/model"
)

// Header is the fixed column order of an export.
var Header = []string{
	"Month",
	"Income",
	"Fixed_Expenses",
	"Variable_Expenses",
	"Total_Expenses",
	"Monthly_Savings",
	"Cumulative_Savings",
	"Savings_Goal_Met",
}

// Error reports a failed export. It matches common.ErrExportFailed.
type Error struct {
	Err  error
	Path string
}

func (e *Error) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports ErrExportFailed so callers can match any export failure.
func (e *Error) Is(target error) bool {
	return target == common.ErrExportFailed
}

// Filename builds a unique export name for a run.
func Filename(generatedAt time.Time, runID string) string {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return fmt.Sprintf("simulation_%s_%s.csv", generatedAt.UTC().Format("20060102T150405"), runID)
}

// WriteCSV writes months to path, creating parent directories. The file is
// closed on every path; a failed close is reported.
func WriteCSV(path string, months []model.MonthRecord) (err error) {
	if len(months) == 0 {
		return &Error{Path: path, Err: common.ErrNoData}
	}

	if dir := filepath.Dir(path); dir != "" {
		if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
			return &Error{Path: path, Err: mkErr}
		}
	}

	f, err := os.Create(path) //nolint:gosec // path is chosen by the caller
	if err != nil {
		return &Error{Path: path, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = &Error{Path: path, Err: closeErr}
		}
	}()

	if encErr := Encode(f, months); encErr != nil {
		return &Error{Path: path, Err: encErr}
	}
	return nil
}

// Encode writes the header and one row per month to w. Numbers are written
// at full precision.
func Encode(w io.Writer, months []model.MonthRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, m := range months {
		row := []string{
			strconv.Itoa(m.Month),
			formatNumber(m.Income),
			formatNumber(m.FixedExpenses),
			formatNumber(m.VariableExpenses),
			formatNumber(m.TotalExpenses),
			formatNumber(m.MonthlySavings),
			formatNumber(m.CumulativeSavings),
			formatBool(m.SavingsGoalMet),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads an export back. Per-category amounts are not part of the
// format, so ExpenseVariations is nil on every record.
func ReadCSV(path string) ([]model.MonthRecord, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer func() { _ = f.Close() }()

	months, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", path, err)
	}
	return months, nil
}

// Decode parses CSV produced by Encode.
func Decode(r io.Reader) ([]model.MonthRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, name := range Header {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i+1, header[i], name)
		}
	}

	var months []model.MonthRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		m, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		months = append(months, m)
	}
	return months, nil
}

func parseRow(row []string) (model.MonthRecord, error) {
	var (
		m   model.MonthRecord
		err error
	)

	if m.Month, err = strconv.Atoi(row[0]); err != nil {
		return m, fmt.Errorf("invalid month %q: %w", row[0], err)
	}

	numbers := []*float64{
		&m.Income,
		&m.FixedExpenses,
		&m.VariableExpenses,
		&m.TotalExpenses,
		&m.MonthlySavings,
		&m.CumulativeSavings,
	}
	for i, dst := range numbers {
		if *dst, err = strconv.ParseFloat(row[i+1], 64); err != nil {
			return m, fmt.Errorf("invalid %s %q: %w", Header[i+1], row[i+1], err)
		}
	}

	if m.SavingsGoalMet, err = parseBool(row[7]); err != nil {
		return m, err
	}
	return m, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(s string) (bool, error) {
	switch s {
	case "True":
		return true, nil
	case "False":
		return false, nil
	default:
		return false, fmt.Errorf("invalid Savings_Goal_Met %q", s)
	}
}

package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Veraticus/budgetsim/internal/model"
	"github.com/Veraticus/budgetsim/internal/simulation"
)

var monthColumns = []string{"Month", "Income", "Fixed", "Variable", "Total", "Savings", "Cumulative", "Goal"}

// RenderMonths renders one table row per simulated month.
func RenderMonths(months []model.MonthRecord) string {
	if len(months) == 0 {
		return SubtleStyle.Render("No months simulated.")
	}

	rows := make([][]string, 0, len(months))
	for _, m := range months {
		goal := SuccessIcon
		if !m.SavingsGoalMet {
			goal = ErrorIcon
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", m.Month),
			model.FormatMoney(m.Income),
			model.FormatMoney(m.FixedExpenses),
			model.FormatMoney(m.VariableExpenses),
			model.FormatMoney(m.TotalExpenses),
			model.FormatMoney(m.MonthlySavings),
			model.FormatMoney(m.CumulativeSavings),
			goal,
		})
	}

	widths := columnWidths(monthColumns, rows)
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(formatRow(monthColumns, widths)))
	b.WriteString("\n")
	for i, row := range rows {
		line := formatRow(row, widths)
		if months[i].MonthlySavings < 0 {
			line = ErrorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// formatRow left-aligns the first column and right-aligns the rest.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		if i == 0 {
			parts[i] = cell + pad
		} else {
			parts[i] = pad + cell
		}
	}
	return strings.Join(parts, "  ")
}

// RenderSummary renders the summary block of a run.
func RenderSummary(s model.Summary, goal float64) string {
	if s.IsEmpty() {
		return RenderBox("Simulation Summary", SubtleStyle.Render("No months simulated."))
	}

	lines := []string{
		fmt.Sprintf("Months simulated:      %d", s.Months),
		fmt.Sprintf("Total income:          %s", model.FormatMoney(s.TotalIncome)),
		fmt.Sprintf("Total expenses:        %s", model.FormatMoney(s.TotalExpenses)),
		fmt.Sprintf("Average savings:       %s / month (goal %s)", model.FormatMoney(s.AverageMonthlySavings), model.FormatMoney(goal)),
		fmt.Sprintf("Savings range:         %s to %s", model.FormatMoney(s.MinMonthlySavings), model.FormatMoney(s.MaxMonthlySavings)),
		fmt.Sprintf("Final savings:         %s", model.FormatMoney(s.FinalCumulativeSavings)),
		fmt.Sprintf("Best month:            %d (%s saved)", s.BestMonth.Month, model.FormatMoney(s.BestMonth.Savings)),
		fmt.Sprintf("Worst month:           %d (%s saved)", s.WorstMonth.Month, model.FormatMoney(s.WorstMonth.Savings)),
	}

	goalLine := fmt.Sprintf("Goal met:              %d of %d months (%.1f%%)", s.MonthsGoalMet, s.Months, s.SavingsGoalPercentage)
	if s.MonthsGoalMet == s.Months {
		goalLine = SuccessStyle.Render(goalLine)
	} else {
		goalLine = WarningStyle.Render(goalLine)
	}
	lines = append(lines, goalLine)

	return RenderBox(MoneyIcon+" Simulation Summary", strings.Join(lines, "\n"))
}

var (
	strongTag = regexp.MustCompile(`<strong>(.*?)</strong>`)
	emTag     = regexp.MustCompile(`<em>(.*?)</em>`)
	codeTag   = regexp.MustCompile(`<code>(.*?)</code>`)
)

// RenderMarkup replaces the advisor's inline tags with terminal styles.
func RenderMarkup(text string) string {
	text = strongTag.ReplaceAllStringFunc(text, func(m string) string {
		return BoldStyle.Render(strongTag.FindStringSubmatch(m)[1])
	})
	text = emTag.ReplaceAllStringFunc(text, func(m string) string {
		return ItalicStyle.Render(emTag.FindStringSubmatch(m)[1])
	})
	return codeTag.ReplaceAllStringFunc(text, func(m string) string {
		return CodeStyle.Render(codeTag.FindStringSubmatch(m)[1])
	})
}

// RenderRecommendations renders a numbered recommendation list.
func RenderRecommendations(recs []string) string {
	lines := make([]string, 0, len(recs))
	for i, rec := range recs {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, RenderMarkup(rec)))
	}
	return RenderBox(RobotIcon+" Recommendations", strings.Join(lines, "\n"))
}

// RenderSweep renders the aggregate of a Monte Carlo sweep.
func RenderSweep(r *simulation.SweepReport, goal float64) string {
	lines := []string{
		fmt.Sprintf("Runs:                  %s", humanize.Comma(int64(r.RunCount))),
		fmt.Sprintf("Final savings (mean):  %s", model.FormatMoney(r.MeanFinalSavings)),
		fmt.Sprintf("Final savings range:   %s to %s", model.FormatMoney(r.MinFinalSavings), model.FormatMoney(r.MaxFinalSavings)),
		fmt.Sprintf("P10 / P50 / P90:       %s / %s / %s",
			model.FormatMoney(r.P10FinalSavings), model.FormatMoney(r.P50FinalSavings), model.FormatMoney(r.P90FinalSavings)),
		fmt.Sprintf("Months meeting goal:   %.1f%% on average", r.MeanGoalMetPct),
		fmt.Sprintf("Runs averaging %s:  %.1f%%", model.FormatMoney(goal), r.GoalReachedRunPct),
	}
	return RenderBox(ChartIcon+" Sweep Results", strings.Join(lines, "\n"))
}

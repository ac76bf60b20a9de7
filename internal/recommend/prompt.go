package recommend

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Veraticus/budgetsim/internal/analysis"
	"github.com/Veraticus/budgetsim/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PromptBuilder renders the text sent to the generation service.
type PromptBuilder struct {
	prompt *template.Template
	system string
}

// NewPromptBuilder loads the embedded templates.
func NewPromptBuilder() (*PromptBuilder, error) {
	funcMap := template.FuncMap{
		"money":     model.FormatMoney,
		"pct":       func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"signedPct": func(v float64) string { return fmt.Sprintf("%+.1f", v) },
		"score":     func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"whole":     func(v float64) string { return fmt.Sprintf("%.0f", v) },
		"share":     share,
	}

	prompt, err := template.New("recommendation_prompt.tmpl").Funcs(funcMap).
		ParseFS(templateFS, "templates/recommendation_prompt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template recommendation_prompt: %w", err)
	}

	system, err := templateFS.ReadFile("templates/system_instruction.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read system instruction: %w", err)
	}

	return &PromptBuilder{prompt: prompt, system: strings.TrimSpace(string(system))}, nil
}

// System returns the fixed system instruction.
func (pb *PromptBuilder) System() string {
	return pb.system
}

// Build renders the analysis prompt for snap.
func (pb *PromptBuilder) Build(snap analysis.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := pb.prompt.Execute(&buf, snap); err != nil {
		return "", fmt.Errorf("failed to execute recommendation_prompt template: %w", err)
	}
	return buf.String(), nil
}

func share(amount, income float64) float64 {
	if income == 0 {
		return 0
	}
	return amount / income * 100
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/budgetsim/internal/config"
	"github.com/Veraticus/budgetsim/internal/llm"
	"github.com/Veraticus/budgetsim/internal/recommend"
)

// newStrategy builds the recommendation strategy for an advisor name. Only an
// unknown advisor is an error. A text-generation client that cannot be built
// leaves the LLM advisor answering with rule-based recommendations.
func newStrategy(settings config.Settings, advisor string) (recommend.Strategy, error) {
	if err := config.ValidateAdvisor(advisor); err != nil {
		return nil, err
	}
	if advisor == config.AdvisorRules {
		return recommend.NewRuleBased(), nil
	}

	client, err := llm.NewClient(settings.LLM.ClientConfig())
	if err != nil {
		slog.Warn("LLM client unavailable, recommendations will be rule-based",
			"provider", settings.LLM.Provider, "error", err)
	}

	opts := []recommend.DelegatedOption{recommend.WithLogger(slog.Default())}
	if settings.LLM.Timeout > 0 {
		opts = append(opts, recommend.WithTimeout(settings.LLM.Timeout))
	}

	strategy, err := recommend.NewDelegated(client, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM advisor: %w", err)
	}
	return strategy, nil
}

package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Veraticus/budgetsim/internal/analysis"
	"github.com/Veraticus/budgetsim/internal/common"
	"github.com/Veraticus/budgetsim/internal/llm"
	"github.com/Veraticus/budgetsim/internal/model"
)

const (
	tracerName = "github.com/Veraticus/budgetsim/internal/recommend"

	// DefaultTimeout bounds the whole delegated call, probe included.
	DefaultTimeout = 45 * time.Second

	// minUsable is the fewest parsed items accepted without topping up
	// from the fallback strategy.
	minUsable = 2
)

// Delegated asks a text generation service for recommendations and tops
// the result up from a fallback strategy whenever the service is absent,
// fails, or yields too few usable items.
type Delegated struct {
	client   llm.Client
	fallback Strategy
	prompts  *PromptBuilder
	logger   *slog.Logger
	tracer   trace.Tracer
	timeout  time.Duration
}

// DelegatedOption configures a Delegated strategy.
type DelegatedOption func(*Delegated)

// WithLogger sets the logger used to report degradations.
func WithLogger(logger *slog.Logger) DelegatedOption {
	return func(d *Delegated) {
		d.logger = logger
	}
}

// WithTimeout bounds each Recommend call.
func WithTimeout(timeout time.Duration) DelegatedOption {
	return func(d *Delegated) {
		d.timeout = timeout
	}
}

// WithFallback replaces the default RuleBased fallback.
func WithFallback(fallback Strategy) DelegatedOption {
	return func(d *Delegated) {
		d.fallback = fallback
	}
}

// NewDelegated creates a delegated strategy. A nil client is allowed and
// makes every call use the fallback.
func NewDelegated(client llm.Client, opts ...DelegatedOption) (*Delegated, error) {
	prompts, err := NewPromptBuilder()
	if err != nil {
		return nil, err
	}

	d := &Delegated{
		client:   client,
		fallback: NewRuleBased(),
		prompts:  prompts,
		tracer:   otel.Tracer(tracerName),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = common.LoggerOrDefault(d.logger)
	return d, nil
}

// Recommend never returns an error: every failure of the generation
// service degrades to the fallback strategy.
func (d *Delegated) Recommend(ctx context.Context, cfg model.BudgetConfig, records []model.MonthRecord) []string {
	if len(records) == 0 {
		return []string{NoDataMessage}
	}

	ctx, span := d.tracer.Start(ctx, "recommend.Delegated")
	defer span.End()

	recs, err := d.generate(ctx, cfg, records)
	if err != nil {
		d.logger.Warn("text generation failed, using rule-based recommendations", "error", err)
	}

	if len(recs) < minUsable {
		if err == nil {
			d.logger.Warn("too few usable generated recommendations, adding rule-based ones", "parsed", len(recs))
		}
		recs = append(recs, d.fallback.Recommend(ctx, cfg, records)...)
		span.SetAttributes(attribute.Bool("recommend.fallback", true))
	}

	span.SetAttributes(attribute.Int("recommend.count", min(len(recs), MaxRecommendations)))
	return limit(recs)
}

func (d *Delegated) generate(ctx context.Context, cfg model.BudgetConfig, records []model.MonthRecord) ([]string, error) {
	if d.client == nil {
		return nil, common.ErrProviderUnavailable
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if prober, ok := d.client.(llm.Prober); ok {
		if err := prober.Available(ctx); err != nil {
			return nil, err
		}
	}

	prompt, err := d.prompts.Build(analysis.Analyze(cfg, records))
	if err != nil {
		return nil, err
	}

	text, err := d.client.Generate(ctx, d.prompts.System(), prompt)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}

	recs := ParseResponse(text)
	d.logger.Debug("parsed generated recommendations", "count", len(recs))
	return recs, nil
}

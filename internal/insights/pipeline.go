// Package insights turns the records of a period into short narrative
// insights using an external text generation service. Failures never reach
// the caller; every failure path resolves to fixed fallback content.
package insights

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/julianstephens/hustle/internal/aggregate"
	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/circuitbreaker"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/logger"
	"github.com/julianstephens/hustle/internal/metrics"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage"
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var errNoGenerator = errors.New("no generator configured")

// Result is the outcome of one insight request. Lines is set for weekly
// selections and Analysis for monthly and custom ones.
type Result struct {
	Timeframe constants.Timeframe `json:"timeframe"`
	Label     string              `json:"label"`
	Window    calendar.Window     `json:"window"`
	Stats     aggregate.Stats     `json:"stats"`
	Lines     []string            `json:"lines,omitempty"`
	Analysis  *AnalysisResult     `json:"analysis,omitempty"`
	Fallback  bool                `json:"fallback"`
	Degraded  bool                `json:"degraded,omitempty"`
	Thinking  bool                `json:"thinking"`
}

type Pipeline struct {
	store     storage.Provider
	generator Generator
	clock     calendar.Clock
	timeout   time.Duration
	inflight  atomic.Int64
}

// NewPipeline wires a pipeline. A nil generator makes every request fall
// back; a non-positive timeout uses the default.
func NewPipeline(store storage.Provider, generator Generator, clock calendar.Clock, timeout time.Duration) *Pipeline {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	if timeout <= 0 {
		timeout = constants.DefaultInsightTimeout
	}
	return &Pipeline{store: store, generator: generator, clock: clock, timeout: timeout}
}

// Thinking reports whether a generation call is in flight.
func (p *Pipeline) Thinking() bool {
	return p.inflight.Load() > 0
}

// Run resolves the selection, gathers its records and asks the generator for
// insights.
func (p *Pipeline) Run(ctx context.Context, owner string, sel Selection) Result {
	if sel.Timeframe == "" {
		sel.Timeframe = constants.TimeframeWeek
	}
	window := sel.Window(calendar.Today(p.clock))
	res := Result{
		Timeframe: sel.Timeframe,
		Label:     sel.Label(),
		Window:    window,
		Stats:     aggregate.NewStats(0, 0),
	}

	tasks, journals, err := p.fetch(ctx, owner, window)
	if err != nil {
		logger.Warn("Insight data fetch failed", "owner", owner, "window", window.String(), "error", err)
		res.Degraded = true
		return p.finish(res, sel, "", err, "store_error")
	}
	res.Stats = aggregate.Summarize(window, tasks)

	if len(tasks) == 0 && len(journals) == 0 {
		return p.finish(res, sel, "", nil, "no_data")
	}

	prompt := BuildPrompt(PromptInput{
		Window:     window,
		Structured: sel.Structured(),
		Stats:      res.Stats,
		Tasks:      tasks,
		Journals:   journals,
	})
	text, err := p.generate(ctx, prompt)
	if err != nil {
		logger.Warn("Insight generation failed", "timeframe", sel.timeframe(), "error", err)
		return p.finish(res, sel, "", err, failureReason(err))
	}
	return p.finish(res, sel, text, nil, "")
}

func (p *Pipeline) fetch(ctx context.Context, owner string, w calendar.Window) ([]models.Task, []models.Journal, error) {
	if w.Empty() {
		return nil, nil, nil
	}
	tasks, err := p.store.ListTasks(ctx, owner, w)
	if err != nil {
		return nil, nil, err
	}
	journals, err := p.store.ListJournals(ctx, owner, w)
	if err != nil {
		return nil, nil, err
	}
	return tasks, journals, nil
}

func (p *Pipeline) generate(ctx context.Context, prompt string) (string, error) {
	if p.generator == nil {
		return "", errNoGenerator
	}
	p.inflight.Add(1)
	defer p.inflight.Add(-1)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.generator.Generate(ctx, prompt)
}

// finish shapes the generator output for the selection. reason is set when
// the service was skipped or failed before producing text.
func (p *Pipeline) finish(res Result, sel Selection, text string, callErr error, reason string) Result {
	tf := sel.timeframe()

	if !sel.Structured() {
		lines := ParseLines(text)
		if callErr != nil || reason != "" || len(lines) == 0 {
			if reason == "" {
				reason = "empty"
			}
			metrics.RecordFallback(tf, reason)
			res.Lines = FallbackLines()
			res.Fallback = true
		} else {
			res.Lines = lines
		}
		res.Thinking = false
		return res
	}

	var analysis AnalysisResult
	switch {
	case callErr != nil:
		analysis = ParseAnalysis("", callErr)
	case reason == "no_data":
		analysis = noDataAnalysis()
	default:
		analysis = ParseAnalysis(text, nil)
		if analysis.Source == SourceUnparsed {
			reason = "unparsed"
		}
	}
	if analysis.Fallback() {
		metrics.RecordFallback(tf, reason)
	}
	res.Analysis = &analysis
	res.Fallback = analysis.Fallback()
	res.Thinking = false
	return res
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, errNoGenerator):
		return "unconfigured"
	case errors.Is(err, circuitbreaker.ErrOpen):
		return "circuit_open"
	default:
		return "error"
	}
}

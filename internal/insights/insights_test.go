package insights

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/circuitbreaker"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/models"
	"github.com/julianstephens/hustle/internal/storage/storagetest"
)

type fakeGenerator struct {
	text    string
	err     error
	block   bool
	prompts []string
	during  func()
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.during != nil {
		g.during()
	}
	if g.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.text, g.err
}

var wednesday = calendar.FixedClock{T: time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)}

func date(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func seed(t *testing.T, store *storagetest.Store, due string, completed bool) {
	t.Helper()
	err := store.AddTask(context.Background(), models.Task{
		Owner: "u1", Title: "write", DueDate: date(t, due), Completed: completed,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSelectionWindow(t *testing.T) {
	today := date(t, "2024-01-10")
	tests := []struct {
		name     string
		sel      Selection
		from, to string
		empty    bool
	}{
		{"current week", Selection{Timeframe: constants.TimeframeWeek}, "2024-01-08", "2024-01-14", false},
		{"last week", Selection{Timeframe: constants.TimeframeWeek, WeekOffset: -1}, "2024-01-01", "2024-01-07", false},
		{"default is week", Selection{}, "2024-01-08", "2024-01-14", false},
		{"february leap", Selection{Timeframe: constants.TimeframeMonth, Year: 2024, MonthIndex: 1}, "2024-02-01", "2024-02-29", false},
		{"custom weekly", Selection{Timeframe: constants.TimeframeCustom, CustomMode: constants.CustomModeWeekly, CustomFrom: "2024-01-03", CustomTo: "2024-01-05"}, "2024-01-03", "2024-01-05", false},
		{"custom monthly", Selection{Timeframe: constants.TimeframeCustom, CustomMode: constants.CustomModeMonthly, CustomFrom: "2024-01", CustomTo: "2024-02"}, "2024-01-01", "2024-02-29", false},
		{"custom blank", Selection{Timeframe: constants.TimeframeCustom}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.sel.Window(today)
			if w.Empty() != tt.empty {
				t.Fatalf("Empty() = %v, want %v", w.Empty(), tt.empty)
			}
			if tt.empty {
				return
			}
			if w.From.String() != tt.from || w.To.String() != tt.to {
				t.Errorf("Window() = %s, want %s..%s", w, tt.from, tt.to)
			}
		})
	}
}

func TestSelectionValidateAndLabel(t *testing.T) {
	if err := (Selection{Timeframe: constants.TimeframeMonth, Year: 2024, MonthIndex: 12}).Validate(); err == nil {
		t.Error("month index 12 accepted")
	}
	if err := (Selection{Timeframe: "year"}).Validate(); err == nil {
		t.Error("unknown timeframe accepted")
	}
	if err := (Selection{Timeframe: constants.TimeframeCustom, CustomMode: "daily"}).Validate(); err == nil {
		t.Error("unknown custom mode accepted")
	}
	if got := (Selection{Timeframe: constants.TimeframeMonth, Year: 2024, MonthIndex: 0}).Label(); got != "January 2024" {
		t.Errorf("Label() = %q", got)
	}
	if got := (Selection{WeekOffset: -1}).Label(); got != "Last Week" {
		t.Errorf("Label() = %q", got)
	}
}

func TestParseLines(t *testing.T) {
	got := ParseLines("first\r\n\n  second  \n\t\nthird")
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLines() = %v, want %v", got, want)
	}
	if got := ParseLines("  \n "); len(got) != 0 {
		t.Errorf("ParseLines(blank) = %v", got)
	}
}

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		err     error
		source  Source
		summary string
	}{
		{"plain json", `{"summary":"Good month","findings":["a"],"suggestions":["b"]}`, nil, SourceModel, "Good month"},
		{"fenced json", "```json\n{\"summary\":\"Fenced\",\"findings\":[],\"suggestions\":[]}\n```", nil, SourceModel, "Fenced"},
		{"bare fence", "```\n{\"summary\":\"Bare\"}\n```", nil, SourceModel, "Bare"},
		{"prose", "You did well this month.", nil, SourceUnparsed, "You did well this month."},
		{"array", `["not","an","object"]`, nil, SourceUnparsed, `["not","an","object"]`},
		{"object without fields", `{"other":1}`, nil, SourceUnparsed, `{"other":1}`},
		{"blank", "   ", nil, SourceUnparsed, constants.FallbackNoSummary},
		{"call failure", "ignored", errors.New("boom"), SourceFailed, constants.FallbackFailedSummary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAnalysis(tt.text, tt.err)
			if got.Source != tt.source {
				t.Errorf("Source = %q, want %q", got.Source, tt.source)
			}
			if got.Summary != tt.summary {
				t.Errorf("Summary = %q, want %q", got.Summary, tt.summary)
			}
			if got.Findings == nil || got.Suggestions == nil {
				t.Error("findings and suggestions must be non-nil")
			}
		})
	}

	unparsed := ParseAnalysis("nope", nil)
	if !reflect.DeepEqual(unparsed.Findings, []string{constants.FallbackUnparsedFinding}) ||
		!reflect.DeepEqual(unparsed.Suggestions, []string{constants.FallbackUnparsedSuggest}) {
		t.Errorf("unparsed fallback = %+v", unparsed.Analysis)
	}
}

func TestBuildPrompt(t *testing.T) {
	w := calendar.CustomWindow(date(t, "2024-01-08"), date(t, "2024-01-14"))
	in := PromptInput{
		Window:   w,
		Tasks:    []models.Task{{Title: "ship", DueDate: date(t, "2024-01-09"), Completed: true}},
		Journals: []models.Journal{{Date: date(t, "2024-01-09"), Content: "long day"}},
	}
	weekly := BuildPrompt(in)
	for _, want := range []string{"2024-01-08", "2024-01-14", `"title":"ship"`, `"content":"long day"`, linesInstruction} {
		if !strings.Contains(weekly, want) {
			t.Errorf("weekly prompt missing %q:\n%s", want, weekly)
		}
	}
	in.Structured = true
	if !strings.Contains(BuildPrompt(in), structuredInstruction) {
		t.Error("structured prompt missing JSON instruction")
	}
}

func TestPipelineWeekly(t *testing.T) {
	ctx := context.Background()

	t.Run("no tasks skips the service", func(t *testing.T) {
		gen := &fakeGenerator{text: "should not be used"}
		p := NewPipeline(storagetest.New(), gen, wednesday, time.Second)
		res := p.Run(ctx, "u1", Selection{Timeframe: constants.TimeframeWeek})
		if !reflect.DeepEqual(res.Lines, constants.FallbackWeeklyInsights) || !res.Fallback {
			t.Errorf("Lines = %v, want fallback", res.Lines)
		}
		if len(gen.prompts) != 0 {
			t.Error("generator called with no data")
		}
		if res.Thinking {
			t.Error("Thinking true on return")
		}
	})

	t.Run("lines from service", func(t *testing.T) {
		store := storagetest.New()
		seed(t, store, "2024-01-09", true)
		seed(t, store, "2024-01-10", false)
		seed(t, store, "2024-02-01", true)
		gen := &fakeGenerator{text: "- Strong Tuesday\n\n- Wednesday slipped\n"}
		p := NewPipeline(store, gen, wednesday, time.Second)

		res := p.Run(ctx, "u1", Selection{})
		if want := []string{"- Strong Tuesday", "- Wednesday slipped"}; !reflect.DeepEqual(res.Lines, want) {
			t.Errorf("Lines = %v, want %v", res.Lines, want)
		}
		if res.Stats.Total != 2 || res.Stats.Done != 1 {
			t.Errorf("Stats = %+v", res.Stats)
		}
		if res.Fallback || res.Analysis != nil {
			t.Errorf("unexpected fallback result %+v", res)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		store := storagetest.New()
		seed(t, store, "2024-01-09", true)
		p := NewPipeline(store, &fakeGenerator{err: circuitbreaker.ErrOpen}, wednesday, time.Second)
		res := p.Run(ctx, "u1", Selection{})
		if !reflect.DeepEqual(res.Lines, constants.FallbackWeeklyInsights) {
			t.Errorf("Lines = %v", res.Lines)
		}
	})

	t.Run("blank response", func(t *testing.T) {
		store := storagetest.New()
		seed(t, store, "2024-01-09", true)
		p := NewPipeline(store, &fakeGenerator{text: "\n  \n"}, wednesday, time.Second)
		if res := p.Run(ctx, "u1", Selection{}); !res.Fallback {
			t.Error("blank response did not fall back")
		}
	})

	t.Run("nil generator", func(t *testing.T) {
		store := storagetest.New()
		seed(t, store, "2024-01-09", true)
		if res := NewPipeline(store, nil, wednesday, 0).Run(ctx, "u1", Selection{}); !res.Fallback {
			t.Error("nil generator did not fall back")
		}
	})
}

func TestPipelineStructured(t *testing.T) {
	ctx := context.Background()
	january := Selection{Timeframe: constants.TimeframeMonth, Year: 2024, MonthIndex: 0}

	t.Run("raw text becomes summary", func(t *testing.T) {
		store := storagetest.New()
		seed(t, store, "2024-01-20", false)
		p := NewPipeline(store, &fakeGenerator{text: "Quiet month overall."}, wednesday, time.Second)
		res := p.Run(ctx, "u1", january)
		if res.Analysis == nil || res.Analysis.Source != SourceUnparsed {
			t.Fatalf("Analysis = %+v", res.Analysis)
		}
		if res.Analysis.Summary != "Quiet month overall." {
			t.Errorf("Summary = %q", res.Analysis.Summary)
		}
		if res.Lines != nil {
			t.Error("structured result carries lines")
		}
	})

	t.Run("decoded analysis", func(t *testing.T) {
		store := storagetest.New()
		seed(t, store, "2024-01-20", true)
		gen := &fakeGenerator{text: "```json\n{\"summary\":\"Solid\",\"findings\":[\"f\"],\"suggestions\":[\"s\"]}\n```"}
		res := NewPipeline(store, gen, wednesday, time.Second).Run(ctx, "u1", january)
		if res.Analysis.Source != SourceModel || res.Analysis.Summary != "Solid" || res.Fallback {
			t.Errorf("Analysis = %+v", res.Analysis)
		}
		if !strings.Contains(gen.prompts[0], structuredInstruction) {
			t.Error("monthly prompt did not ask for JSON")
		}
	})

	t.Run("journal only still calls the service", func(t *testing.T) {
		store := storagetest.New()
		if err := store.UpsertJournal(ctx, models.Journal{Owner: "u1", Date: date(t, "2024-01-05"), Content: "rested"}); err != nil {
			t.Fatal(err)
		}
		gen := &fakeGenerator{text: `{"summary":"Rest"}`}
		NewPipeline(store, gen, wednesday, time.Second).Run(ctx, "u1", january)
		if len(gen.prompts) != 1 {
			t.Errorf("generator called %d times", len(gen.prompts))
		}
	})

	t.Run("no data", func(t *testing.T) {
		res := NewPipeline(storagetest.New(), &fakeGenerator{}, wednesday, time.Second).Run(ctx, "u1", january)
		if res.Analysis.Source != SourceNoData {
			t.Errorf("Source = %q", res.Analysis.Source)
		}
	})

	t.Run("empty custom window", func(t *testing.T) {
		store := storagetest.New()
		res := NewPipeline(store, &fakeGenerator{}, wednesday, time.Second).Run(ctx, "u1", Selection{Timeframe: constants.TimeframeCustom, CustomFrom: "garbage"})
		if res.Analysis.Source != SourceNoData || !res.Window.Empty() {
			t.Errorf("result = %+v", res)
		}
		if store.CallCount("ListTasks") != 0 {
			t.Error("store queried for an empty window")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		store := storagetest.New()
		seed(t, store, "2024-01-20", true)
		p := NewPipeline(store, &fakeGenerator{block: true}, wednesday, 10*time.Millisecond)
		res := p.Run(ctx, "u1", january)
		if res.Analysis.Source != SourceFailed || res.Analysis.Summary != constants.FallbackFailedSummary {
			t.Errorf("Analysis = %+v", res.Analysis)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		store := storagetest.New()
		store.SetErr(errors.New("db down"))
		gen := &fakeGenerator{}
		res := NewPipeline(store, gen, wednesday, time.Second).Run(ctx, "u1", january)
		if !res.Degraded || res.Analysis.Source != SourceFailed {
			t.Errorf("result = %+v", res)
		}
		if len(gen.prompts) != 0 {
			t.Error("generator called after store failure")
		}
	})
}

func TestPipelineThinking(t *testing.T) {
	store := storagetest.New()
	seed(t, store, "2024-01-09", true)

	var p *Pipeline
	var during bool
	gen := &fakeGenerator{text: "ok", during: func() { during = p.Thinking() }}
	p = NewPipeline(store, gen, wednesday, time.Second)

	if p.Thinking() {
		t.Error("Thinking before run")
	}
	res := p.Run(context.Background(), "u1", Selection{})
	if !during {
		t.Error("Thinking false during generation")
	}
	if p.Thinking() || res.Thinking {
		t.Error("Thinking true after run")
	}
}

func TestFailureReason(t *testing.T) {
	tests := map[string]error{
		"timeout":      context.DeadlineExceeded,
		"circuit_open": circuitbreaker.ErrOpen,
		"unconfigured": errNoGenerator,
		"error":        errors.New("x"),
	}
	for want, err := range tests {
		if got := failureReason(err); got != want {
			t.Errorf("failureReason(%v) = %q, want %q", err, got, want)
		}
	}
}

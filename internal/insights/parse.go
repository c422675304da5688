package insights

import (
	"encoding/json"
	"strings"

	"github.com/julianstephens/hustle/internal/constants"
)

// Source tags where an analysis came from.
type Source string

const (
	SourceModel    Source = "model"    // decoded from the service response
	SourceUnparsed Source = "unparsed" // response was not a usable object
	SourceFailed   Source = "failed"   // the call itself failed
	SourceNoData   Source = "no_data"  // nothing to analyse, service not called
)

type Analysis struct {
	Summary     string   `json:"summary"`
	Findings    []string `json:"findings"`
	Suggestions []string `json:"suggestions"`
}

// AnalysisResult is an Analysis plus the path that produced it.
type AnalysisResult struct {
	Analysis
	Source Source `json:"source"`
}

// Fallback reports whether the analysis is placeholder text.
func (r AnalysisResult) Fallback() bool { return r.Source != SourceModel }

// ParseLines splits free text into trimmed, non-empty lines.
func ParseLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// FallbackLines returns a fresh copy of the fixed weekly insight set.
func FallbackLines() []string {
	return append([]string(nil), constants.FallbackWeeklyInsights...)
}

// ParseAnalysis decodes a structured analysis from the service text. A call
// error yields the failure fallback; text that does not decode to an object
// with content yields a fallback whose summary is the raw text.
func ParseAnalysis(text string, callErr error) AnalysisResult {
	if callErr != nil {
		return failedAnalysis()
	}

	var decoded struct {
		Summary     *string  `json:"summary"`
		Findings    []string `json:"findings"`
		Suggestions []string `json:"suggestions"`
	}
	body := stripFences(text)
	if err := json.Unmarshal([]byte(body), &decoded); err != nil || decoded.Summary == nil && decoded.Findings == nil && decoded.Suggestions == nil {
		summary := text
		if strings.TrimSpace(summary) == "" {
			summary = constants.FallbackNoSummary
		}
		return AnalysisResult{
			Analysis: Analysis{
				Summary:     summary,
				Findings:    []string{constants.FallbackUnparsedFinding},
				Suggestions: []string{constants.FallbackUnparsedSuggest},
			},
			Source: SourceUnparsed,
		}
	}

	out := AnalysisResult{Source: SourceModel, Analysis: Analysis{
		Findings:    nonEmpty(decoded.Findings),
		Suggestions: nonEmpty(decoded.Suggestions),
	}}
	if decoded.Summary != nil {
		out.Summary = strings.TrimSpace(*decoded.Summary)
	}
	return out
}

func failedAnalysis() AnalysisResult {
	return AnalysisResult{
		Analysis: Analysis{
			Summary:     constants.FallbackFailedSummary,
			Findings:    []string{constants.FallbackFailedFinding},
			Suggestions: []string{constants.FallbackFailedSuggestion},
		},
		Source: SourceFailed,
	}
}

func noDataAnalysis() AnalysisResult {
	return AnalysisResult{
		Analysis: Analysis{
			Summary:     constants.FallbackNoSummary,
			Findings:    []string{constants.FallbackNoDataFinding},
			Suggestions: []string{constants.FallbackNoDataSuggestion},
		},
		Source: SourceNoData,
	}
}

// stripFences removes a surrounding ``` or ```json fence.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func nonEmpty(items []string) []string {
	out := []string{}
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

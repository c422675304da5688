package constants

// Fallback insight content shown when the generation service fails or returns
// nothing usable.
var (
	FallbackWeeklyInsights = []string{
		"High completion early in the week.",
		"Evenings less productive than mornings.",
		"Try batching tasks by theme.",
	}

	FallbackNoSummary        = "No summary generated."
	FallbackUnparsedFinding  = "Couldn't parse structured output."
	FallbackUnparsedSuggest  = "Try again with more data."
	FallbackFailedSummary    = "AI request failed."
	FallbackFailedFinding    = "Could not fetch AI response."
	FallbackFailedSuggestion = "Check API route / key configuration."
	FallbackNoDataFinding    = "No tasks or journal entries were recorded in this range."
	FallbackNoDataSuggestion = "Add tasks or write a reflection, then generate insights again."
)

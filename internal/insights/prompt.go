package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/hustle/internal/aggregate"
	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/models"
)

// PromptInput is everything the prompt is built from.
type PromptInput struct {
	Window     calendar.Window
	Structured bool
	Stats      aggregate.Stats
	Tasks      []models.Task
	Journals   []models.Journal
}

type promptTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date"`
	Completed   bool   `json:"completed"`
}

type promptJournal struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

const (
	linesInstruction      = "Return 3-5 short insights as plain text, one per line. Do not return JSON."
	structuredInstruction = `Return only a JSON object of the form {"summary": string, "findings": [string], "suggestions": [string]}.`
)

// BuildPrompt renders the context for one insight request as a single text prompt.
func BuildPrompt(in PromptInput) string {
	tasks := make([]promptTask, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		tasks = append(tasks, promptTask{
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate.String(),
			Completed:   t.Completed,
		})
	}
	journals := make([]promptJournal, 0, len(in.Journals))
	for _, j := range in.Journals {
		journals = append(journals, promptJournal{Date: j.Date.String(), Content: j.Content})
	}

	// Marshalling plain structs of strings and bools cannot fail.
	taskJSON, _ := json.Marshal(tasks)
	journalJSON, _ := json.Marshal(journals)

	instruction := linesInstruction
	if in.Structured {
		instruction = structuredInstruction
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze my productivity between %s and %s.\n", in.Window.From, in.Window.To)
	fmt.Fprintf(&b, "Completion: %d of %d tasks done (%d%%).\n", in.Stats.Done, in.Stats.Total, in.Stats.Percent())
	fmt.Fprintf(&b, "Tasks: %s\n", taskJSON)
	fmt.Fprintf(&b, "Journals: %s\n", journalJSON)
	b.WriteString(instruction)
	return b.String()
}

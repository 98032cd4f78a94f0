package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rshade/footprint/internal/footprint"
	"github.com/rshade/footprint/internal/greenops"
)

// Screens the web client reports in screen_context.
const (
	ScreenStart   = "start"
	ScreenQuiz    = "quiz"
	ScreenResults = "results"
)

const assistantPersona = `You are EcoBot, a friendly assistant inside a carbon footprint quiz.
Help the user understand their footprint and suggest practical ways to reduce it.
Keep answers under 150 words. Use kg CO2 per year when quoting numbers.
Never invent figures that are not in the context below.`

// QuestionContext describes the question on screen while the user is
// taking the quiz.
type QuestionContext struct {
	Number   int      `json:"number"`
	Total    int      `json:"total"`
	Category string   `json:"category"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
}

// PromptContext is everything the system prompt describes.
type PromptContext struct {
	Screen   string
	Question *QuestionContext
	Answers  []footprint.RawAnswer
	Results  json.RawMessage
}

// resultsView is the part of a serialized ResultSet the prompt uses. It
// decodes loosely because results may come straight from the client.
type resultsView struct {
	Results []struct {
		Category   string   `json:"category"`
		Emissions  float64  `json:"emissions"`
		Average    float64  `json:"average"`
		Difference float64  `json:"difference"`
		Percentage float64  `json:"percentage"`
		Tips       []string `json:"tips"`
	} `json:"results"`
	TotalEmissions float64 `json:"total_emissions"`
	TotalAverage   float64 `json:"total_average"`
}

// BuildSystemPrompt renders the system message for one chat turn.
func BuildSystemPrompt(pc PromptContext) string {
	var b strings.Builder
	b.WriteString(assistantPersona)
	b.WriteString("\n\n")

	switch pc.Screen {
	case ScreenQuiz:
		b.WriteString("The user is taking the quiz.\n")
		if q := pc.Question; q != nil {
			fmt.Fprintf(&b, "Current question (%d of %d, %s): %s\n", q.Number, q.Total, q.Category, q.Question)
			if len(q.Options) > 0 {
				fmt.Fprintf(&b, "Options: %s\n", strings.Join(q.Options, "; "))
			}
			b.WriteString("Explain the question if asked but do not choose an answer for them.\n")
		}
	case ScreenResults:
		b.WriteString("The user is looking at their results.\n")
	default:
		b.WriteString("The user has not started the quiz yet.\n")
	}

	if len(pc.Answers) > 0 {
		b.WriteString("\nAnswers so far:\n")
		for _, a := range pc.Answers {
			b.WriteString("- ")
			b.WriteString(describeAnswer(a))
			b.WriteString("\n")
		}
	}

	if summary := describeResults(pc.Results); summary != "" {
		b.WriteString("\n")
		b.WriteString(summary)
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeAnswer(a footprint.RawAnswer) string {
	label := a.QuestionText
	if label == "" {
		label = a.Topic
	}
	if label == "" && a.QuestionID > 0 {
		label = fmt.Sprintf("question %d", a.QuestionID)
	}

	var value string
	switch {
	case a.SelectedOption != nil:
		value = *a.SelectedOption
	case a.Text != nil:
		value = *a.Text
	case a.SliderValue != nil && a.SliderValue.Valid:
		value = greenops.FormatFloat(a.SliderValue.Value, 1)
	default:
		value = "(no answer)"
	}
	return fmt.Sprintf("[%s] %s: %s", a.Category, label, value)
}

func describeResults(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var rv resultsView
	if err := json.Unmarshal(raw, &rv); err != nil || len(rv.Results) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Results: total %s per year against an average of %s.\n",
		greenops.FormatKg(rv.TotalEmissions), greenops.FormatKg(rv.TotalAverage))
	if eq := greenops.ForKg(rv.TotalEmissions); !eq.IsEmpty {
		fmt.Fprintf(&b, "%s.\n", eq.DisplayText)
	}

	b.WriteString("Categories, largest deviation first:\n")
	for i, r := range rv.Results {
		fmt.Fprintf(&b, "%s. %s: %s (average %s, %+.0f%%)\n",
			humanize.Ordinal(i+1), r.Category,
			greenops.FormatKg(r.Emissions), greenops.FormatKg(r.Average), r.Percentage)
		if len(r.Tips) > 0 {
			fmt.Fprintf(&b, "   Tips: %s\n", strings.Join(r.Tips, "; "))
		}
	}
	return b.String()
}

package components

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// Question renders one record with its answer revealed.
type Question struct {
	Number int
	Record questiongen.Record

	// Width wraps the card when positive.
	Width int
}

// NewQuestion creates a question view for the n-th record (1-based).
func NewQuestion(n int, r questiongen.Record) Question {
	return Question{Number: n, Record: r}
}

// View renders the question card.
func (q Question) View() string {
	var b strings.Builder

	header := theme.Label.Render(fmt.Sprintf("Q%d.", q.Number))
	b.WriteString(header + " " + theme.Question.Render(q.Record.Question) + "\n")

	if q.Record.IsBinary() {
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render("Answer: "+q.Record.Answer) + "\n")
		b.WriteString(theme.Hint.Render(q.Record.Explanation))
		return q.card(b.String())
	}

	b.WriteString("\n")
	for _, o := range q.Record.Options {
		line := fmt.Sprintf("  %s)  %s", o.Label, o.Text)
		if q.isCorrect(o.Label) {
			b.WriteString(theme.Correct.Render(line) + "\n")
		} else {
			b.WriteString(theme.Body.Render(line) + "\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(theme.Correct.Render("Correct Answer: " + q.Record.CorrectAnswer()))

	return q.card(b.String())
}

// isCorrect reports whether the option with label is part of the answer,
// directly or through "All of the Above".
func (q Question) isCorrect(label string) bool {
	if slices.Contains(q.Record.Answers, questiongen.AllOfTheAbove) {
		return true
	}
	return slices.Contains(q.Record.Answers, label)
}

func (q Question) card(s string) string {
	style := theme.Card
	if q.Width > 0 {
		style = style.Width(q.Width)
	}
	return style.Render(s)
}

// Summary renders the one-line outcome of a generation run.
func Summary(records, requested, dropped int, model string) string {
	line := fmt.Sprintf("%d of %d questions", records, requested)
	if dropped > 0 {
		line += fmt.Sprintf(", %d dropped", dropped)
	}
	if model != "" {
		line += " · " + model
	}
	style := theme.Subtitle
	if records == 0 {
		style = theme.Incorrect
	}
	return style.Render(line)
}

// Warnings renders advisory messages, one per line.
func Warnings(msgs []string) string {
	if len(msgs) == 0 {
		return ""
	}
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = theme.Warn.Render("! " + m)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

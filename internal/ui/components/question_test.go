package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/quizgen/internal/questiongen"
)

func plain(s string) string {
	return ansi.Strip(s)
}

func TestQuestionView_MCQ(t *testing.T) {
	r := questiongen.Record{
		Type:     questiongen.TypeMultipleChoice,
		Question: "What is 2+2?",
		Options:  []questiongen.Option{{Label: "A", Text: "3"}, {Label: "B", Text: "4"}},
		Answers:  []string{"B"},
	}
	out := plain(NewQuestion(1, r).View())

	for _, want := range []string{"Q1.", "What is 2+2?", "A)  3", "B)  4", "Correct Answer: B"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestQuestionView_Binary(t *testing.T) {
	r := questiongen.Record{
		Type:        questiongen.TypeTrueFalse,
		Question:    "The Sun is a star.",
		Answer:      "True",
		Explanation: "It is a G-type main-sequence star.",
	}
	out := plain(NewQuestion(3, r).View())

	for _, want := range []string{"Q3.", "Answer: True", "G-type"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Correct Answer") {
		t.Error("binary view should not show the multiple-choice answer line")
	}
}

func TestQuestion_IsCorrect(t *testing.T) {
	q := NewQuestion(1, questiongen.Record{Answers: []string{questiongen.AllOfTheAbove}})
	if !q.isCorrect("C") {
		t.Error("All of the Above marks every option")
	}
	q = NewQuestion(1, questiongen.Record{Answers: []string{"A"}})
	if q.isCorrect("C") || !q.isCorrect("A") {
		t.Error("only A is correct")
	}
}

func TestSummary(t *testing.T) {
	out := plain(Summary(2, 3, 1, "perplexity/sonar"))
	if out != "2 of 3 questions, 1 dropped · perplexity/sonar" {
		t.Errorf("Summary() = %q", out)
	}
	if got := Warnings(nil); got != "" {
		t.Errorf("Warnings(nil) = %q", got)
	}
	if got := plain(Warnings([]string{"a", "b"})); got != "! a\n! b" {
		t.Errorf("Warnings() = %q", got)
	}
}

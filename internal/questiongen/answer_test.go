package questiongen

import (
	"slices"
	"strings"
	"testing"
)

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"A, B, C", []string{"A", "B", "C"}},
		{"A and B", []string{"A", "B"}},
		{"all of the above", []string{AllOfTheAbove}},
		{"NONE OF ABOVE", []string{NoneOfTheAbove}},
		{"All of Above", []string{AllOfTheAbove}},
		{"  None of the Above  ", []string{NoneOfTheAbove}},
		{"b", []string{"B"}},
		{"a,b", []string{"A", "B"}},
		{"A, B and D", []string{"A", "B", "D"}},
		{"A,,B", []string{"A", "B"}},
		{"", []string{}},
		{"   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeAnswer(tt.raw); !slices.Equal(got, tt.want) {
				t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// The normalizer is deliberately lenient: it does not know the schema.
func TestNormalizeAnswer_NoCrossValidation(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"A, A", []string{"A", "A"}},
		{"Z", []string{"Z"}},
		{"A and all of the above", []string{"A", "ALL OF THE ABOVE"}},
		{"[B]", []string{"[B]"}},
	}
	for _, tt := range tests {
		if got := NormalizeAnswer(tt.raw); !slices.Equal(got, tt.want) {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCheckAnswers(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		answers []string
		want    string
	}{
		{"exact", MultipleChoice(4, 1), []string{"B"}, ""},
		{"two of two", MultipleChoice(4, 2), []string{"A", "C"}, ""},
		{"sentinel allowed", MultipleChoice(4, 2), []string{AllOfTheAbove}, ""},
		{"too many", MultipleChoice(4, 2), []string{"A", "B", "D"}, "3 answers given, 2 expected"},
		{"unknown label", MultipleChoice(4, 1), []string{"E"}, `unknown answer label "E"`},
		{"none required", MultipleChoice(4, 0), []string{"A"}, `expected "None of the Above"`},
		{"none given", MultipleChoice(4, 0), []string{NoneOfTheAbove}, ""},
		{"all required", MultipleChoice(3, 3), []string{AllOfTheAbove}, ""},
		{"all spelled out", MultipleChoice(3, 3), []string{"A", "B", "C"}, `expected "All of the Above"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(CheckAnswers(Record{Type: TypeMultipleChoice, Answers: tt.answers}, tt.schema), "; ")
			if tt.want == "" {
				if got != "" {
					t.Errorf("unexpected findings: %s", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("findings %q should contain %q", got, tt.want)
			}
		})
	}
}

func TestCheckAnswers_BinaryIgnored(t *testing.T) {
	if f := CheckAnswers(Record{Type: TypeTrueFalse, Answer: "True"}, TrueFalse()); f != nil {
		t.Errorf("unexpected findings: %v", f)
	}
}

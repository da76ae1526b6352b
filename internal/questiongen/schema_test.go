package questiongen

import (
	"errors"
	"slices"
	"testing"
)

func TestVocabulary(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		want   []string
	}{
		{"mcq 4", MultipleChoice(4, 1), []string{"A", "B", "C", "D"}},
		{"mcq 2", MultipleChoice(2, 1), []string{"A", "B"}},
		{"true false", TrueFalse(), []string{"True", "False"}},
		{"yes no", YesNo(), []string{"Yes", "No"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.schema.Vocabulary(); !slices.Equal(got, tt.want) {
				t.Errorf("Vocabulary() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVocabulary_AllLabels(t *testing.T) {
	v := MultipleChoice(MaxChoices, 1).Vocabulary()
	if len(v) != 26 || v[0] != "A" || v[25] != "Z" {
		t.Fatalf("unexpected vocabulary: %v", v)
	}
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		wantErr bool
	}{
		{"single answer", MultipleChoice(4, 1), false},
		{"none of the above", MultipleChoice(4, 0), false},
		{"all of the above", MultipleChoice(4, 4), false},
		{"two options", MultipleChoice(2, 1), false},
		{"max options", MultipleChoice(26, 3), false},
		{"true false", TrueFalse(), false},
		{"yes no", YesNo(), false},
		{"too many correct", MultipleChoice(4, 5), true},
		{"one option", MultipleChoice(1, 1), true},
		{"no options", MultipleChoice(0, 0), true},
		{"too many options", MultipleChoice(27, 1), true},
		{"negative correct", MultipleChoice(4, -1), true},
		{"unknown type", Schema{Type: "essay"}, true},
		{"binary with options", Schema{Type: TypeTrueFalse, ChoiceCount: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ise *ErrInvalidSchema
				if !errors.As(err, &ise) {
					t.Errorf("expected *ErrInvalidSchema, got %T", err)
				}
			}
		})
	}
}

func TestSchemaFor_BinaryIgnoresCounts(t *testing.T) {
	s := SchemaFor(TypeYesNo, 4, 2)
	if s.ChoiceCount != 0 || s.RequiredAnswerCount != 0 {
		t.Fatalf("binary schema kept counts: %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseQuestionType(t *testing.T) {
	for in, want := range map[string]QuestionType{
		"mcq":        TypeMultipleChoice,
		"true_false": TypeTrueFalse,
		"tf":         TypeTrueFalse,
		"yes_no":     TypeYesNo,
		"yes-no":     TypeYesNo,
	} {
		got, err := ParseQuestionType(in)
		if err != nil || got != want {
			t.Errorf("ParseQuestionType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseQuestionType("essay"); err == nil {
		t.Error("expected error for unknown type")
	}
}

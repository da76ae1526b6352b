package questiongen

import (
	"fmt"
	"strings"
)

// Difficulty is the requested difficulty level.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// ParseDifficulty accepts any casing of easy, medium or hard.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}

// Default token budgets per question family.
const (
	DefaultMCQTokenBudget    = 3000
	DefaultBinaryTokenBudget = 2000
	MinTokenBudget           = 100
)

// DefaultTokenBudget returns the default budget for t.
func DefaultTokenBudget(t QuestionType) int {
	if t.IsBinary() {
		return DefaultBinaryTokenBudget
	}
	return DefaultMCQTokenBudget
}

// Request holds the parameters of one generation call.
type Request struct {
	Topic       string     `json:"field" validate:"notblank"`
	Subtopic    string     `json:"subfield" validate:"omitempty,notblank"`
	Difficulty  Difficulty `json:"difficulty" validate:"oneof=Easy Medium Hard"`
	Count       int        `json:"count" validate:"min=1"`
	TokenBudget int        `json:"max_tokens" validate:"min=100"`
}

// Validate reports configuration errors as *ErrInvalidRequest.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &ErrInvalidRequest{Reason: translate(err)}
	}
	return nil
}

// Field is the subject line used in prompts: "topic - subtopic" when a
// subtopic is set, the bare topic otherwise.
func (r Request) Field() string {
	topic := strings.TrimSpace(r.Topic)
	if sub := strings.TrimSpace(r.Subtopic); sub != "" {
		return topic + " - " + sub
	}
	return topic
}

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/store"
)

func generateViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	v.Set("field", []string{"Physics"})
	v.Set("difficulty", "medium")
	v.Set("count", 5)
	v.Set("max-tokens", 3000)
	v.Set("output", "text")
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestParseGenerateParams(t *testing.T) {
	v := generateViper(map[string]any{"field": []string{"Physics", " Chemistry "}, "subfield": "Basics"})
	p, err := parseGenerateParams(v, questiongen.MultipleChoice(4, 1))
	require.NoError(t, err)
	require.Len(t, p.requests, 2)
	assert.Equal(t, "Chemistry", p.requests[1].Topic)
	assert.Equal(t, "Basics", p.requests[0].Subtopic)
	assert.Equal(t, questiongen.Medium, p.requests[0].Difficulty)
}

func TestParseGenerateParams_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		schema    questiongen.Schema
	}{
		{"no field", map[string]any{"field": []string{" "}}, questiongen.MultipleChoice(4, 1)},
		{"blank subfield", map[string]any{"subfield": "  "}, questiongen.MultipleChoice(4, 1)},
		{"zero count", map[string]any{"count": 0}, questiongen.MultipleChoice(4, 1)},
		{"small budget", map[string]any{"max-tokens": 50}, questiongen.MultipleChoice(4, 1)},
		{"bad difficulty", map[string]any{"difficulty": "extreme"}, questiongen.MultipleChoice(4, 1)},
		{"one option", nil, questiongen.MultipleChoice(1, 1)},
		{"too many correct", nil, questiongen.MultipleChoice(4, 5)},
		{"bad output", map[string]any{"output": "xml"}, questiongen.TrueFalse()},
		{"save with many fields", map[string]any{"field": []string{"a", "b"}, "save": "out.json"}, questiongen.TrueFalse()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseGenerateParams(generateViper(tt.overrides), tt.schema)
			assert.Error(t, err)
		})
	}
}

func TestBatchData(t *testing.T) {
	rec := questiongen.Record{
		Type:     questiongen.TypeMultipleChoice,
		Question: "What is 2+2?",
		Options:  []questiongen.Option{{Label: "A", Text: "3"}, {Label: "B", Text: "4"}},
		Answers:  []string{"B"},
	}
	b := &questiongen.Batch{
		Schema:        questiongen.MultipleChoice(2, 1),
		Request:       questiongen.Request{Topic: "Math", Difficulty: questiongen.Easy, Count: 3},
		Records:       []questiongen.Record{rec},
		Blocks:        2,
		Dropped:       1,
		Model:         "mock/mock",
		GenerationErr: errors.New("partial"),
	}

	data, err := batchData(b)
	require.NoError(t, err)
	assert.Equal(t, "mcq", data.QuestionType)
	assert.Equal(t, 2, data.ChoiceCount)
	assert.Equal(t, 1, data.DroppedCount)
	assert.Equal(t, "partial", data.GenerationError)
	require.Len(t, data.Records, 1)
	assert.Equal(t, 1, data.Records[0].Position)
	assert.JSONEq(t, `{"question":"What is 2+2?","options":{"A":"3","B":"4"},"correct_answer":["B"]}`, string(data.Records[0].Payload))
}

func TestSaveBatch_MultipleRecords(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "quizgen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	records := []questiongen.Record{
		{Type: questiongen.TypeYesNo, Question: "Is water wet?", Answer: "Yes", Explanation: "It wets surfaces."},
		{Type: questiongen.TypeYesNo, Question: "Is ice hot?", Answer: "No", Explanation: "It is frozen water."},
		{Type: questiongen.TypeYesNo, Question: "Is the sky blue?", Answer: "Yes", Explanation: "Rayleigh scattering."},
	}
	b := &questiongen.Batch{
		Schema:  questiongen.YesNo(),
		Request: questiongen.Request{Topic: "Science", Difficulty: questiongen.Easy, Count: 3},
		Records: records,
		Blocks:  3,
		Model:   "mock/mock",
	}

	ctx := context.Background()
	id, err := saveBatch(ctx, st.QuestionRepo(), b)
	require.NoError(t, err)

	got, err := st.QuestionRepo().GetBatch(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Records, 3)
	for i, rec := range records {
		assert.Equal(t, i+1, got.Records[i].Position)
		assert.Equal(t, rec.Question, got.Records[i].Question)
	}

	f, err := questionFileFromBatch(got)
	require.NoError(t, err)
	require.Len(t, f.Questions, 3)
	assert.Equal(t, "No", f.Questions[1].Answer)
}

func TestQuestionFileFromBatch(t *testing.T) {
	payload, err := json.Marshal(questiongen.Record{
		Type:        questiongen.TypeYesNo,
		Question:    "Is water wet?",
		Answer:      "Yes",
		Explanation: "It wets surfaces.",
	})
	require.NoError(t, err)

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f, err := questionFileFromBatch(&store.Batch{
		ID:        "b1",
		CreatedAt: created,
		BatchData: store.BatchData{
			QuestionType:   "yes_no",
			Field:          "Science",
			Difficulty:     "Easy",
			RequestedCount: 1,
			Model:          "mock/mock",
			Records:        []store.RecordData{{Position: 0, Question: "Is water wet?", Payload: payload}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, questiongen.YesNo(), f.Schema())
	assert.Equal(t, created, f.GeneratedAt)
	require.Len(t, f.Questions, 1)
	assert.Equal(t, "Yes", f.Questions[0].Answer)
	assert.Equal(t, questiongen.TypeYesNo, f.Questions[0].Type)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, questiongen.FormatYAML, formatForPath("out.YAML"))
	assert.Equal(t, questiongen.FormatYAML, formatForPath("out.yml"))
	assert.Equal(t, questiongen.FormatJSON, formatForPath("out.json"))
	assert.Equal(t, questiongen.FormatJSON, formatForPath("-"))
}

func TestPickQuestion(t *testing.T) {
	recs := []questiongen.Record{{Question: "one"}, {Question: "two"}}

	got, err := pickQuestion(recs, 2)
	require.NoError(t, err)
	assert.Equal(t, "two", got.Question)

	for _, n := range []int{0, -1, 3} {
		_, err := pickQuestion(recs, n)
		assert.Error(t, err, "n=%d", n)
	}
	_, err = pickQuestion(nil, 1)
	assert.Error(t, err)
}

func TestSimilarRequest(t *testing.T) {
	b := &store.Batch{BatchData: store.BatchData{Field: "Physics", Subfield: "Optics", Difficulty: "Hard"}}

	req := similarRequest(b, questiongen.MultipleChoice(4, 1), 2, 0)
	assert.Equal(t, "Physics", req.Topic)
	assert.Equal(t, "Optics", req.Subtopic)
	assert.Equal(t, questiongen.Hard, req.Difficulty)
	assert.Equal(t, 2, req.Count)
	assert.Equal(t, questiongen.DefaultMCQTokenBudget, req.TokenBudget)
	require.NoError(t, req.Validate())

	b.Difficulty = "unknown"
	req = similarRequest(b, questiongen.TrueFalse(), 1, 700)
	assert.Equal(t, questiongen.Medium, req.Difficulty)
	assert.Equal(t, 700, req.TokenBudget)
}

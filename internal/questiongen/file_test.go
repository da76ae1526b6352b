package questiongen

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

var fileTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestQuestionFile_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		records []Record
	}{
		{"mcq", MultipleChoice(4, 1), []Record{sampleMCQ()}},
		{"yes no", YesNo(), []Record{sampleBinary()}},
	}
	for _, tt := range tests {
		for _, format := range []Format{FormatJSON, FormatYAML} {
			t.Run(tt.name+" "+string(format), func(t *testing.T) {
				f := NewQuestionFile(tt.schema, validRequest(), "perplexity/sonar", tt.records, fileTime)

				var buf bytes.Buffer
				if err := f.Write(&buf, format); err != nil {
					t.Fatalf("write: %v", err)
				}
				got, err := ReadQuestionFile(buf.Bytes(), format)
				if err != nil {
					t.Fatalf("read: %v\n%s", err, buf.String())
				}
				if !reflect.DeepEqual(got, f) {
					t.Errorf("got %+v\nwant %+v", got, f)
				}
				if got.Schema() != tt.schema {
					t.Errorf("Schema() = %v, want %v", got.Schema(), tt.schema)
				}
			})
		}
	}
}

func TestQuestionFile_JSONLayout(t *testing.T) {
	f := NewQuestionFile(MultipleChoice(4, 1), validRequest(), "mock", []Record{sampleMCQ()}, fileTime)
	var buf bytes.Buffer
	if err := f.Write(&buf, FormatJSON); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`"field": "Physics"`,
		`"question_type": "mcq"`,
		`"generated_at": "2026-03-01T12:00:00Z"`,
		`"question_count": 1`,
		`"correct_answer": [`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "subfield") {
		t.Error("empty subfield should be omitted")
	}
}

func TestReadQuestionFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing option", `{"field":"f","question_type":"mcq","choice_count":3,"correct_answer_count":1,
			"questions":[{"question":"q","options":{"A":"a","B":"b"},"correct_answer":["A"]}]}`},
		{"extra option", `{"field":"f","question_type":"mcq","choice_count":2,"correct_answer_count":1,
			"questions":[{"question":"q","options":{"A":"a","B":"b","C":"c"},"correct_answer":["A"]}]}`},
		{"empty answers", `{"field":"f","question_type":"mcq","choice_count":2,"correct_answer_count":1,
			"questions":[{"question":"q","options":{"A":"a","B":"b"},"correct_answer":[]}]}`},
		{"wrong binary word", `{"field":"f","question_type":"true_false",
			"questions":[{"question":"q","correct_answer":"Yes","explanation":"e"}]}`},
		{"missing explanation", `{"field":"f","question_type":"yes_no",
			"questions":[{"question":"q","correct_answer":"Yes"}]}`},
		{"bad schema", `{"field":"f","question_type":"mcq","choice_count":1,"questions":[]}`},
		{"no field", `{"question_type":"yes_no","questions":[]}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadQuestionFile([]byte(tt.data), FormatJSON)
			var ife *ErrInvalidFile
			if !errors.As(err, &ife) {
				t.Fatalf("expected *ErrInvalidFile, got %v", err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "yaml": FormatYAML, "yml": FormatYAML} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error")
	}
}

func TestRecordSchema_Labels(t *testing.T) {
	s := RecordSchema(MultipleChoice(3, 1))
	opts := s["properties"].(map[string]any)["options"].(map[string]any)
	if got := opts["required"].([]string); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("required = %v", got)
	}
}

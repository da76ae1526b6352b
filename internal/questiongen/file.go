package questiongen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// QuestionFile is the on-disk form of one generated batch.
type QuestionFile struct {
	Field              string       `json:"field" yaml:"field"`
	Subfield           string       `json:"subfield,omitempty" yaml:"subfield,omitempty"`
	QuestionType       QuestionType `json:"question_type" yaml:"question_type"`
	Difficulty         Difficulty   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Model              string       `json:"model,omitempty" yaml:"model,omitempty"`
	ChoiceCount        int          `json:"choice_count,omitempty" yaml:"choice_count,omitempty"`
	CorrectAnswerCount int          `json:"correct_answer_count,omitempty" yaml:"correct_answer_count,omitempty"`
	GeneratedAt        time.Time    `json:"generated_at" yaml:"generated_at"`
	QuestionCount      int          `json:"question_count" yaml:"question_count"`
	Questions          []Record     `json:"questions" yaml:"questions"`
}

// NewQuestionFile wraps records with the parameters that produced them.
func NewQuestionFile(s Schema, req Request, model string, records []Record, at time.Time) *QuestionFile {
	f := &QuestionFile{
		Field:         req.Topic,
		Subfield:      req.Subtopic,
		QuestionType:  s.Type,
		Difficulty:    req.Difficulty,
		Model:         model,
		GeneratedAt:   at.UTC(),
		QuestionCount: len(records),
		Questions:     records,
	}
	if !s.IsBinary() {
		f.ChoiceCount = s.ChoiceCount
		f.CorrectAnswerCount = s.RequiredAnswerCount
	}
	if f.Questions == nil {
		f.Questions = []Record{}
	}
	return f
}

// Schema returns the record schema the file declares.
func (f *QuestionFile) Schema() Schema {
	return SchemaFor(f.QuestionType, f.ChoiceCount, f.CorrectAnswerCount)
}

// Format is a question file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// Write encodes f to w.
func (f *QuestionFile) Write(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// ReadQuestionFile decodes and validates a question file. YAML input is
// converted to JSON first so both formats go through the same checks.
func ReadQuestionFile(data []byte, format Format) (*QuestionFile, error) {
	if format == FormatYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		data = converted
	}

	if err := ValidateFileJSON(data); err != nil {
		return nil, err
	}

	var f QuestionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode question file: %w", err)
	}
	for i, r := range f.Questions {
		if r.Type != f.QuestionType && !(r.IsBinary() && f.QuestionType.IsBinary()) {
			return nil, fmt.Errorf("question %d: %s record in %s file", i, r.Type, f.QuestionType)
		}
		f.Questions[i].Type = f.QuestionType
	}
	return &f, nil
}

// ErrInvalidFile reports a question file that does not match its declared
// schema.
type ErrInvalidFile struct {
	Err error
}

func (e *ErrInvalidFile) Error() string {
	return fmt.Sprintf("invalid question file: %v", e.Err)
}

func (e *ErrInvalidFile) Unwrap() error {
	return e.Err
}

// ValidateFileJSON checks a JSON question file against the JSON Schema
// derived from the record schema it declares.
func ValidateFileJSON(data []byte) error {
	var header struct {
		QuestionType       QuestionType `json:"question_type"`
		ChoiceCount        int          `json:"choice_count"`
		CorrectAnswerCount int          `json:"correct_answer_count"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return &ErrInvalidFile{Err: err}
	}
	s := SchemaFor(header.QuestionType, header.ChoiceCount, header.CorrectAnswerCount)
	if err := s.Validate(); err != nil {
		return &ErrInvalidFile{Err: err}
	}

	compiled, err := compiledFileSchema(s)
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &ErrInvalidFile{Err: err}
	}
	if err := compiled.Validate(inst); err != nil {
		return &ErrInvalidFile{Err: err}
	}
	return nil
}

var fileSchemaCache sync.Map // map[string]*jsonschema.Schema

func compiledFileSchema(s Schema) (*jsonschema.Schema, error) {
	key := s.String()
	if cached, ok := fileSchemaCache.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	defBytes, err := json.Marshal(FileSchema(s))
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("quizgen://questions/%s.json", s.Type)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	fileSchemaCache.Store(key, compiled)
	return compiled, nil
}

// FileSchema returns the JSON Schema of a question file holding records
// of schema s.
func FileSchema(s Schema) map[string]any {
	return map[string]any{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"type":     "object",
		"required": []string{"field", "question_type", "questions"},
		"properties": map[string]any{
			"field":                nonEmptyString(),
			"subfield":             map[string]any{"type": "string"},
			"question_type":        map[string]any{"const": string(s.Type)},
			"difficulty":           map[string]any{"enum": []string{string(Easy), string(Medium), string(Hard)}},
			"model":                map[string]any{"type": "string"},
			"choice_count":         map[string]any{"type": "integer", "minimum": 0},
			"correct_answer_count": map[string]any{"type": "integer", "minimum": 0},
			"generated_at":         map[string]any{"type": "string"},
			"question_count":       map[string]any{"type": "integer", "minimum": 0},
			"questions": map[string]any{
				"type":  "array",
				"items": RecordSchema(s),
			},
		},
	}
}

// RecordSchema returns the JSON Schema of one persisted record.
func RecordSchema(s Schema) map[string]any {
	if s.IsBinary() {
		return map[string]any{
			"type":                 "object",
			"required":             []string{"question", "correct_answer", "explanation"},
			"additionalProperties": false,
			"properties": map[string]any{
				"question":       nonEmptyString(),
				"correct_answer": map[string]any{"enum": s.Vocabulary()},
				"explanation":    nonEmptyString(),
			},
		}
	}

	labels := s.Vocabulary()
	optionProps := make(map[string]any, len(labels))
	for _, l := range labels {
		optionProps[l] = nonEmptyString()
	}
	return map[string]any{
		"type":                 "object",
		"required":             []string{"question", "options", "correct_answer"},
		"additionalProperties": false,
		"properties": map[string]any{
			"question": nonEmptyString(),
			"options": map[string]any{
				"type":                 "object",
				"required":             labels,
				"properties":           optionProps,
				"additionalProperties": false,
			},
			"correct_answer": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    nonEmptyString(),
			},
		},
	}
}

func nonEmptyString() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

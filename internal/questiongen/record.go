package questiongen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Option is one labeled choice of a multiple-choice record.
type Option struct {
	Label string
	Text  string
}

// Record is one validated question. Multiple-choice records carry Options
// and Answers; binary records carry Answer and Explanation.
type Record struct {
	Type        QuestionType
	Question    string
	Options     []Option
	Answers     []string
	Answer      string
	Explanation string
}

// IsBinary reports whether r is a true/false or yes/no record.
func (r Record) IsBinary() bool {
	return r.Type.IsBinary()
}

// Option returns the text for label, if present.
func (r Record) Option(label string) (string, bool) {
	for _, o := range r.Options {
		if o.Label == label {
			return o.Text, true
		}
	}
	return "", false
}

// CorrectAnswer returns the answer as a display string.
func (r Record) CorrectAnswer() string {
	if r.IsBinary() {
		return r.Answer
	}
	var b bytes.Buffer
	for i, a := range r.Answers {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a)
	}
	return b.String()
}

// MarshalJSON writes the persisted shape. Options are emitted as an object
// whose keys keep label order.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"question":`)
	if err := writeJSON(&b, r.Question); err != nil {
		return nil, err
	}

	if r.IsBinary() {
		b.WriteString(`,"correct_answer":`)
		if err := writeJSON(&b, r.Answer); err != nil {
			return nil, err
		}
		b.WriteString(`,"explanation":`)
		if err := writeJSON(&b, r.Explanation); err != nil {
			return nil, err
		}
		b.WriteByte('}')
		return b.Bytes(), nil
	}

	b.WriteString(`,"options":{`)
	for i, o := range r.Options {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeJSON(&b, o.Label); err != nil {
			return nil, err
		}
		b.WriteByte(':')
		if err := writeJSON(&b, o.Text); err != nil {
			return nil, err
		}
	}
	b.WriteString(`},"correct_answer":`)
	answers := r.Answers
	if answers == nil {
		answers = []string{}
	}
	if err := writeJSON(&b, answers); err != nil {
		return nil, err
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func writeJSON(b *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.Write(data)
	return nil
}

// recordJSON is the decoded persisted shape.
type recordJSON struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer json.RawMessage   `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

// UnmarshalJSON reads the persisted shape. The record type is inferred:
// an array answer is multiple choice, a single word is true/false or
// yes/no depending on the word.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Record{Question: raw.Question}
	trimmed := bytes.TrimSpace(raw.CorrectAnswer)

	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		out.Type = TypeMultipleChoice
		if err := json.Unmarshal(trimmed, &out.Answers); err != nil {
			return fmt.Errorf("correct_answer: %w", err)
		}
		out.Options = orderedOptions(raw.Options)
	case len(trimmed) > 0 && trimmed[0] == '"':
		if err := json.Unmarshal(trimmed, &out.Answer); err != nil {
			return fmt.Errorf("correct_answer: %w", err)
		}
		switch out.Answer {
		case "True", "False":
			out.Type = TypeTrueFalse
		case "Yes", "No":
			out.Type = TypeYesNo
		default:
			return fmt.Errorf("correct_answer: unknown answer %q", out.Answer)
		}
		out.Explanation = raw.Explanation
	default:
		return fmt.Errorf("correct_answer: missing")
	}

	*r = out
	return nil
}

// orderedOptions sorts decoded options into label order. Keys outside the
// label table sort after it, alphabetically.
func orderedOptions(m map[string]string) []Option {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ia, ib := labelIndex(a), labelIndex(b)
		if ia != ib {
			return ia - ib
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	out := make([]Option, len(keys))
	for i, k := range keys {
		out[i] = Option{Label: k, Text: m[k]}
	}
	return out
}

func labelIndex(l string) int {
	if i := slices.Index(Labels[:], l); i >= 0 {
		return i
	}
	return MaxChoices
}

// MarshalYAML writes the same shape as MarshalJSON with options in label
// order.
func (r Record) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content, yamlStr("question"), yamlStr(r.Question))

	if r.IsBinary() {
		n.Content = append(n.Content,
			yamlStr("correct_answer"), yamlStr(r.Answer),
			yamlStr("explanation"), yamlStr(r.Explanation),
		)
		return n, nil
	}

	opts := &yaml.Node{Kind: yaml.MappingNode}
	for _, o := range r.Options {
		opts.Content = append(opts.Content, yamlStr(o.Label), yamlStr(o.Text))
	}
	answers := &yaml.Node{Kind: yaml.SequenceNode}
	for _, a := range r.Answers {
		answers.Content = append(answers.Content, yamlStr(a))
	}
	n.Content = append(n.Content,
		yamlStr("options"), opts,
		yamlStr("correct_answer"), answers,
	)
	return n, nil
}

// yamlStr forces string style so labels like "Y" or "N" and answers like
// "True" stay strings when read back.
func yamlStr(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

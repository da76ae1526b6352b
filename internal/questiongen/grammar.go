package questiongen

import (
	"fmt"
	"regexp"
	"strings"
)

// Grammar is the output format derived from a Schema. The same value
// renders the template embedded in the prompt and parses the blocks the
// model sends back, so the two cannot drift apart.
type Grammar struct {
	schema  Schema
	vocab   []string
	pattern *regexp.Regexp
}

// NewGrammar validates s and compiles its grammar.
func NewGrammar(s Schema) (*Grammar, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	g := &Grammar{schema: s, vocab: s.Vocabulary()}
	if s.IsBinary() {
		g.pattern = binaryPattern(g.vocab)
	} else {
		g.pattern = mcqPattern(g.vocab)
	}
	return g, nil
}

// MustGrammar is NewGrammar for schemas known to be valid.
func MustGrammar(s Schema) *Grammar {
	g, err := NewGrammar(s)
	if err != nil {
		panic(err)
	}
	return g
}

// Schema returns the schema the grammar was built from.
func (g *Grammar) Schema() Schema { return g.schema }

// mcqPattern matches "Question:", then one line per label, then the
// "Correct Answer:" line. Each option runs until the next label line or
// the answer marker. The answer is captured to end of line only.
func mcqPattern(labels []string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?s)Question:\s*(.+?)`)
	for _, l := range labels {
		fmt.Fprintf(&b, `\s*\n[ \t]*%s\.\s*(.+?)`, regexp.QuoteMeta(l))
	}
	b.WriteString(`\s*\n[ \t]*Correct Answer:[ \t]*([^\n]*)`)
	return regexp.MustCompile(b.String())
}

// binaryPattern matches a single-line question, an answer restricted to
// the two vocabulary words, and an explanation running to the next blank
// line or end of text.
func binaryPattern(words []string) *regexp.Regexp {
	alts := make([]string, len(words))
	for i, w := range words {
		alts[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(
		`(?s)Question:[ \t]*([^\n]+?)[ \t]*\n\s*Answer:[ \t]*(` + strings.Join(alts, "|") +
			`)[ \t]*\n\s*Explanation:[ \t]*(.+?)\s*(?:\n[ \t]*\n|\z)`)
}

// Template is the literal output format the model must reproduce.
func (g *Grammar) Template() string {
	var b strings.Builder
	if g.schema.IsBinary() {
		fmt.Fprintf(&b, "Question: [%s]\n", g.questionPlaceholder())
		fmt.Fprintf(&b, "Answer: [%s]\n", strings.Join(g.vocab, "/"))
		b.WriteString("Explanation: [Detailed explanation of why the answer is correct]")
		return b.String()
	}

	b.WriteString("Question: [Question text]\n")
	for _, l := range g.vocab {
		fmt.Fprintf(&b, "%s. [Option %s]\n", l, l)
	}
	b.WriteString(g.answerLine())
	return b.String()
}

// Directive is the sentence that tells the model how many options and
// answers each record carries.
func (g *Grammar) Directive() string {
	if g.schema.IsBinary() {
		return fmt.Sprintf("Each question MUST be answered with exactly one word, %s or %s, followed by an Explanation line.",
			g.vocab[0], g.vocab[1])
	}
	return fmt.Sprintf("Each question MUST have exactly %d options (%s), %s.",
		g.schema.ChoiceCount, strings.Join(g.vocab, ", "), g.answerInstruction())
}

func (g *Grammar) questionPlaceholder() string {
	if g.schema.Type == TypeYesNo {
		return "Yes/No question"
	}
	return "True/False statement"
}

func (g *Grammar) answerInstruction() string {
	n, k := g.schema.ChoiceCount, g.schema.RequiredAnswerCount
	switch {
	case k == 0:
		return fmt.Sprintf("with '%s' as the only correct answer", NoneOfTheAbove)
	case k == 1:
		return "with only one correct answer"
	case k == n:
		return fmt.Sprintf("with '%s' as the only correct answer", AllOfTheAbove)
	default:
		return fmt.Sprintf("with %d correct answer(s) (can include '%s' or '%s')", k, AllOfTheAbove, NoneOfTheAbove)
	}
}

func (g *Grammar) answerLine() string {
	n, k := g.schema.ChoiceCount, g.schema.RequiredAnswerCount
	letters := strings.Join(g.vocab, "/")
	switch {
	case k == 0:
		return fmt.Sprintf("Correct Answer: ['%s']", NoneOfTheAbove)
	case k == 1:
		return fmt.Sprintf("Correct Answer: [%s]", letters)
	case k == n:
		return fmt.Sprintf("Correct Answer: ['%s']", AllOfTheAbove)
	default:
		return fmt.Sprintf("Correct Answer: [One or more from %s, or '%s', or '%s']", letters, AllOfTheAbove, NoneOfTheAbove)
	}
}

// Parse extracts one record from a candidate block. It never fails
// loudly: a block that does not follow the grammar yields ok == false.
func (g *Grammar) Parse(block string) (Record, bool) {
	m := g.pattern.FindStringSubmatch(strings.ReplaceAll(block, "\r\n", "\n"))
	if m == nil {
		return Record{}, false
	}
	if g.schema.IsBinary() {
		return g.parseBinary(m)
	}
	return g.parseMCQ(m)
}

func (g *Grammar) parseMCQ(m []string) (Record, bool) {
	question := strings.TrimSpace(m[1])
	if question == "" {
		return Record{}, false
	}

	options := make([]Option, len(g.vocab))
	for i, l := range g.vocab {
		text := strings.TrimSpace(m[i+2])
		if text == "" {
			return Record{}, false
		}
		options[i] = Option{Label: l, Text: text}
	}

	answers := NormalizeAnswer(strings.TrimRight(m[len(m)-1], " \t\r"))
	if len(answers) == 0 {
		return Record{}, false
	}

	return Record{
		Type:     g.schema.Type,
		Question: question,
		Options:  options,
		Answers:  answers,
	}, true
}

func (g *Grammar) parseBinary(m []string) (Record, bool) {
	question := strings.TrimSpace(m[1])
	explanation := strings.TrimSpace(m[3])
	if question == "" || explanation == "" {
		return Record{}, false
	}
	return Record{
		Type:        g.schema.Type,
		Question:    question,
		Answer:      m[2],
		Explanation: explanation,
	}, true
}

// ParseBlock is a convenience for one-off parsing against a schema.
// An invalid schema parses nothing.
func ParseBlock(block string, s Schema) (Record, bool) {
	g, err := NewGrammar(s)
	if err != nil {
		return Record{}, false
	}
	return g.Parse(block)
}

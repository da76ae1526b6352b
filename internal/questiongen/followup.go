package questiongen

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/quizgen/internal/llm"
)

// DefaultFollowUpTokenBudget is the response budget for explanations and
// background material.
const DefaultFollowUpTokenBudget = 1500

const explainSystemPrompt = `You are an expert assistant providing detailed explanations for exam questions.`

const prerequisitesSystemPrompt = `You are a patient tutor writing background material for students who are new to a topic.`

// BuildExplainPrompt asks for a detailed explanation of rec and its
// correct answer.
func BuildExplainPrompt(rec Record) string {
	var b strings.Builder
	if len(rec.Options) > 0 {
		fmt.Fprintf(&b, "Explain the following multiple-choice question and why the correct answer is %s in English:\n\n", rec.CorrectAnswer())
		b.WriteString(rec.Question)
		b.WriteString("\n\n")
		writeOptions(&b, rec.Options)
	} else {
		fmt.Fprintf(&b, "Explain the following question and why the correct answer is %s in English:\n\n", rec.CorrectAnswer())
		b.WriteString(rec.Question)
	}
	b.WriteString("\n\nPlease provide a detailed explanation, including any background information or context relevant to the question.")
	return b.String()
}

// BuildPrerequisitesPrompt asks for the background a beginner needs before
// attempting rec. The answer is left out.
func BuildPrerequisitesPrompt(rec Record) string {
	subject := "question"
	if len(rec.Options) > 0 {
		subject = "question and its options"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Provide detailed background material that would help a student understand the following %s.\n", subject)
	fmt.Fprintf(&b, "The material should cover fundamental concepts, definitions, and any necessary background knowledge related to the %s.\n\n", subject)
	fmt.Fprintf(&b, "Question: %s\n", rec.Question)
	if len(rec.Options) > 0 {
		b.WriteString("\n")
		writeOptions(&b, rec.Options)
	}
	b.WriteString("\nThe explanation should be detailed, yet clear and beginner-friendly, aimed at a student who is not familiar with the topic.")
	return b.String()
}

// BuildSimilarPrompt asks for req.Count new questions related to ref, in
// the output format of g so the reply parses like any other batch.
func BuildSimilarPrompt(g *Grammar, req Request, ref Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d unique, unambiguous, and unbiased %s questions based on the following question.\n",
		req.Count, questionKind(g.Schema()))
	b.WriteString("The new questions should cover a similar topic or idea but must not duplicate the original question or be semantically similar to it.\n")
	b.WriteString("They should deepen the reader's understanding of the topic.\n\n")
	fmt.Fprintf(&b, "Original Question: %s\n\n", ref.Question)
	b.WriteString(g.Directive())
	b.WriteString("\nFormat the output strictly as follows:\n\n")
	b.WriteString(g.Template())
	b.WriteString("\n\n")
	b.WriteString(separatorRule)
	return b.String()
}

func writeOptions(b *strings.Builder, opts []Option) {
	for i, o := range opts {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(b, "%s. %s", o.Label, o.Text)
	}
}

func questionKind(s Schema) string {
	switch s.Type {
	case TypeTrueFalse:
		return "True/False"
	case TypeYesNo:
		return "Yes/No"
	}
	return "multiple-choice"
}

// Explain returns the model's explanation of rec. Unlike Generate, a
// generation failure is returned to the caller.
func (g *LLMGenerator) Explain(ctx context.Context, rec Record, budget int) (string, error) {
	if err := checkFollowUp(rec, budget); err != nil {
		return "", err
	}
	return g.ask(ctx, llm.PurposeExplain, explainSystemPrompt, BuildExplainPrompt(rec), budget)
}

// Prerequisites returns background material for rec.
func (g *LLMGenerator) Prerequisites(ctx context.Context, rec Record, budget int) (string, error) {
	if err := checkFollowUp(rec, budget); err != nil {
		return "", err
	}
	return g.ask(ctx, llm.PurposePrerequisites, prerequisitesSystemPrompt, BuildPrerequisitesPrompt(rec), budget)
}

// Similar generates req.Count new records of schema s modelled on ref.
// Failures follow Run: configuration errors are returned, a generation
// failure is reported in Batch.GenerationErr.
func (g *LLMGenerator) Similar(ctx context.Context, s Schema, req Request, ref Record) (*Batch, error) {
	grammar, err := NewGrammar(s)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ref.Question) == "" {
		return nil, &ErrInvalidRequest{Reason: "reference question is empty"}
	}

	log := g.log.With().
		Str("type", string(s.Type)).
		Str("field", req.Field()).
		Int("count", req.Count).
		Str("purpose", llm.PurposeSimilar).
		Logger()

	return g.generate(ctx, log, grammar, req, llm.PurposeSimilar, BuildSimilarPrompt(grammar, req, ref)), nil
}

func checkFollowUp(rec Record, budget int) error {
	if strings.TrimSpace(rec.Question) == "" {
		return &ErrInvalidRequest{Reason: "question is empty"}
	}
	if budget < MinTokenBudget {
		return &ErrInvalidRequest{Reason: fmt.Sprintf("max_tokens must be at least %d", MinTokenBudget)}
	}
	return nil
}

func (g *LLMGenerator) ask(ctx context.Context, purpose, system, prompt string, budget int) (string, error) {
	text, _, err := g.invoke(ctx, purpose, system, prompt, budget)
	if err != nil {
		g.log.Error().Err(err).Str("purpose", purpose).Msg("follow-up generation failed")
		return "", fmt.Errorf("%s: %w", purpose, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%s: model returned no text", purpose)
	}
	return text, nil
}

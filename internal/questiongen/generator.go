package questiongen

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizgen/internal/llm"
)

// Generator produces question records for a schema and request.
type Generator interface {
	Generate(ctx context.Context, s Schema, req Request) ([]Record, error)
}

// Batch is the outcome of one generation call.
type Batch struct {
	Schema  Schema
	Request Request
	Records []Record

	// Blocks is the number of candidate blocks the response split into.
	Blocks int

	// Dropped counts blocks that did not parse, plus records removed in
	// strict mode.
	Dropped int

	// Warnings lists advisory findings, one per affected record.
	Warnings []string

	// Model is the model label the records are attributed to.
	Model string

	Usage llm.Usage

	// GenerationErr is the terminal provider error, if generation failed
	// after retries. Records is empty in that case.
	GenerationErr error
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      zerolog.Logger
}

// New creates a new LLMGenerator. The provider is expected to carry its
// own retry policy (see llm.WithRetry).
func New(provider llm.Provider, cfg Config, log zerolog.Logger) *LLMGenerator {
	if cfg.Model == "" {
		cfg.Model = provider.ModelID()
	}
	return &LLMGenerator{
		provider: provider,
		config:   cfg,
		log:      log.With().Str("component", "questiongen").Logger(),
	}
}

// Generate returns the records parsed from one generation call, in block
// order. Configuration errors are returned before any provider call. A
// generation failure is logged and yields an empty slice with a nil error.
func (g *LLMGenerator) Generate(ctx context.Context, s Schema, req Request) ([]Record, error) {
	b, err := g.Run(ctx, s, req)
	if err != nil {
		return nil, err
	}
	return b.Records, nil
}

// Run is Generate with the details callers need for reporting and
// persistence.
func (g *LLMGenerator) Run(ctx context.Context, s Schema, req Request) (*Batch, error) {
	grammar, err := NewGrammar(s)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := g.log.With().
		Str("type", string(s.Type)).
		Str("field", req.Field()).
		Int("count", req.Count).
		Logger()

	purpose := llm.PurposeMCQ
	if s.IsBinary() {
		purpose = llm.PurposeBinary
	}
	return g.generate(ctx, log, grammar, req, purpose, BuildPrompt(grammar, req)), nil
}

// generate sends prompt and parses the reply into a batch of records
// following grammar.
func (g *LLMGenerator) generate(ctx context.Context, log zerolog.Logger, grammar *Grammar, req Request, purpose, prompt string) *Batch {
	s := grammar.Schema()
	batch := &Batch{Schema: s, Request: req, Records: []Record{}, Model: g.config.Model}

	text, usage, err := g.invoke(ctx, purpose, "", prompt, req.TokenBudget)
	if err != nil {
		log.Error().Err(err).Msg("question generation failed")
		batch.GenerationErr = err
		return batch
	}
	batch.Usage = usage

	blocks := Segment(text)
	batch.Blocks = len(blocks)

	seen := make(map[string]int, len(blocks))
	for i, block := range blocks {
		rec, ok := grammar.Parse(block)
		if !ok {
			batch.Dropped++
			log.Debug().Int("block", i).Msg("block did not match the question format")
			continue
		}

		if findings := CheckAnswers(rec, s); len(findings) > 0 {
			msg := "question " + quoteShort(rec.Question) + ": " + strings.Join(findings, "; ")
			if g.config.Strict {
				batch.Dropped++
				log.Warn().Int("block", i).Strs("findings", findings).Msg("dropping record with mismatched answers")
				continue
			}
			batch.Warnings = append(batch.Warnings, msg)
			log.Debug().Int("block", i).Strs("findings", findings).Msg("record answers disagree with schema")
		}

		key := strings.ToLower(rec.Question)
		if prev, dup := seen[key]; dup {
			batch.Warnings = append(batch.Warnings, "question "+quoteShort(rec.Question)+" repeats an earlier one")
			log.Debug().Int("block", i).Int("first", prev).Msg("duplicate question")
		} else {
			seen[key] = i
		}

		batch.Records = append(batch.Records, rec)
	}

	log.Info().
		Int("blocks", batch.Blocks).
		Int("records", len(batch.Records)).
		Int("dropped", batch.Dropped).
		Msg("questions generated")

	return batch
}

// invoke sends one prompt through the provider and returns the text.
func (g *LLMGenerator) invoke(ctx context.Context, purpose, system, prompt string, budget int) (string, llm.Usage, error) {
	ctx = llm.WithPurpose(ctx, purpose)

	req := llm.UserPrompt(prompt, budget)
	req.System = system
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return "", llm.Usage{}, err
	}
	if resp.StopReason == "max_tokens" {
		g.log.Warn().Int("max_tokens", budget).Msg("response truncated at token budget")
	}
	return resp.Text, resp.Usage, nil
}

// RunAll runs independent requests concurrently, at most Config.Workers
// at a time. Results are returned in request order. The first
// configuration error cancels the remaining requests.
func (g *LLMGenerator) RunAll(ctx context.Context, s Schema, reqs []Request) ([]*Batch, error) {
	if _, err := NewGrammar(s); err != nil {
		return nil, err
	}

	out := make([]*Batch, len(reqs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.config.Workers, 1))

	for i, req := range reqs {
		eg.Go(func() error {
			b, err := g.Run(ctx, s, req)
			if err != nil {
				return err
			}
			out[i] = b
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func quoteShort(s string) string {
	const limit = 60
	r := []rune(s)
	if len(r) > limit {
		s = string(r[:limit]) + "..."
	}
	return `"` + s + `"`
}

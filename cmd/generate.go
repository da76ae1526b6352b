package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/store"
)

// errNoQuestions is returned when a run produced no usable records.
var errNoQuestions = errors.New("failed to create questions")

// addGenerateFlags registers the flags shared by mcq and binary.
func addGenerateFlags(f *pflag.FlagSet, defaultTokens int) {
	f.StringSliceP("field", "f", nil, "Subject field; repeat for several fields generated concurrently (required)")
	f.StringP("subfield", "s", "", "Optional subfield within the field")
	f.StringP("difficulty", "d", "medium", "Difficulty: easy, medium or hard")
	f.IntP("count", "n", 5, "Number of questions to request per field")
	f.Int("max-tokens", defaultTokens, "Token budget for the model response")
	addProviderFlags(f)
	f.Int("workers", 2, "Fields generated concurrently")
	f.Bool("strict", false, "Drop questions whose answers disagree with the requested answer count")
	f.StringP("output", "o", "text", "Stdout format: text, json or yaml")
	f.String("save", "", "Also write the questions to this file (.json, .yaml or .yml)")
	f.Bool("no-store", false, "Do not record the run in the database")
}

// addProviderFlags registers the flags llmConfig and newGenerator read.
func addProviderFlags(f *pflag.FlagSet) {
	f.StringP("provider", "p", "", "LLM provider: perplexity, gemini, openai, anthropic, openrouter (default: first with an API key)")
	f.StringP("model", "m", "", "Model name for the selected provider")
	f.Float64("temperature", 0.7, "Sampling temperature (0.0-1.0)")
	f.Int("retries", 0, "Maximum generation attempts (default 3)")
	f.Duration("timeout", 0, "Timeout per call, retries included (0 = none)")
}

// generateParams is the parsed, validated form of the shared flags.
type generateParams struct {
	schema   questiongen.Schema
	requests []questiongen.Request
	output   string
	save     string
	noStore  bool
}

func parseGenerateParams(v *viper.Viper, schema questiongen.Schema) (*generateParams, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	difficulty, err := questiongen.ParseDifficulty(v.GetString("difficulty"))
	if err != nil {
		return nil, err
	}

	var fields []string
	for _, f := range v.GetStringSlice("field") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("--field is required and must not be empty")
	}

	p := &generateParams{
		schema:  schema,
		output:  v.GetString("output"),
		save:    v.GetString("save"),
		noStore: v.GetBool("no-store"),
	}
	switch p.output {
	case "text", "json", "yaml":
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or yaml)", p.output)
	}
	if p.save != "" && len(fields) > 1 {
		return nil, fmt.Errorf("--save takes a single --field")
	}

	for _, field := range fields {
		req := questiongen.Request{
			Topic:       field,
			Subtopic:    v.GetString("subfield"),
			Difficulty:  difficulty,
			Count:       v.GetInt("count"),
			TokenBudget: v.GetInt("max-tokens"),
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		p.requests = append(p.requests, req)
	}
	return p, nil
}

// runGenerate drives one mcq or binary invocation end to end.
func runGenerate(cmd *cobra.Command, v *viper.Viper, schema questiongen.Schema) error {
	params, err := parseGenerateParams(v, schema)
	if err != nil {
		return err
	}

	var st *store.Store
	var eventRepo store.EventRepo
	if !params.noStore {
		st, err = openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
		eventRepo = st.EventRepo()
	}

	ctx := cmd.Context()
	gen, model, err := newGenerator(cmd, v, eventRepo)
	if err != nil {
		return err
	}

	log.Info().
		Str("model", model).
		Str("schema", schema.String()).
		Int("fields", len(params.requests)).
		Msg("generating questions")

	batches, err := gen.RunAll(ctx, schema, params.requests)
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout())
	total := 0
	now := time.Now()
	for _, b := range batches {
		total += len(b.Records)

		if st != nil {
			id, err := saveBatch(ctx, st.QuestionRepo(), b)
			if err != nil {
				return err
			}
			log.Debug().Str("batch", id).Msg("batch saved")
		}

		if len(b.Records) == 0 {
			if b.GenerationErr != nil {
				log.Error().Err(b.GenerationErr).Str("field", b.Request.Field()).Msg("no questions generated")
			}
			continue
		}

		file := questiongen.NewQuestionFile(b.Schema, b.Request, b.Model, b.Records, now)
		if err := out.file(file, params.output); err != nil {
			return err
		}
		if params.output == "text" {
			out.summary(b)
		}
		if params.save != "" {
			if err := saveFile(params.save, file); err != nil {
				return err
			}
			log.Info().Str("path", params.save).Int("questions", len(b.Records)).Msg("questions saved")
		}
	}

	if total == 0 {
		return errNoQuestions
	}
	return nil
}

// newGenerator builds the provider stack and question generator from the
// provider flags. It returns the model label records are attributed to.
func newGenerator(cmd *cobra.Command, v *viper.Viper, eventRepo store.EventRepo) (*questiongen.LLMGenerator, string, error) {
	cfg, err := llmConfig(v)
	if err != nil {
		return nil, "", err
	}
	provider, err := llm.NewProvider(cmd.Context(), cfg, eventRepo, log)
	if err != nil {
		return nil, "", fmt.Errorf("LLM provider: %w", err)
	}

	genCfg := questiongen.DefaultConfig()
	genCfg.Temperature = v.GetFloat64("temperature")
	genCfg.Strict = v.GetBool("strict")
	if n := v.GetInt("workers"); n > 0 {
		genCfg.Workers = n
	}
	genCfg.Model = cfg.ModelLabel()
	return questiongen.New(provider, genCfg, log), genCfg.Model, nil
}

// batchData converts a generation result into its stored form.
func batchData(b *questiongen.Batch) (store.BatchData, error) {
	data := store.BatchData{
		QuestionType:   string(b.Schema.Type),
		Field:          b.Request.Topic,
		Subfield:       b.Request.Subtopic,
		Difficulty:     string(b.Request.Difficulty),
		RequestedCount: b.Request.Count,
		ChoiceCount:    b.Schema.ChoiceCount,
		CorrectCount:   b.Schema.RequiredAnswerCount,
		Model:          b.Model,
		BlockCount:     b.Blocks,
		DroppedCount:   b.Dropped,
	}
	if b.GenerationErr != nil {
		data.GenerationError = b.GenerationErr.Error()
	}
	for i, r := range b.Records {
		payload, err := r.MarshalJSON()
		if err != nil {
			return store.BatchData{}, fmt.Errorf("encode question %d: %w", i+1, err)
		}
		data.Records = append(data.Records, store.RecordData{
			Position: i + 1,
			Question: r.Question,
			Payload:  payload,
		})
	}
	return data, nil
}

// saveBatch stores b and returns the new batch ID.
func saveBatch(ctx context.Context, repo store.QuestionRepo, b *questiongen.Batch) (string, error) {
	data, err := batchData(b)
	if err != nil {
		return "", err
	}
	id, err := repo.SaveBatch(ctx, data)
	if err != nil {
		return "", fmt.Errorf("save batch: %w", err)
	}
	return id, nil
}

// formatForPath picks the file format from the extension.
func formatForPath(path string) questiongen.Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return questiongen.FormatYAML
	}
	return questiongen.FormatJSON
}

func saveFile(path string, f *questiongen.QuestionFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Write(w, formatForPath(path)); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Close()
}

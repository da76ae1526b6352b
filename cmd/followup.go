package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/store"
)

var questionsExplainCmd = &cobra.Command{
	Use:   "explain <batch-id> <n>",
	Short: "Explain question n of a stored batch and why its answer is correct",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd, args, (*questiongen.LLMGenerator).Explain)
	},
}

var questionsPrerequisitesCmd = &cobra.Command{
	Use:   "prerequisites <batch-id> <n>",
	Short: "Describe the background needed to attempt question n of a stored batch",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd, args, (*questiongen.LLMGenerator).Prerequisites)
	},
}

var questionsSimilarCmd = &cobra.Command{
	Use:   "similar <batch-id> <n>",
	Short: "Generate new questions modelled on question n of a stored batch",
	Long: `Generate new questions modelled on question n of a stored batch.

The new questions use the batch's question type, option count and answer
count, and are stored as a batch of their own unless --no-store is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runSimilar,
}

// followUpTarget is a stored question selected by batch ID and 1-based
// position.
type followUpTarget struct {
	batch  *store.Batch
	file   *questiongen.QuestionFile
	num    int
	record questiongen.Record
}

func selectQuestion(cmd *cobra.Command, st *store.Store, id, numArg string) (*followUpTarget, error) {
	num, err := strconv.Atoi(numArg)
	if err != nil {
		return nil, fmt.Errorf("question number %q is not an integer", numArg)
	}

	b, err := st.QuestionRepo().GetBatch(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("batch %s not found", id)
	}
	f, err := questionFileFromBatch(b)
	if err != nil {
		return nil, err
	}
	rec, err := pickQuestion(f.Questions, num)
	if err != nil {
		return nil, err
	}
	return &followUpTarget{batch: b, file: f, num: num, record: rec}, nil
}

func pickQuestion(recs []questiongen.Record, num int) (questiongen.Record, error) {
	if len(recs) == 0 {
		return questiongen.Record{}, fmt.Errorf("batch has no questions")
	}
	if num < 1 || num > len(recs) {
		return questiongen.Record{}, fmt.Errorf("invalid question number %d: valid range is 1-%d", num, len(recs))
	}
	return recs[num-1], nil
}

type askFunc func(g *questiongen.LLMGenerator, ctx context.Context, rec questiongen.Record, budget int) (string, error)

func runAsk(cmd *cobra.Command, args []string, ask askFunc) error {
	v := viperForCmd(cmd)

	st, err := openStore(cmd)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	target, err := selectQuestion(cmd, st, args[0], args[1])
	if err != nil {
		return err
	}

	gen, _, err := newGenerator(cmd, v, st.EventRepo())
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout())
	out.question(target.num, target.record)

	text, err := ask(gen, cmd.Context(), target.record, v.GetInt("max-tokens"))
	if err != nil {
		return err
	}
	out.line("%s", text)
	return nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	v := viperForCmd(cmd)

	output := v.GetString("output")
	switch output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
	}

	st, err := openStore(cmd)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	target, err := selectQuestion(cmd, st, args[0], args[1])
	if err != nil {
		return err
	}

	schema := target.file.Schema()
	req := similarRequest(target.batch, schema, v.GetInt("count"), v.GetInt("max-tokens"))

	gen, _, err := newGenerator(cmd, v, st.EventRepo())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := gen.Similar(ctx, schema, req, target.record)
	if err != nil {
		return err
	}

	if !v.GetBool("no-store") {
		id, err := saveBatch(ctx, st.QuestionRepo(), b)
		if err != nil {
			return err
		}
		log.Debug().Str("batch", id).Str("source", target.batch.ID).Int("question", target.num).Msg("similar batch saved")
	}

	if len(b.Records) == 0 {
		if b.GenerationErr != nil {
			log.Error().Err(b.GenerationErr).Msg("no similar questions generated")
		}
		return errNoQuestions
	}

	out := newPrinter(cmd.OutOrStdout())
	f := questiongen.NewQuestionFile(b.Schema, b.Request, b.Model, b.Records, time.Now())
	if err := out.file(f, output); err != nil {
		return err
	}
	if output == "text" {
		out.summary(b)
	}
	return nil
}

// similarRequest derives the generation parameters for similar questions
// from the batch the reference question came from. A zero budget picks the
// default for the question type.
func similarRequest(b *store.Batch, s questiongen.Schema, count, budget int) questiongen.Request {
	difficulty, err := questiongen.ParseDifficulty(b.Difficulty)
	if err != nil {
		difficulty = questiongen.Medium
	}
	if budget <= 0 {
		budget = questiongen.DefaultTokenBudget(s.Type)
	}
	return questiongen.Request{
		Topic:       b.Field,
		Subtopic:    b.Subfield,
		Difficulty:  difficulty,
		Count:       count,
		TokenBudget: budget,
	}
}

func init() {
	for _, c := range []*cobra.Command{questionsExplainCmd, questionsPrerequisitesCmd} {
		addProviderFlags(c.Flags())
		c.Flags().Int("max-tokens", questiongen.DefaultFollowUpTokenBudget, "Token budget for the model response")
	}

	addProviderFlags(questionsSimilarCmd.Flags())
	questionsSimilarCmd.Flags().IntP("count", "n", 1, "Number of similar questions to generate")
	questionsSimilarCmd.Flags().Int("max-tokens", 0, "Token budget for the model response (default depends on the question type)")
	questionsSimilarCmd.Flags().Bool("strict", false, "Drop questions whose answers disagree with the batch's answer count")
	questionsSimilarCmd.Flags().StringP("output", "o", "text", "Stdout format: text, json or yaml")
	questionsSimilarCmd.Flags().Bool("no-store", false, "Do not store the generated questions as a new batch")

	questionsCmd.AddCommand(questionsExplainCmd)
	questionsCmd.AddCommand(questionsPrerequisitesCmd)
	questionsCmd.AddCommand(questionsSimilarCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/store"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Browse, export and import stored question batches",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored batches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		batches, err := s.QuestionRepo().ListBatches(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list batches: %w", err)
		}

		out := newPrinter(cmd.OutOrStdout())
		if len(batches) == 0 {
			out.line("No question batches found.")
			return nil
		}

		out.line("%-8s  %-16s  %-10s  %-24s  %-6s  %5s  %-24s", "ID", "Created", "Type", "Field", "Level", "Qs", "Model")
		out.line("%s", strings.Repeat("─", 106))
		for _, b := range batches {
			field := b.Field
			if b.Subfield != "" {
				field += " - " + b.Subfield
			}
			out.line("%-8s  %-16s  %-10s  %-24s  %-6s  %2d/%-2d  %-24s",
				b.ID[:8],
				b.CreatedAt.Local().Format("2006-01-02 15:04"),
				b.QuestionType,
				truncate(field, 24),
				b.Difficulty,
				b.RecordCount,
				b.RequestedCount,
				truncate(b.Model, 24),
			)
		}
		return nil
	},
}

var questionsShowCmd = &cobra.Command{
	Use:   "show <batch-id>",
	Short: "Show the questions of a stored batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, b, err := loadBatchFile(cmd, args[0])
		if err != nil {
			return err
		}

		out := newPrinter(cmd.OutOrStdout())
		out.line("Batch %s  %s  %s  %s", b.ID, f.QuestionType, b.Field, b.Difficulty)
		if b.GenerationError != "" {
			out.line("Generation error: %s", b.GenerationError)
		}
		out.line("")
		out.records(f.Questions)
		return nil
	},
}

var questionsExportCmd = &cobra.Command{
	Use:   "export <batch-id>",
	Short: "Export a stored batch as a question file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		f, _, err := loadBatchFile(cmd, args[0])
		if err != nil {
			return err
		}

		if output == "" || output == "-" {
			format, err := questiongen.ParseFormat(formatName)
			if err != nil {
				return err
			}
			return f.Write(cmd.OutOrStdout(), format)
		}
		if err := saveFile(output, f); err != nil {
			return err
		}
		log.Info().Str("path", output).Int("questions", len(f.Questions)).Msg("batch exported")
		return nil
	},
}

var questionsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a question file and store it as a batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := readQuestionFile(args[0])
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		schema := f.Schema()
		batch := &questiongen.Batch{
			Schema: schema,
			Request: questiongen.Request{
				Topic:      f.Field,
				Subtopic:   f.Subfield,
				Difficulty: f.Difficulty,
				Count:      f.QuestionCount,
			},
			Records: f.Questions,
			Blocks:  len(f.Questions),
			Model:   f.Model,
		}
		id, err := saveBatch(cmd.Context(), s.QuestionRepo(), batch)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions as batch %s\n", len(f.Questions), id)
		return nil
	},
}

var questionsDeleteCmd = &cobra.Command{
	Use:   "delete <batch-id>",
	Short: "Delete a stored batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		b, err := s.QuestionRepo().GetBatch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("batch %s not found", args[0])
		}
		if err := s.QuestionRepo().DeleteBatch(cmd.Context(), b.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted batch %s\n", b.ID)
		return nil
	},
}

// loadBatchFile reads a stored batch and rebuilds its question file.
func loadBatchFile(cmd *cobra.Command, id string) (*questiongen.QuestionFile, *store.Batch, error) {
	s, err := openStore(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	b, err := s.QuestionRepo().GetBatch(cmd.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	if b == nil {
		return nil, nil, fmt.Errorf("batch %s not found", id)
	}

	f, err := questionFileFromBatch(b)
	if err != nil {
		return nil, nil, err
	}
	return f, b, nil
}

// questionFileFromBatch decodes stored record payloads back into records.
func questionFileFromBatch(b *store.Batch) (*questiongen.QuestionFile, error) {
	qt := questiongen.QuestionType(b.QuestionType)
	schema := questiongen.SchemaFor(qt, b.ChoiceCount, b.CorrectCount)

	records := make([]questiongen.Record, 0, len(b.Records))
	for _, rd := range b.Records {
		var r questiongen.Record
		if err := json.Unmarshal(rd.Payload, &r); err != nil {
			return nil, fmt.Errorf("decode question %d: %w", rd.Position, err)
		}
		r.Type = qt
		records = append(records, r)
	}

	req := questiongen.Request{
		Topic:      b.Field,
		Subtopic:   b.Subfield,
		Difficulty: questiongen.Difficulty(b.Difficulty),
		Count:      b.RequestedCount,
	}
	return questiongen.NewQuestionFile(schema, req, b.Model, records, b.CreatedAt), nil
}

func readQuestionFile(path string) (*questiongen.QuestionFile, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		r = fh
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return questiongen.ReadQuestionFile(data, formatForPath(path))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	questionsListCmd.Flags().IntP("limit", "n", 20, "Number of batches to show")
	questionsExportCmd.Flags().String("format", "json", "Stdout format when no --output is given: json or yaml")
	questionsExportCmd.Flags().StringP("output", "o", "", "Output file; format follows the extension")

	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsShowCmd)
	questionsCmd.AddCommand(questionsExportCmd)
	questionsCmd.AddCommand(questionsImportCmd)
	questionsCmd.AddCommand(questionsDeleteCmd)
}

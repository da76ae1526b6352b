package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/questiongen"
)

var binaryCmd = &cobra.Command{
	Use:   "binary",
	Short: "Generate true/false or yes/no questions",
	Example: `  quizgen binary --field History --type yes_no --count 8
  quizgen binary -f Astronomy --difficulty hard --save astro.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viperForCmd(cmd)
		t, err := questiongen.ParseQuestionType(v.GetString("type"))
		if err != nil {
			return err
		}
		if !t.IsBinary() {
			return errBinaryType(t)
		}
		return runGenerate(cmd, v, questiongen.SchemaFor(t, 0, 0))
	},
}

func errBinaryType(t questiongen.QuestionType) error {
	return &questiongen.ErrInvalidRequest{Reason: "type must be true_false or yes_no, got " + string(t)}
}

func init() {
	addGenerateFlags(binaryCmd.Flags(), questiongen.DefaultBinaryTokenBudget)
	binaryCmd.Flags().StringP("type", "t", "true_false", "Question type: true_false or yes_no")
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/questiongen"
)

var mcqCmd = &cobra.Command{
	Use:   "mcq",
	Short: "Generate multiple-choice questions",
	Long: `Generate multiple-choice questions for a field.

Each question has --options labeled choices (A, B, C, ...). --correct-answers
sets how many are right: 0 asks for "None of the Above", a value equal to
--options asks for "All of the Above".`,
	Example: `  quizgen mcq --field Physics --subfield Optics --count 10 --options 4
  quizgen mcq -f Chemistry -f Biology --options 5 --correct-answers 2 -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viperForCmd(cmd)
		schema := questiongen.MultipleChoice(v.GetInt("options"), v.GetInt("correct-answers"))
		return runGenerate(cmd, v, schema)
	},
}

func init() {
	addGenerateFlags(mcqCmd.Flags(), questiongen.DefaultMCQTokenBudget)
	mcqCmd.Flags().Int("options", 4, "Number of options per question (2-26)")
	mcqCmd.Flags().Int("correct-answers", 1, "Number of correct options per question")
}

package questiongen

import (
	"fmt"
	"strings"
)

const mcqQualityRules = `QUALITY REQUIREMENTS:
- Cover a wide range of subtopics within the field, including both theoretical concepts and practical real-world applications
- Base each question on factual information verifiable from textbooks, academic papers, or reliable websites
- Use clear language with no room for misinterpretation
- Ensure no cultural, racial, or gender bias; appropriate for diverse audiences
- Each question must be unique (no duplicates)

COMPETITIVE EXAM STANDARDS:
- Match the difficulty level: Easy (recall/simple application), Medium (analysis/application), Hard (critical thinking/synthesis)
- Follow competitive exam format and style
- Align with standard exam syllabus and learning objectives
- Make each question solvable within 1-3 minutes
- Ensure correct answer is clearly distinguishable from incorrect options
- Create plausible distractors that are logical but definitively wrong
- Distribute questions across different topics to avoid repetition
- Avoid trick questions or misleading wording
- Use current and updated information/examples
- Employ standard technical language consistent with exam conventions
- Avoid or clearly mark negative questions (EXCEPT, NOT, NEVER)
- Avoid double negatives
- Ensure each option is distinct and non-overlapping
- Randomize the position of correct answers (avoid patterns)`

const binaryQualityRules = `QUALITY REQUIREMENTS:
- Cover a wide range of subtopics within %s
- Use clear language with no room for misinterpretation
- Ensure no cultural, racial, or gender bias
- Each question must be unique (no duplicates)
- Match the difficulty level: Easy (recall), Medium (understanding), Hard (critical thinking)`

// BuildPrompt renders the instruction text for one generation call. It is
// a pure function of the grammar and the request.
func BuildPrompt(g *Grammar, req Request) string {
	if g.Schema().IsBinary() {
		return buildBinaryPrompt(g, req)
	}
	return buildMCQPrompt(g, req)
}

func buildMCQPrompt(g *Grammar, req Request) string {
	field := req.Field()
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d unambiguous, unbiased, and verifiable multiple-choice questions about %s at a %s difficulty level in English for competitive exams.\n\n",
		req.Count, field, req.Difficulty)
	b.WriteString(mcqQualityRules)
	b.WriteString("\n\nFORMAT:\n")
	b.WriteString(g.Directive())
	b.WriteString("\n\n")
	b.WriteString(g.Template())
	b.WriteString("\n\n")
	b.WriteString(separatorRule)
	fmt.Fprintf(&b, " Each question should be solvable independently and represent diverse aspects of %s.", field)

	return b.String()
}

func buildBinaryPrompt(g *Grammar, req Request) string {
	field := req.Field()
	var b strings.Builder

	kind := "True/False"
	claim := "whether the statement is true or false"
	if g.Schema().Type == TypeYesNo {
		kind = "Yes/No"
		claim = "whether the answer is yes or no"
	}

	fmt.Fprintf(&b, "Generate %d unique, unambiguous, and unbiased %s questions about %s at a %s difficulty level.\n",
		req.Count, kind, field, req.Difficulty)
	fmt.Fprintf(&b, "Each question should clearly indicate %s, and provide a detailed explanation for the answer.\n\n", claim)
	fmt.Fprintf(&b, binaryQualityRules, field)
	b.WriteString("\n\n")
	b.WriteString(g.Directive())
	b.WriteString("\nFormat the output strictly as follows:\n\n")
	b.WriteString(g.Template())
	b.WriteString("\n\n")
	b.WriteString(separatorRule)

	return b.String()
}

// separatorRule pins the block boundary Segment splits on.
const separatorRule = "Separate consecutive questions with exactly one blank line and do not put blank lines inside a question."

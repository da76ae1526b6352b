package questiongen

import "fmt"

// QuestionType identifies the kind of question record.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "mcq"
	TypeTrueFalse      QuestionType = "true_false"
	TypeYesNo          QuestionType = "yes_no"
)

// ParseQuestionType accepts the canonical names plus a few common spellings.
func ParseQuestionType(s string) (QuestionType, error) {
	switch s {
	case "mcq", "multiple_choice", "multiple-choice":
		return TypeMultipleChoice, nil
	case "true_false", "true-false", "tf":
		return TypeTrueFalse, nil
	case "yes_no", "yes-no", "yn":
		return TypeYesNo, nil
	}
	return "", fmt.Errorf("unknown question type %q (want mcq, true_false or yes_no)", s)
}

// IsBinary reports whether the type has a two-word answer vocabulary.
func (t QuestionType) IsBinary() bool {
	return t == TypeTrueFalse || t == TypeYesNo
}

// Sentinel answers.
const (
	AllOfTheAbove  = "All of the Above"
	NoneOfTheAbove = "None of the Above"
)

// Labels is the closed vocabulary of multiple-choice labels, indexed by
// position.
var Labels = [26]string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
}

// MaxChoices is the largest supported choice count.
const MaxChoices = len(Labels)

var (
	trueFalseWords = []string{"True", "False"}
	yesNoWords     = []string{"Yes", "No"}
)

// Schema describes the shape of one question record.
type Schema struct {
	Type QuestionType `json:"question_type" validate:"required,oneof=mcq true_false yes_no"`

	// ChoiceCount is the number of labeled options; 0 for binary types.
	ChoiceCount int `json:"choice_count" validate:"gte=0,lte=26"`

	// RequiredAnswerCount is how many options are correct. 0 means
	// "None of the Above", ChoiceCount means "All of the Above".
	// Only meaningful for multiple choice.
	RequiredAnswerCount int `json:"correct_answer_count" validate:"gte=0,ltefield=ChoiceCount"`
}

// MultipleChoice returns a multiple-choice Schema.
func MultipleChoice(choices, correct int) Schema {
	return Schema{Type: TypeMultipleChoice, ChoiceCount: choices, RequiredAnswerCount: correct}
}

// TrueFalse returns the True/False Schema.
func TrueFalse() Schema {
	return Schema{Type: TypeTrueFalse}
}

// YesNo returns the Yes/No Schema.
func YesNo() Schema {
	return Schema{Type: TypeYesNo}
}

// SchemaFor builds a Schema for t. choices and correct are ignored for
// binary types.
func SchemaFor(t QuestionType, choices, correct int) Schema {
	if t.IsBinary() {
		return Schema{Type: t}
	}
	return Schema{Type: t, ChoiceCount: choices, RequiredAnswerCount: correct}
}

// IsBinary reports whether records of this schema are binary.
func (s Schema) IsBinary() bool {
	return s.Type.IsBinary()
}

// Vocabulary returns the ordered answer vocabulary: the first ChoiceCount
// labels for multiple choice, the two answer words for binary types.
// The returned slice must not be modified.
func (s Schema) Vocabulary() []string {
	switch s.Type {
	case TypeTrueFalse:
		return trueFalseWords
	case TypeYesNo:
		return yesNoWords
	}
	n := min(max(s.ChoiceCount, 0), MaxChoices)
	return Labels[:n]
}

// Validate reports configuration errors as *ErrInvalidSchema.
func (s Schema) Validate() error {
	if err := validate.Struct(s); err != nil {
		return &ErrInvalidSchema{Schema: s, Reason: translate(err)}
	}
	switch {
	case s.Type == TypeMultipleChoice && s.ChoiceCount < 2:
		return &ErrInvalidSchema{Schema: s, Reason: "multiple choice needs at least 2 options"}
	case s.IsBinary() && (s.ChoiceCount != 0 || s.RequiredAnswerCount != 0):
		return &ErrInvalidSchema{Schema: s, Reason: "binary questions take no options"}
	}
	return nil
}

func (s Schema) String() string {
	if s.IsBinary() {
		return string(s.Type)
	}
	return fmt.Sprintf("%s(%d options, %d correct)", s.Type, s.ChoiceCount, s.RequiredAnswerCount)
}

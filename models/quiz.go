package models

type QuestionType string

const (
	QuestionMCQ  QuestionType = "MCQ"
	QuestionTF   QuestionType = "TF"
	QuestionOpen QuestionType = "OPEN"
)

// TrueFalseOptions is the fixed option list of every TF question; index 0 is "True".
var TrueFalseOptions = []string{"True", "False"}

// QuizQuestion is one generated question. MCQ and TF questions carry Options and
// CorrectAnswerIndex; OPEN questions carry neither.
type QuizQuestion struct {
	Type               QuestionType `json:"type" jsonschema:"enum=MCQ,enum=TF,enum=OPEN,description=Type of question"`
	Question           string       `json:"question" jsonschema:"description=The question text"`
	Options            []string     `json:"options,omitempty" jsonschema:"description=Options for MCQ and TF. Omitted for OPEN."`
	CorrectAnswerIndex *int         `json:"correctAnswerIndex,omitempty" jsonschema:"description=Index of the correct option for MCQ and TF. Omitted for OPEN."`
	Explanation        string       `json:"explanation" jsonschema:"description=General explanation or model answer"`
	OptionExplanations []string     `json:"optionExplanations,omitempty" jsonschema:"description=Why each option is right or wrong in option order. Required for MCQ and TF."`
	CodeSnippet        string       `json:"codeSnippet,omitempty" jsonschema:"description=Starter code for OPEN coding questions"`
	DiagramPrompt      string       `json:"diagramPrompt,omitempty" jsonschema:"description=Image generation description of the robot configuration for OPEN robotics problems"`
	DiagramURL         string       `json:"diagramUrl,omitempty" jsonschema:"-"`
}

func (q QuizQuestion) IsClosedForm() bool {
	return q.Type == QuestionMCQ || q.Type == QuestionTF
}

// CorrectIndex reports the correct option index of a closed-form question.
func (q QuizQuestion) CorrectIndex() (int, bool) {
	if !q.IsClosedForm() || q.CorrectAnswerIndex == nil {
		return 0, false
	}
	return *q.CorrectAnswerIndex, true
}

func (q QuizQuestion) CorrectOption() string {
	idx, ok := q.CorrectIndex()
	if !ok || idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx]
}

// AnswerRecord is the learner's state for the question at the same position.
type AnswerRecord struct {
	SelectedOption *int   `json:"selectedOption"`
	TextAnswer     string `json:"textAnswer,omitempty"`
	Submitted      bool   `json:"submitted"`
}

// MissedQuestion is a closed-form question the learner did not get right.
type MissedQuestion struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
}

// MissedQuestions lists the closed-form questions whose submitted selection is not the
// correct index. Unanswered closed-form questions count as missed; OPEN questions never do.
func MissedQuestions(questions []QuizQuestion, answers []AnswerRecord) []MissedQuestion {
	var missed []MissedQuestion
	for i, q := range questions {
		correct, ok := q.CorrectIndex()
		if !ok {
			continue
		}
		if i < len(answers) && answers[i].Submitted && answers[i].SelectedOption != nil && *answers[i].SelectedOption == correct {
			continue
		}
		missed = append(missed, MissedQuestion{Question: q.Question, CorrectAnswer: q.CorrectOption()})
	}
	return missed
}

// Score counts submitted closed-form answers that match the correct index.
func Score(questions []QuizQuestion, answers []AnswerRecord) int {
	score := 0
	for i, q := range questions {
		correct, ok := q.CorrectIndex()
		if !ok || i >= len(answers) {
			continue
		}
		a := answers[i]
		if a.Submitted && a.SelectedOption != nil && *a.SelectedOption == correct {
			score++
		}
	}
	return score
}

// CountByType tallies questions per type.
func CountByType(questions []QuizQuestion) map[QuestionType]int {
	counts := make(map[QuestionType]int, 3)
	for _, q := range questions {
		counts[q.Type]++
	}
	return counts
}

// PerfectReportMessage is shown instead of a generated report when nothing was missed.
const PerfectReportMessage = "Great job! You answered all objective questions correctly. Keep up the excellent work!"

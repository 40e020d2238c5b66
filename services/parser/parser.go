// Package parser treats model output as untrusted input: it strips markdown fences,
// decodes JSON, validates it against the expected schema and then checks the
// question invariants that a JSON schema cannot express.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"smartstudy/models"
	"smartstudy/services/prompt"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"
)

// StripFences removes a leading ``` or ```json line and a trailing ``` marker.
// Fences inside the payload are left alone.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "```"), "json")
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

// Questions parses an array of QuizQuestion.
func Questions(raw string) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	if err := decode(raw, quizValidator, &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, mismatch("", "no questions")
	}
	for i := range questions {
		if err := checkQuestion(fmt.Sprintf("/%d", i), &questions[i]); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// Slides parses an array of Slide.
func Slides(raw string) ([]models.Slide, error) {
	var slides []models.Slide
	if err := decode(raw, slideValidator, &slides); err != nil {
		return nil, err
	}
	if len(slides) == 0 {
		return nil, mismatch("", "no slides")
	}
	for i, s := range slides {
		if strings.TrimSpace(s.Title) == "" {
			return nil, mismatch(fmt.Sprintf("/%d/title", i), "empty title")
		}
	}
	return slides, nil
}

// CheckExamComposition enforces the fixed 5 TF + 5 MCQ + 3 OPEN exam layout.
func CheckExamComposition(questions []models.QuizQuestion) error {
	counts := models.CountByType(questions)
	if len(questions) != prompt.ExamTotal ||
		counts[models.QuestionTF] != prompt.ExamTrueFalseCount ||
		counts[models.QuestionMCQ] != prompt.ExamMultipleChoice ||
		counts[models.QuestionOpen] != prompt.ExamOpenEnded {
		return mismatch("", "exam must have %d TF + %d MCQ + %d OPEN questions, got %d TF + %d MCQ + %d OPEN (%d total)",
			prompt.ExamTrueFalseCount, prompt.ExamMultipleChoice, prompt.ExamOpenEnded,
			counts[models.QuestionTF], counts[models.QuestionMCQ], counts[models.QuestionOpen], len(questions))
	}
	return nil
}

func checkQuestion(path string, q *models.QuizQuestion) error {
	if strings.TrimSpace(q.Question) == "" {
		return mismatch(path+"/question", "empty question text")
	}

	switch q.Type {
	case models.QuestionOpen:
		q.Options = nil
		q.CorrectAnswerIndex = nil
		q.OptionExplanations = nil
		return nil
	case models.QuestionMCQ, models.QuestionTF:
	default:
		return mismatch(path+"/type", "unknown question type %q", q.Type)
	}

	if len(q.Options) == 0 {
		return mismatch(path+"/options", "%s question needs options", q.Type)
	}
	if q.Type == models.QuestionTF && !slices.Equal(q.Options, models.TrueFalseOptions) {
		return mismatch(path+"/options", "TF options must be %q, got %q", models.TrueFalseOptions, q.Options)
	}
	if q.CorrectAnswerIndex == nil {
		return mismatch(path+"/correctAnswerIndex", "%s question needs correctAnswerIndex", q.Type)
	}
	if idx := *q.CorrectAnswerIndex; idx < 0 || idx >= len(q.Options) {
		return mismatch(path+"/correctAnswerIndex", "index %d outside %d options", idx, len(q.Options))
	}
	if q.OptionExplanations != nil && len(q.OptionExplanations) != len(q.Options) {
		return mismatch(path+"/optionExplanations", "%d explanations for %d options", len(q.OptionExplanations), len(q.Options))
	}
	return nil
}

func decode(raw string, compiled func() (*validator.Schema, error), out any) error {
	stripped := StripFences(raw)

	var doc any
	dec := json.NewDecoder(strings.NewReader(stripped))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return &MalformedJSONError{Err: err}
	}
	if dec.More() {
		return &MalformedJSONError{Err: errors.New("trailing data after JSON value")}
	}

	doc = dropNulls(doc)

	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("compile output schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			leaf := deepest(verr)
			return mismatch(leaf.InstanceLocation, "%s", leaf.Message)
		}
		return mismatch("", "%v", err)
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return &MalformedJSONError{Err: err}
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		return mismatch("", "%v", err)
	}
	return nil
}

// dropNulls treats a null member as an absent one.
func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if val == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(val)
		}
	case []any:
		for i := range t {
			t[i] = dropNulls(t[i])
		}
	}
	return v
}

func deepest(e *validator.ValidationError) *validator.ValidationError {
	for len(e.Causes) > 0 {
		e = e.Causes[0]
	}
	return e
}

func compileOnce(name string, schema func() *jsonschema.Schema) func() (*validator.Schema, error) {
	var (
		once     sync.Once
		compiled *validator.Schema
		err      error
	)
	return func() (*validator.Schema, error) {
		once.Do(func() {
			c := validator.NewCompiler()
			if err = c.AddResource(name, bytes.NewReader([]byte(prompt.SchemaJSON(schema())))); err != nil {
				return
			}
			compiled, err = c.Compile(name)
		})
		return compiled, err
	}
}

var (
	quizValidator  = compileOnce("mem://smartstudy/quiz.json", prompt.QuizSchema)
	slideValidator = compileOnce("mem://smartstudy/slides.json", prompt.SlideSchema)
)

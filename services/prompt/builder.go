// Package prompt turns a study request into model instructions and an expected output
// schema. Everything here is pure; nothing calls the model.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"smartstudy/catalog"
	"smartstudy/models"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

type ArtifactKind string

const (
	KindQuiz              ArtifactKind = "quiz"
	KindExam              ArtifactKind = "exam"
	KindPresentation      ArtifactKind = "presentation"
	KindCodeExplanation   ArtifactKind = "code-explanation"
	KindPerformanceReport ArtifactKind = "performance-report"
	KindStudyGuide        ArtifactKind = "study-guide"
)

// Exam composition requested from the model and checked on the parsed result.
const (
	ExamTrueFalseCount = 5
	ExamMultipleChoice = 5
	ExamOpenEnded      = 3
	ExamTotal          = ExamTrueFalseCount + ExamMultipleChoice + ExamOpenEnded
)

var (
	ErrUnknownKind     = errors.New("unknown artifact kind")
	ErrModeNotAllowed  = errors.New("mode not allowed for artifact kind")
	ErrMissingLectures = errors.New("presentation needs at least one lecture")
)

// Context is the course-level input to Build.
type Context struct {
	CourseTitle string
	Robotics    bool
	Lectures    []models.LectureSummary
	Missed      []models.MissedQuestion
}

// NewContext derives the domain flag from the course title.
func NewContext(courseTitle string) Context {
	return Context{CourseTitle: courseTitle, Robotics: catalog.IsRoboticsTitle(courseTitle)}
}

type Prompt struct {
	Instruction string
	System      string
	// Schema is nil when the model answers in plain text.
	Schema *jsonschema.Schema
}

// KindForMode picks the quiz artifact kind for a study mode.
func KindForMode(mode models.StudyMode) ArtifactKind {
	if mode.IsExam() {
		return KindExam
	}
	return KindQuiz
}

func Build(kind ArtifactKind, mode models.StudyMode, c Context) (Prompt, error) {
	switch kind {
	case KindQuiz:
		return buildQuiz(mode)
	case KindExam:
		return buildExam(mode, c)
	case KindPresentation:
		if len(c.Lectures) == 0 {
			return Prompt{}, ErrMissingLectures
		}
		return Prompt{Instruction: fmt.Sprintf(presentationTemplate, formatLectures(c.Lectures)), Schema: SlideSchema()}, nil
	case KindStudyGuide:
		switch mode {
		case models.ModeReview:
			return Prompt{Instruction: reviewGuideTemplate}, nil
		case models.ModePreview:
			return Prompt{Instruction: previewGuideTemplate}, nil
		}
		return Prompt{}, fmt.Errorf("%w: %s for %s", ErrModeNotAllowed, mode, kind)
	case KindCodeExplanation:
		return Prompt{Instruction: codeTutorInstruction}, nil
	case KindPerformanceReport:
		return Prompt{Instruction: fmt.Sprintf(reportTemplate, formatMissed(c.Missed))}, nil
	}
	return Prompt{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func buildQuiz(mode models.StudyMode) (Prompt, error) {
	var body string
	switch mode {
	case models.ModeReview:
		body = reviewQuizTemplate
	case models.ModePreview:
		body = previewQuizTemplate
	case models.ModeQuiz:
		body = comprehensiveQuizTemplate
	default:
		return Prompt{}, fmt.Errorf("%w: %s for %s", ErrModeNotAllowed, mode, KindQuiz)
	}
	return Prompt{
		Instruction: body + optionRationaleAddendum,
		System:      quizSystemInstruction,
		Schema:      QuizSchema(),
	}, nil
}

func buildExam(mode models.StudyMode, c Context) (Prompt, error) {
	if !mode.IsExam() {
		return Prompt{}, fmt.Errorf("%w: %s for %s", ErrModeNotAllowed, mode, KindExam)
	}

	examType := "Final Exam (All Lectures)"
	if mode == models.ModeMidterm {
		examType = "Midterm Exam (Lectures 1-5)"
	}

	var b strings.Builder
	if c.Robotics {
		b.WriteString(fmt.Sprintf(examHeaderTemplate, examType, " for a Robotics course", ExamTrueFalseCount, ExamMultipleChoice))
		b.WriteString(fmt.Sprintf(roboticsOpenTemplate, ExamOpenEnded))
	} else {
		b.WriteString(fmt.Sprintf(examHeaderTemplate, examType, "", ExamTrueFalseCount, ExamMultipleChoice))
		b.WriteString(fmt.Sprintf(codingOpenTemplate, ExamOpenEnded))
	}
	b.WriteString(fmt.Sprintf(examFooterTemplate, ExamTotal))
	b.WriteString(optionRationaleAddendum)

	return Prompt{Instruction: b.String(), System: quizSystemInstruction, Schema: QuizSchema()}, nil
}

func formatLectures(lectures []models.LectureSummary) string {
	return strings.Join(lo.Map(lectures, func(l models.LectureSummary, _ int) string {
		return fmt.Sprintf("Lecture: %s\nSummary: %s", l.Title, l.Content)
	}), "\n\n")
}

func formatMissed(missed []models.MissedQuestion) string {
	return strings.Join(lo.Map(missed, func(m models.MissedQuestion, _ int) string {
		return fmt.Sprintf("- Question: %q\n  Correct Answer: %q", m.Question, m.CorrectAnswer)
	}), "\n\n")
}

// CodeImageInstruction follows an attached code screenshot.
func CodeImageInstruction() string {
	return codeImageInstruction
}

func CodeSnippet(code string) string {
	return fmt.Sprintf(codeSnippetTemplate, code)
}

// TutorPreamble opens a chat about one question or slide.
func TutorPreamble(context string) string {
	return fmt.Sprintf(tutorPreambleTemplate, strings.TrimSpace(context))
}

// QuestionChatContext is the chat context for one quiz question.
func QuestionChatContext(q models.QuizQuestion) string {
	return fmt.Sprintf("Question: %s\nExplanation: %s", q.Question, q.Explanation)
}

// SlideChatContext is the chat context for one slide.
func SlideChatContext(s models.Slide) string {
	return fmt.Sprintf("Slide Title: %s\nContent: %s\nExplanation: %s", s.Title, strings.Join(s.BulletPoints, "\n"), s.Explanation)
}

package study

import (
	"context"
	"fmt"
	"strings"

	"smartstudy/models"
	"smartstudy/services/genai"
	"smartstudy/services/parser"
	"smartstudy/services/prompt"

	"github.com/samber/lo"
)

// GenerateQuiz builds a quiz or exam from the supplied material. Exams must come back
// with the fixed composition or the whole result is rejected.
func (s *Service) GenerateQuiz(ctx context.Context, p models.GenerateQuizPayload) ([]models.QuizQuestion, error) {
	s.log.Info("Starting quiz generation", "mode", p.Mode, "files", len(p.Files), "course", p.CourseTitle)

	if !p.Mode.Valid() {
		return nil, invalid("unknown mode %q", p.Mode)
	}
	if strings.TrimSpace(p.TextInput) == "" && len(p.Files) == 0 {
		return nil, invalid("quiz needs text input or files")
	}

	kind := prompt.KindForMode(p.Mode)
	pr, err := prompt.Build(kind, p.Mode, prompt.NewContext(p.CourseTitle))
	if err != nil {
		return nil, invalid("%v", err)
	}

	raw, err := s.generate(ctx, "generate quiz", pr, materialParts(p.TextInput, p.Files))
	if err != nil {
		return nil, err
	}

	questions, err := parser.Questions(raw)
	if err != nil {
		s.log.Error("Quiz output rejected", "mode", p.Mode, "error", err)
		return nil, fmt.Errorf("failed to parse quiz: %w", err)
	}
	if kind == prompt.KindExam {
		if err := parser.CheckExamComposition(questions); err != nil {
			s.log.Error("Exam composition rejected", "mode", p.Mode, "error", err)
			return nil, fmt.Errorf("failed to parse exam: %w", err)
		}
	}

	s.log.Info("Quiz generated", "mode", p.Mode, "questions", len(questions))
	return questions, nil
}

// GeneratePresentation turns lecture summaries into a slide deck.
func (s *Service) GeneratePresentation(ctx context.Context, p models.GeneratePPTPayload) ([]models.Slide, error) {
	lectures := lo.Filter(p.Lectures, func(l models.LectureSummary, _ int) bool {
		return strings.TrimSpace(l.Title) != "" || strings.TrimSpace(l.Content) != ""
	})
	s.log.Info("Starting presentation generation", "lectures", len(lectures))

	pr, err := prompt.Build(prompt.KindPresentation, "", prompt.Context{Lectures: lectures})
	if err != nil {
		return nil, invalid("%v", err)
	}

	raw, err := s.generate(ctx, "generate presentation", pr, nil)
	if err != nil {
		return nil, err
	}

	slides, err := parser.Slides(raw)
	if err != nil {
		s.log.Error("Presentation output rejected", "error", err)
		return nil, fmt.Errorf("failed to parse presentation: %w", err)
	}

	s.log.Info("Presentation generated", "slides", len(slides))
	return slides, nil
}

// GenerateStudyGuide writes a markdown review or preview guide.
func (s *Service) GenerateStudyGuide(ctx context.Context, p models.StudyGuidePayload) (string, error) {
	s.log.Info("Starting study guide generation", "mode", p.Mode, "files", len(p.Files))

	if strings.TrimSpace(p.TextInput) == "" && len(p.Files) == 0 {
		return "", invalid("study guide needs text input or files")
	}
	pr, err := prompt.Build(prompt.KindStudyGuide, p.Mode, prompt.Context{})
	if err != nil {
		return "", invalid("%v", err)
	}

	guide, err := s.generate(ctx, "generate study guide", pr, materialParts(p.TextInput, p.Files))
	if err != nil {
		return "", err
	}
	return guide, nil
}

func materialParts(text string, files []models.Attachment) []genai.Part {
	parts := genai.AttachmentParts(files)
	if strings.TrimSpace(text) != "" {
		parts = append(parts, genai.TextPart(text))
	}
	return parts
}

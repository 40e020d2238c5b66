package study

import (
	"context"

	"smartstudy/models"
	"smartstudy/services/prompt"
)

// GeneratePerformanceReport analyses the closed-form questions the student missed. When
// nothing was missed the canned message is returned without calling the model.
func (s *Service) GeneratePerformanceReport(ctx context.Context, p models.PerformanceReportPayload) (string, error) {
	if len(p.Questions) == 0 {
		return "", invalid("report needs questions")
	}
	if len(p.UserAnswers) > len(p.Questions) {
		return "", invalid("%d answers for %d questions", len(p.UserAnswers), len(p.Questions))
	}

	missed := models.MissedQuestions(p.Questions, p.UserAnswers)
	s.log.Info("Starting performance report", "questions", len(p.Questions), "missed", len(missed))
	if len(missed) == 0 {
		return models.PerfectReportMessage, nil
	}

	pr, err := prompt.Build(prompt.KindPerformanceReport, "", prompt.Context{Missed: missed})
	if err != nil {
		return "", err
	}
	return s.generate(ctx, "generate performance report", pr, nil)
}

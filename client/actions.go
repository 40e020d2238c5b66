package client

import (
	"context"
	"net/http"
	"net/url"

	"smartstudy/models"
	"smartstudy/services/parser"
)

// GenerateQuiz requests questions and validates them again on this side of the wire.
func (c *Client) GenerateQuiz(ctx context.Context, mode models.StudyMode, textInput string, files []models.Attachment, courseTitle string) ([]models.QuizQuestion, error) {
	if files == nil {
		files = []models.Attachment{}
	}
	data, err := c.generate(ctx, models.ActionGenerateQuiz, models.GenerateQuizPayload{
		Mode:        mode,
		TextInput:   textInput,
		Files:       files,
		CourseTitle: courseTitle,
	})
	if err != nil {
		return nil, err
	}

	questions, err := parser.Questions(string(data))
	if err != nil {
		return nil, err
	}
	if mode.IsExam() {
		if err := parser.CheckExamComposition(questions); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

func (c *Client) GeneratePresentation(ctx context.Context, lectures []models.LectureSummary) ([]models.Slide, error) {
	data, err := c.generate(ctx, models.ActionGeneratePPT, models.GeneratePPTPayload{Lectures: lectures})
	if err != nil {
		return nil, err
	}
	return parser.Slides(string(data))
}

func (c *Client) Chat(ctx context.Context, chatContext, userMessage string, history []models.ChatMessage) (string, error) {
	if history == nil {
		history = []models.ChatMessage{}
	}
	return c.generateText(ctx, models.ActionChat, models.ChatPayload{
		Context:     chatContext,
		UserMessage: userMessage,
		History:     history,
	})
}

// ExplainCode sends either code or a base64 PNG. Callers keep them exclusive.
func (c *Client) ExplainCode(ctx context.Context, code, imageBase64 string) (string, error) {
	return c.generateText(ctx, models.ActionExplainCode, models.ExplainCodePayload{Code: code, ImageBase64: imageBase64})
}

func (c *Client) GeneratePerformanceReport(ctx context.Context, questions []models.QuizQuestion, answers []models.AnswerRecord) (string, error) {
	return c.generateText(ctx, models.ActionGeneratePerformanceReport, models.PerformanceReportPayload{
		Questions:   questions,
		UserAnswers: answers,
	})
}

func (c *Client) GenerateStudyGuide(ctx context.Context, mode models.StudyMode, textInput string, files []models.Attachment) (string, error) {
	if files == nil {
		files = []models.Attachment{}
	}
	return c.generateText(ctx, models.ActionGenerateStudyGuide, models.StudyGuidePayload{
		Mode:      mode,
		TextInput: textInput,
		Files:     files,
	})
}

func (c *Client) Courses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.getJSON(ctx, "/api/courses", &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) Course(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := c.getJSON(ctx, "/api/courses/"+url.PathEscape(id), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeData(data, out)
}

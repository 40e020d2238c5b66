package models

import "encoding/json"

type Action string

const (
	ActionGenerateQuiz              Action = "generateQuiz"
	ActionGeneratePPT               Action = "generatePPT"
	ActionChat                      Action = "chat"
	ActionExplainCode               Action = "explainCode"
	ActionGeneratePerformanceReport Action = "generatePerformanceReport"
	ActionGenerateStudyGuide        Action = "generateStudyGuide"
)

type StudyMode string

const (
	ModeReview  StudyMode = "REVIEW"
	ModePreview StudyMode = "PREVIEW"
	ModeQuiz    StudyMode = "QUIZ"
	ModeMidterm StudyMode = "MIDTERM"
	ModeFinal   StudyMode = "FINAL"
)

func (m StudyMode) IsExam() bool {
	return m == ModeMidterm || m == ModeFinal
}

func (m StudyMode) Valid() bool {
	switch m {
	case ModeReview, ModePreview, ModeQuiz, ModeMidterm, ModeFinal:
		return true
	}
	return false
}

// Attachment is an inline file sent along with a request, base64 encoded.
type Attachment struct {
	MimeType string `json:"mimeType"`
	Base64   string `json:"base64"`
}

type GenerateRequest struct {
	Action  Action          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type GenerateResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type GenerateQuizPayload struct {
	Mode        StudyMode    `json:"mode"`
	TextInput   string       `json:"textInput"`
	Files       []Attachment `json:"files"`
	CourseTitle string       `json:"courseTitle"`
}

type GeneratePPTPayload struct {
	Lectures []LectureSummary `json:"lectures"`
}

type ChatPayload struct {
	Context     string        `json:"context"`
	UserMessage string        `json:"userMessage"`
	History     []ChatMessage `json:"history"`
}

type ExplainCodePayload struct {
	Code        string `json:"code,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

type PerformanceReportPayload struct {
	Questions   []QuizQuestion `json:"questions"`
	UserAnswers []AnswerRecord `json:"userAnswers"`
}

type StudyGuidePayload struct {
	Mode      StudyMode    `json:"mode"`
	TextInput string       `json:"textInput"`
	Files     []Attachment `json:"files"`
}

package study

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"smartstudy/logger"
	"smartstudy/models"
	"smartstudy/services/genai"
	"smartstudy/services/parser"
	"smartstudy/services/prompt"
)

type fakeGateway struct {
	reply    string
	err      error
	requests []genai.Request
}

func (f *fakeGateway) Generate(_ context.Context, req genai.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func intPtr(i int) *int { return &i }

func examJSON(t *testing.T, tf, mcq, open int) string {
	t.Helper()
	var qs []models.QuizQuestion
	for i := 0; i < tf; i++ {
		qs = append(qs, models.QuizQuestion{Type: models.QuestionTF, Question: "tf", Options: []string{"True", "False"}, CorrectAnswerIndex: intPtr(1), Explanation: "e", OptionExplanations: []string{"a", "b"}})
	}
	for i := 0; i < mcq; i++ {
		qs = append(qs, models.QuizQuestion{Type: models.QuestionMCQ, Question: "mcq", Options: []string{"A", "B", "C", "D"}, CorrectAnswerIndex: intPtr(2), Explanation: "e", OptionExplanations: []string{"a", "b", "c", "d"}})
	}
	for i := 0; i < open; i++ {
		qs = append(qs, models.QuizQuestion{Type: models.QuestionOpen, Question: "(20 points) write code", Explanation: "solution", CodeSnippet: "def f():"})
	}
	b, err := json.Marshal(qs)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestGenerateQuiz(t *testing.T) {
	tests := []struct {
		name        string
		payload     models.GenerateQuizPayload
		reply       string
		wantCount   int
		wantErr     error
		wantCalls   int
		wantParts   int
		wantRobotic bool
	}{
		{
			name:      "review quiz",
			payload:   models.GenerateQuizPayload{Mode: models.ModeReview, TextInput: "Hashing", CourseTitle: "Data Structures"},
			reply:     "```json\n" + examJSON(t, 0, 3, 0) + "\n```",
			wantCount: 3,
			wantCalls: 1,
			wantParts: 2,
		},
		{
			name: "midterm with files",
			payload: models.GenerateQuizPayload{
				Mode:        models.ModeMidterm,
				Files:       []models.Attachment{{MimeType: "application/pdf", Base64: "JVBERg=="}, {MimeType: "application/pdf", Base64: "JVBERg=="}},
				CourseTitle: "Data Structures",
			},
			reply:     examJSON(t, 5, 5, 3),
			wantCount: 13,
			wantCalls: 1,
			wantParts: 3,
		},
		{
			name:      "exam with wrong composition",
			payload:   models.GenerateQuizPayload{Mode: models.ModeFinal, TextInput: "all", CourseTitle: "Data Structures"},
			reply:     examJSON(t, 4, 6, 3),
			wantErr:   parser.ErrSchemaMismatch,
			wantCalls: 1,
		},
		{
			name:      "malformed output",
			payload:   models.GenerateQuizPayload{Mode: models.ModeQuiz, TextInput: "x"},
			reply:     "Sure! Here is a quiz.",
			wantErr:   parser.ErrMalformedJSON,
			wantCalls: 1,
		},
		{
			name:      "unknown mode",
			payload:   models.GenerateQuizPayload{Mode: "HOMEWORK", TextInput: "x"},
			wantErr:   ErrInvalidRequest,
			wantCalls: 0,
		},
		{
			name:      "no material",
			payload:   models.GenerateQuizPayload{Mode: models.ModeReview},
			wantErr:   ErrInvalidRequest,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{reply: tt.reply}
			svc := NewService(gw, logger.Nop())

			got, err := svc.GenerateQuiz(context.Background(), tt.payload)
			if len(gw.requests) != tt.wantCalls {
				t.Fatalf("gateway called %d times, expected %d", len(gw.requests), tt.wantCalls)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GenerateQuiz() error = %v, expected %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateQuiz() error = %v", err)
			}
			if len(got) != tt.wantCount {
				t.Errorf("got %d questions, expected %d", len(got), tt.wantCount)
			}

			req := gw.requests[0]
			if len(req.Parts) != tt.wantParts {
				t.Fatalf("sent %d parts, expected %d", len(req.Parts), tt.wantParts)
			}
			last := req.Parts[len(req.Parts)-1]
			if last.IsInline() || !strings.Contains(last.Text, "optionExplanations") {
				t.Errorf("instruction is not the final part: %+v", last)
			}
			if req.Schema == nil {
				t.Error("quiz request without schema")
			}
		})
	}
}

func TestGenerateQuizRoboticsExamPrompt(t *testing.T) {
	gw := &fakeGateway{reply: examJSON(t, 5, 5, 3)}
	svc := NewService(gw, logger.Nop())

	_, err := svc.GenerateQuiz(context.Background(), models.GenerateQuizPayload{
		Mode: models.ModeFinal, TextInput: "kinematics", CourseTitle: "Introduction to Robotics",
	})
	if err != nil {
		t.Fatalf("GenerateQuiz() error = %v", err)
	}
	instruction := gw.requests[0].Parts[1].Text
	if !strings.Contains(instruction, "diagramPrompt") {
		t.Error("robotics exam prompt does not ask for diagrams")
	}
}

func TestGeneratePresentation(t *testing.T) {
	gw := &fakeGateway{reply: `[{"title":"Hash Tables","bulletPoints":["buckets"],"explanation":"text"}]`}
	svc := NewService(gw, logger.Nop())

	slides, err := svc.GeneratePresentation(context.Background(), models.GeneratePPTPayload{
		Lectures: []models.LectureSummary{{Title: "Hashing", Content: "hash functions"}},
	})
	if err != nil {
		t.Fatalf("GeneratePresentation() error = %v", err)
	}
	if len(slides) != 1 || slides[0].Title != "Hash Tables" {
		t.Errorf("unexpected slides %+v", slides)
	}
	if !strings.Contains(gw.requests[0].Parts[0].Text, "Lecture: Hashing") {
		t.Error("lecture summary missing from instruction")
	}

	_, err = svc.GeneratePresentation(context.Background(), models.GeneratePPTPayload{})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for empty lectures, got %v", err)
	}
}

func TestChat(t *testing.T) {
	gw := &fakeGateway{reply: "A hash collision happens when..."}
	svc := NewService(gw, logger.Nop())

	reply, err := svc.Chat(context.Background(), models.ChatPayload{
		Context:     "Question: What is a collision?\nExplanation: two keys",
		UserMessage: "Why?",
		History:     []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}, {Role: models.RoleAssistant, Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply != gw.reply {
		t.Errorf("Chat() = %q", reply)
	}

	req := gw.requests[0]
	if len(req.History) != 4 {
		t.Fatalf("history has %d turns, expected 4", len(req.History))
	}
	if !strings.Contains(req.History[0].Content, "What is a collision?") || req.History[0].Role != models.RoleUser {
		t.Errorf("first turn = %+v", req.History[0])
	}
	if req.History[1].Content != prompt.TutorAcknowledgement {
		t.Errorf("second turn = %+v", req.History[1])
	}
	if len(req.Parts) != 1 || req.Parts[0].Text != "Why?" {
		t.Errorf("parts = %+v", req.Parts)
	}

	for name, payload := range map[string]models.ChatPayload{
		"empty message": {Context: "c"},
		"bad role":      {UserMessage: "x", History: []models.ChatMessage{{Role: "model", Content: "x"}}},
	} {
		if _, err := svc.Chat(context.Background(), payload); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%s: expected ErrInvalidRequest, got %v", name, err)
		}
	}
}

func TestExplainCode(t *testing.T) {
	tests := []struct {
		name      string
		payload   models.ExplainCodePayload
		wantTypes []string
		wantErr   bool
	}{
		{name: "text", payload: models.ExplainCodePayload{Code: "print(1)"}, wantTypes: []string{"text", "text"}},
		{name: "image", payload: models.ExplainCodePayload{ImageBase64: "iVBO"}, wantTypes: []string{"image/png", "text", "text"}},
		{name: "nothing", payload: models.ExplainCodePayload{Code: "   "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{reply: "explanation"}
			svc := NewService(gw, logger.Nop())

			_, err := svc.ExplainCode(context.Background(), tt.payload)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExplainCode() error = %v", err)
			}

			parts := gw.requests[0].Parts
			if len(parts) != len(tt.wantTypes) {
				t.Fatalf("got %d parts, expected %d", len(parts), len(tt.wantTypes))
			}
			for i, want := range tt.wantTypes {
				got := "text"
				if parts[i].IsInline() {
					got = parts[i].MimeType
				}
				if got != want {
					t.Errorf("part %d = %s, expected %s", i, got, want)
				}
			}
		})
	}
}

func TestGeneratePerformanceReport(t *testing.T) {
	questions := []models.QuizQuestion{
		{Type: models.QuestionMCQ, Question: "Q1", Options: []string{"A", "B"}, CorrectAnswerIndex: intPtr(0)},
		{Type: models.QuestionTF, Question: "Q2", Options: []string{"True", "False"}, CorrectAnswerIndex: intPtr(1)},
		{Type: models.QuestionOpen, Question: "Q3"},
	}

	t.Run("all correct skips the model", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewService(gw, logger.Nop())
		report, err := svc.GeneratePerformanceReport(context.Background(), models.PerformanceReportPayload{
			Questions: questions,
			UserAnswers: []models.AnswerRecord{
				{SelectedOption: intPtr(0), Submitted: true},
				{SelectedOption: intPtr(1), Submitted: true},
				{TextAnswer: "essay", Submitted: true},
			},
		})
		if err != nil {
			t.Fatalf("GeneratePerformanceReport() error = %v", err)
		}
		if report != models.PerfectReportMessage {
			t.Errorf("report = %q", report)
		}
		if len(gw.requests) != 0 {
			t.Errorf("model called %d times", len(gw.requests))
		}
	})

	t.Run("missed and unanswered are reported", func(t *testing.T) {
		gw := &fakeGateway{reply: "Review chaining."}
		svc := NewService(gw, logger.Nop())
		report, err := svc.GeneratePerformanceReport(context.Background(), models.PerformanceReportPayload{
			Questions:   questions,
			UserAnswers: []models.AnswerRecord{{SelectedOption: intPtr(1), Submitted: true}},
		})
		if err != nil {
			t.Fatalf("GeneratePerformanceReport() error = %v", err)
		}
		if report != "Review chaining." {
			t.Errorf("report = %q", report)
		}
		instruction := gw.requests[0].Parts[0].Text
		if !strings.Contains(instruction, `"Q1"`) || !strings.Contains(instruction, `"Q2"`) || strings.Contains(instruction, `"Q3"`) {
			t.Errorf("instruction lists wrong questions:\n%s", instruction)
		}
	})

	t.Run("gateway failure", func(t *testing.T) {
		gw := &fakeGateway{err: &genai.GenerationError{Provider: "googleai", Err: genai.ErrEmptyResponse}}
		svc := NewService(gw, logger.Nop())
		_, err := svc.GeneratePerformanceReport(context.Background(), models.PerformanceReportPayload{Questions: questions})
		if !errors.Is(err, genai.ErrEmptyResponse) {
			t.Errorf("expected wrapped gateway error, got %v", err)
		}
	})
}

func TestGenerateStudyGuide(t *testing.T) {
	gw := &fakeGateway{reply: "# Week 4"}
	svc := NewService(gw, logger.Nop())

	guide, err := svc.GenerateStudyGuide(context.Background(), models.StudyGuidePayload{Mode: models.ModeReview, TextInput: "notes"})
	if err != nil || guide != "# Week 4" {
		t.Fatalf("GenerateStudyGuide() = %q, %v", guide, err)
	}
	if gw.requests[0].Schema != nil {
		t.Error("study guide should be plain text")
	}

	_, err = svc.GenerateStudyGuide(context.Background(), models.StudyGuidePayload{Mode: models.ModeFinal, TextInput: "notes"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for exam mode, got %v", err)
	}
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"smartstudy/models"
	"smartstudy/services/parser"
)

type apiStub struct {
	t        *testing.T
	status   int
	body     string
	requests []models.GenerateRequest
	headers  []http.Header
}

func (s *apiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.headers = append(s.headers, r.Header.Clone())
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/api/auth":
		var req models.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username == "student" && req.Password == "smartstudy2024" {
			json.NewEncoder(w).Encode(models.LoginResponse{Success: true, Token: "tok-1", User: &models.User{Username: "student", Role: "student"}})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.LoginResponse{Success: false, Message: "Invalid credentials"})
	default:
		var req models.GenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		s.requests = append(s.requests, req)
		w.WriteHeader(s.status)
		w.Write([]byte(s.body))
	}
}

func newStubClient(t *testing.T, stub *apiStub, store TokenStore, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithTokenStore(store)}, opts...)
	c, err := New(srv.URL+"/", opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestLoginLogout(t *testing.T) {
	store := &MemoryTokenStore{}
	c := newStubClient(t, &apiStub{t: t}, store)

	resp, err := c.Login(context.Background(), "student", "wrong")
	if err != nil {
		t.Fatalf("Login() with bad password error = %v", err)
	}
	if resp.Success || resp.Message != "Invalid credentials" || c.IsAuthenticated() {
		t.Errorf("bad login: %+v authenticated=%v", resp, c.IsAuthenticated())
	}

	resp, err = c.Login(context.Background(), "student", "smartstudy2024")
	if err != nil || !resp.Success {
		t.Fatalf("Login() = %+v, %v", resp, err)
	}
	if saved, _ := store.Load(); saved != "tok-1" || !c.IsAuthenticated() {
		t.Errorf("token not stored: %q", saved)
	}

	for i := 0; i < 2; i++ {
		if err := c.Logout(); err != nil {
			t.Fatalf("Logout() #%d error = %v", i+1, err)
		}
	}
	if saved, _ := store.Load(); saved != "" || c.IsAuthenticated() {
		t.Error("token survived logout")
	}
}

func TestRequestWithoutToken(t *testing.T) {
	stub := &apiStub{t: t, status: http.StatusOK, body: `{"success":true,"data":"x"}`}
	c := newStubClient(t, stub, &MemoryTokenStore{})

	_, err := c.Chat(context.Background(), "ctx", "hi", nil)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if len(stub.requests) != 0 {
		t.Error("request sent without a token")
	}
}

func TestUnauthorizedClearsToken(t *testing.T) {
	store := &MemoryTokenStore{}
	store.Save("expired")
	stub := &apiStub{t: t, status: http.StatusUnauthorized, body: `{"error":"Unauthorized"}`}

	notified := 0
	c := newStubClient(t, stub, store, WithUnauthorizedHandler(func() { notified++ }))
	if !c.IsAuthenticated() {
		t.Fatal("token not restored from store")
	}

	_, err := c.ExplainCode(context.Background(), "print(1)", "")
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) || !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected AuthenticationError(ErrUnauthorized), got %v", err)
	}
	if c.IsAuthenticated() {
		t.Error("client still authenticated after 401")
	}
	if saved, _ := store.Load(); saved != "" {
		t.Errorf("store still holds %q", saved)
	}
	if notified != 1 {
		t.Errorf("unauthorized handler called %d times", notified)
	}
	if len(stub.requests) != 1 {
		t.Errorf("expected exactly one request, got %d", len(stub.requests))
	}
}

func TestActionEnvelope(t *testing.T) {
	store := &MemoryTokenStore{}
	store.Save("tok")
	stub := &apiStub{t: t, status: http.StatusOK, body: `{"success":true,"data":"Great job!"}`}
	c := newStubClient(t, stub, store)

	one := 1
	report, err := c.GeneratePerformanceReport(context.Background(),
		[]models.QuizQuestion{{Type: models.QuestionMCQ, Question: "q", Options: []string{"a", "b"}, CorrectAnswerIndex: &one}},
		[]models.AnswerRecord{{SelectedOption: &one, Submitted: true}},
	)
	if err != nil || report != "Great job!" {
		t.Fatalf("GeneratePerformanceReport() = %q, %v", report, err)
	}

	req := stub.requests[0]
	if req.Action != models.ActionGeneratePerformanceReport {
		t.Errorf("action = %q", req.Action)
	}
	var payload map[string]json.RawMessage
	json.Unmarshal(req.Payload, &payload)
	if !strings.Contains(string(payload["userAnswers"]), `"selectedOption":1`) {
		t.Errorf("userAnswers = %s", payload["userAnswers"])
	}
	if got := stub.headers[0].Get("Authorization"); got != "Bearer tok" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestGenerateQuizValidatesData(t *testing.T) {
	tests := []struct {
		name    string
		mode    models.StudyMode
		body    string
		wantErr error
		want    int
	}{
		{
			name: "valid",
			mode: models.ModeReview,
			body: `{"success":true,"data":[{"type":"MCQ","question":"q","options":["A","B","C","D"],"correctAnswerIndex":2,"explanation":"e"}]}`,
			want: 1,
		},
		{
			name:    "invalid index",
			mode:    models.ModeReview,
			body:    `{"success":true,"data":[{"type":"MCQ","question":"q","options":["A"],"correctAnswerIndex":2,"explanation":"e"}]}`,
			wantErr: parser.ErrSchemaMismatch,
		},
		{
			name:    "exam of one question",
			mode:    models.ModeMidterm,
			body:    `{"success":true,"data":[{"type":"OPEN","question":"q","explanation":"e"}]}`,
			wantErr: parser.ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MemoryTokenStore{}
			store.Save("tok")
			c := newStubClient(t, &apiStub{t: t, status: http.StatusOK, body: tt.body}, store)

			got, err := c.GenerateQuiz(context.Background(), tt.mode, "Hashing", nil, "Data Structures")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil || len(got) != tt.want {
				t.Fatalf("GenerateQuiz() = %d questions, %v", len(got), err)
			}
		})
	}
}

func TestServerErrorIsTransportError(t *testing.T) {
	store := &MemoryTokenStore{}
	store.Save("tok")
	stub := &apiStub{t: t, status: http.StatusInternalServerError, body: `{"error":"Failed to process request","message":"quota exceeded"}`}
	c := newStubClient(t, stub, store)

	_, err := c.Chat(context.Background(), "ctx", "hi", nil)
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if tErr.StatusCode != http.StatusInternalServerError || !strings.Contains(tErr.Message, "quota exceeded") {
		t.Errorf("unexpected error %+v", tErr)
	}
	if !c.IsAuthenticated() {
		t.Error("5xx must not clear the token")
	}
}

func TestFileTokenStore(t *testing.T) {
	store := FileTokenStore{Path: filepath.Join(t.TempDir(), "nested", "token")}

	if token, err := store.Load(); err != nil || token != "" {
		t.Fatalf("Load() on missing file = %q, %v", token, err)
	}
	if err := store.Save("abc"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if token, _ := store.Load(); token != "abc" {
		t.Errorf("Load() = %q", token)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

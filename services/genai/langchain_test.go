package genai

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartstudy/config"
	"smartstudy/logger"
	"smartstudy/models"

	"github.com/invopop/jsonschema"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	resp     *llms.ContentResponse
	err      error
	calls    int
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	return f.resp, f.err
}

func (f *fakeModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func textResponse(s string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s}}}
}

func testConfig(provider string) *config.Config {
	return &config.Config{
		GenAIProvider:    provider,
		GenAITemperature: 0.7,
		GenAITimeout:     time.Second,
	}
}

func TestLangchainGatewayMessageOrder(t *testing.T) {
	model := &fakeModel{resp: textResponse("ok")}
	gw := NewLangchainGatewayWithModel(model, testConfig(config.ProviderGoogleAI), logger.Nop())

	req := Request{
		History: []models.ChatMessage{
			{Role: models.RoleUser, Content: "context"},
			{Role: models.RoleAssistant, Content: "ack"},
		},
		Parts: []Part{
			InlinePart("image/png", "aGVsbG8="),
			TextPart("Analyze the code in this image."),
		},
		System: "You are a tutor.",
	}

	got, err := gw.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Generate() = %q", got)
	}

	wantRoles := []llms.ChatMessageType{
		llms.ChatMessageTypeSystem,
		llms.ChatMessageTypeHuman,
		llms.ChatMessageTypeAI,
		llms.ChatMessageTypeHuman,
	}
	if len(model.messages) != len(wantRoles) {
		t.Fatalf("got %d messages, expected %d", len(model.messages), len(wantRoles))
	}
	for i, role := range wantRoles {
		if model.messages[i].Role != role {
			t.Errorf("message %d role = %s, expected %s", i, model.messages[i].Role, role)
		}
	}

	last := model.messages[3].Parts
	if len(last) != 2 {
		t.Fatalf("final message has %d parts, expected 2", len(last))
	}
	bin, ok := last[0].(llms.BinaryContent)
	if !ok || bin.MIMEType != "image/png" || string(bin.Data) != "hello" {
		t.Errorf("first part = %#v, expected decoded image", last[0])
	}
	if text, ok := last[1].(llms.TextContent); !ok || text.Text != "Analyze the code in this image." {
		t.Errorf("second part = %#v", last[1])
	}
	if model.opts.Temperature != 0.7 {
		t.Errorf("temperature = %v", model.opts.Temperature)
	}
	if model.opts.JSONMode {
		t.Error("JSON mode set without a schema")
	}
}

func TestLangchainGatewaySchema(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		jsonMode bool
	}{
		{name: "gemini uses json mode", provider: config.ProviderGoogleAI, jsonMode: true},
		{name: "openai relies on instruction", provider: config.ProviderOpenAI, jsonMode: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{resp: textResponse("[]")}
			gw := NewLangchainGatewayWithModel(model, testConfig(tt.provider), logger.Nop())

			_, err := gw.Generate(context.Background(), Request{
				Parts:  []Part{TextPart("make a quiz")},
				Schema: &jsonschema.Schema{Type: "array"},
			})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if model.opts.JSONMode != tt.jsonMode {
				t.Errorf("JSONMode = %v, expected %v", model.opts.JSONMode, tt.jsonMode)
			}
			if model.messages[0].Role != llms.ChatMessageTypeSystem {
				t.Fatalf("expected schema in a system message, got %s", model.messages[0].Role)
			}
		})
	}
}

func TestLangchainGatewayErrors(t *testing.T) {
	providerErr := errors.New("quota exceeded")

	tests := []struct {
		name     string
		model    *fakeModel
		req      Request
		expected error
		calls    int
	}{
		{
			name:     "provider failure",
			model:    &fakeModel{err: providerErr},
			req:      Request{Parts: []Part{TextPart("hi")}},
			expected: providerErr,
			calls:    1,
		},
		{
			name:     "no choices",
			model:    &fakeModel{resp: &llms.ContentResponse{}},
			req:      Request{Parts: []Part{TextPart("hi")}},
			expected: ErrEmptyResponse,
			calls:    1,
		},
		{
			name:     "blank text",
			model:    &fakeModel{resp: textResponse("  \n")},
			req:      Request{Parts: []Part{TextPart("hi")}},
			expected: ErrEmptyResponse,
			calls:    1,
		},
		{
			name:  "bad base64 never reaches the provider",
			model: &fakeModel{resp: textResponse("ok")},
			req:   Request{Parts: []Part{InlinePart("image/png", "%%%")}},
			calls: 0,
		},
		{
			name:  "unknown history role",
			model: &fakeModel{resp: textResponse("ok")},
			req:   Request{History: []models.ChatMessage{{Role: "system", Content: "x"}}, Parts: []Part{TextPart("hi")}},
			calls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := NewLangchainGatewayWithModel(tt.model, testConfig(config.ProviderOpenAI), logger.Nop())
			_, err := gw.Generate(context.Background(), tt.req)

			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
			if genErr.Provider != config.ProviderOpenAI {
				t.Errorf("provider = %q", genErr.Provider)
			}
			if tt.expected != nil && !errors.Is(err, tt.expected) {
				t.Errorf("error = %v, expected %v", err, tt.expected)
			}
			if tt.model.calls != tt.calls {
				t.Errorf("provider called %d times, expected %d", tt.model.calls, tt.calls)
			}
		})
	}
}

func TestNewWithoutCredentials(t *testing.T) {
	cfg := testConfig(config.ProviderGoogleAI)
	gw, err := New(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = gw.Generate(context.Background(), Request{Parts: []Part{TextPart("hi")}})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestNewUnsupportedProvider(t *testing.T) {
	cfg := testConfig("mistral")
	cfg.GeminiAPIKey = "key"
	if _, err := New(context.Background(), cfg, logger.Nop()); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

func TestAttachmentParts(t *testing.T) {
	parts := AttachmentParts([]models.Attachment{
		{MimeType: "application/pdf", Base64: "JVBERg=="},
		{MimeType: "", Base64: "x"},
		{MimeType: "image/png", Base64: "iVBO"},
	})
	if len(parts) != 2 || parts[0].MimeType != "application/pdf" || parts[1].MimeType != "image/png" {
		t.Errorf("AttachmentParts() = %+v", parts)
	}
}

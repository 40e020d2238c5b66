package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"smartstudy/config"
	"smartstudy/logger"
	"smartstudy/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainGateway talks to Gemini or OpenAI through a langchaingo model.
type LangchainGateway struct {
	llm         llms.Model
	provider    string
	temperature float64
	timeout     time.Duration
	// jsonMode is only set for Gemini: OpenAI's JSON mode forces an object and our
	// artifacts are arrays.
	jsonMode bool
	log      *logger.Logger
}

func NewLangchainGateway(ctx context.Context, cfg *config.Config, log *logger.Logger) (*LangchainGateway, error) {
	var (
		llm llms.Model
		err error
	)
	switch cfg.GenAIProvider {
	case config.ProviderGoogleAI:
		llm, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(modelOrDefault(cfg.GenAIModel, defaultGeminiModel)),
		)
	case config.ProviderOpenAI:
		llm, err = openai.New(
			openai.WithModel(modelOrDefault(cfg.GenAIModel, defaultOpenAIModel)),
			openai.WithToken(cfg.OpenAIAPIKey),
		)
	default:
		return nil, fmt.Errorf("provider %q is not served by langchaingo", cfg.GenAIProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.GenAIProvider, err)
	}

	return NewLangchainGatewayWithModel(llm, cfg, log), nil
}

// NewLangchainGatewayWithModel wraps an already constructed model.
func NewLangchainGatewayWithModel(llm llms.Model, cfg *config.Config, log *logger.Logger) *LangchainGateway {
	return &LangchainGateway{
		llm:         llm,
		provider:    cfg.GenAIProvider,
		temperature: cfg.GenAITemperature,
		timeout:     cfg.GenAITimeout,
		jsonMode:    cfg.GenAIProvider == config.ProviderGoogleAI,
		log:         log.With("provider", cfg.GenAIProvider),
	}
}

func (g *LangchainGateway) Generate(ctx context.Context, req Request) (string, error) {
	messages, err := g.messages(req)
	if err != nil {
		return "", fail(g.provider, err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	opts := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if req.Schema != nil && g.jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	g.log.Debug("Calling model", "parts", len(req.Parts), "history", len(req.History), "structured", req.Schema != nil)
	start := time.Now()
	resp, err := g.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		g.log.Error("Model call failed", "error", err, "elapsed", time.Since(start))
		return "", fail(g.provider, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		g.log.Error("Model returned no text", "elapsed", time.Since(start))
		return "", fail(g.provider, ErrEmptyResponse)
	}

	g.log.Debug("Model call completed", "elapsed", time.Since(start), "chars", len(resp.Choices[0].Content))
	return resp.Choices[0].Content, nil
}

func (g *LangchainGateway) messages(req Request) ([]llms.MessageContent, error) {
	var messages []llms.MessageContent
	if system := systemText(req); system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}

	for _, turn := range req.History {
		msgType, err := chatMessageType(turn.Role)
		if err != nil {
			return nil, err
		}
		messages = append(messages, llms.TextParts(msgType, turn.Content))
	}

	parts := make([]llms.ContentPart, 0, len(req.Parts))
	for i, p := range req.Parts {
		if !p.IsInline() {
			parts = append(parts, llms.TextPart(p.Text))
			continue
		}
		data, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, fmt.Errorf("part %d: invalid base64 payload: %w", i, err)
		}
		parts = append(parts, llms.BinaryPart(p.MimeType, data))
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("request has no content parts")
	}

	return append(messages, llms.MessageContent{Role: llms.ChatMessageTypeHuman, Parts: parts}), nil
}

func chatMessageType(role models.Role) (llms.ChatMessageType, error) {
	switch role {
	case models.RoleUser:
		return llms.ChatMessageTypeHuman, nil
	case models.RoleAssistant:
		return llms.ChatMessageTypeAI, nil
	}
	return "", fmt.Errorf("unsupported chat role %q", role)
}

func modelOrDefault(model, fallback string) string {
	if model == "" {
		return fallback
	}
	return model
}

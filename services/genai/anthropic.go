package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smartstudy/config"
	"smartstudy/logger"
	"smartstudy/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 8192

// AnthropicGateway talks to Claude through the Messages API.
type AnthropicGateway struct {
	client      *anthropic.Client
	model       anthropic.Model
	temperature float64
	timeout     time.Duration
	log         *logger.Logger
}

func NewAnthropicGateway(cfg *config.Config, log *logger.Logger, opts ...option.RequestOption) *AnthropicGateway {
	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.AnthropicAPIKey),
		option.WithMaxRetries(0),
	}, opts...)
	client := anthropic.NewClient(opts...)

	return &AnthropicGateway{
		client:      &client,
		model:       anthropic.Model(modelOrDefault(cfg.GenAIModel, defaultAnthropicModel)),
		temperature: cfg.GenAITemperature,
		timeout:     cfg.GenAITimeout,
		log:         log.With("provider", config.ProviderAnthropic),
	}
}

func (g *AnthropicGateway) Generate(ctx context.Context, req Request) (string, error) {
	messages, err := anthropicMessages(req)
	if err != nil {
		return "", fail(config.ProviderAnthropic, err)
	}

	params := anthropic.MessageNewParams{
		Model:       g.model,
		MaxTokens:   anthropicMaxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(g.temperature),
	}
	if system := systemText(req); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.log.Debug("Calling model", "parts", len(req.Parts), "history", len(req.History), "structured", req.Schema != nil)
	start := time.Now()
	response, err := g.client.Messages.New(ctx, params)
	if err != nil {
		g.log.Error("Model call failed", "error", err, "elapsed", time.Since(start))
		return "", fail(config.ProviderAnthropic, err)
	}

	var text strings.Builder
	for _, block := range response.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		g.log.Error("Model returned no text", "stopReason", response.StopReason)
		return "", fail(config.ProviderAnthropic, ErrEmptyResponse)
	}

	g.log.Debug("Model call completed", "elapsed", time.Since(start), "chars", text.Len())
	return text.String(), nil
}

func anthropicMessages(req Request) ([]anthropic.MessageParam, error) {
	var messages []anthropic.MessageParam
	for _, turn := range req.History {
		switch turn.Role {
		case models.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		case models.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		default:
			return nil, fmt.Errorf("unsupported chat role %q", turn.Role)
		}
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Parts))
	for _, p := range req.Parts {
		switch {
		case !p.IsInline():
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
		case p.MimeType == "application/pdf":
			blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: p.Data}))
		case strings.HasPrefix(p.MimeType, "image/"):
			blocks = append(blocks, anthropic.NewImageBlockBase64(p.MimeType, p.Data))
		default:
			return nil, fmt.Errorf("unsupported attachment type %q", p.MimeType)
		}
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("request has no content parts")
	}

	return append(messages, anthropic.NewUserMessage(blocks...)), nil
}

// Package genai wraps the hosted generative AI capability behind a single Generate call.
// Each call is one outbound request: no retries, no caching.
package genai

import (
	"context"
	"fmt"
	"strings"

	"smartstudy/config"
	"smartstudy/logger"
	"smartstudy/models"

	"github.com/invopop/jsonschema"
)

// Part is one content fragment. It is inline binary when MimeType is set, text otherwise.
type Part struct {
	MimeType string
	Data     string
	Text     string
}

func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart carries a base64 payload such as an image or a PDF.
func InlinePart(mimeType, base64Data string) Part {
	return Part{MimeType: mimeType, Data: base64Data}
}

func (p Part) IsInline() bool {
	return p.MimeType != ""
}

// AttachmentParts converts request attachments to inline parts, keeping their order.
func AttachmentParts(files []models.Attachment) []Part {
	parts := make([]Part, 0, len(files))
	for _, f := range files {
		if f.MimeType == "" || f.Base64 == "" {
			continue
		}
		parts = append(parts, InlinePart(f.MimeType, f.Base64))
	}
	return parts
}

type Request struct {
	// Parts are sent in order: attachments come before the instruction.
	Parts []Part
	// History turns are sent before Parts.
	History []models.ChatMessage
	System  string
	// Schema asks the model for JSON of this shape. It is advisory only.
	Schema *jsonschema.Schema
}

type Gateway interface {
	Generate(ctx context.Context, req Request) (string, error)
}

const (
	defaultGeminiModel    = "gemini-2.5-flash"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
)

// New builds the gateway for the configured provider. A missing API key does not fail
// startup; every call then returns a GenerationError wrapping ErrMissingCredentials.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (Gateway, error) {
	provider := cfg.GenAIProvider
	if cfg.APIKey() == "" {
		log.Warn("No API key configured for generative AI provider", "provider", provider)
		return unavailable{provider: provider}, nil
	}

	switch provider {
	case config.ProviderGoogleAI, config.ProviderOpenAI:
		return NewLangchainGateway(ctx, cfg, log)
	case config.ProviderAnthropic:
		return NewAnthropicGateway(cfg, log), nil
	}
	return nil, fmt.Errorf("unsupported GENAI_PROVIDER %q", provider)
}

type unavailable struct {
	provider string
}

func (u unavailable) Generate(context.Context, Request) (string, error) {
	return "", fail(u.provider, ErrMissingCredentials)
}

func schemaInstruction(req Request) string {
	if req.Schema == nil {
		return ""
	}
	b, err := req.Schema.MarshalJSON()
	if err != nil {
		return ""
	}
	return "Respond with JSON only, no prose, conforming to this JSON schema:\n" + string(b)
}

// systemText joins the system instruction and the schema hint.
func systemText(req Request) string {
	var lines []string
	if s := strings.TrimSpace(req.System); s != "" {
		lines = append(lines, s)
	}
	if s := schemaInstruction(req); s != "" {
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n\n")
}

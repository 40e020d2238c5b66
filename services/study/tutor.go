package study

import (
	"context"
	"fmt"
	"strings"

	"smartstudy/models"
	"smartstudy/services/genai"
	"smartstudy/services/prompt"
)

// Chat answers a follow-up about one question or slide. The conversation sent to the
// model is the tutor preamble, a fixed acknowledgement, the history and the new message.
func (s *Service) Chat(ctx context.Context, p models.ChatPayload) (string, error) {
	s.log.Info("Starting chat", "history", len(p.History))

	if strings.TrimSpace(p.UserMessage) == "" {
		return "", invalid("chat needs a user message")
	}
	for i, m := range p.History {
		if !m.Role.Valid() {
			return "", invalid("history[%d] has unsupported role %q", i, m.Role)
		}
	}

	history := make([]models.ChatMessage, 0, len(p.History)+2)
	history = append(history,
		models.ChatMessage{Role: models.RoleUser, Content: prompt.TutorPreamble(p.Context)},
		models.ChatMessage{Role: models.RoleAssistant, Content: prompt.TutorAcknowledgement},
	)
	history = append(history, p.History...)

	reply, err := s.gateway.Generate(ctx, genai.Request{
		History: history,
		Parts:   []genai.Part{genai.TextPart(p.UserMessage)},
	})
	if err != nil {
		s.log.Error("Chat failed", "error", err)
		return "", fmt.Errorf("failed to chat: %w", err)
	}
	return reply, nil
}

// ExplainCode explains either pasted source or a screenshot of code.
func (s *Service) ExplainCode(ctx context.Context, p models.ExplainCodePayload) (string, error) {
	hasCode := strings.TrimSpace(p.Code) != ""
	hasImage := p.ImageBase64 != ""
	s.log.Info("Starting code explanation", "code", hasCode, "image", hasImage)

	var parts []genai.Part
	if hasImage {
		parts = append(parts,
			genai.InlinePart("image/png", p.ImageBase64),
			genai.TextPart(prompt.CodeImageInstruction()),
		)
	}
	if hasCode {
		parts = append(parts, genai.TextPart(prompt.CodeSnippet(p.Code)))
	}
	if len(parts) == 0 {
		return "", invalid("explainCode needs code or imageBase64")
	}

	pr, err := prompt.Build(prompt.KindCodeExplanation, "", prompt.Context{})
	if err != nil {
		return "", err
	}
	return s.generate(ctx, "explain code", pr, parts)
}

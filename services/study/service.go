// Package study turns one generate action into a prompt, a single gateway call and a
// validated result.
package study

import (
	"context"
	"errors"
	"fmt"

	"smartstudy/logger"
	"smartstudy/services/genai"
	"smartstudy/services/prompt"
)

// ErrInvalidRequest marks payload problems the caller can fix.
var ErrInvalidRequest = errors.New("invalid request")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

type Service struct {
	gateway genai.Gateway
	log     *logger.Logger
}

func NewService(gateway genai.Gateway, log *logger.Logger) *Service {
	return &Service{gateway: gateway, log: log}
}

// generate sends parts followed by the prompt instruction.
func (s *Service) generate(ctx context.Context, op string, p prompt.Prompt, parts []genai.Part) (string, error) {
	parts = append(parts, genai.TextPart(p.Instruction))

	s.log.Info("Calling model", "operation", op, "parts", len(parts))
	raw, err := s.gateway.Generate(ctx, genai.Request{
		Parts:  parts,
		System: p.System,
		Schema: p.Schema,
	})
	if err != nil {
		s.log.Error("Model call failed", "operation", op, "error", err)
		return "", fmt.Errorf("failed to %s: %w", op, err)
	}
	return raw, nil
}

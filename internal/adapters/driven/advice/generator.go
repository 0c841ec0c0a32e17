// Package advice adapts an LLM chat service into the advice generator
// used by the advice service.
package advice

import (
	"context"
	"fmt"

	"github.com/custodia-labs/failcase-advisor/internal/adapters/driven/config/file"
	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/logger"
)

// Ensure Generator implements the interface.
var _ driven.AdviceGenerator = (*Generator)(nil)

// Generator sends one system and one user message per question.
type Generator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	opts    driven.ChatOptions
}

// NewGenerator creates an advice generator. prompts may be nil, in which
// case the embedded defaults are used.
func NewGenerator(llm driven.LLMService, prompts driven.PromptStore, settings domain.LLMSettings) *Generator {
	return &Generator{
		llm:     llm,
		prompts: prompts,
		opts: driven.ChatOptions{
			MaxTokens:   settings.MaxTokens,
			Temperature: settings.Temperature,
		},
	}
}

// GenerateAdvice asks the model for advice on question given caseContext.
// Errors from the LLM service are returned unchanged.
func (g *Generator) GenerateAdvice(ctx context.Context, question, caseContext string) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("%w: no LLM service configured", domain.ErrLLMUnavailable)
	}

	system, err := g.prompt(driven.PromptAdviceSystem)
	if err != nil {
		return "", err
	}
	user, err := g.prompt(driven.PromptAdviceUser)
	if err != nil {
		return "", err
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: fmt.Sprintf(user, caseContext, question)},
	}

	logger.Debug("Advice request: model=%s, context=%d bytes", g.llm.ModelName(), len(caseContext))
	return g.llm.Chat(ctx, messages, g.opts)
}

func (g *Generator) prompt(name string) (string, error) {
	if g.prompts != nil {
		return g.prompts.Load(name)
	}
	p, ok := file.DefaultPrompt(name)
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return p, nil
}

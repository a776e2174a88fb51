// Package ai drives the completion engine that takes orders. The engine is
// a black box: it is stateless across calls, so the full turn history is
// resent every time, and it alone owns pricing and menu guardrails through
// the fixed system instruction.
package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/brewandco/brew-counter/internal/config"
	"github.com/brewandco/brew-counter/internal/menu"
	conv "github.com/brewandco/brew-counter/internal/model/conversation"
)

// Service wraps the compiled chat chain for the ordering agent.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	system    string
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the ordering chain: fixed system instruction, prior
// turn history, current user query.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		system:    menu.SystemPrompt(),
		chain:     runnable,
	}, nil
}

// Complete sends the full ordered transcript and returns the agent's single
// reply text. The reply may or may not carry a receipt block; both are valid
// outcomes and the caller decides via the Receipt Codec.
func (s *Service) Complete(ctx context.Context, turns []conv.Turn) (string, error) {
	if len(turns) == 0 || turns[len(turns)-1].Role != conv.RoleUser {
		return "", fmt.Errorf("transcript must end with a user turn")
	}

	query := turns[len(turns)-1].Text
	history := buildHistory(turns[:len(turns)-1])

	response, err := s.chain.Invoke(ctx, map[string]any{
		"system":  s.system,
		"history": history,
		"query":   query,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run order chain: %w", err)
	}

	log.Printf("[ai] reply generated, turns=%d length=%d", len(turns), len(response.Content))
	return response.Content, nil
}

// buildHistory maps transcript turns onto engine message roles. Order is
// preserved verbatim; the engine carries no server-side session.
func buildHistory(turns []conv.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case conv.RoleUser:
			history = append(history, schema.UserMessage(turn.Text))
		case conv.RoleAgent:
			history = append(history, schema.AssistantMessage(turn.Text, nil))
		}
	}
	return history
}

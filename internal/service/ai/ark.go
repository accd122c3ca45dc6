package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-chat/backend/internal/config"
)

// ArkGenerator answers through an eino chain: chat template, then Ark chat model.
type ArkGenerator struct {
	instruction string
	logger      *zap.Logger
	chain       compose.Runnable[map[string]any, *schema.Message]
}

// NewArkGenerator builds the Ark chat model from cfg and compiles the chain.
func NewArkGenerator(ctx context.Context, cfg config.AIConfig, instruction string, logger *zap.Logger) (*ArkGenerator, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return newArkGenerator(ctx, chatModel, instruction, logger)
}

func newArkGenerator(ctx context.Context, chatModel model.BaseChatModel, instruction string, logger *zap.Logger) (*ArkGenerator, error) {
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

	return &ArkGenerator{
		instruction: instruction,
		logger:      logger,
		chain:       runnable,
	}, nil
}

// Generate implements Generator.
func (g *ArkGenerator) Generate(ctx context.Context, profile string, messages []string) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyContext
	}

	history, query := SplitTurns(messages)
	input := map[string]any{
		"system":  BuildSystemPrompt(g.instruction, profile),
		"history": toSchemaMessages(history),
		"query":   query,
	}

	response, err := g.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	g.logger.Debug("ark reply generated", zap.Int("context", len(messages)), zap.Int("length", len(response.Content)))
	return response.Content, nil
}

func toSchemaMessages(turns []Turn) []*schema.Message {
	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case RoleUser:
			history = append(history, schema.UserMessage(turn.Text))
		case RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Text, nil))
		}
	}
	return history
}

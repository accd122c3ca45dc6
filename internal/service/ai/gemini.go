package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/zhouzirui/z-chat/backend/internal/config"
)

// GeminiGenerator answers through the Gemini API.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	instruction string
	logger      *zap.Logger
}

// NewGeminiGenerator creates a Gemini API client for cfg.
func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig, instruction string, logger *zap.Logger) (*GeminiGenerator, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{
		client:      client,
		model:       cfg.Model,
		instruction: instruction,
		logger:      logger,
	}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, profile string, messages []string) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyContext
	}

	history, query := SplitTurns(messages)
	contents := toGenAIContents(history, query)

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildSystemPrompt(g.instruction, profile), genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	g.logger.Debug("gemini reply generated", zap.String("model", g.model), zap.Int("length", len(text)))
	return text, nil
}

func toGenAIContents(history []Turn, query string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	return append(contents, genai.NewContentFromText(query, genai.RoleUser))
}

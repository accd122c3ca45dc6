package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-chat/backend/internal/config"
)

// ErrEmptyContext is returned when a generator is asked to reply to nothing.
var ErrEmptyContext = errors.New("dialog context is empty")

// Generator produces the bot reply for a dialog.
type Generator interface {
	Generate(ctx context.Context, profile string, messages []string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, profile string, messages []string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, profile string, messages []string) (string, error) {
	return f(ctx, profile, messages)
}

// Echo replies by quoting the last message back.
type Echo struct{}

// Generate implements Generator.
func (Echo) Generate(_ context.Context, _ string, messages []string) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyContext
	}
	return fmt.Sprintf("Thank you for sending me this message: %s", messages[len(messages)-1]), nil
}

// New selects the reply generator named by cfg.Bot.Generator. In auto mode
// Ark wins over Gemini, and echo is the fallback when neither is configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Generator, error) {
	backend := cfg.Bot.Generator
	if backend == config.GeneratorAuto {
		switch {
		case cfg.AI.Enabled():
			backend = config.GeneratorArk
		case cfg.Gemini.Enabled():
			backend = config.GeneratorGemini
		default:
			backend = config.GeneratorEcho
		}
	}

	logger.Info("reply generator selected", zap.String("backend", backend))

	switch backend {
	case config.GeneratorEcho:
		return Echo{}, nil
	case config.GeneratorArk:
		return NewArkGenerator(ctx, cfg.AI, cfg.Bot.Instruction, logger)
	case config.GeneratorGemini:
		return NewGeminiGenerator(ctx, cfg.Gemini, cfg.Bot.Instruction, logger)
	default:
		return nil, fmt.Errorf("unknown reply generator %q", backend)
	}
}

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-chat/backend/internal/model/chat"
	"github.com/zhouzirui/z-chat/backend/internal/service/ai"
	"github.com/zhouzirui/z-chat/backend/internal/service/dialog"
)

// DefaultMaxContextLen is the number of turns kept per dialog.
const DefaultMaxContextLen = 5

// ErrEmptyMessage is reported when the user sends only whitespace.
var ErrEmptyMessage = &Error{Message: "Message cannot be empty"}

// Error is a failure the user should see, reported as {"error": ...}.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsUserError reports whether err should be shown to the user verbatim.
func IsUserError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// ProfileFunc returns the profile for a newly created dialog.
type ProfileFunc func() string

// Service is the chat bot: it dispatches commands and generates replies while
// keeping a bounded context window per user.
type Service struct {
	generator     ai.Generator
	profiles      ProfileFunc
	dialogs       dialog.Store
	maxContextLen int
	logger        *zap.Logger

	// users serializes dialog read-modify-write per user.
	users userLocks
}

// Option customises a Service.
type Option func(*Service)

// WithMaxContextLen overrides DefaultMaxContextLen.
func WithMaxContextLen(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxContextLen = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires a chat bot.
func NewService(generator ai.Generator, profiles ProfileFunc, dialogs dialog.Store, opts ...Option) *Service {
	s := &Service{
		generator:     generator,
		profiles:      profiles,
		dialogs:       dialogs,
		maxContextLen: DefaultMaxContextLen,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Response answers one user message. Messages starting with "/" are commands.
// Concurrent calls for the same user run one at a time.
func (s *Service) Response(ctx context.Context, userID, text string) (string, error) {
	text = strings.TrimSpace(text)

	unlock := s.users.lock(userID)
	defer unlock()

	if strings.HasPrefix(text, "/") {
		return s.responseToCommand(userID, text)
	}
	if text == "" {
		return "", ErrEmptyMessage
	}
	return s.responseToMessage(ctx, userID, text)
}

func (s *Service) responseToMessage(ctx context.Context, userID, text string) (string, error) {
	d := s.dialogs.Get(userID, s.newDialog)
	d.AppendAndCut(text, s.maxContextLen)

	reply, err := s.generator.Generate(ctx, d.Profile, d.Messages)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	d.AppendAndCut(reply, s.maxContextLen)

	s.dialogs.Set(userID, d)
	s.logger.Debug("reply generated", zap.String("user", userID), zap.Int("context", len(d.Messages)))
	return reply, nil
}

func (s *Service) newDialog() chat.Dialog {
	return chat.Dialog{Profile: s.profiles(), Messages: []string{}}
}

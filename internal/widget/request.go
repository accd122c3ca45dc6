package widget

import (
	"context"

	"github.com/zhouzirui/z-chat/backend/internal/model/chat"
)

// Backend is the server the widget talks to.
type Backend interface {
	StartChat(ctx context.Context) (chat.Reply, error)
	Chat(ctx context.Context, msg chat.Message) (chat.Reply, error)
}

// Kind tells which endpoint a Request targets.
type Kind int

const (
	KindGreeting Kind = iota
	KindChat
)

func (k Kind) String() string {
	switch k {
	case KindGreeting:
		return "greeting"
	case KindChat:
		return "chat"
	default:
		return "unknown"
	}
}

// Request is an accepted widget request waiting to be issued.
type Request struct {
	Kind    Kind
	Message chat.Message
}

// Result is the outcome of a Request. Err is set for transport and parse failures.
type Result struct {
	Reply chat.Reply
	Err   error
}

// Do issues the request. It blocks, so callers run it off the owning goroutine.
func (r Request) Do(ctx context.Context, b Backend) Result {
	var (
		reply chat.Reply
		err   error
	)
	switch r.Kind {
	case KindGreeting:
		reply, err = b.StartChat(ctx)
	default:
		reply, err = b.Chat(ctx, r.Message)
	}
	return Result{Reply: reply, Err: err}
}

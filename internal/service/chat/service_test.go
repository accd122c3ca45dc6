package chat_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/z-chat/backend/internal/service/ai"
	chat "github.com/zhouzirui/z-chat/backend/internal/service/chat"
	"github.com/zhouzirui/z-chat/backend/internal/service/dialog"
)

const maxContextLen = 3

func newBot(t *testing.T) *chat.Service {
	t.Helper()

	replies := ai.GeneratorFunc(func(_ context.Context, _ string, messages []string) (string, error) {
		return "reply:" + messages[len(messages)-1], nil
	})

	i := -1
	profiles := func() string {
		i++
		return fmt.Sprintf("some_profile %d", i)
	}

	return chat.NewService(replies, profiles, dialog.NewLRUStore(10), chat.WithMaxContextLen(maxContextLen))
}

func respond(t *testing.T, bot *chat.Service, userID, text string) string {
	t.Helper()
	reply, err := bot.Response(context.Background(), userID, text)
	require.NoError(t, err)
	return reply
}

func TestBadCommand(t *testing.T) {
	bot := newBot(t)

	for _, cmd := range []string{"/badcommand", "/"} {
		_, err := bot.Response(context.Background(), "id", cmd)
		require.Error(t, err)
		assert.True(t, chat.IsUserError(err))
		assert.Equal(t, "Command "+cmd+" is not supported", err.Error())
	}
}

func TestHelpCommand(t *testing.T) {
	bot := newBot(t)

	help := respond(t, bot, "id", "/help")
	assert.NotEmpty(t, help)
	assert.Equal(t, help, respond(t, bot, "other_id", "/help"))
	assert.Equal(t, help, bot.Help())
}

func TestProfileCommand(t *testing.T) {
	bot := newBot(t)

	profile := respond(t, bot, "id", "/profile")
	other := respond(t, bot, "other_id", "/profile")

	assert.Equal(t, profile, respond(t, bot, "id", "/profile"))
	assert.NotEqual(t, profile, other)
}

func TestContextCommand(t *testing.T) {
	bot := newBot(t)

	assert.Equal(t, "Context is empty.", respond(t, bot, "id", "/context"))

	respond(t, bot, "id", "message_1")
	respond(t, bot, "id", "message_2")
	respond(t, bot, "other_id", "message_4")

	assert.Equal(t, "reply:message_1\nmessage_2\nreply:message_2", respond(t, bot, "id", "/context"))
	assert.Equal(t, "message_4\nreply:message_4", respond(t, bot, "other_id", "/context"))
}

func TestClearCommand(t *testing.T) {
	bot := newBot(t)

	profile := respond(t, bot, "id", "/profile")
	for _, msg := range []string{"message_1", "message_2", "message_3"} {
		respond(t, bot, "id", msg)
		respond(t, bot, "other_id", msg)
	}

	assert.Equal(t, "Do we know each other?", respond(t, bot, "id", "/clear"))
	assert.Equal(t, "Context is empty.", respond(t, bot, "id", "/context"))
	assert.Equal(t, profile, respond(t, bot, "id", "/profile"))
	assert.NotEqual(t, "Context is empty.", respond(t, bot, "other_id", "/context"))
}

func TestNewCommand(t *testing.T) {
	bot := newBot(t)

	profile := respond(t, bot, "id", "/profile")
	other := respond(t, bot, "other_id", "/profile")
	for _, msg := range []string{"message_1", "message_2", "message_3"} {
		respond(t, bot, "id", msg)
		respond(t, bot, "other_id", msg)
	}

	assert.Equal(t, "Goodbye forever my dear friend :(", respond(t, bot, "id", "/new"))
	assert.Equal(t, "Context is empty.", respond(t, bot, "id", "/context"))
	assert.NotEqual(t, profile, respond(t, bot, "id", "/profile"))

	assert.NotEqual(t, "Context is empty.", respond(t, bot, "other_id", "/context"))
	assert.Equal(t, other, respond(t, bot, "other_id", "/profile"))
}

func TestNewMessage(t *testing.T) {
	bot := newBot(t)

	assert.Equal(t, "reply:message_1", respond(t, bot, "id", "  message_1 "))
	assert.Equal(t, "reply:message_1", respond(t, bot, "other_id", "message_1"))
}

func TestEmptyMessage(t *testing.T) {
	bot := newBot(t)

	_, err := bot.Response(context.Background(), "id", "   ")
	assert.ErrorIs(t, err, chat.ErrEmptyMessage)
	assert.True(t, chat.IsUserError(err))
}

func TestGeneratorFailureKeepsContext(t *testing.T) {
	boom := errors.New("model offline")
	failing := ai.GeneratorFunc(func(context.Context, string, []string) (string, error) {
		return "", boom
	})
	bot := chat.NewService(failing, func() string { return "p" }, dialog.NewLRUStore(10))

	_, err := bot.Response(context.Background(), "id", "hello")
	require.ErrorIs(t, err, boom)
	assert.False(t, chat.IsUserError(err))

	reply, err := bot.Response(context.Background(), "id", "/context")
	require.NoError(t, err)
	assert.Equal(t, "Context is empty.", reply)
}

func TestConcurrentMessagesKeepEveryTurn(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	slow := ai.GeneratorFunc(func(_ context.Context, _ string, messages []string) (string, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		return "r:" + messages[len(messages)-1], nil
	})
	bot := chat.NewService(slow, func() string { return "p" }, dialog.NewLRUStore(10), chat.WithMaxContextLen(10))

	respond(t, bot, "u", "seed")

	var wg sync.WaitGroup
	for _, text := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bot.Response(context.Background(), "u", text)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines := strings.Split(respond(t, bot, "u", "/context"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, []string{"seed", "r:seed"}, lines[:2])
	for i := 2; i < len(lines); i += 2 {
		assert.Equal(t, "r:"+lines[i], lines[i+1])
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, []string{lines[2], lines[4], lines[6]})
	assert.Equal(t, int32(1), maxInFlight.Load())
}

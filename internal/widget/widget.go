// Package widget holds the chat widget core: UI state, the input lock and the
// reconciliation of backend replies into the message list. It renders nothing
// itself; views subscribe to state changes and provide the scroll container.
package widget

import (
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-chat/backend/internal/model/chat"
)

// GenericErrorText is shown for transport and parse failures.
const GenericErrorText = "Something went wrong :("

// State is an immutable snapshot of the widget.
type State struct {
	Input       string
	Messages    []chat.Message
	InputLocked bool
}

// Listener observes state changes. Listeners run on the goroutine that owns
// the widget and must not call mutating widget methods.
type Listener func(State)

// Scroller is the message container; ScrollToEnd moves it to its maximum offset.
type Scroller interface {
	ScrollToEnd()
}

type scrollFunc func()

func (f scrollFunc) ScrollToEnd() { f() }

// Widget owns the conversation state of one page session. It is not safe for
// concurrent use: one goroutine (a UI loop or a Driver) must own it.
type Widget struct {
	state     State
	listeners []subscription
	nextID    int

	scroller Scroller
	logger   *zap.Logger
	now      func() time.Time
}

type subscription struct {
	id int
	fn Listener
}

// Option customises a Widget.
type Option func(*Widget)

// WithScroller attaches the message container.
func WithScroller(s Scroller) Option {
	return func(w *Widget) {
		w.scroller = s
	}
}

// WithLogger records transport failures for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithClock overrides the time source used for message ids.
func WithClock(now func() time.Time) Option {
	return func(w *Widget) {
		w.now = now
	}
}

// New returns an empty, unlocked widget.
func New(opts ...Option) *Widget {
	w := &Widget{
		state:  State{Messages: []chat.Message{}},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns a snapshot of the current state.
func (w *Widget) State() State {
	return w.snapshot()
}

// Subscribe registers l and returns a function that removes it.
func (w *Widget) Subscribe(l Listener) (cancel func()) {
	w.nextID++
	id := w.nextID
	w.listeners = append(w.listeners, subscription{id: id, fn: l})

	return func() {
		w.listeners = slices.DeleteFunc(w.listeners, func(s subscription) bool {
			return s.id == id
		})
	}
}

// SetInput mirrors the input control.
func (w *Widget) SetInput(text string) {
	if w.state.Input == text {
		return
	}
	w.state.Input = text
	w.notify()
}

// Start locks the input and returns the greeting request. It reports false
// when a request is already in flight.
func (w *Widget) Start() (Request, bool) {
	if w.state.InputLocked {
		return Request{}, false
	}
	w.state.InputLocked = true
	w.notify()
	return Request{Kind: KindGreeting}, true
}

// SendMessage turns the current input into a user message and returns the
// chat request to issue. It is a no-op, reporting false, while the input is
// locked or when the trimmed input is empty.
func (w *Widget) SendMessage() (Request, bool) {
	if w.state.InputLocked {
		return Request{}, false
	}

	text := strings.TrimSpace(w.state.Input)
	if text == "" {
		return Request{}, false
	}

	w.state.InputLocked = true
	msg := chat.NewUserMessage(text, w.now())
	w.state.Messages = append(w.state.Messages, msg)
	w.state.Input = ""
	w.notify()
	w.ScrollToEnd()

	return Request{Kind: KindChat, Message: msg}, true
}

// Resolve appends the message for a finished request. Transport failures are
// logged and replaced by GenericErrorText.
func (w *Widget) Resolve(res Result) {
	now := w.now()

	var msg chat.Message
	switch {
	case res.Err != nil:
		w.logger.Error("chat request failed", zap.Error(res.Err))
		msg = chat.NewErrorMessage(GenericErrorText, now)
	case res.Reply.Error != nil:
		msg = chat.NewErrorMessage(*res.Reply.Error, now)
	default:
		msg = chat.NewBotMessage(res.Reply.Text, now)
	}

	w.state.Messages = append(w.state.Messages, msg)
	w.notify()
}

// Finish completes a request after its message has been rendered: the
// container is scrolled to the end and the input is unlocked.
func (w *Widget) Finish() {
	w.ScrollToEnd()
	w.state.InputLocked = false
	w.notify()
}

// ScrollToEnd pins the message container to the latest message.
func (w *Widget) ScrollToEnd() {
	if w.scroller != nil {
		w.scroller.ScrollToEnd()
	}
}

func (w *Widget) snapshot() State {
	return State{
		Input:       w.state.Input,
		Messages:    slices.Clone(w.state.Messages),
		InputLocked: w.state.InputLocked,
	}
}

func (w *Widget) notify() {
	if len(w.listeners) == 0 {
		return
	}
	s := w.snapshot()
	for _, sub := range slices.Clone(w.listeners) {
		sub.fn(s)
	}
}

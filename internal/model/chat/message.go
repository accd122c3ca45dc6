package chat

import "time"

// ErrorPrefix marks bot-authored messages that report a failure.
const ErrorPrefix = "ERROR: "

// Message is a single chat line shown by the widget and sent to /chat.
// ID is a millisecond timestamp used as a display key only; it is not unique
// when two messages are created within the same millisecond.
type Message struct {
	Text  string `json:"text"`
	IsBot bool   `json:"isBot"`
	ID    int64  `json:"id"`
}

// Reply is the payload returned by /startchat and /chat.
// A non-nil Error means the server reported an application-level failure.
type Reply struct {
	Text  string  `json:"text"`
	Error *string `json:"error,omitempty"`
}

// NewUserMessage builds a user-authored message.
func NewUserMessage(text string, now time.Time) Message {
	return newMessage(text, false, now)
}

// NewBotMessage builds a bot-authored message.
func NewBotMessage(text string, now time.Time) Message {
	return newMessage(text, true, now)
}

// NewErrorMessage builds a bot-authored message carrying an error notice.
func NewErrorMessage(text string, now time.Time) Message {
	return newMessage(ErrorPrefix+text, true, now)
}

func newMessage(text string, isBot bool, now time.Time) Message {
	return Message{Text: text, IsBot: isBot, ID: now.UnixMilli()}
}

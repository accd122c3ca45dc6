package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zhouzirui/z-chat/backend/internal/model/chat"
)

// decodeReply reads a reply the way the browser widget does. An object with
// an "error" key is an application error whatever the value, including null.
// Non-string values are shown as their JSON text. An array carries no fields
// and yields an empty reply. Scalars and malformed bodies are ErrNotJSON.
func decodeReply(data []byte) (chat.Reply, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return chat.Reply{}, ErrNotJSON
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return chat.Reply{}, fmt.Errorf("%w: %v", ErrNotJSON, err)
		}
		return chat.Reply{}, nil
	case '{':
	default:
		return chat.Reply{}, ErrNotJSON
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return chat.Reply{}, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}

	if raw, ok := fields["error"]; ok {
		msg := errorText(raw)
		return chat.Reply{Error: &msg}, nil
	}
	return chat.Reply{Text: bodyText(fields["text"])}, nil
}

// errorText renders an error value as string interpolation would: null
// becomes "null".
func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// bodyText renders the reply text: a missing or null value is empty.
func bodyText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

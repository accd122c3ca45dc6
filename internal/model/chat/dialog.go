package chat

// Dialog is the server-side context of one user: the profile handed to the
// reply generator and the most recent turns, oldest first.
type Dialog struct {
	Profile  string   `json:"profile"`
	Messages []string `json:"messages"`
}

// Clone returns a deep copy so callers never share the Messages backing array.
func (d Dialog) Clone() Dialog {
	msgs := make([]string, len(d.Messages))
	copy(msgs, d.Messages)
	return Dialog{Profile: d.Profile, Messages: msgs}
}

// AppendAndCut appends value and keeps only the last maxLen entries.
func (d *Dialog) AppendAndCut(value string, maxLen int) {
	d.Messages = append(d.Messages, value)
	if maxLen > 0 && len(d.Messages) > maxLen {
		d.Messages = append([]string(nil), d.Messages[len(d.Messages)-maxLen:]...)
	}
}

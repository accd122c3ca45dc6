package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/zhouzirui/z-chat/backend/internal/model/chat"
	"github.com/zhouzirui/z-chat/backend/internal/widget"
)

// transcript is the scroll container. It renders widget state into the
// viewport and is shared by pointer between the model and the widget.
type transcript struct {
	viewport viewport.Model
	styles   styles
	markdown bool
	renderer *glamour.TermRenderer
	messages []chat.Message
}

func newTranscript(st styles, markdown bool) *transcript {
	t := &transcript{
		viewport: viewport.New(80, 20),
		styles:   st,
		markdown: markdown,
	}
	t.resetRenderer()
	return t
}

// Render implements widget.Listener. Messages are append-only, so the
// content is rebuilt only when new ones arrive.
func (t *transcript) Render(s widget.State) {
	if len(s.Messages) == len(t.messages) {
		return
	}
	t.messages = s.Messages
	t.refresh()
}

// ScrollToEnd implements widget.Scroller.
func (t *transcript) ScrollToEnd() {
	t.viewport.GotoBottom()
}

func (t *transcript) resize(width, height int) {
	t.viewport.Width = max(width, 1)
	t.viewport.Height = max(height, 1)
	t.resetRenderer()
	t.refresh()
}

func (t *transcript) resetRenderer() {
	if !t.markdown {
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(t.viewport.Width-2, 20)),
	)
	if err != nil {
		t.renderer = nil
		return
	}
	t.renderer = r
}

func (t *transcript) refresh() {
	t.viewport.SetContent(t.content())
}

func (t *transcript) content() string {
	var sb strings.Builder
	width := max(t.viewport.Width, 1)

	for i, msg := range t.messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		if !msg.IsBot {
			sb.WriteString(t.styles.user.Render("You") + "\n")
			sb.WriteString(t.styles.text.Width(width).Render(msg.Text) + "\n")
			continue
		}

		sb.WriteString(t.styles.bot.Render("Bot") + "\n")
		if strings.HasPrefix(msg.Text, chat.ErrorPrefix) {
			sb.WriteString(t.styles.errText.Width(width).Render(msg.Text) + "\n")
			continue
		}
		sb.WriteString(t.renderBot(msg.Text, width) + "\n")
	}
	return sb.String()
}

// renderBot falls back to plain text when glamour fails or panics.
func (t *transcript) renderBot(text string, width int) (out string) {
	plain := t.styles.text.Width(width).Render(text)
	if t.renderer == nil || text == "" {
		return plain
	}

	defer func() {
		if r := recover(); r != nil {
			out = plain
		}
	}()

	rendered, err := t.renderer.Render(text)
	if err != nil {
		return plain
	}
	return strings.Trim(rendered, "\n")
}

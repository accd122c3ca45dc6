// Package tui renders the chat widget in the terminal with bubbletea.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-chat/backend/internal/widget"
)

const (
	headerHeight = 1
	inputHeight  = 3
	footerHeight = 1
)

// Options configures the terminal UI.
type Options struct {
	// Markdown renders bot replies with glamour.
	Markdown bool
	Logger   *zap.Logger
	Title    string
}

type (
	responseMsg struct{ result widget.Result }
	finishMsg   struct{}
)

// Model is the bubbletea model driving a widget.Widget.
type Model struct {
	ctx     context.Context
	backend widget.Backend

	widget  *widget.Widget
	view    *transcript
	input   textinput.Model
	spinner spinner.Model
	styles  styles
	title   string

	greeting *widget.Request
	width    int
	height   int
}

// New builds the model and locks the input for the greeting, which is
// requested by Init.
func New(ctx context.Context, backend widget.Backend, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	title := opts.Title
	if title == "" {
		title = "z-chat"
	}

	st := defaultStyles()
	view := newTranscript(st, opts.Markdown)

	w := widget.New(widget.WithScroller(view), widget.WithLogger(logger))
	w.Subscribe(view.Render)

	ti := textinput.New()
	ti.Placeholder = "Type a message... (/help for commands)"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 76

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.spinner

	m := Model{
		ctx:     ctx,
		backend: backend,
		widget:  w,
		view:    view,
		input:   ti,
		spinner: sp,
		styles:  st,
		title:   title,
	}
	if req, ok := w.Start(); ok {
		m.greeting = &req
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.greeting != nil {
		cmds = append(cmds, m.send(*m.greeting), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.resize(msg.Width, msg.Height-headerHeight-inputHeight-footerHeight)
		m.input.Width = max(msg.Width-6, 10)
		return m, nil

	case responseMsg:
		m.widget.Resolve(msg.result)
		// Finish on the next tick, once the reply has been drawn.
		return m, func() tea.Msg { return finishMsg{} }

	case finishMsg:
		m.widget.Finish()
		return m, m.input.Focus()

	case spinner.TickMsg:
		if !m.locked() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.view.viewport, cmd = m.view.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.view.viewport, cmd = m.view.viewport.Update(msg)
		return m, cmd

	case "enter":
		m.widget.SetInput(m.input.Value())
		req, ok := m.widget.SendMessage()
		if !ok {
			return m, nil
		}
		m.input.Reset()
		m.input.Blur()
		return m, tea.Batch(m.send(req), m.spinner.Tick)
	}

	if m.locked() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.widget.SetInput(m.input.Value())
	return m, cmd
}

func (m Model) View() string {
	header := m.styles.title.Render(m.title)

	inputStyle := m.styles.input
	footer := m.styles.hint.Render("enter send • pgup/pgdown scroll • esc quit")
	if m.locked() {
		inputStyle = m.styles.inputOff
		footer = m.styles.hint.Render(m.spinner.View() + " waiting for reply...")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.view.viewport.View(),
		inputStyle.Render(m.input.View()),
		footer,
	)
}

func (m Model) locked() bool {
	return m.widget.State().InputLocked
}

// send runs req off the UI goroutine.
func (m Model) send(req widget.Request) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		return responseMsg{result: req.Do(ctx, backend)}
	}
}

// Package tui is the terminal rendition of the assistant widget.
package tui

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the subset of controller.Controller the widget drives.
type Controller interface {
	TriggerVoiceCapture(ctx context.Context) error
	SubmitTextCommand(ctx context.Context, command string) error
}

type keyMap struct {
	Submit key.Binding
	Voice  key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Voice:  key.NewBinding(key.WithKeys("ctrl+t", "f2"), key.WithHelp("ctrl+t", "speak")),
	Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

type refreshMsg struct{}

type voiceDoneMsg struct {
	err error
}

var (
	avatarFrames = []string{"◐", "◓", "◑", "◒"}
	soundWaves   = "▁▃▅▇▅▃▁"
)

// Model is the bubbletea model. Widget state lives in the Surface so the controller can
// paint from any goroutine.
type Model struct {
	ctx       context.Context
	ctl       Controller
	surface   *Surface
	input     textinput.Model
	styles    styles
	title     string
	lastClear uint64
	width     int
}

// NewModel wires ctl and surface into a focused widget.
func NewModel(ctx context.Context, ctl Controller, surface *Surface, title string) Model {
	in := textinput.New()
	in.Placeholder = "Type a command (e.g. what time is it)..."
	in.CharLimit = 0 // unlimited
	in.Width = 50
	in.Prompt = "» "
	in.Focus()

	return Model{
		ctx:       ctx,
		ctl:       ctl,
		surface:   surface,
		input:     in,
		styles:    defaultStyles(),
		title:     title,
		lastClear: surface.snapshot().clearSeq,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForNudge())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(10, msg.Width-8)
		return m, nil

	case refreshMsg:
		m.syncInput()
		return m, m.waitForNudge()

	case voiceDoneMsg:
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Voice):
			return m, m.voiceCmd()
		case key.Matches(msg, keys.Submit):
			_ = m.ctl.SubmitTextCommand(m.ctx, m.input.Value())
			m.syncInput()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	snap := m.surface.snapshot()
	st := m.styles

	status := st.dotReady.Render("●") + " " + st.statusText.Render("Ready")
	if snap.listening {
		status = st.dotListening.Render("●") + " " + st.statusText.Render("Listening")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		st.avatar(snap.listening).Render(avatarFrame(snap.rotation)),
		" ",
		st.title.Render(m.title),
		"  ",
		status,
	)

	button := st.button.Render("🎙 " + keys.Voice.Help().Key + "  Click to Speak")
	if snap.listening {
		button = st.buttonListening.Render("◌ Listening...") + " " + st.waves.Render(soundWaves)
	}

	box := st.responseBox
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}
	lines := make([]string, 0, len(snap.view.Lines))
	for _, l := range snap.view.Lines {
		lines = append(lines, st.line(l.Class).Render(l.Text))
	}
	if len(lines) == 0 {
		lines = append(lines, " ")
	}

	help := st.help.Render(strings.Join([]string{
		helpEntry(keys.Submit), helpEntry(keys.Voice), helpEntry(keys.Quit),
	}, " • "))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		button,
		box.Render(strings.Join(lines, "\n")),
		m.input.View(),
		help,
	) + "\n"
}

func (m *Model) syncInput() {
	if seq := m.surface.snapshot().clearSeq; seq != m.lastClear {
		m.lastClear = seq
		m.input.Reset()
	}
}

func (m Model) waitForNudge() tea.Cmd {
	ctx, nudge := m.ctx, m.surface.nudge
	return func() tea.Msg {
		select {
		case <-nudge:
			return refreshMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) voiceCmd() tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		return voiceDoneMsg{err: ctl.TriggerVoiceCapture(ctx)}
	}
}

func avatarFrame(deg float64) string {
	i := int(math.Mod(deg, 360) / 90)
	if i < 0 {
		i = 0
	}
	return avatarFrames[i%len(avatarFrames)]
}

func helpEntry(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}

// Run starts the widget and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctl Controller, surface *Surface, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, ctl, surface, "Chanakya"), opts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

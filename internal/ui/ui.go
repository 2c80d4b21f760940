package ui

import (
	"context"
	"errors"
	"fmt"

	"spotlike/internal/formatter"
	"spotlike/internal/services"
	"spotlike/internal/shared"
	"spotlike/internal/tasks"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the now-playing view state.
type Model struct {
	ctx     context.Context
	engine  *tasks.ActionEngine
	updates <-chan tasks.NowPlayingUpdate
	current *services.Track
	busy    bool
	action  string
	spin    spinner.Model
	last    *tasks.ActionResult
	err     error
	help    help.Model
	keys    keyMap
}

type nowPlayingMsg struct {
	track *services.Track
	err   error
}

type actionDoneMsg struct {
	result *tasks.ActionResult
	err    error
}

type pollerClosedMsg struct{}

// NewModel creates a now-playing model fed by the poller's update channel.
func NewModel(ctx context.Context, engine *tasks.ActionEngine, updates <-chan tasks.NowPlayingUpdate) *Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.warn))
	return &Model{
		ctx:     ctx,
		engine:  engine,
		updates: updates,
		spin:    sp,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts listening for now-playing updates.
func (m *Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeys(msg)

	case nowPlayingMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.current = msg.track
		}
		return m, m.waitForUpdate()

	case actionDoneMsg:
		m.busy = false
		m.action = ""
		m.last = msg.result
		m.err = msg.err
		return m, nil

	case pollerClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the now-playing line, any in-flight action, and key help.
func (m *Model) View() string {
	title := styles.title.Render("spotlike")

	var body string
	if m.current != nil {
		body = formatter.FormatTrack(m.current)
	} else {
		body = styles.help.Render("Nothing playing")
	}

	var status string
	switch {
	case m.busy:
		status = fmt.Sprintf("%s %s…", m.spin.View(), m.action)
	case m.err != nil:
		status = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.last != nil:
		line := fmt.Sprintf("%s %q: %s", m.last.Action, m.last.Track.Name, formatter.FormatOutcome(m.last.Outcome))
		if m.last.Outcome.Converged {
			status = styles.ok.Render(line)
		} else {
			status = styles.warn.Render(line)
		}
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	if status == "" {
		return fmt.Sprintf("%s\n%s\n\n%s\n", title, body, helpView)
	}
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n", title, body, status, helpView)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.like):
		return m, m.dispatch(tasks.ActionLike)
	case key.Matches(msg, m.keys.unlike):
		return m, m.dispatch(tasks.ActionUnlike)
	case key.Matches(msg, m.keys.save):
		return m, m.dispatch(tasks.ActionSave)
	case key.Matches(msg, m.keys.refresh):
		return m, m.refresh()
	}
	return m, nil
}

// dispatch runs a library action off the UI loop and reports the result.
func (m *Model) dispatch(action string) tea.Cmd {
	m.busy = true
	m.action = action
	m.last = nil
	m.err = nil

	run := func() tea.Msg {
		var result *tasks.ActionResult
		var err error
		switch action {
		case tasks.ActionUnlike:
			result, err = m.engine.UnlikeCurrent(m.ctx)
		case tasks.ActionSave:
			result, err = m.engine.SaveCurrent(m.ctx)
		default:
			result, err = m.engine.LikeCurrent(m.ctx)
		}
		return actionDoneMsg{result: result, err: err}
	}
	return tea.Batch(m.spin.Tick, run)
}

func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		track, err := m.engine.CurrentTrack(m.ctx)
		if errors.Is(err, shared.ErrNoCurrentTrack) {
			return nowPlayingMsg{track: nil, err: nil}
		}
		return nowPlayingMsg{track: track, err: err}
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return pollerClosedMsg{}
		case update, ok := <-m.updates:
			if !ok {
				return pollerClosedMsg{}
			}
			return nowPlayingMsg{track: update.Track, err: update.Err}
		}
	}
}

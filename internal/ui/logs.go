package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stormctl/internal/logtail"
)

type logsMsg struct {
	lines []string
	err   error
}

// initLogViewport creates the log viewport sized to the terminal.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 0), max(m.height-4, 0))
}

// resizeLogViewport keeps the viewport inside the log box.
// Box height is m.height-2 (header, command bar); inner is two rows less.
func (m *Model) resizeLogViewport() {
	m.logViewport.Width = max(m.width-4, 0)
	m.logViewport.Height = max(m.height-4, 0)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
}

// refreshLogs reads the tail of the client log file.
func (m Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLimit)
		return logsMsg{lines: lines, err: err}
	}
}

// handleLogs stores fetched lines and re-renders the viewport, following
// the tail when the view was already at the bottom.
func (m *Model) handleLogs(msg logsMsg) {
	m.logErr = msg.err
	if msg.err != nil {
		return
	}
	follow := m.logViewport.AtBottom() || len(m.logLines) == 0
	m.logLines = msg.lines
	m.logViewport.SetContent(m.renderLogContent())
	if follow {
		m.logViewport.GotoBottom()
	}
}

// handleLogsKey scrolls the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.LineUp(1)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfViewDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfViewUp()
	}
	return m, nil
}

// renderLogContent colors each decoded log line by level.
func (m Model) renderLogContent() string {
	if len(m.logLines) == 0 {
		return m.theme.Styles().MutedText.Render("Log is empty")
	}
	var b strings.Builder
	for i, line := range m.logLines {
		if i > 0 {
			b.WriteString("\n")
		}
		entry := logtail.Parse(line)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.LevelColor(entry.Level)))
		if entry.Raw != "" {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Text))
		}
		b.WriteString(style.Render(entry.String()))
	}
	return b.String()
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Client log " + truncateMiddle(m.logPath, 60)
	contentHeight := m.height - 2

	var content string
	switch {
	case m.logPath == "":
		content = m.theme.Styles().MutedText.Render("Logging to a file is disabled")
	case m.logErr != nil:
		content = m.theme.Styles().DangerText.Render(fmt.Sprintf("read log: %v", m.logErr))
	default:
		content = m.logViewport.View()
	}
	return m.renderTitledBox(title, content, m.width, contentHeight, true)
}

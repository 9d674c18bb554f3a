package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stormctl/scrapestorm"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.HasTasks {
		return m.renderConnectingHeader(styles, bg)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the state before the first successful poll.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)
	endpoint := truncateMiddle(m.endpoint, 40)

	if m.snapshot.LastError != nil {
		parts := []string{
			bg.Render("stormctl", styles.Logo),
			bg.Render(endpoint, styles.MutedText),
			bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true)),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		}
		if ts := formatTimestamp(m.snapshot.LastUpdated, time.Now()); ts != "" {
			parts = append(parts, bg.Render(ts, styles.MutedText))
		}
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	return styles.Header.Width(m.width).Render(
		bg.Render("stormctl", styles.Logo) + sep +
			bg.Render("Connecting to "+endpoint+"...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar once tasks have been loaded.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("stormctl", styles.Logo)}

	if !compact && m.endpoint != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.endpoint, 40), styles.MutedText))
	}

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else {
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	flowchart, smart := countTypes(m.snapshot.Tasks)
	parts = append(parts,
		bg.Render("Tasks:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Tasks)), styles.Text))
	if !compact {
		parts = append(parts,
			bg.Render("Flowchart:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", flowchart), styles.Text)+bg.Spaces(2)+
				bg.Render("Smart:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", smart), styles.Text))
	}

	if running := len(m.inFlight); running > 0 {
		parts = append(parts,
			bg.Render("Pending:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", running), styles.InfoText))
	}

	if ts := formatTimestamp(m.snapshot.LastUpdated, time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snapshot.LastError != nil {
		maxErr := 80
		if compact {
			maxErr = 40
		}
		parts = append(parts,
			bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), maxErr), styles.DangerText))
	}

	return bg.Join(parts, "  ")
}

func countTypes(tasks []scrapestorm.Task) (flowchart, smart int) {
	for _, task := range tasks {
		switch task.Type {
		case scrapestorm.TaskTypeFlowchart:
			flowchart++
		case scrapestorm.TaskTypeSmart:
			smart++
		}
	}
	return
}

// formatTimestamp formats ts with a relative age measured from now.
func formatTimestamp(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}

	age := now.Sub(ts)
	out := ts.Format("15:04:05")
	switch {
	case age < time.Minute:
		out += " (now)"
	case age < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(age.Minutes()))
	case age < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(age.Hours()))
	}
	return out
}

// classifyConnectionError returns a short label for a poll error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}

	var transport *scrapestorm.TransportError
	if errors.As(err, &transport) && transport.Timeout() {
		return "TIMEOUT"
	}
	var protocol *scrapestorm.ProtocolError
	if errors.As(err, &protocol) {
		if protocol.StatusCode != 0 {
			return fmt.Sprintf("HTTP %d", protocol.StatusCode)
		}
		return "BAD RESPONSE"
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"r", "Reload"},
			{"q", "Tasks"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"f", m.filter.Label()},
			{"j/k", "Navigate"},
			{"enter", "Status"},
			{"s", "Start"},
			{"x", "Stop"},
			{"c", "Clear"},
			{"r", "Refresh"},
			{"l", "Log"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

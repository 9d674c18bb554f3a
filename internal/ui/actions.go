package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stormctl/internal/state"
	"github.com/five82/stormctl/scrapestorm"
)

type actionResultMsg struct {
	state.ActionResult
}

// requestAction issues action against the selected task.
func (m Model) requestAction(action scrapestorm.Action) (tea.Model, tea.Cmd) {
	task := m.selectedTask()
	if task == nil {
		return m, nil
	}
	return m.dispatchAction(task.TaskID, action)
}

// dispatchAction starts action for taskID unless one is already running for it.
func (m Model) dispatchAction(taskID int64, action scrapestorm.Action) (tea.Model, tea.Cmd) {
	if m.api == nil {
		return m, nil
	}
	if _, busy := m.inFlight[taskID]; busy {
		return m, nil
	}
	inFlight := make(map[int64]scrapestorm.Action, len(m.inFlight)+1)
	for id, a := range m.inFlight {
		inFlight[id] = a
	}
	inFlight[taskID] = action
	m.inFlight = inFlight
	return m, runActionCmd(m.ctx, m.api, m.store, m.actionTimeout, taskID, action)
}

// runActionCmd calls the API off the UI goroutine and records the outcome in store.
func runActionCmd(ctx context.Context, api scrapestorm.API, store *state.Store, timeout time.Duration, taskID int64, action scrapestorm.Action) tea.Cmd {
	return func() tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := invokeAction(callCtx, scrapestorm.NewTaskRef(api, taskID), action)
		result := state.ActionResult{
			TaskID:   taskID,
			Action:   action,
			Response: resp,
			Err:      err,
			At:       time.Now(),
		}
		if store != nil {
			store.RecordAction(result)
		}
		return actionResultMsg{result}
	}
}

func invokeAction(ctx context.Context, ref scrapestorm.TaskRef, action scrapestorm.Action) (*scrapestorm.APIResponse, error) {
	switch action {
	case scrapestorm.ActionStart:
		return ref.Start(ctx)
	case scrapestorm.ActionStop:
		return ref.Stop(ctx)
	case scrapestorm.ActionStatus:
		return ref.Status(ctx)
	case scrapestorm.ActionDataClear:
		return ref.ClearData(ctx)
	default:
		return nil, fmt.Errorf("action %q is not available from the dashboard", action)
	}
}

// renderConfirm renders the confirmation modal for destructive actions.
func (m Model) renderConfirm() string {
	styles := m.theme.Styles()
	p := m.confirm

	body := styles.WarningText.Bold(true).Render(actionLabel(p.action)) + "\n\n" +
		styles.Text.Render(fmt.Sprintf("Task #%d %s", p.taskID, p.name)) + "\n\n" +
		styles.AccentText.Render("y") + styles.MutedText.Render(" confirm  ") +
		styles.AccentText.Render("any key") + styles.MutedText.Render(" cancel")

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(1, 2).
		Width(44)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(body),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// actionLabel returns a human label for an action.
func actionLabel(action scrapestorm.Action) string {
	switch action {
	case scrapestorm.ActionStart:
		return "Start"
	case scrapestorm.ActionStop:
		return "Stop"
	case scrapestorm.ActionStatus:
		return "Status"
	case scrapestorm.ActionDataClear:
		return "Clear data"
	case scrapestorm.ActionDelete:
		return "Delete"
	case scrapestorm.ActionCopy:
		return "Copy"
	case scrapestorm.ActionList:
		return "List"
	default:
		return string(action)
	}
}

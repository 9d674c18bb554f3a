package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stormctl/internal/state"
	"github.com/five82/stormctl/scrapestorm"
)

// TypeFilter restricts the task table to one task type.
type TypeFilter int

const (
	FilterAll TypeFilter = iota
	FilterFlowchart
	FilterSmart
)

// ParseTypeFilter maps a stored preference value to a TypeFilter.
// Unknown values select FilterAll.
func ParseTypeFilter(s string) TypeFilter {
	switch scrapestorm.TaskType(strings.ToLower(strings.TrimSpace(s))) {
	case scrapestorm.TaskTypeFlowchart:
		return FilterFlowchart
	case scrapestorm.TaskTypeSmart:
		return FilterSmart
	default:
		return FilterAll
	}
}

// Next returns the following filter in the cycle.
func (f TypeFilter) Next() TypeFilter {
	switch f {
	case FilterAll:
		return FilterFlowchart
	case FilterFlowchart:
		return FilterSmart
	default:
		return FilterAll
	}
}

// Label returns the display label for the filter.
func (f TypeFilter) Label() string {
	switch f {
	case FilterFlowchart:
		return "Flowchart"
	case FilterSmart:
		return "Smart"
	default:
		return "All"
	}
}

// PrefValue returns the value persisted in prefs.
func (f TypeFilter) PrefValue() string {
	switch f {
	case FilterFlowchart:
		return string(scrapestorm.TaskTypeFlowchart)
	case FilterSmart:
		return string(scrapestorm.TaskTypeSmart)
	default:
		return ""
	}
}

func (f TypeFilter) matches(t scrapestorm.TaskType) bool {
	switch f {
	case FilterFlowchart:
		return t == scrapestorm.TaskTypeFlowchart
	case FilterSmart:
		return t == scrapestorm.TaskTypeSmart
	default:
		return true
	}
}

// visibleTasks returns the filtered tasks ordered by id.
func (m Model) visibleTasks() []scrapestorm.Task {
	tasks := make([]scrapestorm.Task, 0, len(m.snapshot.Tasks))
	for _, task := range m.snapshot.Tasks {
		if m.filter.matches(task.Type) {
			tasks = append(tasks, task)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].TaskID < tasks[j].TaskID
	})
	return tasks
}

// selectedTask returns the highlighted task, or nil when the table is empty.
func (m Model) selectedTask() *scrapestorm.Task {
	tasks := m.visibleTasks()
	if m.selectedRow < 0 || m.selectedRow >= len(tasks) {
		return nil
	}
	task := tasks[m.selectedRow]
	return &task
}

// statusLabel summarizes what the dashboard knows about a task's state.
func (m Model) statusLabel(taskID int64) string {
	if action, ok := m.inFlight[taskID]; ok {
		return strings.ToLower(actionLabel(action)) + "..."
	}
	st, ok := m.snapshot.Status(taskID)
	if !ok {
		return "-"
	}
	if st.Err != nil {
		return "error"
	}
	if text := st.Response.StatusText(); text != "" {
		return text
	}
	if st.Response.Msg != "" {
		return st.Response.Msg
	}
	return "-"
}

// renderTasks renders the split task table and detail pane.
func (m Model) renderTasks() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2

	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		msg := "No tasks"
		if len(m.snapshot.Tasks) > 0 {
			msg = fmt.Sprintf("No %s tasks", strings.ToLower(m.filter.Label()))
		}
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(msg))
	}

	tableWidth := m.width * 45 / 100
	if m.width >= LayoutExtraWideWidth {
		tableWidth = m.width * 30 / 100
	}
	detailWidth := m.width - tableWidth

	title := fmt.Sprintf("Tasks (%s %d/%d)", m.filter.Label(), len(tasks), len(m.snapshot.Tasks))
	table := m.renderTitledBox(title, m.renderTaskTable(tasks, tableWidth-2, contentHeight-2), tableWidth, contentHeight, true)

	var detail string
	if task := m.selectedTask(); task != nil {
		detail = m.renderTaskDetail(*task, detailWidth-4)
	}
	detailPane := m.renderTitledBox("Details", detail, detailWidth, contentHeight, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, table, detailPane)
}

// renderTaskTable renders the visible window of rows around the selection.
func (m Model) renderTaskTable(tasks []scrapestorm.Task, width, height int) string {
	start := 0
	if height > 0 && m.selectedRow >= height {
		start = m.selectedRow - height + 1
	}
	end := len(tasks)
	if height > 0 && end > start+height {
		end = start + height
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		bgColor := m.theme.FocusBg
		selected := i == m.selectedRow
		if selected {
			bgColor = m.theme.SelectionBg
		}
		content := m.formatTaskRow(tasks[i], width, bgColor, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(bgColor)).
			Width(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// formatTaskRow formats one row as "#ID Name · type status".
func (m Model) formatTaskRow(task scrapestorm.Task, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)

	idStr := fmt.Sprintf("#%d", task.TaskID)
	typeStr := string(task.Type)
	status := m.statusLabel(task.TaskID)
	nameWidth := max(width-len(idStr)-len(typeStr)-len(status)-6, 8)

	var idStyle, nameStyle, sepStyle, typeStyle, statusStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, nameStyle, sepStyle, typeStyle, statusStyle = selText, selText, selText, selText, selText
	} else {
		styles := m.theme.Styles()
		idStyle = styles.MutedText
		nameStyle = styles.Text
		sepStyle = styles.FaintText
		typeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.TypeColor(task.Type)))
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(status)))
	}

	return bg.Render(idStr, idStyle) + bg.Space() +
		bg.Render(truncate(task.Name, nameWidth), nameStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(typeStr, typeStyle) + bg.Space() +
		bg.Render(status, statusStyle)
}

// renderTaskDetail renders every known field of task plus the last action.
func (m Model) renderTaskDetail(task scrapestorm.Task, width int) string {
	styles := m.theme.Styles()
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted)).Width(10)

	row := func(name, value string, style lipgloss.Style) string {
		return label.Render(name) + style.Render(truncate(value, max(width-10, 0)))
	}

	created := "-"
	if ts := task.CreatedAt(); !ts.IsZero() {
		created = ts.Local().Format(time.DateTime)
	}

	lines := []string{
		styles.Text.Bold(true).Render(truncate(task.Name, width)),
		"",
		row("ID", fmt.Sprintf("%d", task.TaskID), styles.Text),
		row("Type", string(task.Type), lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.TypeColor(task.Type)))),
		row("Created", created, styles.Text),
	}

	status := m.statusLabel(task.TaskID)
	lines = append(lines, row("Status", status, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(status)))))
	if st, ok := m.snapshot.Status(task.TaskID); ok {
		if st.Err != nil {
			lines = append(lines, row("Error", st.Err.Error(), styles.DangerText))
		} else {
			lines = append(lines, row("Code", fmt.Sprintf("%d", st.Response.Code), styles.Text))
			if st.Response.Msg != "" {
				lines = append(lines, row("Message", st.Response.Msg, styles.Text))
			}
		}
		if !st.CheckedAt.IsZero() {
			lines = append(lines, row("Checked", st.CheckedAt.Format("15:04:05"), styles.FaintText))
		}
	}

	if last := m.snapshot.LastAction; last != nil && last.TaskID == task.TaskID {
		lines = append(lines, "", styles.AccentText.Bold(true).Render("Last action"))
		lines = append(lines, formatActionResult(*last, width, styles)...)
	}

	return strings.Join(lines, "\n")
}

// formatActionResult renders an action outcome as detail lines.
func formatActionResult(result state.ActionResult, width int, styles Styles) []string {
	head := fmt.Sprintf("%s at %s", actionLabel(result.Action), result.At.Format("15:04:05"))
	if result.Err != nil {
		return []string{
			styles.DangerText.Render(truncate(head+" failed", width)),
			styles.DangerText.Render(truncate(result.Err.Error(), width)),
		}
	}
	lines := []string{styles.SuccessText.Render(truncate(head, width))}
	if result.Response != nil {
		detail := fmt.Sprintf("code=%d", result.Response.Code)
		if result.Response.Msg != "" {
			detail += " msg=" + result.Response.Msg
		}
		if status := result.Response.StatusText(); status != "" {
			detail += " status=" + status
		}
		lines = append(lines, styles.Text.Render(truncate(detail, width)))
	}
	return lines
}

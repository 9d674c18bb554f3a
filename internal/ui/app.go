package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stormctl/internal/prefs"
	"github.com/five82/stormctl/internal/state"
	"github.com/five82/stormctl/scrapestorm"
)

// View represents the current active view.
type View int

const (
	ViewTasks View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context context.Context
	API     scrapestorm.API
	Store   *state.Store
	// Refresh asks the poller for an immediate refresh. Optional.
	Refresh       func()
	Endpoint      string
	LogPath       string
	PollTick      time.Duration
	ActionTimeout time.Duration
	ThemeName     string
	TypeFilter    string
	PrefsPath     string
}

// pendingAction is an action waiting for operator confirmation.
type pendingAction struct {
	taskID int64
	name   string
	action scrapestorm.Action
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx           context.Context
	api           scrapestorm.API
	store         *state.Store
	refresh       func()
	endpoint      string
	logPath       string
	prefsPath     string
	pollTick      time.Duration
	actionTimeout time.Duration
	keys          keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	confirm     *pendingAction
	inFlight    map[int64]scrapestorm.Action

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Task table state
	selectedRow int
	filter      TypeFilter

	// Log state
	logViewport viewport.Model
	logLines    []string
	logErr      error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	actionTimeout := opts.ActionTimeout
	if actionTimeout <= 0 {
		actionTimeout = DefaultActionTimeout
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:           ctx,
		api:           opts.API,
		store:         opts.Store,
		refresh:       opts.Refresh,
		endpoint:      opts.Endpoint,
		logPath:       opts.LogPath,
		prefsPath:     prefsPath,
		pollTick:      pollTick,
		actionTimeout: actionTimeout,
		keys:          DefaultKeyMap(),
		theme:         GetTheme(themeName),
		currentView:   ViewTasks,
		inFlight:      make(map[int64]scrapestorm.Action),
		filter:        ParseTypeFilter(opts.TypeFilter),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.resizeLogViewport()
		m.clampSelection()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case actionResultMsg:
		delete(m.inFlight, msg.TaskID)
		if m.refresh != nil {
			m.refresh()
		}
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		m.snapshot.LastAction = &msg.ActionResult
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.confirm != nil {
		return m.renderConfirm()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.confirm != nil {
		pending := *m.confirm
		m.confirm = nil
		if key.Matches(msg, m.keys.Confirm) {
			return m.dispatchAction(pending.taskID, pending.action)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refresh != nil {
			m.refresh()
		}
		if m.currentView == ViewLogs {
			return m, m.refreshLogs()
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewTasks), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewTasks
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, m.refreshLogs()
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleTasksKey(msg)
	}
}

// handleTasksKey processes keyboard input for the task table.
func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.CycleFilter) {
		m.filter = m.filter.Next()
		m.selectedRow = 0
		m.savePrefs()
		return m, nil
	}

	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(tasks)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(tasks) - 1
	case key.Matches(msg, m.keys.Start):
		return m.requestAction(scrapestorm.ActionStart)
	case key.Matches(msg, m.keys.Stop):
		return m.requestAction(scrapestorm.ActionStop)
	case key.Matches(msg, m.keys.Status):
		return m.requestAction(scrapestorm.ActionStatus)
	case key.Matches(msg, m.keys.Clear):
		if task := m.selectedTask(); task != nil {
			m.confirm = &pendingAction{taskID: task.TaskID, name: task.Name, action: scrapestorm.ActionDataClear}
		}
	}
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// applySnapshot stores a new snapshot, keeping the selection on the same task.
func (m *Model) applySnapshot(snap state.Snapshot) {
	var selectedID int64
	if task := m.selectedTask(); task != nil {
		selectedID = task.TaskID
	}
	m.snapshot = snap
	m.lastUpdated = time.Now()

	if selectedID > 0 {
		for i, task := range m.visibleTasks() {
			if task.TaskID == selectedID {
				m.selectedRow = i
				return
			}
		}
	}
	m.clampSelection()
}

func (m *Model) clampSelection() {
	n := len(m.visibleTasks())
	if m.selectedRow >= n {
		m.selectedRow = n - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, TypeFilter: m.filter.PrefValue()})
}

// renderMain renders the header, command bar and active view.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderTasks())
	}
	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx ends.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}

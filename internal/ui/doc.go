// Package ui implements the stormctl dashboard on Bubble Tea.
//
// The dashboard never calls the API on the render path. A background poller
// fills a state.Store; the Model pulls a Snapshot from it on every tick and
// renders a header, a command bar and the active view:
//
//   - Tasks: a table of tasks (filtered by type) beside a detail pane that
//     shows every task field, the last status reply and the last action.
//   - Client log: the tail of stormctl's own JSON log file.
//
// Operator actions (start, stop, status, clear) run as tea.Cmds with their
// own timeout, record their outcome in the store and ask the poller for an
// immediate refresh. Clearing data requires confirmation. At most one action
// per task is in flight.
//
// Theme and type filter changes are persisted through the prefs package.
package ui

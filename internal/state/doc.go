// Package state provides thread-safe state management for the dashboard.
//
// The poller writes and the UI reads:
//
//	Producer (Poller):             Consumer (UI):
//	┌────────────────┐            ┌─────────────────┐
//	│ ListTasks()    │            │                 │
//	│ TaskStatus()×N │            │                 │
//	│      ↓         │            │                 │
//	│ store.Update() │───────────→│ store.Snapshot()│
//	└────────────────┘  (mutex)   └─────────────────┘
//
// Update semantics:
//
//	store.Update(tasks, statuses, nil)  // replace tasks and statuses
//	store.Update(nil, nil, err)         // keep old data, record err, count failure
//
// Operator actions (start, stop, clear) are recorded separately with
// RecordAction so the detail pane can show the server's reply.
//
// Snapshot deep-copies slices, maps and the status pointers, so a snapshot
// can be read freely after the lock is released. The zero Store is ready to use.
package state

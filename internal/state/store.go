package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/stormctl/scrapestorm"
)

// TaskStatus is the last status reply for one task.
type TaskStatus struct {
	Response  scrapestorm.APIResponse
	Err       error
	CheckedAt time.Time
}

// ActionResult records the outcome of an operator action on a task.
type ActionResult struct {
	TaskID   int64
	Action   scrapestorm.Action
	Response *scrapestorm.APIResponse
	Err      error
	At       time.Time
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Tasks               []scrapestorm.Task
	HasTasks            bool
	Statuses            map[int64]TaskStatus
	LastAction          *ActionResult
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Status returns the stored status for taskID.
func (s Snapshot) Status(taskID int64) (TaskStatus, bool) {
	st, ok := s.Statuses[taskID]
	return st, ok
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored task list and statuses. When err is non-nil the
// previous data is kept but the error is recorded for visibility.
func (s *Store) Update(tasks []scrapestorm.Task, statuses map[int64]TaskStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Tasks = cloneTasks(tasks)
	s.snapshot.HasTasks = true
	s.snapshot.Statuses = cloneStatuses(statuses)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// RecordAction stores the result of an operator action. A successful status
// reply also refreshes that task's entry in Statuses.
func (s *Store) RecordAction(result ActionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.At.IsZero() {
		result.At = time.Now()
	}
	if result.Response != nil {
		resp := cloneResponse(*result.Response)
		result.Response = &resp
		if result.Err == nil && result.Action == scrapestorm.ActionStatus {
			if s.snapshot.Statuses == nil {
				s.snapshot.Statuses = make(map[int64]TaskStatus)
			}
			s.snapshot.Statuses[result.TaskID] = TaskStatus{Response: resp, CheckedAt: result.At}
		}
	}
	s.snapshot.LastAction = &result
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Tasks = cloneTasks(s.snapshot.Tasks)
	snap.Statuses = cloneStatuses(s.snapshot.Statuses)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	if s.snapshot.LastAction != nil {
		action := *s.snapshot.LastAction
		if action.Response != nil {
			resp := cloneResponse(*action.Response)
			action.Response = &resp
		}
		snap.LastAction = &action
	}
	return snap
}

func cloneTasks(tasks []scrapestorm.Task) []scrapestorm.Task {
	if len(tasks) == 0 {
		return nil
	}
	dup := make([]scrapestorm.Task, len(tasks))
	copy(dup, tasks)
	return dup
}

func cloneStatuses(statuses map[int64]TaskStatus) map[int64]TaskStatus {
	if len(statuses) == 0 {
		return nil
	}
	dup := make(map[int64]TaskStatus, len(statuses))
	for id, st := range statuses {
		st.Response = cloneResponse(st.Response)
		dup[id] = st
	}
	return dup
}

func cloneResponse(resp scrapestorm.APIResponse) scrapestorm.APIResponse {
	resp.List = cloneTasks(resp.List)
	if resp.Status != nil {
		status := *resp.Status
		resp.Status = &status
	}
	return resp
}

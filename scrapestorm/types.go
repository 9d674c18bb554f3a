package scrapestorm

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// TaskType is the editor mode a task was built with.
type TaskType string

const (
	TaskTypeFlowchart TaskType = "flowchart"
	TaskTypeSmart     TaskType = "smart"
)

// Valid reports whether t is one of the types the server emits.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeFlowchart, TaskTypeSmart:
		return true
	}
	return false
}

// UnmarshalJSON rejects task types outside the closed server enum.
func (t *TaskType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("task type: %w", err)
	}
	tt := TaskType(raw)
	if !tt.Valid() {
		return fmt.Errorf("unknown task type %q", raw)
	}
	*t = tt
	return nil
}

// Task mirrors a single entry of the list payload.
type Task struct {
	Name       string   `json:"name"`
	TimeCreate float64  `json:"time_create"`
	TaskID     int64    `json:"task_id"`
	Type       TaskType `json:"type"`
}

// CreatedAt converts TimeCreate (epoch seconds, possibly fractional).
func (t Task) CreatedAt() time.Time {
	if t.TimeCreate <= 0 {
		return time.Time{}
	}
	sec, frac := math.Modf(t.TimeCreate)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

// APIResponse is the envelope returned by every ScrapeStorm endpoint. Code,
// Msg and Status are passed through untouched.
type APIResponse struct {
	Code   int     `json:"code"`
	List   []Task  `json:"list,omitempty"`
	Msg    string  `json:"msg"`
	Status *string `json:"status"`
}

// StatusText returns Status, or "" when the server sent null or omitted it.
func (r APIResponse) StatusText() string {
	if r.Status == nil {
		return ""
	}
	return *r.Status
}

// CopyOptions configures CopyTask.
type CopyOptions struct {
	// Name of the copy. Empty lets the server pick "<original>-copy".
	Name string
	// TranslateChart switches the copy to flowchart (advanced) mode.
	TranslateChart bool
}

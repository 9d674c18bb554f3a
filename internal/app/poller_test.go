package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/stormctl/internal/state"
	"github.com/five82/stormctl/scrapestorm"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

// fakeAPI is an in-memory scrapestorm.API.
type fakeAPI struct {
	mu        sync.Mutex
	tasks     []scrapestorm.Task
	listErr   error
	statusErr map[int64]error
	calls     []string
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) ListTasks(ctx context.Context) (*scrapestorm.APIResponse, error) {
	f.record("list")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &scrapestorm.APIResponse{List: append([]scrapestorm.Task(nil), f.tasks...), Msg: "ok"}, nil
}

func (f *fakeAPI) GetTask(ctx context.Context, id int64) (scrapestorm.Task, error) {
	return scrapestorm.Task{}, scrapestorm.ErrNotFound
}

func (f *fakeAPI) GetTaskByName(ctx context.Context, name string) (scrapestorm.Task, error) {
	return scrapestorm.Task{}, scrapestorm.ErrNotFound
}

func (f *fakeAPI) reply(action scrapestorm.Action, id int64) (*scrapestorm.APIResponse, error) {
	f.record(string(action))
	status := "running"
	return &scrapestorm.APIResponse{Msg: string(action), Status: &status}, nil
}

func (f *fakeAPI) StartTask(ctx context.Context, id int64) (*scrapestorm.APIResponse, error) {
	return f.reply(scrapestorm.ActionStart, id)
}

func (f *fakeAPI) StopTask(ctx context.Context, id int64) (*scrapestorm.APIResponse, error) {
	return f.reply(scrapestorm.ActionStop, id)
}

func (f *fakeAPI) TaskStatus(ctx context.Context, id int64) (*scrapestorm.APIResponse, error) {
	f.mu.Lock()
	err := f.statusErr[id]
	f.mu.Unlock()
	if err != nil {
		f.record("status")
		return nil, err
	}
	return f.reply(scrapestorm.ActionStatus, id)
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id int64) (*scrapestorm.APIResponse, error) {
	return f.reply(scrapestorm.ActionDelete, id)
}

func (f *fakeAPI) ClearTaskData(ctx context.Context, id int64) (*scrapestorm.APIResponse, error) {
	return f.reply(scrapestorm.ActionDataClear, id)
}

func (f *fakeAPI) CopyTask(ctx context.Context, id int64, opts scrapestorm.CopyOptions) (*scrapestorm.APIResponse, error) {
	return f.reply(scrapestorm.ActionCopy, id)
}

func TestPoller_RefreshStoresTasksAndStatuses(t *testing.T) {
	api := &fakeAPI{
		tasks: []scrapestorm.Task{
			{TaskID: 1, Name: "a", Type: scrapestorm.TaskTypeSmart},
			{TaskID: 2, Name: "b", Type: scrapestorm.TaskTypeFlowchart},
		},
		statusErr: map[int64]error{2: errors.New("status boom")},
	}
	store := &state.Store{}
	p := NewPoller(store, api, time.Second, nil)

	require.NoError(t, p.Refresh(context.Background()))

	snap := store.Snapshot()
	require.Len(t, snap.Tasks, 2)
	assert.Nil(t, snap.LastError)

	st, ok := snap.Status(1)
	require.True(t, ok)
	assert.Equal(t, "running", st.Response.StatusText())

	st, ok = snap.Status(2)
	require.True(t, ok)
	assert.EqualError(t, st.Err, "status boom")
}

func TestPoller_RefreshListFailureKeepsData(t *testing.T) {
	api := &fakeAPI{tasks: []scrapestorm.Task{{TaskID: 1}}}
	store := &state.Store{}
	p := NewPoller(store, api, time.Second, nil)
	require.NoError(t, p.Refresh(context.Background()))

	api.mu.Lock()
	api.listErr = errors.New("refused")
	api.mu.Unlock()

	require.Error(t, p.Refresh(context.Background()))
	snap := store.Snapshot()
	assert.Len(t, snap.Tasks, 1)
	assert.EqualError(t, snap.LastError, "refused")
	assert.Equal(t, 1, snap.ConsecutiveFailures)
}

func TestPoller_StartAndTrigger(t *testing.T) {
	api := &fakeAPI{tasks: []scrapestorm.Task{{TaskID: 1}}}
	store := &state.Store{}
	p := NewPoller(store, api, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	p.Start(ctx)

	require.Eventually(t, func() bool { return store.Snapshot().HasTasks }, 2*time.Second, 10*time.Millisecond)

	countLists := func() int {
		api.mu.Lock()
		defer api.mu.Unlock()
		n := 0
		for _, c := range api.calls {
			if c == "list" {
				n++
			}
		}
		return n
	}
	before := countLists()
	p.Trigger()
	require.Eventually(t, func() bool { return countLists() > before }, 2*time.Second, 10*time.Millisecond)
}

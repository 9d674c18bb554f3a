package scrapestorm

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer records requests and answers like ScrapeStorm.
type fakeServer struct {
	mu       sync.Mutex
	requests []*url.URL
	agents   []string
	tasks    []Task
}

func (f *fakeServer) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL)
	f.agents = append(f.agents, r.Header.Get("User-Agent"))
	tasks := f.tasks
	f.mu.Unlock()

	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/rest/v1/task/")
	if path == "list" {
		_ = json.NewEncoder(w).Encode(APIResponse{Code: 0, List: tasks, Msg: "ok"})
		return
	}
	id, action, ok := strings.Cut(path, "/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := strconv.Atoi(id); err != nil {
		http.NotFound(w, r)
		return
	}
	status := action
	_ = json.NewEncoder(w).Encode(APIResponse{Code: 0, Msg: "done " + action, Status: &status})
}

func (f *fakeServer) last() *url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeServer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	ep, err := ParseEndpoint(server.URL)
	require.NoError(t, err)
	c, err := NewClient(ep, opts...)
	require.NoError(t, err)
	return c
}

func sampleTasks() []Task {
	return []Task{
		{Name: "INSTAGRAM_TASK_1", TimeCreate: 1700000000, TaskID: 11, Type: TaskTypeFlowchart},
		{Name: "instagram_task_1", TimeCreate: 1700000100.25, TaskID: 12, Type: TaskTypeSmart},
		{Name: "NEWS", TimeCreate: 1700000200, TaskID: 13, Type: TaskTypeSmart},
	}
}

func TestClient_ListTasks(t *testing.T) {
	t.Parallel()
	fake := &fakeServer{tasks: sampleTasks()}
	c := newTestClient(t, http.HandlerFunc(fake.handler))

	resp, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.List, 3)
	assert.Equal(t, "ok", resp.Msg)
	assert.Equal(t, "/rest/v1/task/list", fake.last().Path)
	assert.Empty(t, fake.last().RawQuery)
}

func TestClient_GetTask(t *testing.T) {
	t.Parallel()
	fake := &fakeServer{tasks: sampleTasks()}
	c := newTestClient(t, http.HandlerFunc(fake.handler))

	task, err := c.GetTask(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "instagram_task_1", task.Name)

	_, err = c.GetTask(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetTaskByNameIsCaseSensitive(t *testing.T) {
	t.Parallel()
	fake := &fakeServer{tasks: sampleTasks()}
	c := newTestClient(t, http.HandlerFunc(fake.handler))

	task, err := c.GetTaskByName(context.Background(), "INSTAGRAM_TASK_1")
	require.NoError(t, err)
	assert.Equal(t, int64(11), task.TaskID)

	task, err = c.GetTaskByName(context.Background(), "instagram_task_1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), task.TaskID)

	_, err = c.GetTaskByName(context.Background(), "Instagram_Task_1")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetTaskByName(context.Background(), "NEWS ")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_TaskActionsHitExpectedPaths(t *testing.T) {
	t.Parallel()
	fake := &fakeServer{}
	c := newTestClient(t, http.HandlerFunc(fake.handler))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() (*APIResponse, error)
		path string
	}{
		{"start", func() (*APIResponse, error) { return c.StartTask(ctx, 5) }, "/rest/v1/task/5/start"},
		{"stop", func() (*APIResponse, error) { return c.StopTask(ctx, 5) }, "/rest/v1/task/5/stop"},
		{"status", func() (*APIResponse, error) { return c.TaskStatus(ctx, 5) }, "/rest/v1/task/5/status"},
		{"delete", func() (*APIResponse, error) { return c.DeleteTask(ctx, 5) }, "/rest/v1/task/5/delete"},
		{"clear", func() (*APIResponse, error) { return c.ClearTaskData(ctx, 5) }, "/rest/v1/task/5/data/clear"},
	}
	for _, tt := range tests {
		resp, err := tt.call()
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.path, fake.last().Path, tt.name)
		assert.True(t, strings.HasPrefix(resp.Msg, "done "), tt.name)
	}
}

func TestClient_CopyTaskEncodesTranslateChartAsString(t *testing.T) {
	t.Parallel()
	fake := &fakeServer{}
	c := newTestClient(t, http.HandlerFunc(fake.handler))

	_, err := c.CopyTask(context.Background(), 8, CopyOptions{Name: "clone 1", TranslateChart: true})
	require.NoError(t, err)
	got := fake.last()
	assert.Equal(t, "/rest/v1/task/8/copy", got.Path)
	assert.Equal(t, "true", got.Query().Get("translate_chart"))
	assert.Equal(t, "clone 1", got.Query().Get("name"))

	_, err = c.CopyTask(context.Background(), 8, CopyOptions{})
	require.NoError(t, err)
	got = fake.last()
	assert.Equal(t, "false", got.Query().Get("translate_chart"))
	_, hasName := got.Query()["name"]
	assert.False(t, hasName)
}

func TestClient_TaskRefDelegates(t *testing.T) {
	t.Parallel()
	fake := &fakeServer{tasks: sampleTasks()}
	c := newTestClient(t, http.HandlerFunc(fake.handler))
	ctx := context.Background()

	task, err := c.GetTaskByName(ctx, "NEWS")
	require.NoError(t, err)
	ref := c.Bind(task)

	resp, err := ref.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "status", resp.StatusText())
	assert.Equal(t, "/rest/v1/task/13/status", fake.last().Path)

	_, err = ref.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/rest/v1/task/13/start", fake.last().Path)

	_, err = ref.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/rest/v1/task/13/stop", fake.last().Path)

	_, err = ref.ClearData(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/rest/v1/task/13/data/clear", fake.last().Path)

	_, err = c.Task(14).Copy(ctx, CopyOptions{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, "/rest/v1/task/14/copy", fake.last().Path)
}

func TestClient_RejectsNonPositiveTaskID(t *testing.T) {
	t.Parallel()
	fake := &fakeServer{}
	c := newTestClient(t, http.HandlerFunc(fake.handler))

	_, err := c.StartTask(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidTaskID)
	_, err = c.CopyTask(context.Background(), -3, CopyOptions{})
	require.ErrorIs(t, err, ErrInvalidTaskID)
	assert.Equal(t, 0, fake.count())
}

func TestClient_SetsHeaders(t *testing.T) {
	t.Parallel()
	var accept string
	fake := &fakeServer{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		fake.handler(w, r)
	}))

	_, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "application/json", accept)
	assert.True(t, strings.HasPrefix(fake.agents[0], "stormctl/"), fake.agents[0])

	c2 := newTestClient(t, http.HandlerFunc(fake.handler), WithUserAgent("custom/1"))
	_, err = c2.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "custom/1", fake.agents[len(fake.agents)-1])
}

func TestClient_HTTPErrorIsProtocolError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))

	_, err := c.TaskStatus(context.Background(), 1)
	require.Error(t, err)
	var pe *ProtocolError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
	assert.Contains(t, pe.Body, "nope")
	assert.Contains(t, err.Error(), "returned status 500")
	assert.True(t, IsProtocol(err))
	assert.False(t, IsTransport(err))
}

func TestClient_MalformedBodyIsProtocolError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not-json"))
	}))

	_, err := c.ListTasks(context.Background())
	require.Error(t, err)
	var pe *ProtocolError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusOK, pe.StatusCode)
	assert.Error(t, pe.Unwrap())
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_ConnectionRefusedIsTransportError(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ep, err := ParseEndpoint(addr)
	require.NoError(t, err)
	c, err := NewClient(ep, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.ListTasks(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	_, err = c.GetTask(context.Background(), 1)
	assert.True(t, IsTransport(err))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestClient_TimeoutIsTransportError(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}), WithTimeout(100*time.Millisecond))
	t.Cleanup(func() { close(release) })

	_, err := c.TaskStatus(context.Background(), 1)
	require.Error(t, err)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.Timeout())
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()
	fake := &fakeServer{}
	c := newTestClient(t, http.HandlerFunc(fake.handler))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListTasks(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Endpoint{})
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint(), c.Endpoint())
	assert.Equal(t, DefaultTimeout, c.Timeout())

	_, err = NewClient(Endpoint{Port: 70000})
	assert.Error(t, err)
}

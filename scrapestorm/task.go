package scrapestorm

import "context"

// TaskRef binds a task id to an API so lifecycle calls read naturally:
//
//	resp, err := client.Task(42).Start(ctx)
//
// Nothing is cached; every call goes to the server.
type TaskRef struct {
	api API
	ID  int64
}

// Task returns a TaskRef for taskID.
func (c *Client) Task(taskID int64) TaskRef {
	return TaskRef{api: c, ID: taskID}
}

// Bind returns a TaskRef for a task obtained from ListTasks or a lookup.
func (c *Client) Bind(task Task) TaskRef {
	return c.Task(task.TaskID)
}

// NewTaskRef binds taskID to any API implementation.
func NewTaskRef(api API, taskID int64) TaskRef {
	return TaskRef{api: api, ID: taskID}
}

func (t TaskRef) Start(ctx context.Context) (*APIResponse, error) {
	return t.api.StartTask(ctx, t.ID)
}

func (t TaskRef) Stop(ctx context.Context) (*APIResponse, error) {
	return t.api.StopTask(ctx, t.ID)
}

func (t TaskRef) Status(ctx context.Context) (*APIResponse, error) {
	return t.api.TaskStatus(ctx, t.ID)
}

func (t TaskRef) ClearData(ctx context.Context) (*APIResponse, error) {
	return t.api.ClearTaskData(ctx, t.ID)
}

func (t TaskRef) Delete(ctx context.Context) (*APIResponse, error) {
	return t.api.DeleteTask(ctx, t.ID)
}

func (t TaskRef) Copy(ctx context.Context, opts CopyOptions) (*APIResponse, error) {
	return t.api.CopyTask(ctx, t.ID, opts)
}

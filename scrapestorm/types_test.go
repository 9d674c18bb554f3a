package scrapestorm

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIResponse_DecodesListEnvelope(t *testing.T) {
	raw := `{"code":0,"list":[{"name":"T","time_create":1,"task_id":1,"type":"flowchart"}],"msg":"ok","status":null}`

	var resp APIResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	require.Len(t, resp.List, 1)
	assert.Equal(t, int64(1), resp.List[0].TaskID)
	assert.Equal(t, TaskTypeFlowchart, resp.List[0].Type)
	assert.Equal(t, "T", resp.List[0].Name)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "ok", resp.Msg)
	assert.Nil(t, resp.Status)
	assert.Equal(t, "", resp.StatusText())
}

func TestAPIResponse_StatusAndMissingList(t *testing.T) {
	var resp APIResponse
	require.NoError(t, json.Unmarshal([]byte(`{"code":200,"msg":"running","status":"running"}`), &resp))
	assert.Nil(t, resp.List)
	assert.Equal(t, "running", resp.StatusText())
}

func TestTaskType_RejectsUnknown(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"name":"x","time_create":1,"task_id":2,"type":"wizard"}`), &task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown task type")

	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","time_create":1,"task_id":2,"type":"smart"}`), &task))
	assert.Equal(t, TaskTypeSmart, task.Type)
}

func TestTask_CreatedAt(t *testing.T) {
	assert.True(t, Task{}.CreatedAt().IsZero())

	got := Task{TimeCreate: 1700000000.5}.CreatedAt()
	assert.Equal(t, int64(1700000000), got.Unix())
	assert.Equal(t, 500*time.Millisecond, time.Duration(got.Nanosecond()))

	got = Task{TimeCreate: 1600000000}.CreatedAt()
	assert.Equal(t, time.Unix(1600000000, 0), got)
}

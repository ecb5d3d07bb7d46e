package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":123,"b":"-11","c":null}`), &v))
	assert.Equal(t, ID("123"), v.A)
	assert.Equal(t, ID("-11"), v.B)
	assert.Equal(t, ID(""), v.C)

	n, ok := v.B.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(-11), n)

	var bad ID
	require.Error(t, json.Unmarshal([]byte(`{}`), &bad))
}

func TestTask_DisplayNameAndFilter(t *testing.T) {
	task := Task{ResourceName: "Show", ShareFolderName: "Season 1"}
	assert.Equal(t, "Show/Season 1", task.DisplayName())
	assert.True(t, task.MatchesName("season"))
	assert.True(t, task.MatchesName(""))
	assert.False(t, task.MatchesName("movie"))

	assert.Equal(t, "Show", Task{ResourceName: "Show"}.DisplayName())
}

func TestTask_UnmarshalNullLastError(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"status":"processing","currentEpisodes":2,"lastError":null}`), &task))
	assert.Equal(t, ID("7"), task.ID)
	assert.Empty(t, task.LastError)
	assert.Equal(t, 2, task.CurrentEpisodes)
}

func TestNewCreateTaskRequest_Defaults(t *testing.T) {
	req := NewCreateTaskRequest("1", "https://cloud.189.cn/t/abc", "", "42", "Movies",
		[]ShareFolder{json.RawMessage(`{"id":"f1"}`)})

	b, err := json.Marshal(req)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, float64(1), m["overwriteFolder"])
	assert.Equal(t, "lt", m["matchOperator"])
	assert.Equal(t, false, m["enableCron"])
	assert.Equal(t, "", m["totalEpisodes"])
	assert.Equal(t, "42", m["targetFolderId"])
	assert.Equal(t, []any{map[string]any{"id": "f1"}}, m["selectedFolders"])
}

func TestRunResult_Aggregate(t *testing.T) {
	r := RunResult{Tasks: []TaskOutcome{
		{State: TaskSucceeded, Episodes: 5},
		{State: TaskFailed},
	}}
	r.Aggregate()
	assert.False(t, r.Success)
	assert.Equal(t, 5, r.TransferredCount)

	r = RunResult{Tasks: []TaskOutcome{
		{State: TaskSucceeded, Episodes: 2},
		{State: TaskTimedOutAssumedOngoing, Episodes: 3},
	}}
	r.Aggregate()
	assert.True(t, r.Success)
	assert.Equal(t, 5, r.TransferredCount)

	empty := RunResult{}
	empty.Aggregate()
	assert.False(t, empty.Success)
}

func TestLookupStatus_String(t *testing.T) {
	assert.Equal(t, "found", Found("a/b").Status.String())
	assert.Equal(t, "cycle_detected", LookupCycleDetected.String())
	assert.Equal(t, "depth_exceeded", LookupDepthExceeded.String())
	assert.Equal(t, "not_found", LookupResult{}.Status.String())
}

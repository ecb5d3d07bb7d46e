package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/sharesaver/internal/client/client"
	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "1", ResourceName: "Show", ShareFolderName: "Season 1"},
		{ID: "2", ResourceName: "Show", ShareFolderName: "Season 2"},
		{ID: "3", ResourceName: "Movie"},
	}
}

func TestListTasks_FiltersByDisplayName(t *testing.T) {
	f := newFakeClient()
	f.Static = sampleTasks()
	factory, sessions := factoryFor(f)
	svc := NewTaskService(factory, fastRetry(1), nil, nil)

	c, tasks, err := svc.ListTasks(context.Background(), "SEASON")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, 1, *sessions)
	require.Len(t, tasks, 2)
	assert.Equal(t, models.ID("1"), tasks[0].ID)
	assert.Equal(t, models.ID("2"), tasks[1].ID)

	_, all, err := svc.ListTasks(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListTasks_AuthError(t *testing.T) {
	f := newFakeClient()
	f.AuthErr = client.ErrBootstrapFailed
	factory, _ := factoryFor(f)
	svc := NewTaskService(factory, fastRetry(1), nil, nil)

	_, _, err := svc.ListTasks(context.Background(), "")
	require.ErrorIs(t, err, client.ErrBootstrapFailed)
}

func TestDeleteTasks_ContinuesPastFailures(t *testing.T) {
	f := newFakeClient()
	f.DeleteErrs = map[models.ID]error{"2": client.ErrServerLogic}
	factory, _ := factoryFor(f)
	svc := NewTaskService(factory, fastRetry(1), nil, nil)

	report := svc.DeleteTasks(context.Background(), f, sampleTasks(), true)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Deleted)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, models.ID("2"), report.Failures[0].TaskID)
	assert.Equal(t, "Show/Season 2", report.Failures[0].Name)
	assert.Equal(t, []deleteCall{{"1", true}, {"2", true}, {"3", true}}, f.Deleted)
}

func TestDeleteTask_KeepCloudContent(t *testing.T) {
	f := newFakeClient()
	factory, _ := factoryFor(f)
	svc := NewTaskService(factory, fastRetry(1), nil, nil)

	require.NoError(t, svc.DeleteTask(context.Background(), f, "9", false))
	assert.Equal(t, []deleteCall{{"9", false}}, f.Deleted)
}

func TestExecuteAll_RetriesThenSucceeds(t *testing.T) {
	f := newFakeClient()
	f.ExecuteAllFailures = 2
	factory, sessions := factoryFor(f)
	svc := NewTaskService(factory, fastRetry(3), nil, nil)

	attempts, err := svc.ExecuteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, *sessions)
}

func TestExecuteAll_Exhausted(t *testing.T) {
	f := newFakeClient()
	f.ExecuteAllFailures = 5
	factory, _ := factoryFor(f)
	svc := NewTaskService(factory, fastRetry(3), nil, nil)

	attempts, err := svc.ExecuteAll(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, f.ExecuteAllCalls)
}

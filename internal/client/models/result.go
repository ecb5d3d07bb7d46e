package models

import "time"

// TaskState is the final state of one created task within a run.
type TaskState string

const (
	TaskCreated                TaskState = "created"
	TaskExecuting              TaskState = "executing"
	TaskSucceeded              TaskState = "succeeded"
	TaskFailed                 TaskState = "failed"
	TaskTimedOutAssumedOngoing TaskState = "timed_out_assumed_ongoing"
)

// Success reports whether the state counts towards a successful run.
// Only TaskFailed is negative.
func (s TaskState) Success() bool {
	return s != TaskFailed
}

// TaskOutcome is what the orchestrator observed for one task.
type TaskOutcome struct {
	TaskID   ID        `json:"taskId"`
	State    TaskState `json:"state"`
	Episodes int       `json:"episodes"`
	Polls    int       `json:"polls"`
	Error    string    `json:"error,omitempty"`
}

// RunResult is the structured outcome of a transfer workflow.
type RunResult struct {
	RunID            string        `json:"runId"`
	Success          bool          `json:"success"`
	TransferredCount int           `json:"transferredCount"`
	FolderID         string        `json:"folderId"`
	FolderName       string        `json:"folderName"`
	Attempts         int           `json:"attempts"`
	Elapsed          time.Duration `json:"elapsed"`
	Tasks            []TaskOutcome `json:"tasks,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// Aggregate folds per-task outcomes into Success and TransferredCount.
// With no tasks the run is not successful.
func (r *RunResult) Aggregate() {
	r.Success = len(r.Tasks) > 0
	r.TransferredCount = 0
	for _, t := range r.Tasks {
		r.Success = r.Success && t.State.Success()
		r.TransferredCount += t.Episodes
	}
}

// DeleteFailure describes one task that could not be deleted.
type DeleteFailure struct {
	TaskID ID     `json:"taskId"`
	Name   string `json:"name"`
	Error  string `json:"error"`
}

// DeleteReport summarises a batch delete.
type DeleteReport struct {
	Total    int             `json:"total"`
	Deleted  int             `json:"deleted"`
	Failures []DeleteFailure `json:"failures,omitempty"`
	Elapsed  time.Duration   `json:"elapsed"`
}

package models

import (
	"encoding/json"
	"strings"
)

// Task status values reported by the management server.
const (
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

// Account is a managed cloud-storage account.
type Account struct {
	ID ID `json:"id"`
}

// FolderNode is one directory entry of the remote folder tree.
type FolderNode struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	ParentID ID     `json:"parentId"`
}

// ShareFolder is an opaque sub-folder descriptor returned by the share
// parser. It is passed back to task creation unchanged.
type ShareFolder = json.RawMessage

// Task is a server-side transfer job.
type Task struct {
	ID              ID     `json:"id"`
	AccountID       ID     `json:"accountId"`
	ShareLink       string `json:"shareLink"`
	AccessCode      string `json:"accessCode"`
	TargetFolderID  ID     `json:"targetFolderId"`
	TargetFolder    string `json:"targetFolder"`
	Status          string `json:"status"`
	CurrentEpisodes int    `json:"currentEpisodes"`
	// LastError is empty when the server reports none.
	LastError       string `json:"lastError"`
	ResourceName    string `json:"resourceName"`
	ShareFolderName string `json:"shareFolderName"`
}

// DisplayName is "resourceName/shareFolderName", or just the resource name
// when the task has no share folder.
func (t Task) DisplayName() string {
	if t.ShareFolderName == "" {
		return t.ResourceName
	}
	return t.ResourceName + "/" + t.ShareFolderName
}

// MatchesName reports whether filter is a case-insensitive substring of the
// display name. An empty filter matches everything.
func (t Task) MatchesName(filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.DisplayName()), strings.ToLower(filter))
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	AccountID       ID            `json:"accountId"`
	ShareLink       string        `json:"shareLink"`
	AccessCode      string        `json:"accessCode"`
	TargetFolderID  ID            `json:"targetFolderId"`
	TargetFolder    string        `json:"targetFolder"`
	SelectedFolders []ShareFolder `json:"selectedFolders"`
	TotalEpisodes   string        `json:"totalEpisodes"`
	OverwriteFolder int           `json:"overwriteFolder"`
	MatchOperator   string        `json:"matchOperator"`
	MatchPattern    string        `json:"matchPattern"`
	MatchValue      string        `json:"matchValue"`
	CronExpression  string        `json:"cronExpression"`
	EnableCron      bool          `json:"enableCron"`
	Remark          string        `json:"remark"`
}

// NewCreateTaskRequest fills the fixed task options used for every transfer.
func NewCreateTaskRequest(accountID ID, shareLink, accessCode string, folderID ID, folderName string, folders []ShareFolder) CreateTaskRequest {
	return CreateTaskRequest{
		AccountID:       accountID,
		ShareLink:       shareLink,
		AccessCode:      accessCode,
		TargetFolderID:  folderID,
		TargetFolder:    folderName,
		SelectedFolders: folders,
		OverwriteFolder: 1,
		MatchOperator:   "lt",
	}
}

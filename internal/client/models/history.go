package models

import "time"

// HistoryRecord is one triggering message and the folder it resolved to.
// Folder fields are empty for triggers that did not transfer anything.
type HistoryRecord struct {
	ID               int64
	Sender           string
	Content          string
	Timestamp        time.Time
	TargetFolderID   string
	TargetFolderName string
}

// FolderUsage is a folder together with how often history used it.
type FolderUsage struct {
	FolderID   string `json:"folderId"`
	FolderName string `json:"folderName"`
	Count      int    `json:"count"`
}

// DefaultFolder is the persisted default transfer target.
type DefaultFolder struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

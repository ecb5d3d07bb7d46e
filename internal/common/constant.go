// Package common contains constants and sentinel errors shared by the
// sharesaver client layers.
package common

const (
	// RootFolderID is the sentinel id of an account's top-level directory.
	RootFolderID = "-11"

	// UncategorizedFolderName is returned when a folder id cannot be mapped
	// back to a path. Callers must treat it as "unknown", not as a real name.
	UncategorizedFolderName = "未分类"

	// ShareLinkPrefix is the only share-link host accepted by the CLI.
	ShareLinkPrefix = "https://cloud.189.cn/t/"
)

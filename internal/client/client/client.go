package client

import (
	"context"

	"github.com/dmitrijs2005/sharesaver/internal/client/models"
)

// Client is one authenticated session against the management server.
// Cookies collected by Authenticate are reused by every later call on the
// same value; a new session means a new Client.
type Client interface {
	Authenticate(ctx context.Context) error
	Accounts(ctx context.Context) ([]models.Account, error)
	ListFolders(ctx context.Context, accountID, folderID models.ID) ([]models.FolderNode, error)
	ParseShare(ctx context.Context, accountID models.ID, shareLink, accessCode string) ([]models.ShareFolder, error)
	CreateTask(ctx context.Context, req models.CreateTaskRequest) ([]models.Task, error)
	ExecuteTask(ctx context.Context, taskID models.ID) error
	ListTasks(ctx context.Context) ([]models.Task, error)
	DeleteTask(ctx context.Context, taskID models.ID, deleteCloud bool) error
	ExecuteAll(ctx context.Context) error
}

// Factory opens a fresh, unauthenticated session.
type Factory func() (Client, error)

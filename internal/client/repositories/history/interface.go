package history

import (
	"context"

	"github.com/dmitrijs2005/sharesaver/internal/client/models"
)

// Repository is the append-only log of triggering messages.
type Repository interface {
	// Append stores the record and returns its row id.
	Append(ctx context.Context, rec models.HistoryRecord) (int64, error)

	// FindFolderName returns the most recently recorded name for folderID,
	// ignoring placeholder names. common.ErrorNotFound when there is none.
	FindFolderName(ctx context.Context, folderID string) (string, error)

	// FolderUsage returns up to limit folders ordered by how often they were
	// used, ties broken by first appearance.
	FolderUsage(ctx context.Context, limit int) ([]models.FolderUsage, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]models.HistoryRecord, error)
}

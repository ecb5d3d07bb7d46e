package rootfolders

import (
	"context"

	"github.com/dmitrijs2005/sharesaver/internal/client/models"
)

// Repository caches the account's top-level folders.
type Repository interface {
	Count(ctx context.Context) (int, error)
	// InsertIgnore stores folders, skipping ids that are already cached.
	InsertIgnore(ctx context.Context, folders []models.RootFolder) error
	// FindByName returns common.ErrorNotFound when no folder has that name.
	FindByName(ctx context.Context, name string) (models.RootFolder, error)
	FindByID(ctx context.Context, folderID string) (models.RootFolder, error)
	List(ctx context.Context) ([]models.RootFolder, error)
}

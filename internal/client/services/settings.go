package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/client/repositories/history"
	"github.com/dmitrijs2005/sharesaver/internal/client/repositories/settings"
	"github.com/dmitrijs2005/sharesaver/internal/common"
	"github.com/dmitrijs2005/sharesaver/internal/dbx"
)

// Settings keys.
const (
	KeyDefaultFolderID   = "default_folder_id"
	KeyDefaultFolderPath = "default_folder_path"
)

// SettingsService is the single reader/writer of the default transfer folder.
type SettingsService interface {
	// DefaultFolder returns the stored default, or the configured fallback id
	// with an empty path when nothing is stored.
	DefaultFolder(ctx context.Context) (models.DefaultFolder, error)
	SetDefaultFolder(ctx context.Context, id, path string) error
	// PickTarget chooses a folder when the user named none: the most used
	// folder from history, else the stored default, else the fallback.
	PickTarget(ctx context.Context) (models.DefaultFolder, error)
}

type settingsService struct {
	db         *sql.DB
	fallbackID string
}

func NewSettingsService(db *sql.DB, fallbackID string) SettingsService {
	if fallbackID == "" {
		fallbackID = common.RootFolderID
	}
	return &settingsService{db: db, fallbackID: fallbackID}
}

func (s *settingsService) getSettingsRepo(db dbx.DBTX) settings.Repository {
	return settings.NewSQLiteRepository(db)
}

func (s *settingsService) stored(ctx context.Context) (models.DefaultFolder, bool, error) {
	repo := s.getSettingsRepo(s.db)

	id, err := repo.Get(ctx, KeyDefaultFolderID)
	if errors.Is(err, common.ErrorNotFound) || (err == nil && id == "") {
		return models.DefaultFolder{}, false, nil
	}
	if err != nil {
		return models.DefaultFolder{}, false, err
	}

	path, err := repo.Get(ctx, KeyDefaultFolderPath)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return models.DefaultFolder{}, false, err
	}
	return models.DefaultFolder{ID: id, Path: path}, true, nil
}

func (s *settingsService) DefaultFolder(ctx context.Context) (models.DefaultFolder, error) {
	f, ok, err := s.stored(ctx)
	if err != nil {
		return models.DefaultFolder{ID: s.fallbackID}, fmt.Errorf("load default folder: %w", err)
	}
	if !ok {
		return models.DefaultFolder{ID: s.fallbackID}, nil
	}
	return f, nil
}

func (s *settingsService) SetDefaultFolder(ctx context.Context, id, path string) error {
	if id == "" {
		return fmt.Errorf("folder id is required")
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.getSettingsRepo(tx)
		if err := repo.Set(ctx, KeyDefaultFolderID, id); err != nil {
			return err
		}
		return repo.Set(ctx, KeyDefaultFolderPath, path)
	})
}

func (s *settingsService) PickTarget(ctx context.Context) (models.DefaultFolder, error) {
	usage, err := history.NewSQLiteRepository(s.db).FolderUsage(ctx, 1)
	if err != nil {
		return s.DefaultFolder(ctx)
	}
	if len(usage) > 0 {
		return models.DefaultFolder{ID: usage[0].FolderID, Path: usage[0].FolderName}, nil
	}
	return s.DefaultFolder(ctx)
}

package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/client/repositories/history"
)

// CommonFoldersLimit is how many folders "common folders" lists.
const CommonFoldersLimit = 10

type HistoryService interface {
	// Record appends a triggering message. Folder fields may be empty.
	Record(ctx context.Context, sender, content, folderID, folderName string) error
	CommonFolders(ctx context.Context, limit int) ([]models.FolderUsage, error)
	Recent(ctx context.Context, limit int) ([]models.HistoryRecord, error)
}

type historyService struct {
	repo history.Repository
	now  func() time.Time
}

func NewHistoryService(repo history.Repository) HistoryService {
	return &historyService{repo: repo, now: time.Now}
}

func (s *historyService) Record(ctx context.Context, sender, content, folderID, folderName string) error {
	_, err := s.repo.Append(ctx, models.HistoryRecord{
		Sender:           sender,
		Content:          content,
		Timestamp:        s.now(),
		TargetFolderID:   folderID,
		TargetFolderName: folderName,
	})
	return err
}

func (s *historyService) CommonFolders(ctx context.Context, limit int) ([]models.FolderUsage, error) {
	if limit <= 0 {
		limit = CommonFoldersLimit
	}
	return s.repo.FolderUsage(ctx, limit)
}

func (s *historyService) Recent(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	return s.repo.Recent(ctx, limit)
}

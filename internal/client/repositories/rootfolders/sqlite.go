// Package rootfolders caches the top-level folders of the remote drive so
// well-known anchors can be found without listing the root on every run.
package rootfolders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/common"
	"github.com/dmitrijs2005/sharesaver/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM root_folders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count root folders: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) InsertIgnore(ctx context.Context, folders []models.RootFolder) error {
	for _, f := range folders {
		_, err := r.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO root_folders (name, folder_id, parent_id) VALUES (?, ?, ?)
		`, f.Name, f.FolderID, f.ParentID)
		if err != nil {
			return fmt.Errorf("failed to insert root folder[%s]: %w", f.FolderID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) FindByName(ctx context.Context, name string) (models.RootFolder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT name, folder_id, parent_id FROM root_folders WHERE name = ? ORDER BY rowid LIMIT 1
	`, name)
	f, err := scanFolder(row)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return f, fmt.Errorf("failed to find root folder by name[%s]: %w", name, err)
	}
	return f, err
}

func (r *SQLiteRepository) FindByID(ctx context.Context, folderID string) (models.RootFolder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT name, folder_id, parent_id FROM root_folders WHERE folder_id = ?
	`, folderID)
	f, err := scanFolder(row)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return f, fmt.Errorf("failed to find root folder[%s]: %w", folderID, err)
	}
	return f, err
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.RootFolder, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, folder_id, parent_id FROM root_folders ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list root folders: %w", err)
	}
	defer rows.Close()

	var result []models.RootFolder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan root folder row: %w", err)
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate root folder rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFolder(s scanner) (models.RootFolder, error) {
	var (
		f        models.RootFolder
		name     sql.NullString
		parentID sql.NullString
	)
	err := s.Scan(&name, &f.FolderID, &parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RootFolder{}, common.ErrorNotFound
	}
	if err != nil {
		return models.RootFolder{}, err
	}
	f.Name = name.String
	f.ParentID = parentID.String
	return f, nil
}

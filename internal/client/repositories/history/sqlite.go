// Package history stores triggering messages together with the folder each
// transfer resolved to. The log doubles as an id to name cache for folders.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/common"
	"github.com/dmitrijs2005/sharesaver/internal/dbx"
)

// TimestampLayout is how timestamps are stored in the messages table.
const TimestampLayout = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, rec models.HistoryRecord) (int64, error) {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (sender, content, timestamp, target_folder_id, target_folder_name)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Sender, rec.Content, ts.Format(TimestampLayout), nullable(rec.TargetFolderID), nullable(rec.TargetFolderName))
	if err != nil {
		return 0, fmt.Errorf("failed to append message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read message id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) FindFolderName(ctx context.Context, folderID string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `
		SELECT target_folder_name FROM messages
		WHERE target_folder_id = ?
		  AND target_folder_name IS NOT NULL
		  AND target_folder_name != ''
		  AND target_folder_name != ?
		ORDER BY id DESC
		LIMIT 1
	`, folderID, common.UncategorizedFolderName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find folder name[%s]: %w", folderID, err)
	}
	return name, nil
}

func (r *SQLiteRepository) FolderUsage(ctx context.Context, limit int) ([]models.FolderUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT target_folder_id, target_folder_name, COUNT(*) AS cnt
		FROM messages
		WHERE target_folder_id IS NOT NULL AND target_folder_id != ''
		  AND target_folder_name IS NOT NULL AND target_folder_name != ''
		GROUP BY target_folder_id, target_folder_name
		ORDER BY cnt DESC, MIN(id) ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query folder usage: %w", err)
	}
	defer rows.Close()

	var result []models.FolderUsage
	for rows.Next() {
		var u models.FolderUsage
		if err := rows.Scan(&u.FolderID, &u.FolderName, &u.Count); err != nil {
			return nil, fmt.Errorf("failed to scan folder usage row: %w", err)
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folder usage rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sender, content, timestamp, target_folder_id, target_folder_name
		FROM messages
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var result []models.HistoryRecord
	for rows.Next() {
		var (
			rec        models.HistoryRecord
			ts         string
			folderID   sql.NullString
			folderName sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Sender, &rec.Content, &ts, &folderID, &folderName); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		rec.Timestamp, err = time.ParseInLocation(TimestampLayout, ts, time.Local)
		if err != nil {
			return nil, fmt.Errorf("failed to parse message timestamp %q: %w", ts, err)
		}
		rec.TargetFolderID = folderID.String
		rec.TargetFolderName = folderName.String
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}
	return result, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

package history

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE messages (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sender TEXT NOT NULL,
  content TEXT NOT NULL,
  timestamp TEXT NOT NULL,
  target_folder_id TEXT,
  target_folder_name TEXT
);`)
	require.NoError(t, err)
	return db
}

func appendAll(t *testing.T, r *SQLiteRepository, recs ...models.HistoryRecord) {
	t.Helper()
	for _, rec := range recs {
		_, err := r.Append(context.Background(), rec)
		require.NoError(t, err)
	}
}

func TestAppendAndRecent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local)

	id1, err := r.Append(ctx, models.HistoryRecord{Sender: "alice", Content: "全部执行", Timestamp: ts})
	require.NoError(t, err)
	id2, err := r.Append(ctx, models.HistoryRecord{
		Sender: "bob", Content: "转存 https://cloud.189.cn/t/abc", Timestamp: ts.Add(time.Minute),
		TargetFolderID: "42", TargetFolderName: "Movies",
	})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	got, err := r.Recent(ctx, 10)
	require.NoError(t, err)

	want := []models.HistoryRecord{
		{ID: id2, Sender: "bob", Content: "转存 https://cloud.189.cn/t/abc", Timestamp: ts.Add(time.Minute), TargetFolderID: "42", TargetFolderName: "Movies"},
		{ID: id1, Sender: "alice", Content: "全部执行", Timestamp: ts},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Recent mismatch (-want +got):\n%s", diff)
	}
}

func TestFindFolderName_LatestNonPlaceholder(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	appendAll(t, r,
		models.HistoryRecord{Sender: "a", Content: "1", TargetFolderID: "42", TargetFolderName: "Old"},
		models.HistoryRecord{Sender: "a", Content: "2", TargetFolderID: "42", TargetFolderName: "Movies/New"},
		models.HistoryRecord{Sender: "a", Content: "3", TargetFolderID: "42", TargetFolderName: common.UncategorizedFolderName},
	)

	name, err := r.FindFolderName(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Movies/New", name)
}

func TestFindFolderName_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	appendAll(t, r, models.HistoryRecord{Sender: "a", Content: "1", TargetFolderID: "7", TargetFolderName: common.UncategorizedFolderName})

	_, err := r.FindFolderName(context.Background(), "7")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.FindFolderName(context.Background(), "8")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFolderUsage_OrderedByCountThenFirstSeen(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	appendAll(t, r,
		models.HistoryRecord{Sender: "a", Content: "x", TargetFolderID: "1", TargetFolderName: "A"},
		models.HistoryRecord{Sender: "a", Content: "x", TargetFolderID: "2", TargetFolderName: "B"},
		models.HistoryRecord{Sender: "a", Content: "x", TargetFolderID: "3", TargetFolderName: "C"},
		models.HistoryRecord{Sender: "a", Content: "x", TargetFolderID: "3", TargetFolderName: "C"},
		models.HistoryRecord{Sender: "a", Content: "no folder"},
	)

	got, err := r.FolderUsage(context.Background(), 10)
	require.NoError(t, err)

	want := []models.FolderUsage{
		{FolderID: "3", FolderName: "C", Count: 2},
		{FolderID: "1", FolderName: "A", Count: 1},
		{FolderID: "2", FolderName: "B", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FolderUsage mismatch (-want +got):\n%s", diff)
	}

	top, err := r.FolderUsage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "3", top[0].FolderID)
}

func TestRepository_DBErrorsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteRepository(db)
	ctx := context.Background()
	boom := errors.New("database is locked")

	mock.ExpectExec(`INSERT INTO messages`).WillReturnError(boom)
	_, err = r.Append(ctx, models.HistoryRecord{Sender: "a", Content: "b"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to append message")

	mock.ExpectQuery(`SELECT target_folder_name FROM messages`).WillReturnError(boom)
	_, err = r.FindFolderName(ctx, "1")
	require.ErrorIs(t, err, boom)

	mock.ExpectQuery(`SELECT target_folder_id, target_folder_name, COUNT`).WillReturnError(boom)
	_, err = r.FolderUsage(ctx, 10)
	assert.Contains(t, err.Error(), "failed to query folder usage")

	mock.ExpectQuery(`SELECT id, sender, content, timestamp`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender", "content", "timestamp", "target_folder_id", "target_folder_name"}).
			AddRow(1, "a", "b", "not a time", nil, nil))
	_, err = r.Recent(ctx, 10)
	assert.Contains(t, err.Error(), "failed to parse message timestamp")

	require.NoError(t, mock.ExpectationsWereMet())
}

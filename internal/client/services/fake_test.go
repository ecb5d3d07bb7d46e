package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sharesaver/internal/client/client"
	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fastRetry keeps retry loops in the millisecond range.
func fastRetry(attempts int) RetryPolicy {
	return RetryPolicy{Attempts: attempts, Delay: time.Millisecond}
}

func node(id, name, parent string) models.FolderNode {
	return models.FolderNode{ID: models.ID(id), Name: name, ParentID: models.ID(parent)}
}

// sampleTree:
//
//	-11
//	├── 100 我的转存
//	│   ├── 101 Movies
//	│   │   └── 103 Action
//	│   └── 102 Shows
//	└── 200 Photos
//	    └── 201 Holiday Movies
func sampleTree() map[models.ID][]models.FolderNode {
	return map[models.ID][]models.FolderNode{
		"-11": {node("100", "我的转存", "-11"), node("200", "Photos", "-11")},
		"100": {node("101", "Movies", "100"), node("102", "Shows", "100")},
		"101": {node("103", "Action", "101")},
		"200": {node("201", "Holiday Movies", "200")},
	}
}

// ---- fake client ----

type deleteCall struct {
	id          models.ID
	deleteCloud bool
}

// fakeClient implements client.Client. Task states are scripted per task id:
// every ListTasks call advances all scripts by one step, staying on the last
// step once it is reached.
type fakeClient struct {
	mu sync.Mutex

	AuthErr error

	AccountList []models.Account
	AccountsErr error

	Tree        map[models.ID][]models.FolderNode
	FolderErrs  map[models.ID]error
	FolderCalls []models.ID

	ShareFolders  []models.ShareFolder
	ParseErr      error
	ParseFailures int

	Created     []models.Task
	CreateErr   error
	CreateCalls int
	LastCreate  models.CreateTaskRequest

	ExecuteErrs map[models.ID]error
	Executed    []models.ID

	Order     []models.ID
	Scripts   map[models.ID][]models.Task
	Static    []models.Task
	ListErr   error
	ListCalls int

	DeleteErrs map[models.ID]error
	Deleted    []deleteCall

	ExecuteAllFailures int
	ExecuteAllCalls    int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		AccountList:  []models.Account{{ID: "7"}},
		Tree:         sampleTree(),
		ShareFolders: []models.ShareFolder{[]byte(`{"id":"sf1"}`)},
	}
}

// script sets the state sequence reported for a created task.
func (f *fakeClient) script(id models.ID, states ...models.Task) {
	if f.Scripts == nil {
		f.Scripts = map[models.ID][]models.Task{}
	}
	for i := range states {
		states[i].ID = id
	}
	f.Order = append(f.Order, id)
	f.Scripts[id] = states
}

func (f *fakeClient) folderCalls() []models.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ID(nil), f.FolderCalls...)
}

func (f *fakeClient) Authenticate(ctx context.Context) error { return f.AuthErr }

func (f *fakeClient) Accounts(ctx context.Context) ([]models.Account, error) {
	return f.AccountList, f.AccountsErr
}

func (f *fakeClient) ListFolders(ctx context.Context, accountID, folderID models.ID) ([]models.FolderNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FolderCalls = append(f.FolderCalls, folderID)
	if err := f.FolderErrs[folderID]; err != nil {
		return nil, err
	}
	return f.Tree[folderID], nil
}

func (f *fakeClient) ParseShare(ctx context.Context, accountID models.ID, shareLink, accessCode string) ([]models.ShareFolder, error) {
	if f.ParseFailures > 0 {
		f.ParseFailures--
		return nil, client.ErrUnavailable
	}
	return f.ShareFolders, f.ParseErr
}

func (f *fakeClient) CreateTask(ctx context.Context, req models.CreateTaskRequest) ([]models.Task, error) {
	f.CreateCalls++
	f.LastCreate = req
	return f.Created, f.CreateErr
}

func (f *fakeClient) ExecuteTask(ctx context.Context, taskID models.ID) error {
	f.Executed = append(f.Executed, taskID)
	return f.ExecuteErrs[taskID]
}

func (f *fakeClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := append([]models.Task(nil), f.Static...)
	for _, id := range f.Order {
		states := f.Scripts[id]
		if len(states) == 0 {
			continue
		}
		step := f.ListCalls - 1
		if step >= len(states) {
			step = len(states) - 1
		}
		out = append(out, states[step])
	}
	return out, nil
}

func (f *fakeClient) DeleteTask(ctx context.Context, taskID models.ID, deleteCloud bool) error {
	f.Deleted = append(f.Deleted, deleteCall{id: taskID, deleteCloud: deleteCloud})
	return f.DeleteErrs[taskID]
}

func (f *fakeClient) ExecuteAll(ctx context.Context) error {
	f.ExecuteAllCalls++
	if f.ExecuteAllCalls <= f.ExecuteAllFailures {
		return client.ErrUnavailable
	}
	return nil
}

// factoryFor hands out the same fake for every session and counts sessions.
func factoryFor(f *fakeClient) (client.Factory, *int) {
	n := 0
	return func() (client.Client, error) {
		n++
		return f, nil
	}, &n
}

var errBoom = errors.New("boom")

package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/sharesaver/internal/client/client"
	"github.com/dmitrijs2005/sharesaver/internal/client/config"
	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/client/services"
	"github.com/dmitrijs2005/sharesaver/internal/logging"
	"github.com/dmitrijs2005/sharesaver/internal/metrics"
)

// App holds everything a command needs: the local store, the services and
// the output streams.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	sessions  client.Factory
	transfers services.TransferService
	tasks     services.TaskService
	folders   services.FolderService
	settings  services.SettingsService
	history   services.HistoryService

	out    io.Writer
	reader *bufio.Reader
}

// NewApp opens the local database and wires the services. Nothing talks to
// the server until a command opens a session.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, out io.Writer, in io.Reader) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	m := metrics.New()
	repos := client.NewRepositories(db)

	sessions := client.NewFactory(client.Options{
		BaseURL:   c.ServerURL,
		Username:  c.Username,
		Password:  c.Password,
		UserAgent: c.UserAgent,
		Timeout:   c.RequestTimeout,
		Metrics:   m,
		Logger:    log,
	})

	runRetry := services.RetryPolicy{Attempts: c.MaxRetries, Delay: c.RetryDelay}

	folders := services.NewFolderService(repos.History, repos.RootFolders, services.FolderOptions{
		AnchorName: c.AnchorFolderName,
		MaxDepth:   c.FolderSearchDepth,
	}, log, m)
	settings := services.NewSettingsService(db, c.TargetFolderID)
	history := services.NewHistoryService(repos.History)

	transfers := services.NewTransferService(sessions, folders, settings, history, services.TransferOptions{
		Run:  runRetry,
		Poll: services.RetryPolicy{Attempts: c.MaxWaitAttempts, Delay: c.WaitInterval},
	}, log, m)

	return &App{
		config:    c,
		log:       log,
		db:        db,
		metrics:   m,
		sessions:  sessions,
		transfers: transfers,
		tasks:     services.NewTaskService(sessions, runRetry, log, m),
		folders:   folders,
		settings:  settings,
		history:   history,
		out:       out,
		reader:    bufio.NewReader(in),
	}, nil
}

// Close exports metrics (when a textfile is configured) and closes the database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.metrics.WriteTextfile(a.config.MetricsTextfile); err != nil {
		a.log.Warn(ctx, "cannot write metrics textfile", "path", a.config.MetricsTextfile, "error", err)
		errs = append(errs, err)
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}

// withAccount opens an authenticated session, resolves the account and
// hands both to fn.
func (a *App) withAccount(ctx context.Context, fn func(c client.Client, accountID models.ID) error) error {
	c, err := services.OpenSession(ctx, a.sessions)
	if err != nil {
		return err
	}
	accountID, err := services.ResolveAccount(ctx, c)
	if err != nil {
		return err
	}
	return fn(c, accountID)
}

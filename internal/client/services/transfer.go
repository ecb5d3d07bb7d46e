package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sharesaver/internal/client/client"
	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/common"
	"github.com/dmitrijs2005/sharesaver/internal/logging"
	"github.com/dmitrijs2005/sharesaver/internal/metrics"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

var (
	errTaskPending = errors.New("task still in progress")
	errRunFailed   = errors.New("transfer run failed")
)

// TransferRequest describes one share-link submission.
type TransferRequest struct {
	ShareLink  string
	AccessCode string
	// TargetFolderID wins over TargetFolderName when both are set.
	TargetFolderID   string
	TargetFolderName string

	// Sender and Content are what gets written to history on success.
	Sender  string
	Content string
}

type TransferOptions struct {
	// Run is the whole-workflow retry policy.
	Run RetryPolicy
	// Poll bounds status polling per task: Attempts polls, Delay apart.
	Poll RetryPolicy
}

// TransferService runs the share-link to task workflow.
type TransferService interface {
	// Run performs one attempt on a fresh session.
	Run(ctx context.Context, req TransferRequest) models.RunResult
	// RunWithRetry repeats Run from scratch until it succeeds or the retry
	// budget is spent, and records successful transfers in history.
	RunWithRetry(ctx context.Context, req TransferRequest) models.RunResult
}

type transferService struct {
	sessions client.Factory
	folders  FolderService
	settings SettingsService
	history  HistoryService
	opts     TransferOptions
	log      logging.Logger
	metrics  *metrics.Metrics
}

func NewTransferService(sessions client.Factory, folders FolderService, settings SettingsService, history HistoryService, opts TransferOptions, log logging.Logger, m *metrics.Metrics) TransferService {
	if log == nil {
		log = logging.Discard()
	}
	return &transferService{
		sessions: sessions,
		folders:  folders,
		settings: settings,
		history:  history,
		opts:     opts,
		log:      log,
		metrics:  m,
	}
}

func (s *transferService) RunWithRetry(ctx context.Context, req TransferRequest) models.RunResult {
	start := time.Now()
	maxAttempts := s.opts.Run.attempts()

	var (
		last     models.RunResult
		attempts int
	)
	err := retry.Do(ctx, s.opts.Run.backoff(), func(ctx context.Context) error {
		attempts++
		last = s.run(ctx, req, attempts)
		if last.Success {
			return nil
		}
		if attempts < maxAttempts {
			s.log.Warn(ctx, "transfer attempt failed, retrying",
				"run_id", last.RunID, "attempt", attempts, "delay", s.opts.Run.Delay, "error", last.Error)
		}
		return retry.RetryableError(errRunFailed)
	})
	if err != nil && !errors.Is(err, errRunFailed) && last.Error == "" {
		last.Error = err.Error()
	}

	last.Attempts = attempts
	last.Elapsed = time.Since(start)
	s.metrics.RunFinished(last.Success, attempts)

	if !last.Success {
		s.log.Error(ctx, "transfer failed, retries exhausted",
			"attempts", attempts, "transferred", last.TransferredCount, "elapsed", last.Elapsed, "error", last.Error)
		return last
	}

	s.log.Info(ctx, "transfer succeeded",
		"attempts", attempts, "transferred", last.TransferredCount, "folder", last.FolderName, "elapsed", last.Elapsed)

	if s.history != nil && last.FolderID != "" {
		sender, content := req.Sender, req.Content
		if sender == "" {
			sender = "cli"
		}
		if content == "" {
			content = req.ShareLink
		}
		if err := s.history.Record(ctx, sender, content, last.FolderID, last.FolderName); err != nil {
			s.log.Warn(ctx, "cannot record transfer in history", "error", err)
		}
	}
	return last
}

func (s *transferService) Run(ctx context.Context, req TransferRequest) models.RunResult {
	return s.run(ctx, req, 1)
}

func (s *transferService) run(ctx context.Context, req TransferRequest, attempt int) models.RunResult {
	start := time.Now()
	res := models.RunResult{RunID: uuid.NewString(), Attempts: attempt}
	log := s.log.With("run_id", res.RunID, "attempt", attempt)

	fail := func(err error) models.RunResult {
		log.Error(ctx, "transfer attempt aborted", "error", err)
		res.Success = false
		res.Error = err.Error()
		res.Elapsed = time.Since(start)
		return res
	}

	c, err := OpenSession(ctx, s.sessions)
	if err != nil {
		return fail(err)
	}
	log.Info(ctx, "logged in")

	accountID, err := ResolveAccount(ctx, c)
	if err != nil {
		return fail(err)
	}
	log.Info(ctx, "using account", "account_id", accountID)

	shareFolders, err := c.ParseShare(ctx, accountID, req.ShareLink, req.AccessCode)
	if err != nil {
		return fail(err)
	}
	if len(shareFolders) == 0 {
		return fail(common.ErrEmptyShare)
	}
	log.Info(ctx, "share parsed", "folders", len(shareFolders))

	folderID, folderName := s.resolveTarget(ctx, log, c, accountID, req)
	res.FolderID = folderID.String()
	res.FolderName = folderName
	log.Info(ctx, "target folder", "folder_id", folderID, "folder", folderName)

	created, err := c.CreateTask(ctx, models.NewCreateTaskRequest(accountID, req.ShareLink, req.AccessCode, folderID, folderName, shareFolders))
	if err != nil {
		return fail(err)
	}
	if len(created) == 0 {
		return fail(common.ErrNoTasksCreated)
	}
	log.Info(ctx, "tasks created", "count", len(created))

	res.Tasks = make([]models.TaskOutcome, len(created))
	for i, t := range created {
		res.Tasks[i] = models.TaskOutcome{TaskID: t.ID, State: models.TaskCreated}
		if err := c.ExecuteTask(ctx, t.ID); err != nil {
			log.Error(ctx, "task execution failed", "task_id", t.ID, "error", err)
			res.Tasks[i].State = models.TaskFailed
			res.Tasks[i].Error = err.Error()
			continue
		}
		res.Tasks[i].State = models.TaskExecuting
	}

	for i := range res.Tasks {
		if res.Tasks[i].State != models.TaskExecuting {
			s.metrics.TaskFinished(metrics.TaskFailed, 0)
			continue
		}
		res.Tasks[i] = s.poll(ctx, log, c, res.Tasks[i].TaskID)
	}

	res.Aggregate()
	res.Elapsed = time.Since(start)
	if !res.Success {
		res.Error = fmt.Sprintf("%d of %d tasks failed", countFailed(res.Tasks), len(res.Tasks))
	}
	log.Info(ctx, "transfer attempt finished", "success", res.Success, "transferred", res.TransferredCount, "elapsed", res.Elapsed)
	return res
}

// resolveTarget applies explicit id > name match > default.
func (s *transferService) resolveTarget(ctx context.Context, log logging.Logger, c client.Client, accountID models.ID, req TransferRequest) (models.ID, string) {
	if req.TargetFolderID != "" {
		id := models.ID(req.TargetFolderID)
		return id, s.folders.ResolveNameByID(ctx, c, accountID, id)
	}

	if req.TargetFolderName != "" {
		match, err := s.folders.MatchByName(ctx, c, accountID, req.TargetFolderName)
		if err == nil {
			return match.ID, match.Path
		}
		log.Warn(ctx, "no folder matches name, using default", "name", req.TargetFolderName)
	}

	def, err := s.settings.DefaultFolder(ctx)
	if err != nil {
		log.Warn(ctx, "cannot load default folder", "error", err)
	}
	id := models.ID(def.ID)
	if def.Path != "" {
		return id, def.Path
	}
	return id, s.folders.ResolveNameByID(ctx, c, accountID, id)
}

// poll watches one executing task until a terminal condition or until the
// poll budget runs out.
func (s *transferService) poll(ctx context.Context, log logging.Logger, c client.Client, taskID models.ID) models.TaskOutcome {
	out := models.TaskOutcome{TaskID: taskID, State: models.TaskExecuting}
	maxPolls := s.opts.Poll.attempts()

	err := retry.Do(ctx, s.opts.Poll.backoff(), func(ctx context.Context) error {
		out.Polls++

		tasks, err := c.ListTasks(ctx)
		if err != nil {
			return err
		}

		task, ok := findTask(tasks, taskID)
		if !ok {
			log.Debug(ctx, "task not listed yet", "task_id", taskID, "poll", out.Polls)
			return retry.RetryableError(errTaskPending)
		}
		out.Episodes = task.CurrentEpisodes

		switch {
		case task.CurrentEpisodes > 0 && task.LastError == "":
			out.State = models.TaskSucceeded
			return nil
		case task.LastError != "":
			out.State = models.TaskFailed
			out.Error = task.LastError
			return nil
		case task.Status == models.TaskStatusFailed:
			out.State = models.TaskFailed
			out.Error = common.ErrTaskFailed.Error()
			return nil
		case task.Status == models.TaskStatusCompleted:
			out.State = models.TaskSucceeded
			return nil
		}

		log.Info(ctx, "task still in progress", "task_id", taskID, "status", task.Status, "poll", out.Polls, "max", maxPolls)
		return retry.RetryableError(errTaskPending)
	})

	switch {
	case err == nil:
	case errors.Is(err, errTaskPending):
		out.State = models.TaskTimedOutAssumedOngoing
		log.Warn(ctx, "task status did not settle, assuming it continues on the server",
			"task_id", taskID, "episodes", out.Episodes)
	default:
		out.State = models.TaskFailed
		out.Error = err.Error()
	}

	switch out.State {
	case models.TaskSucceeded:
		s.metrics.TaskFinished(metrics.TaskSucceeded, out.Episodes)
		log.Info(ctx, "task succeeded", "task_id", taskID, "episodes", out.Episodes)
	case models.TaskTimedOutAssumedOngoing:
		s.metrics.TaskFinished(metrics.TaskTimedOut, out.Episodes)
	default:
		s.metrics.TaskFinished(metrics.TaskFailed, out.Episodes)
		log.Error(ctx, "task failed", "task_id", taskID, "error", out.Error)
	}
	return out
}

func findTask(tasks []models.Task, id models.ID) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func countFailed(outcomes []models.TaskOutcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.State.Success() {
			n++
		}
	}
	return n
}

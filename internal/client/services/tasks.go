package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sharesaver/internal/client/client"
	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/logging"
	"github.com/dmitrijs2005/sharesaver/internal/metrics"
	"github.com/sethvargo/go-retry"
)

// TaskService lists, deletes and bulk-executes server-side tasks.
type TaskService interface {
	// ListTasks logs in and returns the session together with the tasks
	// whose display name contains nameFilter (case-insensitive).
	ListTasks(ctx context.Context, nameFilter string) (client.Client, []models.Task, error)
	DeleteTask(ctx context.Context, c client.Client, taskID models.ID, deleteCloud bool) error
	// DeleteTasks deletes every task, continuing past failures.
	DeleteTasks(ctx context.Context, c client.Client, tasks []models.Task, deleteCloud bool) models.DeleteReport
	// ExecuteAll triggers every pending task, retrying the whole exchange
	// on failure. It returns the number of attempts made.
	ExecuteAll(ctx context.Context) (int, error)
}

type taskService struct {
	sessions client.Factory
	retry    RetryPolicy
	log      logging.Logger
	metrics  *metrics.Metrics
}

func NewTaskService(sessions client.Factory, policy RetryPolicy, log logging.Logger, m *metrics.Metrics) TaskService {
	if log == nil {
		log = logging.Discard()
	}
	return &taskService{sessions: sessions, retry: policy, log: log, metrics: m}
}

func (s *taskService) ListTasks(ctx context.Context, nameFilter string) (client.Client, []models.Task, error) {
	c, err := OpenSession(ctx, s.sessions)
	if err != nil {
		return nil, nil, err
	}

	all, err := c.ListTasks(ctx)
	if err != nil {
		return nil, nil, err
	}

	tasks := make([]models.Task, 0, len(all))
	for _, t := range all {
		if t.MatchesName(nameFilter) {
			tasks = append(tasks, t)
		}
	}
	s.log.Debug(ctx, "tasks listed", "total", len(all), "matched", len(tasks), "filter", nameFilter)
	return c, tasks, nil
}

func (s *taskService) DeleteTask(ctx context.Context, c client.Client, taskID models.ID, deleteCloud bool) error {
	err := c.DeleteTask(ctx, taskID, deleteCloud)
	s.metrics.TaskDeleted(err == nil)
	if err != nil {
		s.log.Warn(ctx, "task delete failed", "task_id", taskID, "error", err)
		return err
	}
	s.log.Info(ctx, "task deleted", "task_id", taskID, "delete_cloud", deleteCloud)
	return nil
}

func (s *taskService) DeleteTasks(ctx context.Context, c client.Client, tasks []models.Task, deleteCloud bool) models.DeleteReport {
	start := time.Now()
	report := models.DeleteReport{Total: len(tasks)}

	for _, t := range tasks {
		if err := s.DeleteTask(ctx, c, t.ID, deleteCloud); err != nil {
			report.Failures = append(report.Failures, models.DeleteFailure{
				TaskID: t.ID,
				Name:   t.DisplayName(),
				Error:  err.Error(),
			})
			continue
		}
		report.Deleted++
	}

	report.Elapsed = time.Since(start)
	return report
}

func (s *taskService) ExecuteAll(ctx context.Context) (int, error) {
	attempts := 0
	maxAttempts := s.retry.attempts()

	err := retry.Do(ctx, s.retry.backoff(), func(ctx context.Context) error {
		attempts++
		c, err := OpenSession(ctx, s.sessions)
		if err == nil {
			err = c.ExecuteAll(ctx)
		}
		if err == nil {
			return nil
		}
		if attempts < maxAttempts {
			s.log.Warn(ctx, "execute all failed, retrying", "attempt", attempts, "delay", s.retry.Delay, "error", err)
		}
		return retry.RetryableError(err)
	})
	if err != nil {
		s.log.Error(ctx, "execute all failed, retries exhausted", "attempts", attempts, "error", err)
		return attempts, err
	}

	s.log.Info(ctx, "all tasks triggered", "attempts", attempts)
	return attempts, nil
}

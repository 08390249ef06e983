package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// FanoutArgs broadcasts one notification per worker account. Enqueued in
// the job-creation transaction; a River retry re-runs the whole broadcast,
// so duplicate notifications are possible. Best effort only.
type FanoutArgs struct {
	JobID    uuid.UUID `json:"job_id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Category string    `json:"category"`
}

func (FanoutArgs) Kind() string { return "notification_fanout" }

// SweepArgs deletes read notifications older than the retention window.
// Enqueued daily as a periodic job.
type SweepArgs struct{}

func (SweepArgs) Kind() string { return "notification_sweep" }

// RetentionWindow is how long read notifications are kept.
const RetentionWindow = 30 * 24 * time.Hour

// WorkerLister returns the account ids the broadcast targets.
type WorkerLister interface {
	ListWorkerIDs(ctx context.Context) ([]uuid.UUID, error)
}

// NotificationStore is the notification persistence the workers need.
type NotificationStore interface {
	InsertBatch(ctx context.Context, accountIDs []uuid.UUID, title, message, category string, jobID *uuid.UUID) error
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type FanoutWorker struct {
	river.WorkerDefaults[FanoutArgs]
	accounts      WorkerLister
	notifications NotificationStore
	log           *slog.Logger
}

func NewFanoutWorker(accounts WorkerLister, notifications NotificationStore, log *slog.Logger) *FanoutWorker {
	if log == nil {
		log = slog.Default()
	}
	return &FanoutWorker{accounts: accounts, notifications: notifications, log: log}
}

func (w *FanoutWorker) Work(ctx context.Context, job *river.Job[FanoutArgs]) error {
	args := job.Args
	ids, err := w.accounts.ListWorkerIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	jobID := args.JobID
	if err := w.notifications.InsertBatch(ctx, ids, args.Title, args.Message, args.Category, &jobID); err != nil {
		return err
	}
	w.log.Info("notification fan-out complete", "job_id", args.JobID, "recipients", len(ids))
	return nil
}

type SweepWorker struct {
	river.WorkerDefaults[SweepArgs]
	notifications NotificationStore
	log           *slog.Logger
}

func NewSweepWorker(notifications NotificationStore, log *slog.Logger) *SweepWorker {
	if log == nil {
		log = slog.Default()
	}
	return &SweepWorker{notifications: notifications, log: log}
}

func (w *SweepWorker) Work(ctx context.Context, _ *river.Job[SweepArgs]) error {
	cutoff := time.Now().Add(-RetentionWindow)
	deleted, err := w.notifications.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		w.log.Info("notification sweep complete", "deleted", deleted)
	}
	return nil
}

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
)

// SessionSweepArgs deletes expired session rows. Enqueued hourly as a
// periodic job; expired sessions already fail validation, this just keeps
// the table from growing.
type SessionSweepArgs struct{}

func (SessionSweepArgs) Kind() string { return "session_sweep" }

// ExpiredSessionDeleter is the slice of the session store the sweeper needs.
type ExpiredSessionDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type SessionSweepWorker struct {
	river.WorkerDefaults[SessionSweepArgs]
	sessions ExpiredSessionDeleter
	log      *slog.Logger
}

func NewSessionSweepWorker(sessions ExpiredSessionDeleter, log *slog.Logger) *SessionSweepWorker {
	if log == nil {
		log = slog.Default()
	}
	return &SessionSweepWorker{sessions: sessions, log: log}
}

func (w *SessionSweepWorker) Work(ctx context.Context, _ *river.Job[SessionSweepArgs]) error {
	deleted, err := w.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	if deleted > 0 {
		w.log.Info("session sweep complete", "deleted", deleted)
	}
	return nil
}

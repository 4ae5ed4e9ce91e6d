package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/interface-queue/internal/invoker"
	"github.com/kubev2v/interface-queue/internal/models"
	"github.com/kubev2v/interface-queue/internal/store"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

const (
	recordFailureSubject = "record task failure"

	defaultFailureBacklog = 64
	defaultFailuresKept   = 1000
)

// FailureRecorder persists failures of fire-and-forget tasks. Its Record
// method is the queue's error handler; the recorder is created before the
// queue and started once the invoker exists.
type FailureRecorder struct {
	failures chan models.TaskFailure
	keep     int

	mu      sync.Mutex
	inv     *invoker.Invoker
	done    chan struct{}
	stopped chan struct{}

	log *zap.SugaredLogger
}

func NewFailureRecorder() *FailureRecorder {
	return &FailureRecorder{
		failures: make(chan models.TaskFailure, defaultFailureBacklog),
		keep:     defaultFailuresKept,
		log:      zap.S().Named("failure_recorder"),
	}
}

// Record is a scheduler error handler. It never blocks: when the backlog is
// full the failure is only logged.
func (r *FailureRecorder) Record(info scheduler.TaskInfo, err error) {
	if info.Subject == recordFailureSubject {
		return
	}
	f := models.TaskFailure{
		TaskID:   uint64(info.ID),
		Priority: info.Priority.String(),
		Subject:  info.Subject,
		Site:     info.Site,
		Error:    err.Error(),
		FailedAt: info.FinishedAt,
	}
	if f.FailedAt.IsZero() {
		f.FailedAt = time.Now()
	}
	select {
	case r.failures <- f:
	default:
		r.log.Warnw("failure backlog full, dropping record", "task", f.TaskID, "subject", f.Subject)
	}
}

func (r *FailureRecorder) Start(inv *invoker.Invoker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return
	}
	r.inv = inv
	r.done = make(chan struct{})
	r.stopped = make(chan struct{})
	go r.run()
}

func (r *FailureRecorder) Stop() {
	r.mu.Lock()
	done, stopped := r.done, r.stopped
	r.done = nil
	r.mu.Unlock()
	if done == nil {
		return
	}
	close(done)
	<-stopped
}

func (r *FailureRecorder) run() {
	defer close(r.stopped)
	for {
		select {
		case <-r.done:
			return
		case f := <-r.failures:
			r.persist(f)
		}
	}
}

func (r *FailureRecorder) persist(f models.TaskFailure) {
	req := scheduler.MustTaskRequest(scheduler.PriorityLow, recordFailureSubject, f.Subject, f.Site)
	err := r.inv.Schedule(req, func(ctx context.Context, st *store.Store) error {
		if err := st.Failures().Insert(ctx, f); err != nil {
			return err
		}
		return st.Failures().Prune(ctx, r.keep)
	})
	if err != nil {
		r.log.Warnw("failed to schedule failure record", "task", f.TaskID, "error", err)
	}
}

// Failures lists recorded failures, newest first.
func (s *QueueService) Failures(ctx context.Context, limit uint64, subjects ...string) ([]models.TaskFailure, error) {
	req, err := request(scheduler.PriorityNormal, "list failures", "list failed background tasks", "")
	if err != nil {
		return nil, err
	}
	failures, err := invoker.Load(ctx, s.inv, req, func(ctx context.Context, st *store.Store) ([]models.TaskFailure, error) {
		return st.Failures().List(ctx, store.BySubject(subjects...), store.WithLimit(limit))
	})
	if err != nil {
		return nil, queueError(err)
	}
	if failures == nil {
		failures = []models.TaskFailure{}
	}
	return failures, nil
}

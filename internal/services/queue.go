package services

import (
	"context"
	"sync"

	"github.com/emirpasic/gods/queues/circularbuffer"
	"go.uber.org/zap"

	"github.com/kubev2v/interface-queue/internal/invoker"
	"github.com/kubev2v/interface-queue/internal/models"
	"github.com/kubev2v/interface-queue/internal/store"
	srvErrors "github.com/kubev2v/interface-queue/pkg/errors"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

// Resizer is the part of the executor pool the queue service drives.
type Resizer interface {
	Resize(n int)
	Size() int
}

// QueueService exposes the interface queue to operators: status, the
// runtime limit and a bounded history of task state changes.
type QueueService struct {
	inv   *invoker.Invoker
	queue *scheduler.Queue
	pool  Resizer

	mu      sync.Mutex
	history *circularbuffer.Queue

	log *zap.SugaredLogger
}

func NewQueueService(inv *invoker.Invoker, pool Resizer, historySize int) *QueueService {
	s := &QueueService{
		inv:   inv,
		queue: inv.Queue(),
		pool:  pool,
		log:   zap.S().Named("queue_service"),
	}
	if historySize > 0 {
		s.history = circularbuffer.New(historySize)
		s.queue.AddTaskListener(s.record)
	}
	return s
}

func (s *QueueService) Status() models.QueueStatus {
	stats := s.queue.Stats()
	status := models.QueueStatus{
		Size:           stats.Size,
		MaxActiveTasks: stats.MaxActiveTasks,
		Queued:         stats.Queued,
		Running:        stats.Running,
		Finished:       stats.Finished,
		Closed:         stats.Closed,
		Broken:         stats.Broken,
	}
	if s.pool != nil {
		status.PoolSize = s.pool.Size()
	}
	return status
}

// SetMaxActiveTasks persists n and applies it to the running queue.
func (s *QueueService) SetMaxActiveTasks(ctx context.Context, n int, site string) error {
	if n <= 0 {
		return srvErrors.NewInvalidArgumentError("maxActiveTasks", "must be positive, got %d", n)
	}

	req, err := request(scheduler.PriorityUrgent, "save configuration", "persist max active tasks", site)
	if err != nil {
		return err
	}
	err = s.inv.Execute(ctx, req, func(ctx context.Context, st *store.Store) error {
		return st.Configuration().Save(ctx, &models.Configuration{MaxActiveTasks: n})
	})
	if err != nil {
		return queueError(err)
	}

	return s.ApplyMaxActiveTasks(n)
}

// ApplyMaxActiveTasks changes the limit of the running queue without
// persisting it. The executor pool grows with the limit, never shrinks.
func (s *QueueService) ApplyMaxActiveTasks(n int) error {
	if s.pool != nil && s.pool.Size() < n {
		s.pool.Resize(n)
	}
	if err := s.queue.SetMaxActiveTasks(n); err != nil {
		return queueError(err)
	}
	return nil
}

// RestoreMaxActiveTasks applies the persisted limit, if any. It reports
// whether one was found.
func (s *QueueService) RestoreMaxActiveTasks(ctx context.Context) (bool, error) {
	req, err := request(scheduler.PriorityUrgent, "load configuration", "restore max active tasks", "")
	if err != nil {
		return false, err
	}
	cfg, err := invoker.Load(ctx, s.inv, req, func(ctx context.Context, st *store.Store) (*models.Configuration, error) {
		return st.Configuration().Get(ctx)
	})
	if srvErrors.IsResourceNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, queueError(err)
	}

	s.log.Infow("restoring persisted max active tasks", "max_active_tasks", cfg.MaxActiveTasks, "updated_at", cfg.UpdatedAt)
	return true, s.ApplyMaxActiveTasks(cfg.MaxActiveTasks)
}

// History returns recorded task events, newest first, optionally filtered
// by state. limit 0 returns everything kept.
func (s *QueueService) History(limit int, states ...string) []models.TaskEvent {
	if s.history == nil {
		return []models.TaskEvent{}
	}

	keep := map[string]bool{}
	for _, st := range states {
		keep[st] = true
	}

	s.mu.Lock()
	values := s.history.Values()
	s.mu.Unlock()

	events := make([]models.TaskEvent, 0, len(values))
	for i := len(values) - 1; i >= 0; i-- {
		e := values[i].(models.TaskEvent)
		if len(keep) > 0 && !keep[e.State] {
			continue
		}
		events = append(events, e)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events
}

// record runs under the queue lock; it must not call into the queue.
func (s *QueueService) record(info scheduler.TaskInfo) {
	e := models.TaskEvent{
		ID:          uint64(info.ID),
		Priority:    info.Priority.String(),
		Subject:     info.Subject,
		Description: info.Description,
		Site:        info.Site,
		State:       info.State.String(),
		EnqueuedAt:  info.EnqueuedAt,
		StartedAt:   info.StartedAt,
		FinishedAt:  info.FinishedAt,
		QueueDelay:  info.QueueDelay(),
		Duration:    info.Duration(),
	}
	if info.Err != nil {
		e.Error = info.Err.Error()
	}

	s.mu.Lock()
	s.history.Enqueue(e)
	s.mu.Unlock()
}

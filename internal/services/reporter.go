package services

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kubev2v/interface-queue/internal/models"
)

// Reporter logs queue statistics on a cron schedule.
type Reporter struct {
	status func() models.QueueStatus
	c      *cron.Cron

	mu      sync.Mutex
	last    models.QueueStatus
	started bool

	log *zap.SugaredLogger
}

// NewReporter parses schedule with the standard cron parser, descriptors
// such as "@every 30s" included.
func NewReporter(status func() models.QueueStatus, schedule string) (*Reporter, error) {
	r := &Reporter{
		status: status,
		c:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
		log:    zap.S().Named("queue_reporter"),
	}
	if _, err := r.c.AddFunc(schedule, r.Report); err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", schedule, err)
	}
	return r, nil
}

func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	r.c.Start()
}

// Stop waits for a running report to return.
func (r *Reporter) Stop() {
	r.mu.Lock()
	started := r.started
	r.started = false
	r.mu.Unlock()
	if started {
		<-r.c.Stop().Done()
	}
}

// Report logs the current statistics and the tasks finished since the
// previous report.
func (r *Reporter) Report() {
	s := r.status()

	r.mu.Lock()
	finished := s.Finished - r.last.Finished
	r.last = s
	r.mu.Unlock()

	fields := []any{
		"queued", s.Queued,
		"running", s.Running,
		"max_active_tasks", s.MaxActiveTasks,
		"finished", s.Finished,
		"finished_since_last", finished,
		"pool_size", s.PoolSize,
	}
	switch {
	case s.Broken:
		r.log.Errorw("queue is broken", fields...)
	case s.Queued > 0 && s.Running >= s.MaxActiveTasks:
		r.log.Warnw("queue saturated", fields...)
	default:
		r.log.Infow("queue statistics", fields...)
	}
}

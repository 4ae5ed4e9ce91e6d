package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Queue admits work for a resource that tolerates at most MaxActiveTasks
// concurrent operations. Excess work waits in a priority queue and is
// dispatched, highest priority first, as running tasks complete.
type Queue struct {
	mu        sync.Mutex
	maxActive atomic.Int64
	pending   *PriorityQueue
	counters  *Counters
	active    map[TaskID]*Task
	seq       TaskID
	listeners []func(TaskInfo)

	dispatcher  Dispatcher
	clock       Clock
	log         *zap.SugaredLogger
	waitTimeout time.Duration
	onError     func(TaskInfo, error)
	limitWarn   rate.Sometimes

	mainCtx    context.Context
	mainCancel context.CancelFunc
	inflight   sync.WaitGroup
	closed     bool
	broken     error
	brokenCh   chan struct{}
	once       sync.Once
}

func New(maxActiveTasks int, opts ...Option) *Queue {
	if maxActiveTasks <= 0 {
		maxActiveTasks = DefaultMaxActiveTasks
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		pending:    NewPriorityQueue(),
		counters:   NewCounters(),
		active:     make(map[TaskID]*Task),
		dispatcher: GoDispatcher(),
		clock:      SystemClock(),
		log:        zap.S().Named("interface_queue"),
		limitWarn:  rate.Sometimes{Interval: 5 * time.Second},
		mainCtx:    ctx,
		mainCancel: cancel,
		brokenCh:   make(chan struct{}),
	}
	q.maxActive.Store(int64(maxActiveTasks))
	for _, opt := range opts {
		opt(q)
	}
	q.counters.Running().AddListener(q.warnTaskLimits)
	return q
}

// ScheduleAndWait runs work through the queue and blocks until it completes.
// The work's own error is returned unchanged. If ctx is done (or the
// configured wait timeout elapses) first, only the wait is abandoned: the
// task keeps its place and runs to completion.
func (q *Queue) ScheduleAndWait(ctx context.Context, req TaskRequest, work Work[any]) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitTimeout, err)
	}
	t, err := q.submit(ctx, req, work, true)
	if err != nil {
		return nil, err
	}
	return q.wait(ctx, t)
}

// ScheduleAndReturn is ScheduleAndWait with a typed result.
func ScheduleAndReturn[T any](ctx context.Context, q *Queue, req TaskRequest, work Work[T]) (T, error) {
	var zero T
	if work == nil {
		return zero, fmt.Errorf("%w: nil work", ErrInvalidRequest)
	}
	v, err := q.ScheduleAndWait(ctx, req, func(ctx context.Context) (any, error) {
		return work(ctx)
	})
	if err != nil || v == nil {
		return zero, err
	}
	return v.(T), nil
}

// ScheduleAndForget queues work and returns at once. Only submission errors
// are returned; execution failures are logged and passed to the error handler.
func (q *Queue) ScheduleAndForget(req TaskRequest, work Work[any]) error {
	_, err := q.submit(context.Background(), req, work, false)
	return err
}

// Schedule queues work and returns a Future receiving its outcome.
func (q *Queue) Schedule(req TaskRequest, work Work[any]) (*Future[Result[any]], error) {
	t, err := q.submit(context.Background(), req, work, true)
	if err != nil {
		return nil, err
	}
	return NewFuture(t.id, t.c, t.cancel), nil
}

// Size is the number of tasks waiting for dispatch.
func (q *Queue) Size() int {
	return q.counters.Queued().Get()
}

func (q *Queue) MaxActiveTasks() int {
	return int(q.maxActive.Load())
}

func (q *Queue) Counters() *Counters {
	return q.counters
}

// SetMaxActiveTasks changes the concurrency ceiling. Raising it dispatches
// queued tasks right away; lowering it never interrupts running tasks, new
// dispatches simply wait until running drops below the new limit.
func (q *Queue) SetMaxActiveTasks(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	var next []*Task
	err := q.locked(func() error {
		if q.broken != nil {
			return q.broken
		}
		prev := q.maxActive.Swap(int64(n))
		if prev != int64(n) {
			q.log.Infow("max active tasks changed", "from", prev, "to", n)
		}
		q.warnTaskLimits(q.counters.Running().Get())
		next = q.fillLocked()
		return nil
	})
	if err != nil {
		return err
	}
	for _, t := range next {
		q.dispatch(t)
	}
	return nil
}

// AddTaskListener registers fn for every task state change. fn runs under the
// queue lock and must return quickly without calling into the queue.
func (q *Queue) AddTaskListener(fn func(TaskInfo)) {
	q.mu.Lock()
	q.listeners = append(q.listeners, fn)
	q.mu.Unlock()
}

type Stats struct {
	Size           int
	MaxActiveTasks int
	Queued         int
	Running        int
	Finished       int
	Closed         bool
	Broken         bool
}

// Stats returns a consistent snapshot of the queue counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Size:           q.pending.Size(),
		MaxActiveTasks: q.MaxActiveTasks(),
		Queued:         q.counters.Queued().Get(),
		Running:        q.counters.Running().Get(),
		Finished:       q.counters.Finished().Get(),
		Closed:         q.closed,
		Broken:         q.broken != nil,
	}
}

// WaitIdle blocks until nothing is queued or running.
func (q *Queue) WaitIdle(ctx context.Context) error {
	idle := make(chan struct{}, 1)
	check := func(int) {
		if q.counters.Idle() {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	}

	q.mu.Lock()
	removeQueued := q.counters.Queued().AddListener(check)
	removeRunning := q.counters.Running().AddListener(check)
	check(0)
	q.mu.Unlock()
	defer removeQueued()
	defer removeRunning()

	select {
	case <-idle:
		return nil
	case <-q.brokenCh:
		return q.brokenErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting submissions and waits for queued and running
// tasks to finish.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	return q.WaitIdle(ctx)
}

// Close stops accepting submissions, fails every queued task with
// ErrQueueClosed, cancels the contexts of running work and waits for it to
// return. Close is idempotent.
func (q *Queue) Close() {
	q.once.Do(func() {
		var cancelled []*Task
		_ = q.locked(func() error {
			q.closed = true
			if q.broken != nil {
				return nil
			}
			for _, t := range q.pending.Drain() {
				t.transition(TaskFailed, q.clock.Now())
				t.err = ErrQueueClosed
				q.counters.Finished().Increment()
				q.counters.Queued().Decrement()
				q.emit(t)
				t.release(Result[any]{Err: ErrQueueClosed})
				cancelled = append(cancelled, t)
			}
			return nil
		})
		for _, t := range cancelled {
			t.cancel()
		}
		q.mainCancel()
		q.inflight.Wait()
		q.log.Infow("interface queue closed", "cancelled", len(cancelled), "finished", q.counters.Finished().Get())
	})
}

func (q *Queue) submit(parent context.Context, req TaskRequest, work Work[any], synchronous bool) (*Task, error) {
	if work == nil {
		return nil, fmt.Errorf("%w: nil work", ErrInvalidRequest)
	}
	if !req.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, req.priority)
	}

	// the work outlives the caller's wait but not the queue
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	stop := context.AfterFunc(q.mainCtx, cancel)
	release := func() {
		stop()
		cancel()
	}

	var t, dispatch *Task
	err := q.locked(func() error {
		if q.broken != nil {
			return q.broken
		}
		if q.closed {
			return ErrQueueClosed
		}
		q.seq++
		t = newTask(q.seq, req, work, ctx, release, q.clock.Now())
		t.synchronous = synchronous
		q.counters.Queued().Increment()
		q.emit(t)

		if q.counters.Running().Get() < q.MaxActiveTasks() {
			q.startLocked(t)
			dispatch = t
			return nil
		}
		q.pending.Offer(t)
		return nil
	})
	if err != nil {
		release()
		return nil, err
	}

	q.log.Debugw("task queued", "id", t.id, "priority", req.priority.String(), "subject", req.subject, "dispatched", dispatch != nil)
	if dispatch != nil {
		q.dispatch(dispatch)
	}
	return t, nil
}

func (q *Queue) wait(ctx context.Context, t *Task) (any, error) {
	var timeout <-chan time.Time
	if q.waitTimeout > 0 {
		timeout = q.clock.After(q.waitTimeout)
	}

	select {
	case r := <-t.c:
		return r.Data, r.Err
	case <-ctx.Done():
		q.log.Debugw("stopped waiting for task", "id", t.id, "error", context.Cause(ctx))
		return nil, fmt.Errorf("%w: task %d: %w", ErrWaitTimeout, t.id, context.Cause(ctx))
	case <-timeout:
		q.log.Debugw("stopped waiting for task", "id", t.id, "timeout", q.waitTimeout)
		return nil, fmt.Errorf("%w: task %d after %s", ErrWaitTimeout, t.id, q.waitTimeout)
	}
}

// startLocked moves t from QUEUED to RUNNING. running is incremented before
// queued is decremented so listeners never observe a false idle state.
func (q *Queue) startLocked(t *Task) {
	q.counters.Running().Increment()
	q.counters.Queued().Decrement()
	t.transition(TaskRunning, q.clock.Now())
	q.active[t.id] = t
	q.inflight.Add(1)
	q.emit(t)
}

// fillLocked dispatches queued tasks while capacity remains.
func (q *Queue) fillLocked() []*Task {
	var next []*Task
	for q.counters.Running().Get() < q.MaxActiveTasks() {
		t, ok := q.pending.PollHighest()
		if !ok {
			break
		}
		q.startLocked(t)
		next = append(next, t)
	}
	return next
}

func (q *Queue) dispatch(t *Task) {
	q.dispatcher.Dispatch(t, func() { q.run(t) })
}

func (q *Queue) run(t *Task) {
	defer q.inflight.Done()
	v, err := q.invoke(t)
	q.complete(t, v, err)
}

func (q *Queue) invoke(t *Task) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrWorkPanicked, rec)
		}
	}()
	return t.work(t.ctx)
}

func (q *Queue) complete(t *Task, v any, err error) {
	state := TaskFinished
	if err != nil {
		state = TaskFailed
	}

	var (
		next   []*Task
		info   TaskInfo
		broken bool
	)
	_ = q.locked(func() error {
		if q.broken != nil {
			// waiters were already released with the broken error
			if t.State() == TaskRunning {
				t.transition(state, q.clock.Now())
			}
			broken = true
			return nil
		}
		if t.State() != TaskRunning {
			panic(violation("task %d completed in state %s", t.id, t.State()))
		}
		t.transition(state, q.clock.Now())
		t.result, t.err = v, err
		delete(q.active, t.id)
		q.counters.Finished().Increment()
		q.counters.Running().Decrement()
		q.emit(t)
		t.release(Result[any]{Data: v, Err: err})
		info = t.info()
		next = q.fillLocked()
		return nil
	})
	t.cancel()
	if broken {
		return
	}

	for _, n := range next {
		q.dispatch(n)
	}

	if err == nil {
		q.log.Debugw("task finished", "id", t.id, "duration", info.Duration())
		return
	}
	if t.synchronous {
		q.log.Debugw("task failed", "id", t.id, "error", err)
		return
	}
	q.log.Errorw("task failed", "id", t.id, "priority", info.Priority.String(), "subject", info.Subject, "site", info.Site, "error", err)
	if q.onError != nil {
		q.onError(info, err)
	}
}

// locked runs fn under the queue lock. A panic inside fn means the
// bookkeeping is no longer trustworthy: the queue is marked broken, every
// waiter is released with the error, and the panic is re-raised.
func (q *Queue) locked(fn func() error) error {
	q.mu.Lock()
	defer func() {
		rec := recover()
		if rec == nil {
			q.mu.Unlock()
			return
		}
		v, ok := rec.(*InvariantViolation)
		if !ok {
			v = violation("panic during bookkeeping: %v", rec)
		}
		q.breakLocked(v)
		q.mu.Unlock()
		panic(rec)
	}()
	return fn()
}

func (q *Queue) breakLocked(v *InvariantViolation) {
	if q.broken != nil {
		return
	}
	q.broken = fmt.Errorf("%w: %w", ErrQueueBroken, v)
	q.log.Errorw("interface queue broken", "error", v)

	for _, t := range q.pending.Drain() {
		t.release(Result[any]{Err: q.broken})
	}
	for _, t := range q.active {
		t.release(Result[any]{Err: q.broken})
	}
	close(q.brokenCh)
	q.mainCancel()
}

func (q *Queue) brokenErr() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.broken
}

func (q *Queue) emit(t *Task) {
	if len(q.listeners) == 0 {
		return
	}
	info := t.info()
	for _, fn := range q.listeners {
		fn(info)
	}
}

// warnTaskLimits runs on every change of the running counter. running only
// exceeds the limit after the limit has been lowered at runtime.
func (q *Queue) warnTaskLimits(running int) {
	limit := q.MaxActiveTasks()
	if running <= limit {
		return
	}
	q.limitWarn.Do(func() {
		q.log.Warnw("active task limit exceeded", "running", running, "max", limit)
	})
}

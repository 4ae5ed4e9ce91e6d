package executor

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

type queue[T any] []T

func (wq *queue[T]) Len() int { return len(*wq) }

func (wq *queue[T]) Pop() T {
	old := *wq
	x := old[0]
	*wq = old[1:]
	return x
}

func (wq *queue[T]) Push(t T) {
	*wq = append(*wq, t)
}

type job struct {
	id  scheduler.TaskID
	run func()
}

// Pool runs dispatched tasks on a bounded set of worker goroutines. It
// implements scheduler.Dispatcher. Jobs beyond the pool size wait in a FIFO
// backlog where priorities no longer apply, so a pool serving a Queue must
// have at least as many workers as the queue's active task limit.
type Pool struct {
	size    atomic.Int64
	busy    int
	backlog *queue[job]

	jobs     chan job
	resize   chan int
	done     chan any
	close    chan any
	stopping chan any
	stopped  chan any
	wg       sync.WaitGroup
	once     sync.Once

	log *zap.SugaredLogger
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		backlog:  &queue[job]{},
		jobs:     make(chan job),
		resize:   make(chan int),
		done:     make(chan any),
		close:    make(chan any),
		stopping: make(chan any),
		stopped:  make(chan any),
		log:      zap.S().Named("executor"),
	}
	p.size.Store(int64(size))
	go p.loop()
	return p
}

// Dispatch hands run to a worker. Once Close has begun the loop no longer
// accepts jobs and run gets its own goroutine. Workers completing a task
// dispatch the next queued one from inside Close, so this must not block.
func (p *Pool) Dispatch(t *scheduler.Task, run func()) {
	j := job{id: t.ID(), run: run}
	select {
	case <-p.stopping:
		go run()
	case p.jobs <- j:
	}
}

// Resize changes the number of workers. Shrinking lets busy workers finish;
// they are simply not reused.
func (p *Pool) Resize(n int) {
	if n <= 0 {
		return
	}
	select {
	case <-p.stopping:
	case p.resize <- n:
	}
}

func (p *Pool) Size() int {
	return int(p.size.Load())
}

// Close runs whatever is still in the backlog, waits for every worker to
// return and stops the loop. Jobs dispatched while closing run on their own
// goroutines and are not waited for. Close is idempotent.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.stopping)
		p.close <- struct{}{}
		<-p.stopped
	})
}

func (p *Pool) loop() {
	defer close(p.stopped)
	for {
		select {
		case j := <-p.jobs:
			p.backlog.Push(j)
			p.dispatch()
		case <-p.done:
			p.busy--
			p.dispatch()
		case n := <-p.resize:
			if prev := p.size.Swap(int64(n)); prev != int64(n) {
				p.log.Debugw("pool resized", "from", prev, "to", n)
			}
			p.dispatch()
		case <-p.close:
			for p.backlog.Len() > 0 {
				p.start(p.backlog.Pop())
			}
			p.wg.Wait()
			return
		}
	}
}

// dispatch drains the backlog as much as possible
// based on available workers
func (p *Pool) dispatch() {
	for int64(p.busy) < p.size.Load() && p.backlog.Len() > 0 {
		p.busy++
		p.start(p.backlog.Pop())
	}
}

func (p *Pool) start(j job) {
	p.wg.Add(1)
	go p.work(j)
}

func (p *Pool) work(j job) {
	defer func() {
		if rec := recover(); rec != nil {
			// the queue recovers work panics itself; anything reaching here
			// is a broken queue and must not be swallowed
			p.log.Errorw("dispatched task panicked", "task", j.id, "panic", rec)
			p.wg.Done()
			panic(rec)
		}
		select {
		case p.done <- struct{}{}:
		case <-p.stopping:
		}
		p.wg.Done()
	}()
	j.run()
}

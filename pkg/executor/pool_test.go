package executor_test

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/interface-queue/pkg/executor"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

var req = scheduler.MustTaskRequest(scheduler.PriorityNormal, "pool", "pool test", "")

var _ = Describe("Pool", func() {
	var (
		ctx  context.Context
		pool *executor.Pool
		q    *scheduler.Queue
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if q != nil {
			q.Close()
			q = nil
		}
		if pool != nil {
			pool.Close()
			pool = nil
		}
	})

	Describe("Dispatch", func() {
		It("should run every dispatched task", func() {
			pool = executor.NewPool(4)
			q = scheduler.New(4, scheduler.WithDispatcher(pool))

			var ran atomic.Int64
			for range 20 {
				Expect(q.ScheduleAndForget(req, func(ctx context.Context) (any, error) {
					ran.Add(1)
					return nil, nil
				})).To(Succeed())
			}

			Expect(q.WaitIdle(ctx)).To(Succeed())
			Expect(ran.Load()).To(Equal(int64(20)))
		})

		It("should never run more jobs than workers", func() {
			// Given a pool smaller than the queue limit
			pool = executor.NewPool(2)
			q = scheduler.New(6, scheduler.WithDispatcher(pool))

			var current, peak atomic.Int64
			work := func(ctx context.Context) (any, error) {
				n := current.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				current.Add(-1)
				return nil, nil
			}

			// When
			for range 12 {
				Expect(q.ScheduleAndForget(req, work)).To(Succeed())
			}

			// Then
			Expect(q.WaitIdle(ctx)).To(Succeed())
			Expect(peak.Load()).To(BeNumerically("<=", 2))
		})
	})

	Describe("Priorities", func() {
		It("should start an urgent task before queued low ones when workers match the limit", func() {
			// Given a pool sized to the limit, with every slot busy
			pool = executor.NewPool(2)
			q = scheduler.New(2, scheduler.WithDispatcher(pool))

			releases := []chan struct{}{make(chan struct{}), make(chan struct{})}
			for _, release := range releases {
				Expect(q.ScheduleAndForget(req, func(ctx context.Context) (any, error) {
					<-release
					return nil, nil
				})).To(Succeed())
			}
			Eventually(q.Counters().Running().Get).Should(Equal(2))

			var (
				mu    sync.Mutex
				order []string
			)
			record := func(name string) scheduler.Work[any] {
				return func(ctx context.Context) (any, error) {
					mu.Lock()
					order = append(order, name)
					mu.Unlock()
					return nil, nil
				}
			}
			low := scheduler.MustTaskRequest(scheduler.PriorityLow, "pool", "low", "")
			urgent := scheduler.MustTaskRequest(scheduler.PriorityUrgent, "pool", "urgent", "")

			// When lows are queued before an urgent task
			for _, name := range []string{"low1", "low2", "low3"} {
				Expect(q.ScheduleAndForget(low, record(name))).To(Succeed())
			}
			Expect(q.ScheduleAndForget(urgent, record("urgent"))).To(Succeed())
			Expect(q.Counters().Running().Get()).To(Equal(2))
			Expect(q.Counters().Queued().Get()).To(Equal(4))

			// Then the freed slot serves the urgent task first
			close(releases[0])
			Eventually(func() []string {
				mu.Lock()
				defer mu.Unlock()
				return append([]string(nil), order...)
			}).Should(Equal([]string{"urgent", "low1", "low2", "low3"}))

			close(releases[1])
			Expect(q.WaitIdle(ctx)).To(Succeed())
		})
	})

	Describe("Resize", func() {
		It("should start backlogged jobs when grown", func() {
			pool = executor.NewPool(1)
			q = scheduler.New(3, scheduler.WithDispatcher(pool))

			started := make(chan struct{}, 3)
			release := make(chan struct{})
			for range 3 {
				Expect(q.ScheduleAndForget(req, func(ctx context.Context) (any, error) {
					started <- struct{}{}
					<-release
					return nil, nil
				})).To(Succeed())
			}
			Eventually(started).Should(Receive())
			Consistently(started, 100*time.Millisecond).ShouldNot(Receive())

			pool.Resize(3)
			Eventually(pool.Size).Should(Equal(3))

			Eventually(started).Should(Receive())
			Eventually(started).Should(Receive())
			close(release)
			Expect(q.WaitIdle(ctx)).To(Succeed())
		})
	})

	Describe("Close", func() {
		It("should wait for in-flight jobs", func() {
			pool = executor.NewPool(1)
			q = scheduler.New(1, scheduler.WithDispatcher(pool))

			started := make(chan struct{})
			unblock := make(chan struct{})
			Expect(q.ScheduleAndForget(req, func(ctx context.Context) (any, error) {
				close(started)
				<-unblock
				return "done", nil
			})).To(Succeed())
			Eventually(started, 1*time.Second).Should(BeClosed())

			closeDone := make(chan struct{})
			go func() {
				pool.Close()
				close(closeDone)
			}()

			Consistently(closeDone, 200*time.Millisecond).ShouldNot(BeClosed())
			close(unblock)
			Eventually(closeDone, 1*time.Second).Should(BeClosed())
		})

		It("should not hang while the queue still has pending work", func() {
			// Given one slot, one worker and a second task waiting behind the first
			pool = executor.NewPool(1)
			q = scheduler.New(1, scheduler.WithDispatcher(pool))

			var ran atomic.Int64
			work := func(ctx context.Context) (any, error) {
				time.Sleep(50 * time.Millisecond)
				ran.Add(1)
				return nil, nil
			}
			Expect(q.ScheduleAndForget(req, work)).To(Succeed())
			Expect(q.ScheduleAndForget(req, work)).To(Succeed())
			Eventually(q.Counters().Running().Get).Should(Equal(1))

			// When the pool closes before the queue
			closeDone := make(chan struct{})
			go func() {
				pool.Close()
				close(closeDone)
			}()

			// Then Close returns and the queued task still runs exactly once
			Eventually(closeDone, 3*time.Second).Should(BeClosed())
			Expect(q.WaitIdle(ctx)).To(Succeed())
			Expect(ran.Load()).To(Equal(int64(2)))
			Expect(q.Counters().Finished().Get()).To(Equal(2))
		})

		It("should keep running tasks dispatched after Close", func() {
			pool = executor.NewPool(1)
			pool.Close()
			q = scheduler.New(1, scheduler.WithDispatcher(pool))

			v, err := q.ScheduleAndWait(ctx, req, func(ctx context.Context) (any, error) {
				return "late", nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("late"))
			Expect(pool.Close).NotTo(Panic())
		})

		It("should not leak goroutines", func() {
			base := runtime.NumGoroutine()
			pool = executor.NewPool(4)
			q = scheduler.New(4, scheduler.WithDispatcher(pool))

			for range 200 {
				Expect(q.ScheduleAndForget(req, func(ctx context.Context) (any, error) {
					<-ctx.Done()
					return nil, ctx.Err()
				})).To(Succeed())
			}

			time.Sleep(100 * time.Millisecond)
			q.Close()
			pool.Close()
			q, pool = nil, nil

			Eventually(func() int {
				return runtime.NumGoroutine()
			}, 5*time.Second, 100*time.Millisecond).Should(BeNumerically("<=", base+10))
		})
	})
})

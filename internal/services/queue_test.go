package services_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/interface-queue/internal/services"
	srvErrors "github.com/kubev2v/interface-queue/pkg/errors"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

var _ = Describe("QueueService", func() {
	var (
		ctx context.Context
		e   *env
		svc *services.QueueService
	)

	BeforeEach(func() {
		ctx = context.Background()
		e = newEnv(2)
		svc = services.NewQueueService(e.inv, e.pool, 10)
	})

	AfterEach(func() {
		e.close()
	})

	Describe("Status", func() {
		It("should report an idle queue", func() {
			status := svc.Status()

			Expect(status.MaxActiveTasks).To(Equal(2))
			Expect(status.PoolSize).To(Equal(2))
			Expect(status.Size).To(BeZero())
			Expect(status.Running).To(BeZero())
			Expect(status.Closed).To(BeFalse())
			Expect(status.Broken).To(BeFalse())
		})

		It("should count finished tasks", func() {
			req := scheduler.MustTaskRequest(scheduler.PriorityNormal, "noop", "", "")
			for range 3 {
				_, err := e.queue.ScheduleAndWait(ctx, req, func(ctx context.Context) (any, error) { return nil, nil })
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(svc.Status().Finished).To(Equal(3))
		})
	})

	Describe("SetMaxActiveTasks", func() {
		It("should reject a non positive limit", func() {
			err := svc.SetMaxActiveTasks(ctx, 0, "test")

			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
			Expect(e.queue.MaxActiveTasks()).To(Equal(2))
		})

		It("should apply the limit and grow the pool", func() {
			Expect(svc.SetMaxActiveTasks(ctx, 5, "test")).To(Succeed())

			Expect(e.queue.MaxActiveTasks()).To(Equal(5))
			Eventually(e.pool.Size).Should(Equal(5))
		})

		It("should not shrink the pool", func() {
			Expect(svc.SetMaxActiveTasks(ctx, 1, "test")).To(Succeed())

			Expect(e.queue.MaxActiveTasks()).To(Equal(1))
			Consistently(e.pool.Size, 100*time.Millisecond).Should(Equal(2))
		})

		It("should be restored by a new service on the same database", func() {
			Expect(svc.SetMaxActiveTasks(ctx, 4, "test")).To(Succeed())
			Expect(e.queue.SetMaxActiveTasks(2)).To(Succeed())

			restored, err := services.NewQueueService(e.inv, e.pool, 0).RestoreMaxActiveTasks(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(restored).To(BeTrue())
			Expect(e.queue.MaxActiveTasks()).To(Equal(4))
		})

		It("should be unavailable once the queue is closed", func() {
			e.queue.Close()

			err := svc.SetMaxActiveTasks(ctx, 3, "test")

			Expect(srvErrors.IsUnavailableError(err)).To(BeTrue())
			Expect(errors.Is(err, scheduler.ErrQueueClosed)).To(BeTrue())
		})
	})

	Describe("RestoreMaxActiveTasks", func() {
		It("should keep the current limit when nothing was saved", func() {
			restored, err := svc.RestoreMaxActiveTasks(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(restored).To(BeFalse())
			Expect(e.queue.MaxActiveTasks()).To(Equal(2))
		})
	})

	Describe("ApplyMaxActiveTasks", func() {
		It("should not persist the limit", func() {
			Expect(svc.ApplyMaxActiveTasks(3)).To(Succeed())
			Expect(e.queue.MaxActiveTasks()).To(Equal(3))

			restored, err := svc.RestoreMaxActiveTasks(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(restored).To(BeFalse())
		})

		It("should give every running task a worker", func() {
			// Given a limit raised above the initial pool size
			Expect(svc.ApplyMaxActiveTasks(5)).To(Succeed())
			Eventually(e.pool.Size).Should(Equal(5))

			// When as many tasks as the limit are submitted
			started := make(chan struct{}, 5)
			release := make(chan struct{})
			req := scheduler.MustTaskRequest(scheduler.PriorityLow, "blocker", "", "")
			for range 5 {
				Expect(e.queue.ScheduleAndForget(req, func(ctx context.Context) (any, error) {
					started <- struct{}{}
					<-release
					return nil, nil
				})).To(Succeed())
			}

			// Then every task counted as running is actually executing
			Expect(e.queue.Counters().Running().Get()).To(Equal(5))
			for range 5 {
				Eventually(started).Should(Receive())
			}
			close(release)
			Expect(e.queue.WaitIdle(ctx)).To(Succeed())
		})

		It("should reject an invalid limit", func() {
			err := svc.ApplyMaxActiveTasks(-1)
			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
		})
	})

	Describe("History", func() {
		run := func(subject string, fail bool) {
			req := scheduler.MustTaskRequest(scheduler.PriorityHigh, subject, "history", "site-1")
			_, _ = e.queue.ScheduleAndWait(ctx, req, func(ctx context.Context) (any, error) {
				if fail {
					return nil, errors.New("boom")
				}
				return nil, nil
			})
		}

		It("should record every state change, newest first", func() {
			run("first", false)

			events := svc.History(0)

			Expect(events).To(HaveLen(3))
			Expect(events[0].State).To(Equal(scheduler.TaskFinished.String()))
			Expect(events[1].State).To(Equal(scheduler.TaskRunning.String()))
			Expect(events[2].State).To(Equal(scheduler.TaskQueued.String()))
			Expect(events[0].Subject).To(Equal("first"))
			Expect(events[0].Site).To(Equal("site-1"))
			Expect(events[0].Priority).To(Equal("high"))
		})

		It("should filter by state and limit", func() {
			run("ok", false)
			run("bad", true)
			run("ok again", false)

			events := svc.History(2, scheduler.TaskFinished.String(), scheduler.TaskFailed.String())

			Expect(events).To(HaveLen(2))
			Expect(events[0].Subject).To(Equal("ok again"))
			Expect(events[1].Subject).To(Equal("bad"))
			Expect(events[1].State).To(Equal(scheduler.TaskFailed.String()))
			Expect(events[1].Error).To(Equal("boom"))
		})

		It("should keep only the newest events", func() {
			for range 5 {
				run("many", false)
			}

			Expect(svc.History(0)).To(HaveLen(10))
		})

		It("should be empty when disabled", func() {
			disabled := services.NewQueueService(e.inv, e.pool, 0)
			run("unseen", false)

			Expect(disabled.History(0)).To(BeEmpty())
		})
	})
})

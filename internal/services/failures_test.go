package services_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/interface-queue/internal/models"
	"github.com/kubev2v/interface-queue/internal/services"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

var _ = Describe("FailureRecorder", func() {
	var (
		ctx        context.Context
		e          *env
		rec        *services.FailureRecorder
		svc        *services.QueueService
		statements *services.StatementService
	)

	BeforeEach(func() {
		ctx = context.Background()
		rec = services.NewFailureRecorder()
		e = newEnv(2, scheduler.WithErrorHandler(rec.Record))
		rec.Start(e.inv)

		svc = services.NewQueueService(e.inv, e.pool, 0)
		statements = services.NewStatementService(e.inv)
	})

	AfterEach(func() {
		rec.Stop()
		e.close()
	})

	It("should record failed background statements", func() {
		_, err := statements.Execute(ctx, services.StatementParams{
			SQL:   "INSERT INTO missing VALUES (1)",
			Async: true,
			Site:  "req-1",
		})
		Expect(err).NotTo(HaveOccurred())

		var failures []models.TaskFailure
		Eventually(func() []models.TaskFailure {
			failures, err = svc.Failures(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			return failures
		}, 5*time.Second).Should(HaveLen(1))

		Expect(failures[0].Subject).To(Equal("statement"))
		Expect(failures[0].Site).To(Equal("req-1"))
		Expect(failures[0].Priority).To(Equal("low"))
		Expect(failures[0].Error).To(ContainSubstring("missing"))
	})

	It("should not record failures of synchronous tasks", func() {
		_, err := statements.Execute(ctx, services.StatementParams{SQL: "SELECT * FROM missing"})
		Expect(err).To(HaveOccurred())

		Consistently(func() []models.TaskFailure {
			failures, err := svc.Failures(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			return failures
		}, 300*time.Millisecond).Should(BeEmpty())
	})

	It("should filter failures by subject", func() {
		req := scheduler.MustTaskRequest(scheduler.PriorityLow, "cleanup", "", "")
		Expect(e.queue.ScheduleAndForget(req, func(ctx context.Context) (any, error) {
			return nil, context.DeadlineExceeded
		})).To(Succeed())
		_, err := statements.Execute(ctx, services.StatementParams{SQL: "DROP TABLE missing", Async: true})
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() int {
			all, err := svc.Failures(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			return len(all)
		}, 5*time.Second).Should(Equal(2))

		cleanup, err := svc.Failures(ctx, 0, "cleanup")
		Expect(err).NotTo(HaveOccurred())
		Expect(cleanup).To(HaveLen(1))
		Expect(cleanup[0].Priority).To(Equal("low"))
	})

	It("should stop twice without blocking", func() {
		rec.Stop()
		rec.Stop()
	})
})

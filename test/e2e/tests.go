package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/interface-queue/api/v1"
	srvErrors "github.com/kubev2v/interface-queue/pkg/errors"
)

var _ = Describe("Interface queue", Ordered, func() {
	var (
		ctx      context.Context
		original int
	)

	BeforeAll(func() {
		ctx = context.Background()
		Eventually(func() error {
			_, err := apiClient.GetQueueStatus(ctx)
			return err
		}, time.Minute, time.Second).Should(Succeed())

		status, err := apiClient.GetQueueStatus(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(status.Broken).To(BeFalse())
		original = status.MaxActiveTasks
	})

	AfterAll(func() {
		_, err := apiClient.SetQueueLimit(ctx, original)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should change the limit at runtime", func() {
		status, err := apiClient.SetQueueLimit(ctx, 2)

		Expect(err).NotTo(HaveOccurred())
		Expect(status.MaxActiveTasks).To(Equal(2))
		Expect(status.PoolSize).To(BeNumerically(">=", 2))
	})

	It("should reject an invalid limit", func() {
		_, err := apiClient.SetQueueLimit(ctx, 0)
		Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
	})

	It("should never run more statements than the limit", func() {
		var (
			mu   sync.Mutex
			peak int
			done = make(chan struct{})
		)
		go func() {
			defer GinkgoRecover()
			for {
				select {
				case <-done:
					return
				case <-time.After(20 * time.Millisecond):
				}
				status, err := apiClient.GetQueueStatus(ctx)
				if err != nil {
					continue
				}
				mu.Lock()
				peak = max(peak, status.Running)
				mu.Unlock()
			}
		}()

		var wg sync.WaitGroup
		errs := make(chan error, cfg.Tasks)
		for i := range cfg.Tasks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := apiClient.ExecuteStatement(ctx, v1.StatementRequest{
					Sql: fmt.Sprintf("SELECT count(*) FROM range(%d)", 2_000_000+i),
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(done)
		close(errs)

		for err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
		mu.Lock()
		defer mu.Unlock()
		zap.S().Infow("observed peak", "running", peak)
		Expect(peak).To(BeNumerically("<=", 2))
	})

	It("should record the statements in the task history", func() {
		events, err := apiClient.ListQueueTasks(ctx, 10, v1.Finished)

		Expect(err).NotTo(HaveOccurred())
		Expect(events).NotTo(BeEmpty())
		for _, e := range events {
			Expect(e.State).To(Equal(v1.Finished))
		}
	})

	It("should list failed background statements", func() {
		statement := fmt.Sprintf("DELETE FROM e2e_missing_%d", time.Now().UnixNano())
		_, err := apiClient.ExecuteStatement(ctx, v1.StatementRequest{Sql: statement, Async: ptr(true)})
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() ([]v1.TaskFailure, error) {
			return apiClient.ListQueueFailures(ctx, 10)
		}, 10*time.Second, 200*time.Millisecond).Should(ContainElement(HaveField("Subject", "statement")))
	})
})

func ptr[T any](v T) *T {
	return &v
}

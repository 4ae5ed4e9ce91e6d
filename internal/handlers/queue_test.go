package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/interface-queue/api/v1"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

var _ = Describe("Queue handlers", func() {
	var a *api

	BeforeEach(func() {
		a = newAPI(3)
	})

	AfterEach(func() {
		a.close()
	})

	Describe("GET /queue", func() {
		It("should return the queue status", func() {
			w := a.do(http.MethodGet, "/queue", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			status := decode[v1.QueueStatus](w)
			Expect(status.MaxActiveTasks).To(Equal(3))
			Expect(status.PoolSize).To(Equal(3))
			Expect(status.Closed).To(BeFalse())
		})

		It("should echo the request id", func() {
			w := a.do(http.MethodGet, "/queue", nil, "X-Request-ID", "req-42")
			Expect(w.Header().Get("X-Request-ID")).To(Equal("req-42"))

			w = a.do(http.MethodGet, "/queue", nil)
			Expect(w.Header().Get("X-Request-ID")).NotTo(BeEmpty())
		})
	})

	Describe("PUT /queue/limit", func() {
		It("should change the limit", func() {
			w := a.do(http.MethodPut, "/queue/limit", v1.QueueLimitUpdate{MaxActiveTasks: 6})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode[v1.QueueStatus](w).MaxActiveTasks).To(Equal(6))
			Expect(a.queue.MaxActiveTasks()).To(Equal(6))
		})

		It("should reject a non positive limit", func() {
			w := a.do(http.MethodPut, "/queue/limit", v1.QueueLimitUpdate{MaxActiveTasks: 0}, "X-Request-ID", "req-1")

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			body := decode[v1.Error](w)
			Expect(body.Error).To(ContainSubstring("maxActiveTasks"))
			Expect(body.RequestId).To(HaveValue(Equal("req-1")))
		})

		It("should reject a malformed body", func() {
			w := a.do(http.MethodPut, "/queue/limit", "five")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should answer 503 once the queue is closed", func() {
			a.queue.Close()

			w := a.do(http.MethodPut, "/queue/limit", v1.QueueLimitUpdate{MaxActiveTasks: 4})
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("GET /queue/tasks", func() {
		BeforeEach(func() {
			req := scheduler.MustTaskRequest(scheduler.PriorityHigh, "probe", "handler test", "site-a")
			_, _ = a.queue.ScheduleAndWait(context.Background(), req, func(ctx context.Context) (any, error) {
				return nil, nil
			})
			_, _ = a.queue.ScheduleAndWait(context.Background(), req, func(ctx context.Context) (any, error) {
				return nil, errors.New("nope")
			})
		})

		It("should list events newest first", func() {
			w := a.do(http.MethodGet, "/queue/tasks", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			events := decode[v1.TaskEventList](w).Events
			Expect(events).To(HaveLen(6))
			Expect(events[0].State).To(Equal(v1.Failed))
			Expect(events[0].Error).To(HaveValue(Equal("nope")))
			Expect(events[0].DurationMs).NotTo(BeNil())
			Expect(events[5].State).To(Equal(v1.Queued))
			Expect(events[5].StartedAt).To(BeNil())
		})

		It("should filter by state", func() {
			w := a.do(http.MethodGet, "/queue/tasks?state=finished&state=failed&limit=1", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			events := decode[v1.TaskEventList](w).Events
			Expect(events).To(HaveLen(1))
			Expect(events[0].State).To(Equal(v1.Failed))
			Expect(events[0].Priority).To(Equal(v1.High))
			Expect(events[0].Site).To(HaveValue(Equal("site-a")))
		})

		It("should reject an unknown state", func() {
			w := a.do(http.MethodGet, "/queue/tasks?state=sleeping", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a malformed limit", func() {
			w := a.do(http.MethodGet, "/queue/tasks?limit=many", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /queue/failures", func() {
		It("should list failed background statements", func() {
			w := a.do(http.MethodPost, "/statements", v1.StatementRequest{Sql: "DELETE FROM missing", Async: ptr(true)}, "X-Request-ID", "bg-1")
			Expect(w.Code).To(Equal(http.StatusAccepted))

			var failures []v1.TaskFailure
			Eventually(func() []v1.TaskFailure {
				w := a.do(http.MethodGet, "/queue/failures?subject=statement", nil)
				Expect(w.Code).To(Equal(http.StatusOK))
				failures = decode[v1.TaskFailureList](w).Failures
				return failures
			}, 5*time.Second).Should(HaveLen(1))

			Expect(failures[0].Site).To(HaveValue(Equal("bg-1")))
			Expect(failures[0].Error).To(ContainSubstring("missing"))
		})

		It("should reject a non positive limit", func() {
			w := a.do(http.MethodGet, "/queue/failures?limit=0", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})

func ptr[T any](v T) *T {
	return &v
}

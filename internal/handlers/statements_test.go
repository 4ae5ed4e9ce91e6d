package handlers_test

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/interface-queue/api/v1"
)

var _ = Describe("Statement handlers", func() {
	var a *api

	BeforeEach(func() {
		a = newAPI(2)
		a.exec(`CREATE TABLE counters AS SELECT range AS n FROM range(5)`)
	})

	AfterEach(func() {
		a.close()
	})

	It("should return rows of a synchronous statement", func() {
		w := a.do(http.MethodPost, "/statements", v1.StatementRequest{
			Sql:      "SELECT n FROM counters ORDER BY n",
			MaxRows:  ptr(2),
			Priority: ptr(v1.High),
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		result := decode[v1.StatementResult](w)
		Expect(result.Columns).To(Equal([]string{"n"}))
		Expect(result.Rows).To(HaveLen(2))
		Expect(result.Truncated).To(HaveValue(BeTrue()))
	})

	It("should accept an asynchronous statement", func() {
		w := a.do(http.MethodPost, "/statements", v1.StatementRequest{
			Sql:   "UPDATE counters SET n = n + 10",
			Async: ptr(true),
		}, "X-Request-ID", "async-1")

		Expect(w.Code).To(Equal(http.StatusAccepted))
		Expect(decode[v1.StatementAccepted](w)).To(Equal(v1.StatementAccepted{Accepted: true, RequestId: "async-1"}))

		Expect(a.queue.WaitIdle(context.Background())).To(Succeed())
		var lowest int
		Expect(a.db.QueryRow("SELECT min(n) FROM counters").Scan(&lowest)).To(Succeed())
		Expect(lowest).To(Equal(10))
	})

	It("should answer 400 for a failing statement", func() {
		w := a.do(http.MethodPost, "/statements", v1.StatementRequest{Sql: "SELEC 1"})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 400 for an empty statement", func() {
		w := a.do(http.MethodPost, "/statements", v1.StatementRequest{Sql: ""})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 503 once the queue is closed", func() {
		a.queue.Close()

		w := a.do(http.MethodPost, "/statements", v1.StatementRequest{Sql: "SELECT 1"})

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})
})

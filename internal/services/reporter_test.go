package services_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kubev2v/interface-queue/internal/models"
	"github.com/kubev2v/interface-queue/internal/services"
)

var _ = Describe("Reporter", func() {
	var (
		logs    *observer.ObservedLogs
		restore func()
		status  models.QueueStatus
	)

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.InfoLevel)
		restore = zap.ReplaceGlobals(zap.New(core))
		status = models.QueueStatus{MaxActiveTasks: 2}
	})

	AfterEach(func() {
		restore()
	})

	newReporter := func(schedule string) *services.Reporter {
		r, err := services.NewReporter(func() models.QueueStatus { return status }, schedule)
		Expect(err).NotTo(HaveOccurred())
		return r
	}

	It("should reject an invalid schedule", func() {
		_, err := services.NewReporter(func() models.QueueStatus { return status }, "whenever")
		Expect(err).To(MatchError(ContainSubstring("invalid report schedule")))
	})

	It("should report finished tasks since the last report", func() {
		r := newReporter("@every 1h")

		status.Finished = 4
		r.Report()
		status.Finished = 7
		r.Report()

		entries := logs.FilterMessage("queue statistics").All()
		Expect(entries).To(HaveLen(2))
		Expect(entries[1].ContextMap()).To(HaveKeyWithValue("finished_since_last", int64(3)))
	})

	It("should warn about a saturated queue", func() {
		r := newReporter("@every 1h")
		status.Running = 2
		status.Queued = 5

		r.Report()

		Expect(logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("queue saturated").Len()).To(Equal(1))
	})

	It("should report a broken queue as an error", func() {
		r := newReporter("@every 1h")
		status.Broken = true

		r.Report()

		Expect(logs.FilterLevelExact(zapcore.ErrorLevel).Len()).To(Equal(1))
	})

	It("should report on schedule until stopped", func() {
		r := newReporter("@every 1s")
		r.Start()

		Eventually(func() int {
			return logs.FilterMessage("queue statistics").Len()
		}, 3*time.Second).Should(BeNumerically(">=", 1))

		r.Stop()
		n := logs.FilterMessage("queue statistics").Len()
		Consistently(func() int {
			return logs.FilterMessage("queue statistics").Len()
		}, 1500*time.Millisecond).Should(Equal(n))
	})
})

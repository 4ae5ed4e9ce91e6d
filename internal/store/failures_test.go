package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/interface-queue/internal/models"
	"github.com/kubev2v/interface-queue/internal/store"
	"github.com/kubev2v/interface-queue/internal/store/migrations"
)

var _ = Describe("FailureStore", func() {
	var (
		ctx context.Context
		db  *sql.DB
		s   *store.FailureStore
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(store.MemoryPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())

		s = store.NewStore(db).Failures()
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	insert := func(n int, subject string) {
		for i := range n {
			Expect(s.Insert(ctx, models.TaskFailure{
				TaskID:   uint64(i + 1),
				Priority: "low",
				Subject:  subject,
				Site:     "site",
				Error:    fmt.Sprintf("failure %d", i+1),
				FailedAt: time.Now(),
			})).To(Succeed())
		}
	}

	It("should list failures newest first", func() {
		insert(3, "refresh")

		failures, err := s.List(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(failures).To(HaveLen(3))
		Expect(failures[0].TaskID).To(Equal(uint64(3)))
		Expect(failures[0].Error).To(Equal("failure 3"))
		Expect(failures[2].TaskID).To(Equal(uint64(1)))
	})

	It("should filter by subject and limit", func() {
		insert(2, "refresh")
		insert(3, "statement")

		failures, err := s.List(ctx, store.BySubject("statement"), store.WithLimit(2))

		Expect(err).NotTo(HaveOccurred())
		Expect(failures).To(HaveLen(2))
		for _, f := range failures {
			Expect(f.Subject).To(Equal("statement"))
		}
	})

	It("should prune to the newest records", func() {
		insert(5, "refresh")

		Expect(s.Prune(ctx, 2)).To(Succeed())

		failures, err := s.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(failures).To(HaveLen(2))
		Expect(failures[0].TaskID).To(Equal(uint64(5)))
		Expect(failures[1].TaskID).To(Equal(uint64(4)))
	})
})

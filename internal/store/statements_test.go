package store_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/interface-queue/internal/store"
)

var _ = Describe("StatementStore", func() {
	var (
		ctx  context.Context
		db   *sql.DB
		conn *sql.Conn
		s    *store.StatementStore
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(store.MemoryPath)
		Expect(err).NotTo(HaveOccurred())

		conn, err = db.Conn(ctx)
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStatementStore(store.WithQueryLogging(conn))
	})

	AfterEach(func() {
		if conn != nil {
			conn.Close()
		}
		if db != nil {
			db.Close()
		}
	})

	It("should execute statements and report affected rows", func() {
		_, err := s.Exec(ctx, `CREATE TABLE t (id INTEGER, label VARCHAR)`)
		Expect(err).NotTo(HaveOccurred())

		n, err := s.Exec(ctx, `INSERT INTO t VALUES (1, 'a'), (2, 'b'), (3, 'c')`)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(3)))
	})

	It("should return columns and rows of a query", func() {
		_, err := s.Exec(ctx, `CREATE TABLE t AS SELECT * FROM (VALUES (1, 'a'), (2, 'b')) v(id, label)`)
		Expect(err).NotTo(HaveOccurred())

		result, err := s.Query(ctx, `SELECT id, label FROM t ORDER BY id`, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Columns).To(Equal([]string{"id", "label"}))
		Expect(result.Rows).To(HaveLen(2))
		Expect(result.Rows[1][1]).To(Equal("b"))
	})

	It("should cap the number of returned rows", func() {
		result, err := s.Query(ctx, `SELECT * FROM range(100)`, 10)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Rows).To(HaveLen(10))
		Expect(result.Truncated).To(BeTrue())
	})

	It("should not mark a result that fits as truncated", func() {
		result, err := s.Query(ctx, `SELECT * FROM range(10)`, 10)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.Rows).To(HaveLen(10))
		Expect(result.Truncated).To(BeFalse())
	})

	It("should surface SQL errors", func() {
		_, err := s.Query(ctx, `SELECT * FROM nowhere`, 0)
		Expect(err).To(HaveOccurred())
	})
})

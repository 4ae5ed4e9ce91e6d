package store_test

import (
	"context"
	"database/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/interface-queue/internal/models"
	"github.com/kubev2v/interface-queue/internal/store"
	srvErrors "github.com/kubev2v/interface-queue/pkg/errors"
)

var _ = Describe("MetadataStore", func() {
	var (
		ctx context.Context
		db  *sql.DB
		s   *store.MetadataStore
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(store.MemoryPath)
		Expect(err).NotTo(HaveOccurred())

		for _, stmt := range []string{
			`CREATE SCHEMA sales`,
			`CREATE TABLE main.customers (id INTEGER NOT NULL, name VARCHAR)`,
			`CREATE TABLE main.cust_notes (id INTEGER, note VARCHAR)`,
			`CREATE TABLE sales.orders (id INTEGER, customer_id INTEGER, total DOUBLE)`,
			`CREATE VIEW main.big_orders AS SELECT * FROM sales.orders WHERE total > 100`,
			`INSERT INTO main.customers VALUES (1, 'ada'), (2, 'grace'), (3, 'edsger')`,
		} {
			_, err := db.ExecContext(ctx, stmt)
			Expect(err).NotTo(HaveOccurred())
		}

		s = store.NewMetadataStore(db)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("ListTables", func() {
		It("should list tables and views ordered by schema and name", func() {
			tables, err := s.ListTables(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(tables).To(Equal([]models.Table{
				{Schema: "main", Name: "big_orders", Type: "VIEW"},
				{Schema: "main", Name: "cust_notes", Type: "BASE TABLE"},
				{Schema: "main", Name: "customers", Type: "BASE TABLE"},
				{Schema: "sales", Name: "orders", Type: "BASE TABLE"},
			}))
		})

		It("should filter by schema", func() {
			tables, err := s.ListTables(ctx, store.BySchemas("sales"))

			Expect(err).NotTo(HaveOccurred())
			Expect(tables).To(HaveLen(1))
			Expect(tables[0].Name).To(Equal("orders"))
		})

		It("should filter by type and name prefix", func() {
			tables, err := s.ListTables(ctx, store.ByTableTypes("BASE TABLE"), store.ByNamePrefix("cust"))

			Expect(err).NotTo(HaveOccurred())
			Expect(tables).To(HaveLen(2))
		})

		It("should page with limit and offset", func() {
			tables, err := s.ListTables(ctx, store.WithLimit(2), store.WithOffset(1))

			Expect(err).NotTo(HaveOccurred())
			Expect(tables).To(HaveLen(2))
			Expect(tables[0].Name).To(Equal("cust_notes"))
		})
	})

	Context("CountTables", func() {
		It("should count with the same filters", func() {
			count, err := s.CountTables(ctx, store.BySchemas("main"))

			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
		})
	})

	Context("Describe", func() {
		It("should return columns and row count", func() {
			details, err := s.Describe(ctx, "main", "customers")

			Expect(err).NotTo(HaveOccurred())
			Expect(details.Rows).To(Equal(int64(3)))
			Expect(details.Columns).To(HaveLen(2))
			Expect(details.Columns[0].Name).To(Equal("id"))
			Expect(details.Columns[0].Nullable).To(BeFalse())
			Expect(details.Columns[1].Name).To(Equal("name"))
			Expect(details.Columns[1].Nullable).To(BeTrue())
		})

		It("should skip the row count for views", func() {
			details, err := s.Describe(ctx, "main", "big_orders")

			Expect(err).NotTo(HaveOccurred())
			Expect(details.Type).To(Equal("VIEW"))
			Expect(details.Rows).To(BeZero())
		})

		It("should return not found for an unknown table", func() {
			_, err := s.Describe(ctx, "main", "missing")

			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})
})

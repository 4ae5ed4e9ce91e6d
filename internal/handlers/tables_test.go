package handlers_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/interface-queue/api/v1"
)

var _ = Describe("Table handlers", func() {
	var a *api

	BeforeEach(func() {
		a = newAPI(2)
		a.exec(
			`CREATE SCHEMA inventory`,
			`CREATE TABLE inventory.hosts (id INTEGER NOT NULL, name VARCHAR)`,
			`CREATE TABLE inventory.host_tags (host_id INTEGER, tag VARCHAR)`,
			`CREATE TABLE inventory.networks (id INTEGER)`,
			`INSERT INTO inventory.hosts VALUES (1, 'a'), (2, 'b'), (3, 'c')`,
		)
	})

	AfterEach(func() {
		a.close()
	})

	Describe("GET /tables", func() {
		It("should paginate", func() {
			w := a.do(http.MethodGet, "/tables?schema=inventory&page=2&pageSize=2", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			body := decode[v1.TableListResponse](w)
			Expect(body.Total).To(Equal(3))
			Expect(body.Page).To(Equal(2))
			Expect(body.PageCount).To(Equal(2))
			Expect(body.Tables).To(Equal([]v1.Table{{Schema: "inventory", Name: "networks", Type: "BASE TABLE"}}))
		})

		It("should filter by prefix", func() {
			w := a.do(http.MethodGet, "/tables?schema=inventory&prefix=host&priority=urgent", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			body := decode[v1.TableListResponse](w)
			Expect(body.Total).To(Equal(2))
			Expect(body.Tables).To(HaveLen(2))
		})

		It("should reject an unknown priority", func() {
			w := a.do(http.MethodGet, "/tables?priority=whenever", nil)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode[v1.Error](w).Error).To(ContainSubstring("priority"))
		})

		It("should reject a malformed page", func() {
			w := a.do(http.MethodGet, "/tables?page=first", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /tables/{schema}/{table}", func() {
		It("should describe the table", func() {
			w := a.do(http.MethodGet, "/tables/inventory/hosts", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			details := decode[v1.TableDetails](w)
			Expect(details.Rows).To(Equal(int64(3)))
			Expect(details.Columns).To(HaveLen(2))
			Expect(details.Columns[0]).To(Equal(v1.Column{Name: "id", DataType: "INTEGER", Nullable: false, Position: 1}))
		})

		It("should answer 404 for an unknown table", func() {
			w := a.do(http.MethodGet, "/tables/inventory/nothing", nil)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})

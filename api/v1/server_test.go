package v1_test

import (
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.yaml.in/yaml/v3"

	v1 "github.com/kubev2v/interface-queue/api/v1"
)

var pathParam = regexp.MustCompile(`\{(\w+)\}`)

// documentedRoutes returns "METHOD /path" for every operation in openapi.yaml,
// with path parameters written the way gin expects them.
func documentedRoutes() []string {
	data, err := os.ReadFile("openapi.yaml")
	Expect(err).NotTo(HaveOccurred())

	var doc struct {
		Paths map[string]map[string]yaml.Node `yaml:"paths"`
	}
	Expect(yaml.Unmarshal(data, &doc)).To(Succeed())

	var routes []string
	for path, ops := range doc.Paths {
		for method := range ops {
			switch strings.ToUpper(method) {
			case http.MethodGet, http.MethodPut, http.MethodPost, http.MethodPatch, http.MethodDelete:
				routes = append(routes, strings.ToUpper(method)+" /api/v1"+pathParam.ReplaceAllString(path, ":$1"))
			}
		}
	}
	return routes
}

var _ = Describe("RegisterHandlersWithOptions", func() {
	It("should register exactly the operations of openapi.yaml", func() {
		gin.SetMode(gin.TestMode)
		router := gin.New()

		var h v1.ServerInterface
		v1.RegisterHandlersWithOptions(router.Group("/api/v1"), h, v1.GinServerOptions{})

		var registered []string
		for _, r := range router.Routes() {
			registered = append(registered, r.Method+" "+r.Path)
		}

		documented := documentedRoutes()
		Expect(documented).To(HaveLen(7))
		Expect(registered).To(ConsistOf(documented))
	})
})

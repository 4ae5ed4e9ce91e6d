package main

import (
	"flag"
	"log"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/interface-queue/pkg/client"
)

type configuration struct {
	APIUrl  string
	Timeout time.Duration
	Tasks   int
}

var (
	cfg       configuration
	apiClient *client.Client
)

func main() {
	flag.StringVar(&cfg.APIUrl, "api-url", "http://localhost:8000", "Interface queue API url")
	flag.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "Request timeout")
	flag.IntVar(&cfg.Tasks, "tasks", 40, "Number of concurrent statements per scenario")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	apiClient, err = client.NewClient(cfg.APIUrl, cfg.Timeout)
	if err != nil {
		log.Fatalf("failed to create api client: %v", err)
	}

	RegisterFailHandler(Fail)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}

/*
Package main provides end-to-end tests for a running interface-queue service.

# Package Structure

	test/e2e/
	├── main.go   Entry point: flags, logger, api client, Ginkgo runner
	├── tests.go  Ginkgo test specs
	└── doc.go    This file

The suite does not start the service. Point it at one that is already
running, for example:

	interface-queue run --max-active-tasks 4 &
	go run ./test/e2e -api-url http://localhost:8000 -tasks 40

# Flags

	┌───────────┬────────────────────────┬──────────────────────────────────┐
	│ Flag      │ Default                │ Description                      │
	├───────────┼────────────────────────┼──────────────────────────────────┤
	│ -api-url  │ http://localhost:8000  │ Service base url                 │
	│ -timeout  │ 30s                    │ Per request timeout              │
	│ -tasks    │ 40                     │ Concurrent statements submitted  │
	└───────────┴────────────────────────┴──────────────────────────────────┘

# Scenarios

Scenarios run in order and put the limit back to its starting value:

  - the limit can be changed at runtime and the pool follows it
  - a non-positive limit is rejected with 400
  - concurrent statements never exceed the limit, sampled through GET /queue
  - finished statements appear in the task history
  - a failing asynchronous statement is listed in the recorded failures
*/
package main

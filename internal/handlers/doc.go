// Package handlers implements the HTTP API layer for the interface-queue service.
//
// Handlers delegate to the services layer and focus on request validation,
// response formatting and HTTP semantics. They never wait on the database
// directly: every operation becomes a task in the interface queue.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request id assignment                                        │
//	│  - Parameter parsing                                            │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  QueueService │ MetadataService │ StatementService              │
//	└─────────────────────────────────────────────────────────────────┘
//
// The Handler implements the ServerInterface generated from the OpenAPI spec
// in api/v1/openapi.yaml:
//
//	v1.RegisterHandlersWithOptions(router, handler, v1.GinServerOptions{
//	    ErrorHandler: handlers.ErrorHandler,
//	})
//
// # API Endpoints
//
//	┌────────┬──────────────────────────┬──────────────────────────────────────┐
//	│ Method │ Endpoint                 │ Description                          │
//	├────────┼──────────────────────────┼──────────────────────────────────────┤
//	│ GET    │ /queue                   │ Counters, limit and pool size        │
//	│ PUT    │ /queue/limit             │ Change and persist the task limit    │
//	│ GET    │ /queue/tasks             │ Recent task events (?state=&limit=)  │
//	│ GET    │ /queue/failures          │ Failed background tasks              │
//	│ GET    │ /tables                  │ List tables with pagination          │
//	│ GET    │ /tables/{schema}/{table} │ Columns and row count                │
//	│ POST   │ /statements              │ Run SQL, 202 when async              │
//	└────────┴──────────────────────────┴──────────────────────────────────────┘
//
// Endpoints that reach the database accept a priority (low, normal, high,
// urgent; normal when omitted). Changing the limit always runs at urgent
// priority so an operator can relieve a saturated queue.
//
// # Request Ids
//
// RequestID keeps the caller's X-Request-ID header or assigns a UUID, and
// echoes it in the response. The id is the site of every task the request
// queues, so it shows up in task events and recorded failures.
//
// # Error Handling
//
// Errors use a single response format:
//
//	{ "error": "invalid priority: unknown priority \"soon\"", "requestId": "..." }
//
// HTTP Status Code Mapping:
//
//	┌─────────────────────────────┬────────┬──────────────────────────────┐
//	│ Error Type                  │ Status │ When                         │
//	├─────────────────────────────┼────────┼──────────────────────────────┤
//	│ InvalidArgumentError        │ 400    │ Bad params or failing SQL    │
//	│ ResourceNotFoundError       │ 404    │ Unknown table                │
//	│ Internal error              │ 500    │ Unexpected service errors    │
//	│ UnavailableError            │ 503    │ Queue closed or broken       │
//	│ ErrWaitTimeout              │ 504    │ Wait bound expired           │
//	└─────────────────────────────┴────────┴──────────────────────────────┘
//
// A 504 does not cancel the statement: it keeps its slot in the queue until
// it finishes.
package handlers

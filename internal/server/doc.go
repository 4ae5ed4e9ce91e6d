// Package server provides the HTTP server for the interface-queue service.
//
// The server uses the Gin web framework and serves the API over plain HTTP.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap (request logging with request_id)               │  │
//	│  │  Recovery (panic recovery with zap logging)             │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /health                   liveness, not logged               │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development Mode (ServerMode = "dev"):
//   - Gin runs in debug mode and prints its routes
//
// Production Mode (ServerMode = "prod"):
//   - Gin runs in release mode
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    router.Use(handlers.RequestID)
//	    v1.RegisterHandlersWithOptions(router, h, v1.GinServerOptions{
//	        ErrorHandler: handlers.ErrorHandler,
//	    })
//	})
//
//	go func() { errCh <- srv.Start(ctx) }()
//	...
//	srv.Stop(shutdownCtx)
//
// Start returns nil once Stop was called. Stop waits for in-flight requests,
// which may be waiting on the interface queue, until its context expires.
// The queue is closed only after the server stopped accepting requests.
package server

// Package store implements the data access layer for the interface-queue service.
//
// This package provides persistent storage using DuckDB. DuckDB is embedded:
// the process owns the database file and every query runs in-process, so
// the number of concurrent operations is bounded by the interface queue
// rather than by a server. Stores never open connections themselves; they
// run on whatever QueryInterceptor they are given, which in the service is
// a *sql.Conn leased for exactly one queued task.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├────────────────────┬────────────────────┬───────────────────────┤
//	│ ConfigurationStore │    FailureStore    │    MetadataStore      │
//	│         ▼          │         ▼          │          ▼            │
//	│   configuration    │   task_failures    │  information_schema   │
//	│      (local)       │      (local)       │   (DuckDB catalog)    │
//	├────────────────────┴────────────────────┴───────────────────────┤
//	│                        StatementStore                           │
//	│                              ▼                                  │
//	│                  caller supplied SQL, any table                 │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Data Sources
//
// Tables created by LOCAL MIGRATIONS (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  configuration     │  Runtime overrides (max_active_tasks)       │
//	│  task_failures     │  Failed fire-and-forget tasks               │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	Open(ctx, path, timeout)
//	    └── retries while another process holds the file lock
//
//	migrations.Run(ctx, db)
//	    └── applies sql/NNN_name.sql files not yet in schema_migrations
//
//	NewStore(conn)
//	    └── builds every sub-store over the same QueryInterceptor
//
// # ConfigurationStore
//
// Persists the operator's runtime configuration in a single-row table, so a
// limit changed through the API survives a restart.
//
// Schema:
//
//	configuration (
//	    id INTEGER PRIMARY KEY DEFAULT 1 CHECK (id = 1),
//	    max_active_tasks INTEGER NOT NULL CHECK (max_active_tasks > 0),
//	    updated_at TIMESTAMP DEFAULT now()
//	)
//
// Methods:
//   - Get(ctx) → *models.Configuration, ResourceNotFoundError when unset
//   - Save(ctx, cfg) → error (uses UPSERT)
//   - Reset(ctx) → error
//
// # FailureStore
//
// Fire-and-forget tasks have no caller to return an error to. Their failures
// are recorded here and listed by GET /api/v1/queue/failures.
//
// Methods:
//   - Insert(ctx, failure)
//   - List(ctx, ...ListOption) → newest first
//   - Prune(ctx, keep)
//
// # MetadataStore
//
// Reads information_schema with squirrel builders. Filters are functional
// options applied to the select builder:
//
//	tables, err := s.ListTables(ctx,
//	    store.BySchemas("main"),
//	    store.ByNamePrefix("cust"),
//	    store.WithLimit(50),
//	)
//
// # StatementStore
//
// Runs arbitrary SQL: Query returns column names and rows, Exec returns the
// affected row count.
//
// # Query Logging
//
// WithQueryLogging wraps any QueryInterceptor and logs each statement with
// its duration at debug level.
package store

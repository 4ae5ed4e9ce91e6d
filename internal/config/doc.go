// Package config defines the configuration structure for the interface-queue service.
//
// Configuration is organized into logical sections (Server, Queue, Database)
// and uses code generation via optgen to create functional option helpers.
// Values come from struct defaults, an optional YAML file and command line
// flags (or their IQ_ environment variables), in increasing precedence.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - HTTP server settings
//	├── Queue          - Interface queue limits and diagnostics
//	├── Database       - DuckDB location and connection pool
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬─────────────────────────────────────────┐
//	│ Field            │ Default │ Description                             │
//	├──────────────────┼─────────┼─────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"            │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                 │
//	│ ShutdownTimeout  │ 30s     │ Time allowed for queued work to drain   │
//	└──────────────────┴─────────┴─────────────────────────────────────────┘
//
// # Queue Configuration
//
//	┌───────────────────┬─────────────┬──────────────────────────────────────┐
//	│ Field             │ Default     │ Description                          │
//	├───────────────────┼─────────────┼──────────────────────────────────────┤
//	│ MaxActiveTasks    │ 10          │ Concurrent operations on the database│
//	│ PoolSize          │ 0           │ Executor workers, >= MaxActiveTasks  │
//	│ WaitTimeout       │ 0s          │ Bound on synchronous waits, 0 = none │
//	│ LimitWarnInterval │ 5s          │ Throttle for limit exceeded warnings │
//	│ HistorySize       │ 100         │ Task events kept for /queue/tasks    │
//	│ ReportSchedule    │ "@every 1m" │ Cron spec for statistics reports     │
//	└───────────────────┴─────────────┴──────────────────────────────────────┘
//
// PoolSize 0 follows MaxActiveTasks. A smaller non-zero pool is rejected:
// a task the queue counts as running would wait for a worker in FIFO order
// and urgent work could sit behind low priority work.
//
// MaxActiveTasks is the only setting applied at runtime: editing it in the
// configuration file, or through PUT /api/v1/queue/limit, resizes the
// running queue without a restart.
//
// # Database Configuration
//
//	┌──────────────┬────────────┬─────────────────────────────────────────┐
//	│ Field        │ Default    │ Description                             │
//	├──────────────┼────────────┼─────────────────────────────────────────┤
//	│ Path         │ ":memory:" │ DuckDB file                             │
//	│ OpenTimeout  │ 10s        │ Retry window while the file is locked   │
//	│ MaxOpenConns │ 0          │ Pool limit, 0 = bounded by the queue    │
//	└──────────────┴────────────┴─────────────────────────────────────────┘
//
// # Option Helpers
//
// options.go holds the functional options (WithMaxActiveTasks, WithQueue, ...)
// and the NewXWithOptionsAndDefaults constructors in the layout optgen
// produces, with DebugMap built on optgen's helpers package:
//
//	q := config.NewQueueWithOptionsAndDefaults(config.WithMaxActiveTasks(4))
//
// # Usage Example
//
//	fs := cmd.Flags()
//	config.RegisterFlags(fs)
//	...
//	v, err := config.NewViper(fs)
//	cfg, err := config.Load(v)
//	config.Watch(v, func(cfg *config.Configuration) {
//	    _ = queue.SetMaxActiveTasks(cfg.Queue.MaxActiveTasks)
//	})
//
// # Debug Logging
//
// All fields are tagged with `debugmap:"visible"` allowing safe logging
// of configuration values via DebugMap():
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config

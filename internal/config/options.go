// Functional options and DebugMap for the configuration structs, in the
// layout optgen produces.

package config

import (
	defaults "github.com/creasty/defaults"
	helpers "github.com/ecordell/optgen/helpers"
	"time"
)

type ConfigurationOption func(c *Configuration)

// NewConfigurationWithOptions creates a new Configuration with the passed in options set
func NewConfigurationWithOptions(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewConfigurationWithOptionsAndDefaults creates a new Configuration with the passed in options set starting from the defaults
func NewConfigurationWithOptionsAndDefaults(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{}
	defaults.MustSet(c)
	for _, o := range opts {
		o(c)
	}
	return c
}

// ToOption returns a new ConfigurationOption that sets the values from the passed in Configuration
func (c *Configuration) ToOption() ConfigurationOption {
	return func(to *Configuration) {
		to.Server = c.Server
		to.Queue = c.Queue
		to.Database = c.Database
		to.LogFormat = c.LogFormat
		to.LogLevel = c.LogLevel
	}
}

// DebugMap returns a map form of Configuration for debugging
func (c Configuration) DebugMap() map[string]any {
	debugMap := map[string]any{}
	debugMap["Server"] = helpers.DebugValue(c.Server, false)
	debugMap["Queue"] = helpers.DebugValue(c.Queue, false)
	debugMap["Database"] = helpers.DebugValue(c.Database, false)
	debugMap["LogFormat"] = helpers.DebugValue(c.LogFormat, false)
	debugMap["LogLevel"] = helpers.DebugValue(c.LogLevel, false)
	return debugMap
}

// ConfigurationWithOptions configures an existing Configuration with the passed in options set
func ConfigurationWithOptions(c *Configuration, opts ...ConfigurationOption) *Configuration {
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithOptions configures the receiver Configuration with the passed in options set
func (c *Configuration) WithOptions(opts ...ConfigurationOption) *Configuration {
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithServer returns an option that can set Server on a Configuration
func WithServer(server Server) ConfigurationOption {
	return func(c *Configuration) {
		c.Server = server
	}
}

// WithQueue returns an option that can set Queue on a Configuration
func WithQueue(queue Queue) ConfigurationOption {
	return func(c *Configuration) {
		c.Queue = queue
	}
}

// WithDatabase returns an option that can set Database on a Configuration
func WithDatabase(database Database) ConfigurationOption {
	return func(c *Configuration) {
		c.Database = database
	}
}

// WithLogFormat returns an option that can set LogFormat on a Configuration
func WithLogFormat(logFormat string) ConfigurationOption {
	return func(c *Configuration) {
		c.LogFormat = logFormat
	}
}

// WithLogLevel returns an option that can set LogLevel on a Configuration
func WithLogLevel(logLevel string) ConfigurationOption {
	return func(c *Configuration) {
		c.LogLevel = logLevel
	}
}

type ServerOption func(s *Server)

// NewServerWithOptions creates a new Server with the passed in options set
func NewServerWithOptions(opts ...ServerOption) *Server {
	s := &Server{}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewServerWithOptionsAndDefaults creates a new Server with the passed in options set starting from the defaults
func NewServerWithOptionsAndDefaults(opts ...ServerOption) *Server {
	s := &Server{}
	defaults.MustSet(s)
	for _, o := range opts {
		o(s)
	}
	return s
}

// DebugMap returns a map form of Server for debugging
func (s Server) DebugMap() map[string]any {
	debugMap := map[string]any{}
	debugMap["ServerMode"] = helpers.DebugValue(s.ServerMode, false)
	debugMap["HTTPPort"] = helpers.DebugValue(s.HTTPPort, false)
	debugMap["ShutdownTimeout"] = helpers.DebugValue(s.ShutdownTimeout, false)
	return debugMap
}

// WithServerMode returns an option that can set ServerMode on a Server
func WithServerMode(serverMode string) ServerOption {
	return func(s *Server) {
		s.ServerMode = serverMode
	}
}

// WithHTTPPort returns an option that can set HTTPPort on a Server
func WithHTTPPort(hTTPPort int) ServerOption {
	return func(s *Server) {
		s.HTTPPort = hTTPPort
	}
}

// WithShutdownTimeout returns an option that can set ShutdownTimeout on a Server
func WithShutdownTimeout(shutdownTimeout time.Duration) ServerOption {
	return func(s *Server) {
		s.ShutdownTimeout = shutdownTimeout
	}
}

type QueueOption func(q *Queue)

// NewQueueWithOptions creates a new Queue with the passed in options set
func NewQueueWithOptions(opts ...QueueOption) *Queue {
	q := &Queue{}
	for _, o := range opts {
		o(q)
	}
	return q
}

// NewQueueWithOptionsAndDefaults creates a new Queue with the passed in options set starting from the defaults
func NewQueueWithOptionsAndDefaults(opts ...QueueOption) *Queue {
	q := &Queue{}
	defaults.MustSet(q)
	for _, o := range opts {
		o(q)
	}
	return q
}

// DebugMap returns a map form of Queue for debugging
func (q Queue) DebugMap() map[string]any {
	debugMap := map[string]any{}
	debugMap["MaxActiveTasks"] = helpers.DebugValue(q.MaxActiveTasks, false)
	debugMap["PoolSize"] = helpers.DebugValue(q.PoolSize, false)
	debugMap["WaitTimeout"] = helpers.DebugValue(q.WaitTimeout, false)
	debugMap["LimitWarnInterval"] = helpers.DebugValue(q.LimitWarnInterval, false)
	debugMap["HistorySize"] = helpers.DebugValue(q.HistorySize, false)
	debugMap["ReportSchedule"] = helpers.DebugValue(q.ReportSchedule, false)
	return debugMap
}

// WithMaxActiveTasks returns an option that can set MaxActiveTasks on a Queue
func WithMaxActiveTasks(maxActiveTasks int) QueueOption {
	return func(q *Queue) {
		q.MaxActiveTasks = maxActiveTasks
	}
}

// WithPoolSize returns an option that can set PoolSize on a Queue
func WithPoolSize(poolSize int) QueueOption {
	return func(q *Queue) {
		q.PoolSize = poolSize
	}
}

// WithWaitTimeout returns an option that can set WaitTimeout on a Queue
func WithWaitTimeout(waitTimeout time.Duration) QueueOption {
	return func(q *Queue) {
		q.WaitTimeout = waitTimeout
	}
}

// WithLimitWarnInterval returns an option that can set LimitWarnInterval on a Queue
func WithLimitWarnInterval(limitWarnInterval time.Duration) QueueOption {
	return func(q *Queue) {
		q.LimitWarnInterval = limitWarnInterval
	}
}

// WithHistorySize returns an option that can set HistorySize on a Queue
func WithHistorySize(historySize int) QueueOption {
	return func(q *Queue) {
		q.HistorySize = historySize
	}
}

// WithReportSchedule returns an option that can set ReportSchedule on a Queue
func WithReportSchedule(reportSchedule string) QueueOption {
	return func(q *Queue) {
		q.ReportSchedule = reportSchedule
	}
}

type DatabaseOption func(d *Database)

// NewDatabaseWithOptions creates a new Database with the passed in options set
func NewDatabaseWithOptions(opts ...DatabaseOption) *Database {
	d := &Database{}
	for _, o := range opts {
		o(d)
	}
	return d
}

// NewDatabaseWithOptionsAndDefaults creates a new Database with the passed in options set starting from the defaults
func NewDatabaseWithOptionsAndDefaults(opts ...DatabaseOption) *Database {
	d := &Database{}
	defaults.MustSet(d)
	for _, o := range opts {
		o(d)
	}
	return d
}

// DebugMap returns a map form of Database for debugging
func (d Database) DebugMap() map[string]any {
	debugMap := map[string]any{}
	debugMap["Path"] = helpers.DebugValue(d.Path, false)
	debugMap["OpenTimeout"] = helpers.DebugValue(d.OpenTimeout, false)
	debugMap["MaxOpenConns"] = helpers.DebugValue(d.MaxOpenConns, false)
	return debugMap
}

// WithPath returns an option that can set Path on a Database
func WithPath(path string) DatabaseOption {
	return func(d *Database) {
		d.Path = path
	}
}

// WithOpenTimeout returns an option that can set OpenTimeout on a Database
func WithOpenTimeout(openTimeout time.Duration) DatabaseOption {
	return func(d *Database) {
		d.OpenTimeout = openTimeout
	}
}

// WithMaxOpenConns returns an option that can set MaxOpenConns on a Database
func WithMaxOpenConns(maxOpenConns int) DatabaseOption {
	return func(d *Database) {
		d.MaxOpenConns = maxOpenConns
	}
}

package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const ConfigFileFlag = "config"

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"server-mode":         "server.mode",
	"http-port":           "server.http-port",
	"shutdown-timeout":    "server.shutdown-timeout",
	"max-active-tasks":    "queue.max-active-tasks",
	"pool-size":           "queue.pool-size",
	"wait-timeout":        "queue.wait-timeout",
	"limit-warn-interval": "queue.limit-warn-interval",
	"history-size":        "queue.history-size",
	"report-schedule":     "queue.report-schedule",
	"data-path":           "database.path",
	"db-open-timeout":     "database.open-timeout",
	"db-max-open-conns":   "database.max-open-conns",
	"log-format":          "log-format",
	"log-level":           "log-level",
}

// RegisterFlags adds every configuration flag to fs, defaulted from the
// struct tags.
func RegisterFlags(fs *pflag.FlagSet) {
	d := NewConfigurationWithOptionsAndDefaults()

	fs.String(ConfigFileFlag, "", "Path to a YAML configuration file. Changes to queue settings are applied without restart.")

	fs.String("server-mode", d.Server.ServerMode, "Server mode: dev or prod")
	fs.Int("http-port", d.Server.HTTPPort, "HTTP server listen port")
	fs.Duration("shutdown-timeout", d.Server.ShutdownTimeout, "Time allowed for queued work to drain on shutdown")

	fs.Int("max-active-tasks", d.Queue.MaxActiveTasks, "Maximum number of tasks running against the database at once")
	fs.Int("pool-size", d.Queue.PoolSize, "Executor worker count, at least max-active-tasks (0 follows max-active-tasks)")
	fs.Duration("wait-timeout", d.Queue.WaitTimeout, "Upper bound for synchronous waits (0 disables)")
	fs.Duration("limit-warn-interval", d.Queue.LimitWarnInterval, "Minimum interval between active task limit warnings")
	fs.Int("history-size", d.Queue.HistorySize, "Number of task lifecycle events kept for diagnostics")
	fs.String("report-schedule", d.Queue.ReportSchedule, "Cron schedule for queue statistics reports (empty disables)")

	fs.String("data-path", d.Database.Path, "DuckDB database file (:memory: for an in-memory database)")
	fs.Duration("db-open-timeout", d.Database.OpenTimeout, "How long to retry opening a locked database")
	fs.Int("db-max-open-conns", d.Database.MaxOpenConns, "Connection pool limit (0 leaves it to the queue limit)")

	fs.String("log-format", d.LogFormat, "Log format: console or json")
	fs.String("log-level", d.LogLevel, "Log level: debug, info, warn, error")
}

// NewViper binds the flags of fs and reads the configuration file, if one
// was given. Explicitly set flags win over the file, the file wins over
// defaults.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	for flag, key := range flagKeys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	path, err := fs.GetString(ConfigFileFlag)
	if err != nil || path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	return v, nil
}

func Load(v *viper.Viper) (*Configuration, error) {
	cfg := NewConfigurationWithOptionsAndDefaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Watch reloads the configuration file on change and hands every valid
// result to onChange. Invalid edits are logged and ignored.
func Watch(v *viper.Viper, onChange func(*Configuration)) {
	log := zap.S().Named("config")
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load(v)
		if err != nil {
			log.Errorw("ignoring configuration change", "file", e.Name, "error", err)
			return
		}
		log.Infow("configuration reloaded", "file", e.Name)
		onChange(cfg)
	})
	v.WatchConfig()
}

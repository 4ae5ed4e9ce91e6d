package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

type Configuration struct {
	Server    Server   `mapstructure:"server" debugmap:"visible"`
	Queue     Queue    `mapstructure:"queue" debugmap:"visible"`
	Database  Database `mapstructure:"database" debugmap:"visible"`
	LogFormat string   `mapstructure:"log-format" debugmap:"visible" default:"console"`
	LogLevel  string   `mapstructure:"log-level" debugmap:"visible" default:"debug"`
}

type Server struct {
	ServerMode      string        `mapstructure:"mode" debugmap:"visible" default:"dev"`
	HTTPPort        int           `mapstructure:"http-port" debugmap:"visible" default:"8000"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout" debugmap:"visible" default:"30s"`
}

type Queue struct {
	MaxActiveTasks    int           `mapstructure:"max-active-tasks" debugmap:"visible" default:"10"`
	PoolSize          int           `mapstructure:"pool-size" debugmap:"visible" default:"0"`
	WaitTimeout       time.Duration `mapstructure:"wait-timeout" debugmap:"visible" default:"0s"`
	LimitWarnInterval time.Duration `mapstructure:"limit-warn-interval" debugmap:"visible" default:"5s"`
	HistorySize       int           `mapstructure:"history-size" debugmap:"visible" default:"100"`
	ReportSchedule    string        `mapstructure:"report-schedule" debugmap:"visible" default:"@every 1m"`
}

type Database struct {
	Path         string        `mapstructure:"path" debugmap:"visible" default:":memory:"`
	OpenTimeout  time.Duration `mapstructure:"open-timeout" debugmap:"visible" default:"10s"`
	MaxOpenConns int           `mapstructure:"max-open-conns" debugmap:"visible" default:"0"`
}

// Workers is the executor pool size. Zero means one worker per active task.
// The pool is never smaller than the limit: tasks the queue counts as
// running must have a worker.
func (q Queue) Workers() int {
	return max(q.PoolSize, q.MaxActiveTasks)
}

func (c *Configuration) Validate() error {
	var errs []error
	switch c.Server.ServerMode {
	case "dev", "prod":
	default:
		errs = append(errs, fmt.Errorf("server mode must be dev or prod, got %q", c.Server.ServerMode))
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid http port %d", c.Server.HTTPPort))
	}
	if c.Queue.MaxActiveTasks <= 0 {
		errs = append(errs, fmt.Errorf("max active tasks must be positive, got %d", c.Queue.MaxActiveTasks))
	}
	if c.Queue.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("pool size must not be negative, got %d", c.Queue.PoolSize))
	}
	if c.Queue.PoolSize > 0 && c.Queue.PoolSize < c.Queue.MaxActiveTasks {
		errs = append(errs, fmt.Errorf("pool size %d is smaller than max active tasks %d", c.Queue.PoolSize, c.Queue.MaxActiveTasks))
	}
	if c.Database.MaxOpenConns < 0 {
		errs = append(errs, fmt.Errorf("max open conns must not be negative, got %d", c.Database.MaxOpenConns))
	}
	if c.Queue.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("history size must not be negative, got %d", c.Queue.HistorySize))
	}
	if c.Queue.ReportSchedule != "" {
		if _, err := cron.ParseStandard(c.Queue.ReportSchedule); err != nil {
			errs = append(errs, fmt.Errorf("invalid report schedule %q: %w", c.Queue.ReportSchedule, err))
		}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level: %w", err))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

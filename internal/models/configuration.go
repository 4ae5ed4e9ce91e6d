package models

import "time"

// Configuration is the runtime configuration persisted across restarts.
type Configuration struct {
	MaxActiveTasks int
	UpdatedAt      time.Time
}

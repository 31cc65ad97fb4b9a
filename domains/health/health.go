package health

import (
	"context"
	"time"
)

type Status string

const (
	StatusOk    Status = "OK"
	StatusError Status = "ERROR"
)

// AppHealth is a point-in-time snapshot of process health.
type AppHealth struct {
	Status       Status    `json:"status"`
	Version      string    `json:"version"`
	Database     Status    `json:"database"`
	ActiveTimers int       `json:"active_timers"`
	CheckedAt    time.Time `json:"checked_at"`
}

type IHealthUsecase interface {
	Status(ctx context.Context) (AppHealth, error)
}

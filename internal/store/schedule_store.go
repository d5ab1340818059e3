package store

import (
	"context"
	"time"
)

type ScheduleStore interface {
	CreateSchedule(context.Context, *Schedule) (*Schedule, error)
	ReadScheduleByID(context.Context, int64, string) (*Schedule, error)
	ListUserSchedules(context.Context, int64) ([]Schedule, error)
	ListDueSchedules(context.Context, time.Time) ([]Schedule, error)
	UpdateScheduleStatus(context.Context, string, ScheduleStatus, *string) error
	DeleteSchedule(context.Context, string) error
}

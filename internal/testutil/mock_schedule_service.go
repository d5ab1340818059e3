package testutil

import (
	"context"

	"github.com/7174Andy/gitcron/internal/service"
	"github.com/7174Andy/gitcron/internal/store"
	"github.com/7174Andy/gitcron/internal/timezone"
	"github.com/stretchr/testify/mock"
)

type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) CreateSchedule(
	ctx context.Context,
	userID int64,
	accessToken string,
	payload service.SchedulePayload,
) (*store.Schedule, *timezone.DSTWarning, error) {
	args := m.Called(ctx, userID, accessToken, payload)
	var schedule *store.Schedule
	if args.Get(0) != nil {
		schedule = args.Get(0).(*store.Schedule)
	}
	var warning *timezone.DSTWarning
	if args.Get(1) != nil {
		warning = args.Get(1).(*timezone.DSTWarning)
	}
	return schedule, warning, args.Error(2)
}

func (m *MockScheduleService) GetSchedules(
	ctx context.Context,
	userID int64,
) ([]store.Schedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Schedule), args.Error(1)
}

func (m *MockScheduleService) DeleteSchedule(
	ctx context.Context,
	userID int64,
	scheduleID string,
) error {
	args := m.Called(ctx, userID, scheduleID)
	return args.Error(0)
}

package testutil

import (
	"context"

	"github.com/7174Andy/gitcron/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) RunTick(ctx context.Context) (*service.TickSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TickSummary), args.Error(1)
}

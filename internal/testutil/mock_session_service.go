package testutil

import (
	"github.com/7174Andy/gitcron/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) GetSession(c echo.Context) (*service.Session, error) {
	args := m.Called(c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

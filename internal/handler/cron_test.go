package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/7174Andy/gitcron/internal/service"
	"github.com/7174Andy/gitcron/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCronHandler_GetExecuteTick(t *testing.T) {
	const secret = "cron-secret-value"

	t.Run("failure - missing secret is a server misconfiguration", func(t *testing.T) {
		// arrange
		mockDispatcher := new(testutil.MockDispatcher)
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/cron/execute", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+secret)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewCronHandler(mockDispatcher, "")

		// act
		err := h.GetExecuteTick(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "server misconfiguration")
		mockDispatcher.AssertNotCalled(t, "RunTick")
	})
	t.Run("failure - wrong bearer token is unauthorized", func(t *testing.T) {
		// arrange
		mockDispatcher := new(testutil.MockDispatcher)
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/cron/execute", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer wrong-secret")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewCronHandler(mockDispatcher, secret)

		// act
		err := h.GetExecuteTick(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockDispatcher.AssertNotCalled(t, "RunTick")
	})
	t.Run("failure - missing authorization header is unauthorized", func(t *testing.T) {
		// arrange
		mockDispatcher := new(testutil.MockDispatcher)
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/cron/execute", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewCronHandler(mockDispatcher, secret)

		// act
		err := h.GetExecuteTick(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockDispatcher.AssertNotCalled(t, "RunTick")
	})
	t.Run("success - due schedules are processed", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		summary := &service.TickSummary{
			Processed: 2,
			Triggered: 1,
			Failed:    1,
			Results: []service.TickResult{
				{
					ScheduleID:   "id-1",
					RepoFullName: "octocat/hello-world",
					WorkflowName: "Deploy",
					Status:       "triggered",
				},
				{
					ScheduleID:   "id-2",
					RepoFullName: "octocat/hello-world",
					WorkflowName: "Release",
					Status:       "failed",
					Error:        "github api responded with 422: no ref",
				},
			},
		}
		mockDispatcher := new(testutil.MockDispatcher)
		mockDispatcher.On("RunTick", ctx).Return(summary, nil)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/cron/execute", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+secret)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewCronHandler(mockDispatcher, secret)

		// act
		err := h.GetExecuteTick(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "processed 2 schedules")
		assert.Contains(t, body, `"processed":2`)
		assert.Contains(t, body, `"triggered":1`)
		assert.Contains(t, body, `"failed":1`)
		assert.Contains(t, body, `"id":"id-2"`)
		assert.Contains(t, body, "no ref")
		mockDispatcher.AssertExpectations(t)
	})
	t.Run("success - empty tick reports nothing due", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		summary := &service.TickSummary{Results: []service.TickResult{}}
		mockDispatcher := new(testutil.MockDispatcher)
		mockDispatcher.On("RunTick", ctx).Return(summary, nil)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/cron/execute", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+secret)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewCronHandler(mockDispatcher, secret)

		// act
		err := h.GetExecuteTick(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "no schedules due")
	})
	t.Run("failure - overlapping ticks conflict", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		mockDispatcher := new(testutil.MockDispatcher)
		mockDispatcher.On("RunTick", ctx).Return(nil, service.ErrTickInProgress)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/cron/execute", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+secret)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewCronHandler(mockDispatcher, secret)

		// act
		err := h.GetExecuteTick(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already running")
	})
	t.Run("failure - dispatcher errors become internal errors", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		mockDispatcher := new(testutil.MockDispatcher)
		mockDispatcher.On("RunTick", ctx).Return(nil, errors.New("database is locked"))

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/cron/execute", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+secret)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewCronHandler(mockDispatcher, secret)

		// act
		err := h.GetExecuteTick(c)

		// assert
		var httpErr *echo.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
	})
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/7174Andy/gitcron/internal/service"
	"github.com/labstack/echo/v4"
)

func SetupCronRoutes(e *echo.Echo, dispatcher TickRunner, cronSecret string) {
	h := NewCronHandler(dispatcher, cronSecret)
	e.GET("/api/cron/execute", h.GetExecuteTick)
}

type TickRunner interface {
	RunTick(ctx context.Context) (*service.TickSummary, error)
}

type CronHandler struct {
	dispatcher TickRunner
	cronSecret string
}

func NewCronHandler(dispatcher TickRunner, cronSecret string) *CronHandler {
	return &CronHandler{dispatcher, cronSecret}
}

// GetExecuteTick is the poll endpoint an external cron hits. A missing
// server-side secret is a deployment fault and is reported as one, never
// as an authorization failure.
func (h *CronHandler) GetExecuteTick(c echo.Context) error {
	if h.cronSecret == "" {
		c.Logger().Error("cron secret is not configured")
		return c.JSON(
			http.StatusInternalServerError,
			echo.Map{"error": "server misconfiguration"},
		)
	}
	if c.Request().Header.Get(echo.HeaderAuthorization) != "Bearer "+h.cronSecret {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	summary, err := h.dispatcher.RunTick(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrTickInProgress) {
			return c.JSON(
				http.StatusConflict,
				echo.Map{"error": "a dispatch tick is already running"},
			)
		}
		return newError(err, http.StatusInternalServerError, "unable to run dispatch tick")
	}

	message := "no schedules due"
	if summary.Processed > 0 {
		message = fmt.Sprintf("processed %d schedules", summary.Processed)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   message,
		"processed": summary.Processed,
		"triggered": summary.Triggered,
		"failed":    summary.Failed,
		"results":   summary.Results,
	})
}

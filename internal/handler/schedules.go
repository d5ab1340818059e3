package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/7174Andy/gitcron/internal/service"
	"github.com/7174Andy/gitcron/internal/store"
	"github.com/7174Andy/gitcron/internal/timezone"
	"github.com/labstack/echo/v4"
)

func SetupScheduleRoutes(g *echo.Group, scheduleService ScheduleServicer) {
	h := NewScheduleHandler(scheduleService)
	schedulesGroup := g.Group("/api/schedules", IsAuthenticated)
	schedulesGroup.POST("", h.PostSchedule)
	schedulesGroup.GET("", h.GetSchedules)
	schedulesGroup.DELETE("/:schedule_id", h.DeleteSchedule)
}

type ScheduleServicer interface {
	CreateSchedule(
		ctx context.Context,
		userID int64,
		accessToken string,
		payload service.SchedulePayload,
	) (*store.Schedule, *timezone.DSTWarning, error)
	GetSchedules(ctx context.Context, userID int64) ([]store.Schedule, error)
	DeleteSchedule(ctx context.Context, userID int64, scheduleID string) error
}

type ScheduleHandler struct {
	scheduleService ScheduleServicer
}

func NewScheduleHandler(scheduleService ScheduleServicer) *ScheduleHandler {
	return &ScheduleHandler{scheduleService}
}

type scheduleResponse struct {
	ID           string            `json:"id"`
	Owner        string            `json:"owner"`
	Repo         string            `json:"repo"`
	RepoFullName string            `json:"repo_full_name"`
	WorkflowName string            `json:"workflow_name"`
	WorkflowPath string            `json:"workflow_path"`
	Ref          string            `json:"ref"`
	Inputs       map[string]string `json:"inputs"`
	ScheduledAt  time.Time         `json:"scheduled_at"`
	Timezone     string            `json:"timezone"`
	Status       string            `json:"status"`
	TriggeredAt  *time.Time        `json:"triggered_at,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// toScheduleResponse maps a stored schedule onto the API shape. The
// encrypted access token never leaves the server.
func toScheduleResponse(s *store.Schedule) scheduleResponse {
	inputs, err := s.InputValues()
	if err != nil {
		inputs = map[string]string{}
	}
	return scheduleResponse{
		ID:           s.ScheduleID,
		Owner:        s.Owner,
		Repo:         s.Repo,
		RepoFullName: s.RepoFullName,
		WorkflowName: s.WorkflowName,
		WorkflowPath: s.WorkflowPath,
		Ref:          s.Ref,
		Inputs:       inputs,
		ScheduledAt:  s.ScheduledAt,
		Timezone:     s.Timezone,
		Status:       string(s.Status),
		TriggeredAt:  s.TriggeredAt,
		ErrorMessage: s.ErrorMessage,
		CreatedAt:    s.CreatedAt,
	}
}

func (h *ScheduleHandler) PostSchedule(c echo.Context) error {
	sp := new(CreateScheduleParams)
	if err := c.Bind(sp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid schedule data")
	}

	session := getCtxSession(c)
	schedule, warning, err := h.scheduleService.CreateSchedule(
		c.Request().Context(),
		session.UserID,
		session.AccessToken,
		service.SchedulePayload{
			Owner:        sp.Owner,
			Repo:         sp.Repo,
			RepoFullName: sp.RepoFullName,
			WorkflowName: sp.WorkflowName,
			WorkflowPath: sp.WorkflowPath,
			Ref:          sp.Ref,
			Inputs:       sp.Inputs,
			Date:         sp.Date,
			Time:         sp.Time,
			Timezone:     sp.Timezone,
		},
	)
	if err != nil {
		return err
	}

	resp := echo.Map{"schedule": toScheduleResponse(schedule)}
	if warning != nil {
		resp["warning"] = warning
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *ScheduleHandler) GetSchedules(c echo.Context) error {
	session := getCtxSession(c)
	schedules, err := h.scheduleService.GetSchedules(c.Request().Context(), session.UserID)
	if err != nil {
		return newError(err, http.StatusInternalServerError, "unable to list schedules")
	}

	responses := make([]scheduleResponse, 0, len(schedules))
	for i := range schedules {
		responses = append(responses, toScheduleResponse(&schedules[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": responses})
}

func (h *ScheduleHandler) DeleteSchedule(c echo.Context) error {
	sp := new(ScheduleParams)
	if err := c.Bind(sp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid schedule data")
	}

	session := getCtxSession(c)
	if err := h.scheduleService.DeleteSchedule(
		c.Request().Context(), session.UserID, sp.ScheduleID,
	); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

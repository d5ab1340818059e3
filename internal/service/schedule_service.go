package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/7174Andy/gitcron/internal"
	"github.com/7174Andy/gitcron/internal/security"
	"github.com/7174Andy/gitcron/internal/store"
	"github.com/7174Andy/gitcron/internal/timezone"
)

type UUIDGenerator interface {
	GenerateUUID() string
}

func NewUUIDGen() *UUIDGen {
	return &UUIDGen{}
}

type UUIDGen struct{}

func (ug *UUIDGen) GenerateUUID() string {
	return uuid.NewString()
}

type ScheduleReader interface {
	ReadScheduleByID(context.Context, int64, string) (*store.Schedule, error)
	ListUserSchedules(context.Context, int64) ([]store.Schedule, error)
}

type ScheduleWriter interface {
	CreateSchedule(context.Context, *store.Schedule) (*store.Schedule, error)
	DeleteSchedule(context.Context, string) error
}

type ScheduleStore interface {
	ScheduleReader
	ScheduleWriter
}

// SchedulePayload is everything the creation flow collects: the target
// workflow, its inputs, and the civil date-time plus zone the user picked.
type SchedulePayload struct {
	Owner        string
	Repo         string
	RepoFullName string
	WorkflowName string
	WorkflowPath string
	Ref          string
	Inputs       map[string]string
	Date         string
	Time         string
	Timezone     string
}

type ScheduleService struct {
	scheduleStore ScheduleStore
	encrypter     security.Encrypter
	uuidGenerator UUIDGenerator
	now           func() time.Time
}

func NewScheduleService(
	s ScheduleStore,
	encrypter security.Encrypter,
	uuidGenerator UUIDGenerator,
) *ScheduleService {
	return &ScheduleService{
		scheduleStore: s,
		encrypter:     encrypter,
		uuidGenerator: uuidGenerator,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateSchedule validates the payload, converts the civil date-time to a UTC
// instant, encrypts the session's access token for the dispatcher to use
// later, and inserts a pending schedule. The returned DST warning is advisory
// and never blocks creation.
func (s *ScheduleService) CreateSchedule(
	ctx context.Context,
	userID int64,
	accessToken string,
	payload SchedulePayload,
) (*store.Schedule, *timezone.DSTWarning, error) {
	if accessToken == "" {
		return nil, nil, InvalidInputError{Message: "missing access token"}
	}
	if payload.Owner == "" || payload.Repo == "" || payload.WorkflowPath == "" {
		return nil, nil, InvalidInputError{Message: "missing workflow target"}
	}

	scheduledAt, err := timezone.LocalToUTC(payload.Date, payload.Time, payload.Timezone)
	if err != nil {
		var invalid timezone.InvalidInputError
		if errors.As(err, &invalid) {
			return nil, nil, InvalidInputError{Message: invalid.Message}
		}
		return nil, nil, err
	}
	if !scheduledAt.After(s.now()) {
		return nil, nil, InvalidInputError{Message: "scheduled time must be in the future"}
	}

	var warning *timezone.DSTWarning
	if w, err := timezone.CheckDSTAmbiguity(
		payload.Date, payload.Time, payload.Timezone,
	); err == nil && w.Kind != timezone.DSTNone {
		warning = &w
	}

	ref := payload.Ref
	if ref == "" {
		ref = internal.DefaultRef
	}
	inputs := payload.Inputs
	if inputs == nil {
		inputs = map[string]string{}
	}
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return nil, nil, err
	}
	repoFullName := payload.RepoFullName
	if repoFullName == "" {
		repoFullName = fmt.Sprintf("%s/%s", payload.Owner, payload.Repo)
	}
	workflowName := payload.WorkflowName
	if workflowName == "" {
		workflowName = payload.WorkflowPath
	}

	schedule := &store.Schedule{
		ScheduleID:   s.uuidGenerator.GenerateUUID(),
		UserID:       userID,
		Owner:        payload.Owner,
		Repo:         payload.Repo,
		RepoFullName: repoFullName,
		WorkflowName: workflowName,
		WorkflowPath: payload.WorkflowPath,
		Ref:          ref,
		Inputs:       string(inputsJSON),
		ScheduledAt:  scheduledAt,
		Timezone:     payload.Timezone,
		AccessToken:  s.encrypter.Encrypt(accessToken),
	}

	created, err := s.scheduleStore.CreateSchedule(ctx, schedule)
	if err != nil {
		return nil, nil, err
	}
	return created, warning, nil
}

func (s *ScheduleService) GetSchedules(
	ctx context.Context,
	userID int64,
) ([]store.Schedule, error) {
	schedules, err := s.scheduleStore.ListUserSchedules(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return schedules, nil
}

// DeleteSchedule removes a pending schedule owned by userID. Triggered and
// failed schedules are history and may not be deleted.
func (s *ScheduleService) DeleteSchedule(
	ctx context.Context,
	userID int64,
	scheduleID string,
) error {
	schedule, err := s.scheduleStore.ReadScheduleByID(ctx, userID, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NotFoundError{Message: "schedule not found"}
		}
		return err
	}
	if schedule.Status != store.StatusPending {
		return InvalidStateError{
			Message: "cannot delete a schedule that has already been executed",
		}
	}
	return s.scheduleStore.DeleteSchedule(ctx, scheduleID)
}

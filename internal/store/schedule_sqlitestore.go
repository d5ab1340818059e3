package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/7174Andy/gitcron/internal"
	"github.com/georgysavva/scany/v2/sqlscan"
)

type ScheduleSQLiteStore struct {
	rdb, rwdb *sql.DB
}

func NewScheduleSQLiteStore(rdb, rwdb *sql.DB) *ScheduleSQLiteStore {
	return &ScheduleSQLiteStore{rdb, rwdb}
}

func (store *ScheduleSQLiteStore) CreateSchedule(
	ctx context.Context,
	s *Schedule,
) (*Schedule, error) {
	s.Status = StatusPending
	query := `insert into schedules (
		schedule_id,
		user_id,
		owner,
		repo,
		repo_full_name,
		workflow_name,
		workflow_path,
		ref,
		inputs,
		scheduled_at,
		timezone,
		access_token,
		status
	)
	values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	returning created_at`
	err := sqlscan.Get(
		ctx, store.rwdb, s, query,
		s.ScheduleID,
		s.UserID,
		s.Owner,
		s.Repo,
		s.RepoFullName,
		s.WorkflowName,
		s.WorkflowPath,
		s.Ref,
		s.Inputs,
		s.ScheduledAt.UTC().Format(internal.DBTimestampLayout),
		s.Timezone,
		s.AccessToken,
		s.Status,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (store *ScheduleSQLiteStore) ReadScheduleByID(
	ctx context.Context,
	userID int64,
	scheduleID string,
) (*Schedule, error) {
	s := new(Schedule)
	query := `select * from schedules where schedule_id = $1 and user_id = $2`
	if err := sqlscan.Get(ctx, store.rdb, s, query, scheduleID, userID); err != nil {
		return nil, err
	}
	return s, nil
}

func (store *ScheduleSQLiteStore) ListUserSchedules(
	ctx context.Context,
	userID int64,
) ([]Schedule, error) {
	query := `select * from schedules
	where user_id = $1
	order by scheduled_at asc`
	schedules := make([]Schedule, 0)
	err := sqlscan.Select(ctx, store.rdb, &schedules, query, userID)
	return schedules, err
}

// ListDueSchedules returns pending schedules across all users whose instant
// has passed, soonest first to bound staleness under backlog.
func (store *ScheduleSQLiteStore) ListDueSchedules(
	ctx context.Context,
	now time.Time,
) ([]Schedule, error) {
	query := `select * from schedules
	where status = $1 and scheduled_at <= $2
	order by scheduled_at asc`
	schedules := make([]Schedule, 0)
	err := sqlscan.Select(
		ctx, store.rdb, &schedules, query,
		StatusPending,
		now.UTC().Format(internal.DBTimestampLayout),
	)
	return schedules, err
}

// UpdateScheduleStatus moves a pending schedule to a terminal status. The
// status = 'pending' guard makes a replayed update a no-op reported as
// ErrNotPending rather than a second transition.
func (store *ScheduleSQLiteStore) UpdateScheduleStatus(
	ctx context.Context,
	scheduleID string,
	status ScheduleStatus,
	errorMessage *string,
) error {
	var triggeredAt *string
	if status == StatusTriggered {
		ts := time.Now().UTC().Format(internal.DBTimestampLayout)
		triggeredAt = &ts
	}
	query := `update schedules
	set status = $1,
		triggered_at = $2,
		error_message = $3
	where schedule_id = $4 and status = $5`
	res, err := store.rwdb.ExecContext(
		ctx, query,
		status,
		triggeredAt,
		errorMessage,
		scheduleID,
		StatusPending,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotPending
	}
	return nil
}

func (store *ScheduleSQLiteStore) DeleteSchedule(ctx context.Context, scheduleID string) error {
	query := `delete from schedules where schedule_id = $1`
	_, err := store.rwdb.ExecContext(ctx, query, scheduleID)
	return err
}

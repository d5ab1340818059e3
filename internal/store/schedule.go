package store

import (
	"encoding/json"
	"errors"
	"time"
)

type ScheduleStatus string

const (
	StatusPending   ScheduleStatus = "pending"
	StatusTriggered ScheduleStatus = "triggered"
	StatusFailed    ScheduleStatus = "failed"
)

// ErrNotPending is returned when a status update targets a schedule that has
// already reached a terminal status. Triggered/failed are terminal, so a
// replayed update is refused instead of overwriting history.
var ErrNotPending = errors.New("schedule is not pending")

type Schedule struct {
	ScheduleID   string `param:"schedule_id"`
	UserID       int64
	Owner        string
	Repo         string
	RepoFullName string
	WorkflowName string
	WorkflowPath string
	Ref          string
	Inputs       string
	ScheduledAt  time.Time
	Timezone     string
	AccessToken  string
	Status       ScheduleStatus
	TriggeredAt  *time.Time
	ErrorMessage *string
	CreatedAt    time.Time
}

// InputValues decodes the stored JSON object of workflow_dispatch inputs.
func (s *Schedule) InputValues() (map[string]string, error) {
	if s.Inputs == "" {
		return map[string]string{}, nil
	}
	inputs := make(map[string]string)
	if err := json.Unmarshal([]byte(s.Inputs), &inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}

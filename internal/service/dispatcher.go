package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/7174Andy/gitcron/internal/github"
	"github.com/7174Andy/gitcron/internal/security"
	"github.com/7174Andy/gitcron/internal/store"
)

// ErrTickInProgress is returned when a poll tick arrives while the previous
// one is still running. Ticks must not overlap: two concurrent ticks would
// read the same due set and race on the same records.
var ErrTickInProgress = errors.New("a dispatch tick is already in progress")

type DispatcherStore interface {
	ListDueSchedules(context.Context, time.Time) ([]store.Schedule, error)
	UpdateScheduleStatus(context.Context, string, store.ScheduleStatus, *string) error
}

type WorkflowTrigger interface {
	TriggerWorkflowDispatch(
		ctx context.Context,
		token, owner, repo, workflowPath, ref string,
		inputs map[string]string,
	) github.DispatchResult
}

type TickResult struct {
	ScheduleID   string `json:"id"`
	RepoFullName string `json:"repo_full_name"`
	WorkflowName string `json:"workflow_name"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

type TickSummary struct {
	Processed int          `json:"processed"`
	Triggered int          `json:"triggered"`
	Failed    int          `json:"failed"`
	Results   []TickResult `json:"results"`
}

// Dispatcher drains the due-schedule set once per poll tick. Each due record
// is handled in isolation: its credential is decrypted, the workflow_dispatch
// call made, and a terminal status written, without one record's failure
// touching the rest of the batch.
type Dispatcher struct {
	scheduleStore DispatcherStore
	encrypter     security.Encrypter
	trigger       WorkflowTrigger
	workers       int
	timeout       time.Duration
	now           func() time.Time

	mu sync.Mutex
}

func NewDispatcher(
	scheduleStore DispatcherStore,
	encrypter security.Encrypter,
	trigger WorkflowTrigger,
	workers int,
	timeout time.Duration,
) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		scheduleStore: scheduleStore,
		encrypter:     encrypter,
		trigger:       trigger,
		workers:       workers,
		timeout:       timeout,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// RunTick processes every schedule due at the current instant and returns a
// summary of the outcomes. The empty due set is the common case and costs a
// single query. Because a schedule only leaves the pending status through the
// terminal write at the end of its handling, a crash mid-tick leaves it
// pending for the next tick: delivery is at-least-once, not exactly-once.
func (d *Dispatcher) RunTick(ctx context.Context) (*TickSummary, error) {
	if !d.mu.TryLock() {
		return nil, ErrTickInProgress
	}
	defer d.mu.Unlock()

	now := d.now()
	due, err := d.scheduleStore.ListDueSchedules(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("err listing due schedules: %w", err)
	}

	summary := &TickSummary{Results: make([]TickResult, len(due))}
	if len(due) == 0 {
		return summary, nil
	}

	sem := make(chan struct{}, d.workers)
	var wg sync.WaitGroup
	for i := range due {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			summary.Results[i] = d.dispatchOne(ctx, &due[i])
		}(i)
	}
	wg.Wait()

	summary.Processed = len(due)
	for _, r := range summary.Results {
		if r.Status == string(store.StatusTriggered) {
			summary.Triggered++
		} else {
			summary.Failed++
		}
	}
	return summary, nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, s *store.Schedule) TickResult {
	token, err := d.encrypter.Decrypt(s.AccessToken)
	if err != nil {
		return d.markFailed(ctx, s, fmt.Sprintf("err decrypting credential: %v", err))
	}

	inputs, err := s.InputValues()
	if err != nil {
		return d.markFailed(ctx, s, fmt.Sprintf("err decoding inputs: %v", err))
	}

	// a hung remote call must not hold a worker past the next tick
	tctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	result := d.trigger.TriggerWorkflowDispatch(
		tctx, token,
		s.Owner, s.Repo, s.WorkflowPath, s.Ref, inputs,
	)
	if !result.Success {
		return d.markFailed(ctx, s, result.Error)
	}

	if err := d.scheduleStore.UpdateScheduleStatus(
		ctx, s.ScheduleID, store.StatusTriggered, nil,
	); err != nil {
		log.Printf("dispatcher: err marking schedule %s triggered: %v", s.ScheduleID, err)
		return TickResult{
			ScheduleID:   s.ScheduleID,
			RepoFullName: s.RepoFullName,
			WorkflowName: s.WorkflowName,
			Status:       string(store.StatusFailed),
			Error:        fmt.Sprintf("err persisting status: %v", err),
		}
	}
	return TickResult{
		ScheduleID:   s.ScheduleID,
		RepoFullName: s.RepoFullName,
		WorkflowName: s.WorkflowName,
		Status:       string(store.StatusTriggered),
	}
}

func (d *Dispatcher) markFailed(
	ctx context.Context,
	s *store.Schedule,
	errorMessage string,
) TickResult {
	if err := d.scheduleStore.UpdateScheduleStatus(
		ctx, s.ScheduleID, store.StatusFailed, &errorMessage,
	); err != nil {
		log.Printf("dispatcher: err marking schedule %s failed: %v", s.ScheduleID, err)
	}
	return TickResult{
		ScheduleID:   s.ScheduleID,
		RepoFullName: s.RepoFullName,
		WorkflowName: s.WorkflowName,
		Status:       string(store.StatusFailed),
		Error:        errorMessage,
	}
}

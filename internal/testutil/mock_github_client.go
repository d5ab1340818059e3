package testutil

import (
	"context"

	"github.com/7174Andy/gitcron/internal/github"
	"github.com/stretchr/testify/mock"
)

type MockGitHubClient struct {
	mock.Mock
}

func (m *MockGitHubClient) ListRepositories(
	ctx context.Context,
	token string,
) ([]github.Repository, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.Repository), args.Error(1)
}

func (m *MockGitHubClient) ListWorkflows(
	ctx context.Context,
	token, owner, repo string,
) ([]github.WorkflowFile, error) {
	args := m.Called(ctx, token, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.WorkflowFile), args.Error(1)
}

func (m *MockGitHubClient) GetWorkflowInputs(
	ctx context.Context,
	token, owner, repo, workflowPath string,
) ([]github.WorkflowInput, error) {
	args := m.Called(ctx, token, owner, repo, workflowPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.WorkflowInput), args.Error(1)
}

// Package github wraps the GitHub REST API surface this service needs:
// browsing repositories and workflow files, and dispatching workflow runs.
package github

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/7174Andy/gitcron/internal"
	"github.com/go-resty/resty/v2"
)

type RemoteAPIError struct {
	StatusCode int
	Body       string
}

func (e RemoteAPIError) Error() string {
	return fmt.Sprintf("github api responded with %d: %s", e.StatusCode, e.Body)
}

type Repository struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Private     bool   `json:"private"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type WorkflowFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type contentEntry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// DispatchResult classifies a workflow_dispatch attempt. Remote and transport
// failures are carried in Error rather than raised, so the caller can always
// persist an outcome.
type DispatchResult struct {
	Success bool
	Error   string
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/vnd.github.v3+json")

	return &Client{http: client}
}

// ListRepositories returns the repositories the token can reach, most
// recently updated first.
func (c *Client) ListRepositories(ctx context.Context, token string) ([]Repository, error) {
	repos := make([]Repository, 0)
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParams(map[string]string{
			"per_page":    "100",
			"sort":        "updated",
			"affiliation": "owner,collaborator,organization_member",
		}).
		SetResult(&repos).
		Get("/user/repos")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, RemoteAPIError{
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(string(resp.Body())),
		}
	}
	return repos, nil
}

// ListWorkflows lists the YAML workflow files under .github/workflows. A
// repository without that directory yields an empty list, not an error.
func (c *Client) ListWorkflows(
	ctx context.Context,
	token, owner, repo string,
) ([]WorkflowFile, error) {
	contents := make([]contentEntry, 0)
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&contents).
		Get(fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, internal.WorkflowDir))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return []WorkflowFile{}, nil
	}
	if resp.IsError() {
		return nil, RemoteAPIError{
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(string(resp.Body())),
		}
	}

	workflows := make([]WorkflowFile, 0, len(contents))
	for _, entry := range contents {
		if entry.Type != "file" {
			continue
		}
		if !strings.HasSuffix(entry.Name, ".yml") && !strings.HasSuffix(entry.Name, ".yaml") {
			continue
		}
		workflows = append(workflows, WorkflowFile{Name: entry.Name, Path: entry.Path})
	}
	return workflows, nil
}

// GetWorkflowInputs fetches a workflow file and parses the input parameters
// its workflow_dispatch trigger declares.
func (c *Client) GetWorkflowInputs(
	ctx context.Context,
	token, owner, repo, workflowPath string,
) ([]WorkflowInput, error) {
	entry := new(contentEntry)
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(entry).
		Get(fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, workflowPath))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, RemoteAPIError{
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(string(resp.Body())),
		}
	}
	return parseWorkflowInputs(entry)
}

// TriggerWorkflowDispatch fires a workflow_dispatch event. GitHub responds
// 204 on success; anything else, including transport errors, comes back as a
// failed DispatchResult.
func (c *Client) TriggerWorkflowDispatch(
	ctx context.Context,
	token, owner, repo, workflowPath, ref string,
	inputs map[string]string,
) DispatchResult {
	body := map[string]any{"ref": ref}
	if len(inputs) > 0 {
		body["inputs"] = inputs
	}

	// the dispatch endpoint addresses workflows by file name, not full path
	workflow := path.Base(workflowPath)
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		Post(fmt.Sprintf(
			"/repos/%s/%s/actions/workflows/%s/dispatches",
			owner, repo, workflow,
		))
	if err != nil {
		return DispatchResult{Success: false, Error: err.Error()}
	}
	if resp.IsError() {
		return DispatchResult{
			Success: false,
			Error: RemoteAPIError{
				StatusCode: resp.StatusCode(),
				Body:       strings.TrimSpace(string(resp.Body())),
			}.Error(),
		}
	}
	return DispatchResult{Success: true}
}

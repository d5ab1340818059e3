package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/7174Andy/gitcron/internal/github"
	"github.com/7174Andy/gitcron/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCatalogHandler_GetRepositories(t *testing.T) {
	t.Run("success - repositories are listed", func(t *testing.T) {
		// arrange
		session := testSession()
		repo := github.Repository{
			ID:       1296269,
			Name:     "hello-world",
			FullName: "octocat/hello-world",
		}
		repo.Owner.Login = "octocat"
		ctx := context.Background()
		mockClient := new(testutil.MockGitHubClient)
		mockClient.On(
			"ListRepositories", ctx, session.AccessToken,
		).Return([]github.Repository{repo}, nil)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/repos", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("session", session)
		h := NewCatalogHandler(mockClient)

		// act
		err := h.GetRepositories(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"full_name":"octocat/hello-world"`)
		assert.Contains(t, body, `"login":"octocat"`)
	})
	t.Run("failure - github errors become bad gateway", func(t *testing.T) {
		// arrange
		session := testSession()
		ctx := context.Background()
		mockClient := new(testutil.MockGitHubClient)
		mockClient.On(
			"ListRepositories", ctx, session.AccessToken,
		).Return(nil, github.RemoteAPIError{StatusCode: 401, Body: "Bad credentials"})

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/repos", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("session", session)
		h := NewCatalogHandler(mockClient)

		// act
		err := h.GetRepositories(c)

		// assert
		status, _ := errorStatus(err)
		assert.Equal(t, http.StatusBadGateway, status)
	})
}

func TestCatalogHandler_GetWorkflows(t *testing.T) {
	t.Run("success - workflow files are listed", func(t *testing.T) {
		// arrange
		session := testSession()
		ctx := context.Background()
		mockClient := new(testutil.MockGitHubClient)
		mockClient.On(
			"ListWorkflows", ctx, session.AccessToken, "octocat", "hello-world",
		).Return([]github.WorkflowFile{
			{Name: "deploy.yml", Path: ".github/workflows/deploy.yml"},
		}, nil)

		e := echo.New()
		req := httptest.NewRequest(
			http.MethodGet, "/api/repos/octocat/hello-world/workflows", nil,
		)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("owner", "repo")
		c.SetParamValues("octocat", "hello-world")
		c.Set("session", session)
		h := NewCatalogHandler(mockClient)

		// act
		err := h.GetWorkflows(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"path":".github/workflows/deploy.yml"`)
	})
}

func TestCatalogHandler_GetWorkflowInputs(t *testing.T) {
	t.Run("success - declared inputs are returned", func(t *testing.T) {
		// arrange
		session := testSession()
		ctx := context.Background()
		mockClient := new(testutil.MockGitHubClient)
		mockClient.On(
			"GetWorkflowInputs", ctx, session.AccessToken,
			"octocat", "hello-world", ".github/workflows/deploy.yml",
		).Return([]github.WorkflowInput{
			{
				Name:     "environment",
				Required: true,
				Type:     "choice",
				Options:  []string{"staging", "production"},
			},
		}, nil)

		e := echo.New()
		req := httptest.NewRequest(
			http.MethodGet,
			"/api/repos/octocat/hello-world/workflow-inputs?path=.github/workflows/deploy.yml",
			nil,
		)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("owner", "repo")
		c.SetParamValues("octocat", "hello-world")
		c.Set("session", session)
		h := NewCatalogHandler(mockClient)

		// act
		err := h.GetWorkflowInputs(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"name":"environment"`)
		assert.Contains(t, body, `"options":["staging","production"]`)
	})
	t.Run("failure - missing workflow path is a bad request", func(t *testing.T) {
		// arrange
		mockClient := new(testutil.MockGitHubClient)
		e := echo.New()
		req := httptest.NewRequest(
			http.MethodGet, "/api/repos/octocat/hello-world/workflow-inputs", nil,
		)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("owner", "repo")
		c.SetParamValues("octocat", "hello-world")
		c.Set("session", testSession())
		h := NewCatalogHandler(mockClient)

		// act
		err := h.GetWorkflowInputs(c)

		// assert
		var httpErr *echo.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		mockClient.AssertNotCalled(t, "GetWorkflowInputs")
	})
}

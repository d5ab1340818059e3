package handler

import (
	"context"
	"net/http"

	"github.com/7174Andy/gitcron/internal/github"
	"github.com/labstack/echo/v4"
)

func SetupCatalogRoutes(g *echo.Group, githubClient CatalogClient) {
	h := NewCatalogHandler(githubClient)
	reposGroup := g.Group("/api/repos", IsAuthenticated)
	reposGroup.GET("", h.GetRepositories)
	reposGroup.GET("/:owner/:repo/workflows", h.GetWorkflows)
	reposGroup.GET("/:owner/:repo/workflow-inputs", h.GetWorkflowInputs)
}

type CatalogClient interface {
	ListRepositories(ctx context.Context, token string) ([]github.Repository, error)
	ListWorkflows(
		ctx context.Context,
		token, owner, repo string,
	) ([]github.WorkflowFile, error)
	GetWorkflowInputs(
		ctx context.Context,
		token, owner, repo, workflowPath string,
	) ([]github.WorkflowInput, error)
}

// CatalogHandler serves the browse surface the scheduling form is built
// from: the user's repositories, each repository's workflow files, and the
// workflow_dispatch inputs a chosen workflow declares.
type CatalogHandler struct {
	githubClient CatalogClient
}

func NewCatalogHandler(githubClient CatalogClient) *CatalogHandler {
	return &CatalogHandler{githubClient}
}

func (h *CatalogHandler) GetRepositories(c echo.Context) error {
	session := getCtxSession(c)
	repositories, err := h.githubClient.ListRepositories(
		c.Request().Context(), session.AccessToken,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"repositories": repositories})
}

func (h *CatalogHandler) GetWorkflows(c echo.Context) error {
	wp := new(WorkflowListParams)
	if err := c.Bind(wp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid repository data")
	}

	session := getCtxSession(c)
	workflows, err := h.githubClient.ListWorkflows(
		c.Request().Context(), session.AccessToken, wp.Owner, wp.Repo,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"workflows": workflows})
}

func (h *CatalogHandler) GetWorkflowInputs(c echo.Context) error {
	wp := new(WorkflowInputsParams)
	if err := c.Bind(wp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid workflow data")
	}
	if wp.WorkflowPath == "" {
		return newError(nil, http.StatusBadRequest, "missing workflow path")
	}

	session := getCtxSession(c)
	inputs, err := h.githubClient.GetWorkflowInputs(
		c.Request().Context(), session.AccessToken, wp.Owner, wp.Repo, wp.WorkflowPath,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"inputs": inputs})
}

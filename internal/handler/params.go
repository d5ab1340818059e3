package handler

type CreateScheduleParams struct {
	Owner        string            `json:"owner"`
	Repo         string            `json:"repo"`
	RepoFullName string            `json:"repo_full_name"`
	WorkflowName string            `json:"workflow_name"`
	WorkflowPath string            `json:"workflow_path"`
	Ref          string            `json:"ref"`
	Inputs       map[string]string `json:"inputs"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Timezone     string            `json:"timezone"`
}

type ScheduleParams struct {
	ScheduleID string `param:"schedule_id"`
}

type WorkflowListParams struct {
	Owner string `param:"owner"`
	Repo  string `param:"repo"`
}

type WorkflowInputsParams struct {
	Owner        string `param:"owner"`
	Repo         string `param:"repo"`
	WorkflowPath string `query:"path"`
}

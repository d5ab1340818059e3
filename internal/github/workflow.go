package github

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// WorkflowInput is one parameter declared under a workflow_dispatch trigger.
type WorkflowInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required"`
	Default     string   `json:"default,omitempty"`
	Type        string   `json:"type,omitempty"`
	Options     []string `json:"options,omitempty"`
}

type workflowDefinition struct {
	On struct {
		WorkflowDispatch struct {
			Inputs map[string]workflowInputDefinition `yaml:"inputs"`
		} `yaml:"workflow_dispatch"`
	} `yaml:"on"`
}

type workflowInputDefinition struct {
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	// boolean and number inputs declare non-string defaults
	Default any      `yaml:"default"`
	Type    string   `yaml:"type"`
	Options []string `yaml:"options"`
}

func parseWorkflowInputs(entry *contentEntry) ([]WorkflowInput, error) {
	raw := entry.Content
	if entry.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(
			strings.ReplaceAll(raw, "\n", ""),
		)
		if err != nil {
			return nil, fmt.Errorf("err decoding workflow content: %w", err)
		}
		raw = string(decoded)
	}

	def := new(workflowDefinition)
	if err := yaml.Unmarshal([]byte(raw), def); err != nil {
		return nil, fmt.Errorf("err parsing workflow definition: %w", err)
	}

	inputs := make([]WorkflowInput, 0, len(def.On.WorkflowDispatch.Inputs))
	for name, d := range def.On.WorkflowDispatch.Inputs {
		var defaultValue string
		if d.Default != nil {
			defaultValue = fmt.Sprint(d.Default)
		}
		inputs = append(inputs, WorkflowInput{
			Name:        name,
			Description: d.Description,
			Required:    d.Required,
			Default:     defaultValue,
			Type:        d.Type,
			Options:     d.Options,
		})
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Name < inputs[j].Name })
	return inputs, nil
}

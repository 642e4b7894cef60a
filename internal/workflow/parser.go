package workflow

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadWorkflows parses a YAML file that may contain multiple workflow
// documents separated by ---. Every workflow is normalized and validated;
// the first invalid document fails the whole load.
func LoadWorkflows(path string) ([]Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}
	wfs, err := ParseWorkflows(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wfs, nil
}

// ParseWorkflows parses workflow documents from raw YAML.
func ParseWorkflows(data []byte) ([]Workflow, error) {
	var workflows []Workflow

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var wf Workflow
		if err := dec.Decode(&wf); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to parse workflow YAML: %w", err)
		}
		// Skip empty documents (e.g. a trailing --- separator).
		if wf.Name == "" && len(wf.Transitions) == 0 {
			continue
		}

		wf.Normalize()
		if err := wf.Validate(); err != nil {
			return nil, fmt.Errorf("workflow %q: %w", wf.Name, err)
		}
		workflows = append(workflows, wf)
	}

	if len(workflows) == 0 {
		return nil, fmt.Errorf("no workflows found")
	}
	if err := validateSet(workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlanDocument is the top-level structure of a structured plan file.
// YAML and JSON spellings are both accepted.
type PlanDocument struct {
	Feature  FeatureDoc   `yaml:"feature"`
	Defaults *DefaultsDoc `yaml:"defaults,omitempty"`
	PBIs     []PBIDoc     `yaml:"pbis"`
}

// FeatureDoc defines the feature in the plan file.
type FeatureDoc struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
}

// DefaultsDoc holds values that cascade to tasks which leave them unset.
type DefaultsDoc struct {
	Effort *int `yaml:"effort,omitempty"`
}

// PBIDoc defines a backlog item and its tasks.
type PBIDoc struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	Tasks       []TaskDoc `yaml:"tasks,omitempty"`
}

// TaskDoc defines a task. A bare string is shorthand for a task with
// only a title.
type TaskDoc struct {
	Title  string `yaml:"title"`
	Effort *int   `yaml:"effort,omitempty"`
}

// UnmarshalYAML accepts either a scalar title or a mapping.
func (t *TaskDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Title = node.Value
		return nil
	}
	type plain TaskDoc
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = TaskDoc(p)
	return nil
}

// LoadPlanDocument reads and parses a plan file.
func LoadPlanDocument(path string) (*PlanDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodePlanDocument(f)
}

// ParsePlanDocument parses plan text.
func ParsePlanDocument(text string) (*PlanDocument, error) {
	return DecodePlanDocument(strings.NewReader(text))
}

// DecodePlanDocument parses a single plan document from r. Unknown keys
// are rejected so typos do not silently drop data.
func DecodePlanDocument(r io.Reader) (*PlanDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("plan document is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc PlanDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing plan document: %w", err)
	}
	return &doc, nil
}

package domain

import (
	"fmt"
	"strings"
)

// Config is the user-level tracker configuration. Empty optional fields
// mean "unset" and never override anything.
type Config struct {
	OrgURL         string `json:"org_url"`
	Project        string `json:"project"`
	AssignedTo     string `json:"assigned_to"`
	AreaPath       string `json:"area_path"`
	IterationPath  string `json:"iteration_path"`
	AuthHelperPath string `json:"auth_helper_path"`
}

// MissingFields lists the required fields that are blank.
func (c Config) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.OrgURL) == "" {
		missing = append(missing, "org_url")
	}
	if strings.TrimSpace(c.Project) == "" {
		missing = append(missing, "project")
	}
	if strings.TrimSpace(c.AssignedTo) == "" {
		missing = append(missing, "assigned_to")
	}
	return missing
}

// IsComplete reports whether organisation URL, project and assignee are set.
func (c Config) IsComplete() bool {
	return len(c.MissingFields()) == 0
}

// Validate returns a validation error naming every missing required field.
func (c Config) Validate() error {
	if missing := c.MissingFields(); len(missing) > 0 {
		return Errorf(KindValidation, "validate config", "required fields are empty: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Normalized trims whitespace and the trailing slash of the organisation URL.
func (c Config) Normalized() Config {
	c.OrgURL = strings.TrimRight(strings.TrimSpace(c.OrgURL), "/")
	c.Project = strings.TrimSpace(c.Project)
	c.AssignedTo = strings.TrimSpace(c.AssignedTo)
	c.AreaPath = strings.TrimSpace(c.AreaPath)
	c.IterationPath = strings.TrimSpace(c.IterationPath)
	c.AuthHelperPath = strings.TrimSpace(c.AuthHelperPath)
	return c
}

// ItemURL returns the browser URL of a work item.
func (c Config) ItemURL(id int) string {
	return fmt.Sprintf("%s/%s/_workitems/edit/%d", strings.TrimRight(c.OrgURL, "/"), c.Project, id)
}

// Overrides are the per-creation assignment fields. Blank values fall back
// to the Config defaults.
type Overrides struct {
	AssignedTo    string `json:"assigned_to"`
	AreaPath      string `json:"area_path"`
	IterationPath string `json:"iteration_path"`
}

// OverridesFrom seeds overrides from the Config defaults.
func OverridesFrom(c Config) Overrides {
	return Overrides{
		AssignedTo:    c.AssignedTo,
		AreaPath:      c.AreaPath,
		IterationPath: c.IterationPath,
	}
}

// WithDefaults fills blank fields from c.
func (o Overrides) WithDefaults(c Config) Overrides {
	if strings.TrimSpace(o.AssignedTo) == "" {
		o.AssignedTo = c.AssignedTo
	}
	if strings.TrimSpace(o.AreaPath) == "" {
		o.AreaPath = c.AreaPath
	}
	if strings.TrimSpace(o.IterationPath) == "" {
		o.IterationPath = c.IterationPath
	}
	return o
}

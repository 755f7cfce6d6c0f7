package importer

import (
	"fmt"
	"strings"
)

// ValidatePlanDocument checks the document for errors before conversion.
// Returns a slice of all validation errors found.
func ValidatePlanDocument(doc *PlanDocument) []error {
	var errs []error

	if strings.TrimSpace(doc.Feature.Title) == "" {
		errs = append(errs, fmt.Errorf("feature.title is required"))
	}
	if doc.Defaults != nil && doc.Defaults.Effort != nil && *doc.Defaults.Effort <= 0 {
		errs = append(errs, fmt.Errorf("defaults.effort must be positive, got %d", *doc.Defaults.Effort))
	}
	if len(doc.PBIs) == 0 {
		errs = append(errs, fmt.Errorf("pbis: at least one backlog item is required"))
	}

	for i, p := range doc.PBIs {
		prefix := fmt.Sprintf("pbis[%d]", i)
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		for j, t := range p.Tasks {
			tp := fmt.Sprintf("%s.tasks[%d]", prefix, j)
			if strings.TrimSpace(t.Title) == "" {
				errs = append(errs, fmt.Errorf("%s.title is required", tp))
			}
			if t.Effort != nil && *t.Effort <= 0 {
				errs = append(errs, fmt.Errorf("%s.effort must be positive, got %d", tp, *t.Effort))
			}
		}
	}

	return errs
}

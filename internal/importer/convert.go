package importer

import (
	"strings"

	"github.com/alexanderramin/wisync/internal/domain"
)

// Convert transforms a validated PlanDocument into a Hierarchy.
// Call ValidatePlanDocument first; Convert assumes the document is valid.
func Convert(doc *PlanDocument) *domain.Hierarchy {
	var defaultEffort *int
	if doc.Defaults != nil {
		defaultEffort = doc.Defaults.Effort
	}

	h := &domain.Hierarchy{
		Feature: domain.PlanFeature{
			Title:       strings.TrimSpace(doc.Feature.Title),
			Description: strings.TrimSpace(doc.Feature.Description),
		},
		PBIs: make([]domain.PlanPBI, 0, len(doc.PBIs)),
	}

	for _, p := range doc.PBIs {
		pbi := domain.PlanPBI{
			Title:       strings.TrimSpace(p.Title),
			Description: strings.TrimSpace(p.Description),
			Tasks:       make([]domain.PlanTask, 0, len(p.Tasks)),
		}
		for _, t := range p.Tasks {
			effort := t.Effort
			if effort == nil && defaultEffort != nil {
				v := *defaultEffort
				effort = &v
			}
			pbi.Tasks = append(pbi.Tasks, domain.PlanTask{
				Title:  strings.TrimSpace(t.Title),
				Effort: effort,
			})
		}
		h.PBIs = append(h.PBIs, pbi)
	}

	return h
}

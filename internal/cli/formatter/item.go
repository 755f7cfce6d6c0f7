package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/wisync/internal/domain"
)

// FormatCreatedItem renders a single created work item.
func FormatCreatedItem(it *domain.CreatedItem) string {
	if it == nil {
		return ""
	}
	line := Success(fmt.Sprintf("Created %s #%d %s", it.Type.Short(), it.ID, it.Title))
	if it.ParentID > 0 {
		line += Dim(fmt.Sprintf(" (parent #%d)", it.ParentID))
	}
	line += "\n"
	if it.WebURL != "" {
		line += "  " + StyleBlue.Render(it.WebURL) + "\n"
	}
	return line
}

// FormatWorkItem renders the editable fields of a fetched item.
func FormatWorkItem(w *domain.WorkItem) string {
	if w == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s %s\n\n", TypeBadge(w.Type), Bold(fmt.Sprintf("#%d", w.ID)), w.Title))
	b.WriteString(RenderKeyValues([][2]string{
		{"State", StatePill(w.State)},
		{"Assigned to", orDash(w.AssignedTo)},
		{"Area", orDash(w.AreaPath)},
		{"Iteration", orDash(w.IterationPath)},
	}))
	return b.String()
}

// FormatChanges renders a field diff as old → new lines.
func FormatChanges(base domain.WorkItemFields, changes domain.FieldChanges) string {
	if len(changes) == 0 {
		return Dim("No changes") + "\n"
	}
	var b strings.Builder
	for _, f := range changes.Fields() {
		b.WriteString(fmt.Sprintf("  %s: %s → %s\n", Bold(string(f)), Dim(orDash(base.Get(f))), changes[f]))
	}
	return b.String()
}

// FormatFeatures renders the feature listing as a table.
func FormatFeatures(features []domain.Feature, now time.Time) string {
	if len(features) == 0 {
		return Dim("No features found") + "\n"
	}
	rows := make([][]string, 0, len(features))
	for _, f := range features {
		rows = append(rows, []string{
			strconv.Itoa(f.ID),
			Truncate(f.Title, 48),
			StatePill(f.State),
			orDash(f.AssignedTo),
			RelativeDateFrom(f.CreatedDate, now),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATE", "ASSIGNED", "CREATED"}, rows)
}

// FormatDeleteResult renders per-id delete outcomes, ids ascending.
func FormatDeleteResult(r domain.DeleteBatchResult) string {
	ids := make([]int, 0, len(r.Outcomes))
	for id := range r.Outcomes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var b strings.Builder
	for _, id := range ids {
		if r.Outcomes[id] {
			b.WriteString(Success(fmt.Sprintf("#%d deleted", id)))
		} else {
			b.WriteString(Failure(fmt.Sprintf("#%d not deleted", id)))
		}
		b.WriteString("\n")
	}
	b.WriteString(Dim(fmt.Sprintf("%d deleted, %d failed", r.SucceededCount(), r.FailedCount())))
	b.WriteString("\n")
	return b.String()
}

// FormatConfig renders the stored connection settings.
func FormatConfig(c domain.Config) string {
	var b strings.Builder
	b.WriteString(RenderKeyValues([][2]string{
		{"Organization", orDash(c.OrgURL)},
		{"Project", orDash(c.Project)},
		{"Assigned to", orDash(c.AssignedTo)},
		{"Area", orDash(c.AreaPath)},
		{"Iteration", orDash(c.IterationPath)},
		{"Auth helper", orDash(c.AuthHelperPath)},
	}))
	if missing := c.MissingFields(); len(missing) > 0 {
		b.WriteString("\n")
		b.WriteString(Warning("Missing: " + strings.Join(missing, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

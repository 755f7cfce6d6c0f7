package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/wisync/internal/domain"
)

// FormatPreview renders a parsed hierarchy with the fields it will be
// created with.
func FormatPreview(h *domain.Hierarchy, ov domain.Overrides, epicID *int) string {
	if h == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(Header("Preview"))
	b.WriteString("\n")
	b.WriteString(RenderTree(previewItems(h)))
	b.WriteString("\n")

	epic := Dim("none")
	if epicID != nil {
		epic = fmt.Sprintf("#%d", *epicID)
	}
	b.WriteString(RenderKeyValues([][2]string{
		{"Assigned to", orDash(ov.AssignedTo)},
		{"Area", orDash(ov.AreaPath)},
		{"Iteration", orDash(ov.IterationPath)},
		{"Epic", epic},
	}))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("1 feature, %d PBIs, %d tasks", len(h.PBIs), h.TaskCount())))
	b.WriteString("\n")
	return b.String()
}

func previewItems(h *domain.Hierarchy) []TreeItem {
	items := []TreeItem{{Title: Bold(h.Feature.Title), Level: 0, IsLast: true}}
	for i, p := range h.PBIs {
		items = append(items, TreeItem{
			Title:  p.Title,
			Level:  1,
			IsLast: i == len(h.PBIs)-1,
			Detail: fmt.Sprintf("%d tasks", len(p.Tasks)),
		})
		for j, t := range p.Tasks {
			items = append(items, TreeItem{
				Title:  t.Title,
				Level:  2,
				IsLast: j == len(p.Tasks)-1,
				Detail: FormatEffort(t.Effort),
			})
		}
	}
	return items
}

// FormatCreateResult renders the summary of a fully created hierarchy.
func FormatCreateResult(r *domain.CreateResult) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(Success(fmt.Sprintf("Created feature #%d with %d PBIs and %d tasks", r.FeatureID, r.PBICount, r.TaskCount)))
	b.WriteString("\n")
	if r.FeatureURL != "" {
		b.WriteString("  " + StyleBlue.Render(r.FeatureURL) + "\n")
	}
	return b.String()
}

// FormatPartial renders what exists remotely after a failed creation and
// every call that failed.
func FormatPartial(t *domain.CreateTree) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	if t.Feature == nil {
		b.WriteString(Failure("Nothing was created"))
		b.WriteString("\n")
	} else {
		b.WriteString(Warning(fmt.Sprintf("Partially created: %d of the planned items exist remotely", len(t.CreatedIDs()))))
		b.WriteString("\n\n")
		b.WriteString(RenderTree(partialItems(t)))
	}
	if failures := t.Failures(); len(failures) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Failures"))
		b.WriteString("\n")
		for _, f := range failures {
			b.WriteString("  " + StyleRed.Render("•") + " " + f + "\n")
		}
	}
	return b.String()
}

func partialItems(t *domain.CreateTree) []TreeItem {
	items := []TreeItem{{Title: t.Feature.Title, ID: t.Feature.ID, IsLast: true}}
	total := len(t.PBIs) + len(t.FailedPBIs)
	n := 0
	for _, p := range t.PBIs {
		n++
		items = append(items, TreeItem{Title: p.Item.Title, ID: p.Item.ID, Level: 1, IsLast: n == total})
		subTotal := len(p.Tasks) + len(p.FailedTasks)
		for j, task := range p.Tasks {
			items = append(items, TreeItem{Title: task.Title, ID: task.ID, Level: 2, IsLast: j == subTotal-1})
		}
		for j, ft := range p.FailedTasks {
			items = append(items, TreeItem{Title: ft.Title, Failed: true, Level: 2, IsLast: len(p.Tasks)+j == subTotal-1})
		}
	}
	for _, p := range t.FailedPBIs {
		n++
		detail := ""
		if p.SkippedTasks > 0 {
			detail = fmt.Sprintf("%d tasks skipped", p.SkippedTasks)
		}
		items = append(items, TreeItem{Title: p.Title, Failed: true, Level: 1, IsLast: n == total, Detail: detail})
	}
	return items
}

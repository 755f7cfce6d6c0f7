package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/wisync/internal/domain"
)

// FormatRuns renders the create journal as a table, newest first.
func FormatRuns(runs []domain.CreateRun, now time.Time) string {
	if len(runs) == 0 {
		return Dim("No create runs recorded") + "\n"
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			TruncID(r.ID),
			string(r.Kind),
			Truncate(r.Title, 40),
			RunStatusPill(r.Status),
			strconv.Itoa(r.ItemCount),
			RelativeDateFrom(r.CreatedAt, now),
		})
	}
	return RenderTable([]string{"RUN", "KIND", "TITLE", "STATUS", "ITEMS", "WHEN"}, rows)
}

// FormatRun renders one run with every item it created.
func FormatRun(r *domain.CreateRun) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	pairs := [][2]string{
		{"Kind", string(r.Kind)},
		{"Status", RunStatusPill(r.Status)},
		{"Created", r.CreatedAt.Local().Format("2006-01-02 15:04")},
	}
	if r.EpicID != nil {
		pairs = append(pairs, [2]string{"Parent", fmt.Sprintf("#%d", *r.EpicID)})
	}
	if r.Error != "" {
		pairs = append(pairs, [2]string{"Error", StyleRed.Render(r.Error)})
	}
	b.WriteString(RenderKeyValues(pairs))

	if len(r.Items) == 0 {
		return RenderBox(r.Title, b.String()+"\n"+Dim("No items were created"))
	}
	b.WriteString("\n")
	rows := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		parent := ""
		if it.ParentID > 0 {
			parent = strconv.Itoa(it.ParentID)
		}
		rows = append(rows, []string{strconv.Itoa(it.RemoteID), TypeBadge(it.Type), it.Title, parent})
	}
	b.WriteString(RenderTable([]string{"ID", "TYPE", "TITLE", "PARENT"}, rows))
	return RenderBox(r.Title, b.String())
}

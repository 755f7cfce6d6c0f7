package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a tree display.
type TreeItem struct {
	Title  string
	ID     int // remote id; 0 means not created
	Level  int
	IsLast bool
	Failed bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders items as an indented tree. Failed items get a red ✖
// and detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type line struct {
		content string
		badge   string
	}
	lines := make([]line, len(items))
	widest := 0

	// open[l] is true while the ancestor at level l still has siblings below.
	open := map[int]bool{}
	for idx, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			for l := 1; l < item.Level; l++ {
				if open[l] {
					prefix.WriteString(treePipe)
				} else {
					prefix.WriteString(treeBlank)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}
		open[item.Level] = !item.IsLast

		title := item.Title
		switch {
		case item.Failed:
			title = StyleRed.Render("✖ ") + title
		case item.ID > 0:
			title = StyleDim.Render(fmt.Sprintf("#%d ", item.ID)) + title
		}

		content := prefix.String() + title
		lines[idx].content = content
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		widest = max(widest, lipgloss.Width(content))
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.content)
		if l.badge != "" {
			b.WriteString(strings.Repeat(" ", widest-lipgloss.Width(l.content)+2))
			b.WriteString(l.badge)
		}
		b.WriteString("\n")
	}
	return b.String()
}

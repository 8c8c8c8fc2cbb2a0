package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/render"
	"github.com/alexanderramin/okrview/internal/tree"
)

// TreeItem is a single line of an indented tree display.
type TreeItem struct {
	ID       string
	Title    string
	Kind     domain.NodeKind
	Level    int
	IsLast   bool
	Guides   []bool
	Marker   string
	Progress float64
	Detail   string
	Selected bool
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// OutlineItems converts outline rows into tree items.
func OutlineItems(rows []tree.OutlineRow) []TreeItem {
	items := make([]TreeItem, len(rows))
	for i, r := range rows {
		item := TreeItem{
			ID:     r.Node.ID,
			Title:  render.Label(r.Node),
			Kind:   r.Node.Kind,
			Level:  r.Depth,
			IsLast: r.Last,
			Guides: r.Guides,
			Marker: render.Marker(r.Node.HasChildren, r.Expanded),
		}
		if p := r.Node.Payload; p != nil {
			item.Progress = p.ClampedProgress()
			item.Detail = strings.TrimSpace(measureAndOwner(p))
		}
		items[i] = item
	}
	return items
}

func measureAndOwner(n *domain.TreeNode) string {
	var parts []string
	if m := FormatMeasure(n); m != "" {
		parts = append(parts, m)
	}
	if d := n.DepartmentName(); d != "" {
		parts = append(parts, d)
	} else if o := n.OwnerName(); o != "" {
		parts = append(parts, o)
	}
	return strings.Join(parts, " · ")
}

// RenderTree renders items as an indented tree using box-drawing connectors.
// Progress bars and details are right-aligned in a shared column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			for _, g := range item.Guides {
				if g {
					prefix += treePipe
				} else {
					prefix += treeBlank
				}
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		switch {
		case item.Selected:
			title = StyleSelected.Render(title)
		case item.Kind == domain.KindObjective:
			title = StyleBold.Render(title)
		}

		content := StyleDim.Render(prefix) + StyleDim.Render(item.Marker) + KindBadge(item.Kind) + " " + title
		if item.Selected {
			content = StyleSelected.Render("▌") + content
		} else {
			content = " " + content
		}
		lines[idx].content = content

		badge := RenderProgress(item.Progress, 10)
		if item.Detail != "" {
			badge += "  " + Dim(item.Detail)
		}
		lines[idx].badge = badge

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		pad := maxContentWidth - lipgloss.Width(li.content)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
	}

	return b.String()
}

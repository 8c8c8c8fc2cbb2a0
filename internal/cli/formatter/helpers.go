package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/okrview/internal/domain"
)

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return HumanDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t)
	}
}

// CycleWindow returns "Jan 1 – Mar 31, 2026" style dates for a cycle, or
// "no dates" when neither end is set.
func CycleWindow(c domain.Cycle) string {
	switch {
	case c.StartDate != nil && c.EndDate != nil:
		return c.StartDate.Format("Jan 2") + " – " + c.EndDate.Format("Jan 2, 2006")
	case c.StartDate != nil:
		return "from " + c.StartDate.Format("Jan 2, 2006")
	case c.EndDate != nil:
		return "until " + c.EndDate.Format("Jan 2, 2006")
	}
	return "no dates"
}

// FormatMeasure renders a key result's current and target values, e.g.
// "60/100 customers". Objectives and key results without a target return "".
func FormatMeasure(n *domain.TreeNode) string {
	if n == nil || n.Kind != domain.KindKeyResult || n.TargetValue == 0 {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%s/%s %s",
		formatNumber(n.CurrentValue), formatNumber(n.TargetValue), n.Unit))
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// Notice renders a dismissable error line.
func Notice(msg string) string {
	return StyleRed.Render("✖ "+msg) + "  " + Dim("(x to dismiss)")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

type Cycle struct {
	ID        int64
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
}

// Active reports whether at falls inside the cycle's date range.
// Open-ended bounds are treated as unbounded.
func (c Cycle) Active(at time.Time) bool {
	if c.StartDate != nil && at.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && at.After(c.EndDate.Add(24*time.Hour-time.Nanosecond)) {
		return false
	}
	return true
}

type Department struct {
	ID   int64
	Name string
}

type User struct {
	ID       int64
	FullName string
}

// CompanyObjective is a top-level objective offered as a tree root.
type CompanyObjective struct {
	ID          int64
	Title       string
	CycleID     int64
	Description string
	Progress    float64
}

// TreeNode is one objective or key result as received from the API.
// Trees are treated as immutable once decoded.
type TreeNode struct {
	ID              string
	Kind            NodeKind
	Title           string
	ProgressPercent float64
	CurrentValue    float64
	TargetValue     float64
	Unit            string
	Department      *Department
	Owner           *User
	Children        []*TreeNode
}

// ObjectiveNodeID namespaces a raw objective id.
func ObjectiveNodeID(id int64) string { return fmt.Sprintf("obj-%d", id) }

// KeyResultNodeID namespaces a raw key result id.
func KeyResultNodeID(id int64) string { return fmt.Sprintf("kr-%d", id) }

// ParseNodeID splits a namespaced id into its kind and raw id.
func ParseNodeID(id string) (NodeKind, int64, error) {
	var (
		kind   NodeKind
		prefix string
	)
	switch {
	case strings.HasPrefix(id, "obj-"):
		kind, prefix = KindObjective, "obj-"
	case strings.HasPrefix(id, "kr-"):
		kind, prefix = KindKeyResult, "kr-"
	default:
		return "", 0, fmt.Errorf("node id %q has no obj-/kr- prefix", id)
	}
	var raw int64
	if _, err := fmt.Sscanf(strings.TrimPrefix(id, prefix), "%d", &raw); err != nil {
		return "", 0, fmt.Errorf("node id %q: %w", id, err)
	}
	return kind, raw, nil
}

// HasChildren reports whether the node has at least one child.
func (n *TreeNode) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *TreeNode) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// ClampedProgress returns ProgressPercent bounded to [0, 100].
func (n *TreeNode) ClampedProgress() float64 {
	switch {
	case n.ProgressPercent < 0:
		return 0
	case n.ProgressPercent > 100:
		return 100
	}
	return n.ProgressPercent
}

// DepartmentName returns the owning department's name or "".
func (n *TreeNode) DepartmentName() string {
	if n.Department == nil {
		return ""
	}
	return n.Department.Name
}

// OwnerName returns the owner's full name or "".
func (n *TreeNode) OwnerName() string {
	if n.Owner == nil {
		return ""
	}
	return n.Owner.FullName
}

type SnapshotSource string

const (
	SourceAPI  SnapshotSource = "api"
	SourceFile SnapshotSource = "file"
)

// TreeSnapshot is a stored copy of one fetched tree. Payload holds the tree
// in the API node shape.
type TreeSnapshot struct {
	ID          string
	CycleID     int64
	ObjectiveID int64
	Title       string
	NodeCount   int
	Payload     []byte
	Source      SnapshotSource
	FetchedAt   time.Time
}

package testutil

import (
	"sync/atomic"

	"github.com/alexanderramin/okrview/internal/domain"
)

var testIDCounter atomic.Int64

type NodeOption func(*domain.TreeNode)

func WithProgress(pct float64) NodeOption {
	return func(n *domain.TreeNode) {
		n.ProgressPercent = pct
	}
}

func WithDepartment(name string) NodeOption {
	return func(n *domain.TreeNode) {
		n.Department = &domain.Department{ID: testIDCounter.Add(1), Name: name}
	}
}

func WithOwner(name string) NodeOption {
	return func(n *domain.TreeNode) {
		n.Owner = &domain.User{ID: testIDCounter.Add(1), FullName: name}
	}
}

func WithMeasure(current, target float64, unit string) NodeOption {
	return func(n *domain.TreeNode) {
		n.CurrentValue = current
		n.TargetValue = target
		n.Unit = unit
	}
}

func WithChildren(children ...*domain.TreeNode) NodeOption {
	return func(n *domain.TreeNode) {
		n.Children = append(n.Children, children...)
	}
}

// NewObjective builds an objective node with id obj-<id>.
func NewObjective(id int64, title string, opts ...NodeOption) *domain.TreeNode {
	n := &domain.TreeNode{
		ID:    domain.ObjectiveNodeID(id),
		Kind:  domain.KindObjective,
		Title: title,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewKeyResult builds a key result node with id kr-<id>.
func NewKeyResult(id int64, title string, opts ...NodeOption) *domain.TreeNode {
	n := &domain.TreeNode{
		ID:    domain.KeyResultNodeID(id),
		Kind:  domain.KindKeyResult,
		Title: title,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SampleTree is objective 1 with key results 1 and 2; key result 1 has one
// child, key result 3.
func SampleTree() *domain.TreeNode {
	return NewObjective(1, "Grow the business", WithProgress(45), WithDepartment("Leadership"),
		WithChildren(
			NewKeyResult(1, "Reach 100 customers", WithProgress(60), WithMeasure(60, 100, "customers"),
				WithChildren(NewKeyResult(3, "Sign 10 enterprise deals", WithProgress(30), WithOwner("Dana Cruz")))),
			NewKeyResult(2, "Launch in two regions", WithProgress(50), WithMeasure(1, 2, "regions")),
		))
}

func SampleCycles() []domain.Cycle {
	return []domain.Cycle{
		{ID: 1, Name: "Q1 2026"},
		{ID: 2, Name: "Q2 2026"},
	}
}

func SampleObjectives(cycleID int64) []domain.CompanyObjective {
	return []domain.CompanyObjective{
		{ID: 1, Title: "Grow the business", CycleID: cycleID, Progress: 45},
		{ID: 2, Title: "Delight customers", CycleID: cycleID, Progress: 70},
		{ID: 3, Title: "Build the platform", CycleID: cycleID, Progress: 10},
	}
}

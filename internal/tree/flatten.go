// Package tree turns a fetched OKR hierarchy into a flat node/edge graph and
// derives everything the tree view draws from it: the visible subgraph for an
// expansion set, a ranked layout, and a viewport that fits it.
package tree

import "github.com/alexanderramin/okrview/internal/domain"

// FlatNode is one TreeNode lifted out of the nested structure.
type FlatNode struct {
	ID          string
	Kind        domain.NodeKind
	Payload     *domain.TreeNode
	HasChildren bool
}

// FlatEdge connects a parent to one of its children.
type FlatEdge struct {
	Source string
	Target string
}

func (e FlatEdge) ID() string {
	return "e-" + e.Source + "-" + e.Target
}

// Flatten walks root depth-first in pre-order and returns one node per
// TreeNode and one edge per parent/child pair. A nil root yields empty lists.
func Flatten(root *domain.TreeNode) ([]FlatNode, []FlatEdge) {
	if root == nil {
		return []FlatNode{}, []FlatEdge{}
	}
	size := root.Count()
	nodes := make([]FlatNode, 0, size)
	edges := make([]FlatEdge, 0, size-1)

	var walk func(n *domain.TreeNode)
	walk = func(n *domain.TreeNode) {
		hasChildren := false
		for _, child := range n.Children {
			if child != nil {
				hasChildren = true
				break
			}
		}
		nodes = append(nodes, FlatNode{
			ID:          n.ID,
			Kind:        n.Kind,
			Payload:     n,
			HasChildren: hasChildren,
		})
		for _, child := range n.Children {
			if child == nil {
				continue
			}
			edges = append(edges, FlatEdge{Source: n.ID, Target: child.ID})
			walk(child)
		}
	}
	walk(root)
	return nodes, edges
}

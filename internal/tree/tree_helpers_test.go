package tree

import (
	"strings"

	"github.com/alexanderramin/okrview/internal/domain"
)

// node builds a TreeNode whose kind follows its id prefix.
func node(id string, children ...*domain.TreeNode) *domain.TreeNode {
	kind := domain.KindKeyResult
	if strings.HasPrefix(id, "obj-") {
		kind = domain.KindObjective
	}
	return &domain.TreeNode{ID: id, Kind: kind, Title: "title " + id, Children: children}
}

// sampleTree is obj-1 with key results kr-1 (child kr-1a) and kr-2.
func sampleTree() *domain.TreeNode {
	return node("obj-1",
		node("kr-1", node("kr-1a")),
		node("kr-2"),
	)
}

// deepTree has three ranks below the root and uneven fan-out.
func deepTree() *domain.TreeNode {
	return node("obj-1",
		node("obj-2",
			node("kr-1", node("kr-1a"), node("kr-1b")),
			node("kr-2"),
		),
		node("obj-3",
			node("kr-3"),
		),
		node("kr-4"),
	)
}

func mustGraph(root *domain.TreeNode) *Graph {
	g, err := FromTree(root)
	if err != nil {
		panic(err)
	}
	return g
}

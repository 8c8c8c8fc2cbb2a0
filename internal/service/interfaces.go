package service

import (
	"context"
	"time"

	"github.com/alexanderramin/okrview/internal/domain"
)

// OKRService is what the CLI and the TUI talk to.
type OKRService interface {
	ListCycles(ctx context.Context) ([]domain.Cycle, error)
	ListCompanyObjectives(ctx context.Context, cycleID int64) ([]domain.CompanyObjective, error)
	// LoadTree fetches the live tree and refreshes its cached snapshot.
	LoadTree(ctx context.Context, cycleID, objectiveID int64) (*domain.TreeNode, error)
	// LoadCachedTree returns the stored snapshot without touching the network.
	LoadCachedTree(ctx context.Context, cycleID, objectiveID int64) (*domain.TreeNode, *domain.TreeSnapshot, error)
	ListSnapshots(ctx context.Context) ([]*domain.TreeSnapshot, error)
	PruneSnapshots(ctx context.Context, olderThan time.Duration) (int64, error)
}

// TreeSource produces a tree without the API, e.g. from a file.
type TreeSource interface {
	LoadTree(ctx context.Context) (*domain.TreeNode, error)
	Describe() string
}

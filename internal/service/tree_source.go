package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/okrview/internal/domain"
)

// APITreeSource loads one objective's tree through an OKRService.
type APITreeSource struct {
	svc         OKRService
	cycleID     int64
	objectiveID int64
}

func NewAPITreeSource(svc OKRService, cycleID, objectiveID int64) *APITreeSource {
	return &APITreeSource{svc: svc, cycleID: cycleID, objectiveID: objectiveID}
}

func (a *APITreeSource) LoadTree(ctx context.Context) (*domain.TreeNode, error) {
	return a.svc.LoadTree(ctx, a.cycleID, a.objectiveID)
}

func (a *APITreeSource) Describe() string {
	return fmt.Sprintf("cycle %d · objective %d", a.cycleID, a.objectiveID)
}

// CachedTreeSource serves the last stored snapshot without the network.
type CachedTreeSource struct {
	svc         OKRService
	cycleID     int64
	objectiveID int64
}

func NewCachedTreeSource(svc OKRService, cycleID, objectiveID int64) *CachedTreeSource {
	return &CachedTreeSource{svc: svc, cycleID: cycleID, objectiveID: objectiveID}
}

func (c *CachedTreeSource) LoadTree(ctx context.Context) (*domain.TreeNode, error) {
	root, _, err := c.svc.LoadCachedTree(ctx, c.cycleID, c.objectiveID)
	return root, err
}

func (c *CachedTreeSource) Describe() string {
	return fmt.Sprintf("cycle %d · objective %d (cached)", c.cycleID, c.objectiveID)
}

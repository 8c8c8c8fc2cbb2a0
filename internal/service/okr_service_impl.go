package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/okrview/internal/db"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/okrapi"
	"github.com/alexanderramin/okrview/internal/repository"
)

type okrService struct {
	client    okrapi.Client
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

// NewOKRService wires the API client with an optional snapshot cache. Pass
// nil snapshots and uow to run without a cache.
func NewOKRService(
	client okrapi.Client,
	snapshots repository.SnapshotRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) OKRService {
	return &okrService{
		client:    client,
		snapshots: snapshots,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *okrService) ListCycles(ctx context.Context) (cycles []domain.Cycle, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "list-cycles", fields)(&err)

	cycles, err = s.client.ListCycles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cycles: %w", err)
	}
	fields["count"] = len(cycles)
	return cycles, nil
}

func (s *okrService) ListCompanyObjectives(ctx context.Context, cycleID int64) (objs []domain.CompanyObjective, err error) {
	fields := map[string]any{"cycle_id": cycleID}
	defer observe(ctx, s.observer, "list-company-objectives", fields)(&err)

	objs, err = s.client.ListCompanyObjectives(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("listing company objectives for cycle %d: %w", cycleID, err)
	}
	fields["count"] = len(objs)
	return objs, nil
}

func (s *okrService) LoadTree(ctx context.Context, cycleID, objectiveID int64) (root *domain.TreeNode, err error) {
	fields := map[string]any{"cycle_id": cycleID, "objective_id": objectiveID}
	defer observe(ctx, s.observer, "load-tree", fields)(&err)

	root, err = s.client.FetchTree(ctx, cycleID, objectiveID)
	if err != nil {
		return nil, fmt.Errorf("loading tree for objective %d: %w", objectiveID, err)
	}
	fields["node_count"] = root.Count()

	if root != nil && s.uow != nil {
		if cacheErr := s.storeSnapshot(ctx, cycleID, objectiveID, root, domain.SourceAPI); cacheErr != nil {
			// Cache failures are recorded but do not fail the load.
			fields["cache_error"] = cacheErr.Error()
		}
	}
	return root, nil
}

// storeSnapshot replaces the snapshot for (cycleID, objectiveID) in one
// transaction.
func (s *okrService) storeSnapshot(ctx context.Context, cycleID, objectiveID int64, root *domain.TreeNode, source domain.SnapshotSource) error {
	payload, err := okrapi.EncodeTree(root)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	snap := &domain.TreeSnapshot{
		CycleID:     cycleID,
		ObjectiveID: objectiveID,
		Title:       root.Title,
		NodeCount:   root.Count(),
		Payload:     payload,
		Source:      source,
		FetchedAt:   s.now(),
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSnapshotRepo(tx)
		if err := repo.Delete(ctx, cycleID, objectiveID); err != nil {
			return err
		}
		return repo.Create(ctx, snap)
	})
}

func (s *okrService) LoadCachedTree(ctx context.Context, cycleID, objectiveID int64) (root *domain.TreeNode, snap *domain.TreeSnapshot, err error) {
	fields := map[string]any{"cycle_id": cycleID, "objective_id": objectiveID}
	defer observe(ctx, s.observer, "load-cached-tree", fields)(&err)

	if s.snapshots == nil {
		return nil, nil, ErrCacheDisabled
	}
	snap, err = s.snapshots.Get(ctx, cycleID, objectiveID)
	if err != nil {
		return nil, nil, err
	}
	root, err = okrapi.DecodeTree(snap.Payload)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding snapshot %s: %w", snap.ID, err)
	}
	fields["age_s"] = int64(s.now().Sub(snap.FetchedAt).Seconds())
	return root, snap, nil
}

func (s *okrService) ListSnapshots(ctx context.Context) ([]*domain.TreeSnapshot, error) {
	if s.snapshots == nil {
		return nil, ErrCacheDisabled
	}
	return s.snapshots.List(ctx)
}

func (s *okrService) PruneSnapshots(ctx context.Context, olderThan time.Duration) (n int64, err error) {
	fields := map[string]any{"older_than": olderThan.String()}
	defer observe(ctx, s.observer, "prune-snapshots", fields)(&err)

	if s.snapshots == nil {
		return 0, ErrCacheDisabled
	}
	n, err = s.snapshots.DeleteOlderThan(ctx, s.now().Add(-olderThan))
	fields["deleted"] = n
	return n, err
}

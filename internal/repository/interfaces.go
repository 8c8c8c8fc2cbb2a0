package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/okrview/internal/domain"
)

// ErrNotFound is wrapped by lookups that match no row.
var ErrNotFound = errors.New("not found")

type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.TreeSnapshot) error
	Get(ctx context.Context, cycleID, objectiveID int64) (*domain.TreeSnapshot, error)
	// List returns snapshots newest first, without payloads.
	List(ctx context.Context) ([]*domain.TreeSnapshot, error)
	Delete(ctx context.Context, cycleID, objectiveID int64) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

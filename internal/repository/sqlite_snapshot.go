package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/okrview/internal/db"
	"github.com/alexanderramin/okrview/internal/domain"
)

type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

// Create inserts s, assigning an id and fetch time when they are unset.
func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.TreeSnapshot) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.FetchedAt.IsZero() {
		s.FetchedAt = time.Now().UTC()
	}
	if s.Source == "" {
		s.Source = domain.SourceAPI
	}
	query := `INSERT INTO tree_snapshots (id, cycle_id, objective_id, title, node_count, payload, source, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.CycleID,
		s.ObjectiveID,
		s.Title,
		s.NodeCount,
		string(s.Payload),
		string(s.Source),
		formatTime(s.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Get(ctx context.Context, cycleID, objectiveID int64) (*domain.TreeSnapshot, error) {
	query := `SELECT id, cycle_id, objective_id, title, node_count, payload, source, fetched_at
		FROM tree_snapshots WHERE cycle_id = ? AND objective_id = ?`
	row := r.db.QueryRowContext(ctx, query, cycleID, objectiveID)

	var (
		s                          domain.TreeSnapshot
		payload, source, fetchedAt string
	)
	err := row.Scan(&s.ID, &s.CycleID, &s.ObjectiveID, &s.Title, &s.NodeCount, &payload, &source, &fetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot cycle=%d objective=%d: %w", cycleID, objectiveID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	s.Payload = []byte(payload)
	s.Source = domain.SnapshotSource(source)
	s.FetchedAt = parseTime(fetchedAt)
	return &s, nil
}

func (r *SQLiteSnapshotRepo) List(ctx context.Context) ([]*domain.TreeSnapshot, error) {
	query := `SELECT id, cycle_id, objective_id, title, node_count, source, fetched_at
		FROM tree_snapshots ORDER BY fetched_at DESC, cycle_id, objective_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.TreeSnapshot
	for rows.Next() {
		var (
			s                 domain.TreeSnapshot
			source, fetchedAt string
		)
		if err := rows.Scan(&s.ID, &s.CycleID, &s.ObjectiveID, &s.Title, &s.NodeCount, &source, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		s.Source = domain.SnapshotSource(source)
		s.FetchedAt = parseTime(fetchedAt)
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SQLiteSnapshotRepo) Delete(ctx context.Context, cycleID, objectiveID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tree_snapshots WHERE cycle_id = ? AND objective_id = ?`, cycleID, objectiveID)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tree_snapshots WHERE fetched_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return res.RowsAffected()
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"recipe-planner/internal/database"
	"recipe-planner/internal/storage/snapshot_db"
)

// Revision describes the last write of one snapshot.
type Revision struct {
	Key       string
	ID        string
	UpdatedAt time.Time
	Size      int64
}

// SQLiteBackend keeps snapshots in the snapshots table. Every Put stamps a new
// revision id.
type SQLiteBackend struct {
	db      *database.DB
	queries *snapshot_db.Queries
}

// NewSQLiteBackend wraps an open, migrated database.
func NewSQLiteBackend(d *database.DB) *SQLiteBackend {
	return &SQLiteBackend{
		db:      d,
		queries: snapshot_db.New(d.SQL),
	}
}

// Get returns the stored snapshot for key.
func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	row, err := b.queries.GetSnapshot(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	return row.Data, nil
}

// Put upserts the snapshot for key.
func (b *SQLiteBackend) Put(ctx context.Context, key string, data []byte) error {
	err := b.queries.UpsertSnapshot(ctx, snapshot_db.UpsertSnapshotParams{
		Key:       key,
		Data:      data,
		Revision:  uuid.NewString(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

// Revisions lists the latest revision of every stored snapshot, ordered by key.
func (b *SQLiteBackend) Revisions(ctx context.Context) ([]Revision, error) {
	rows, err := b.queries.ListSnapshotRevisions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot revisions: %w", err)
	}
	revs := make([]Revision, 0, len(rows))
	for _, r := range rows {
		revs = append(revs, Revision{Key: r.Key, ID: r.Revision, UpdatedAt: r.UpdatedAt, Size: r.Size})
	}
	return revs, nil
}

// Close closes the underlying database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

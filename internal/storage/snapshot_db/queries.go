package snapshot_db

import (
	"context"
	"time"
)

type Snapshot struct {
	Key       string
	Data      []byte
	Revision  string
	UpdatedAt time.Time
}

const getSnapshot = `
SELECT key, data, revision, updated_at FROM snapshots
WHERE key = ?
`

func (q *Queries) GetSnapshot(ctx context.Context, key string) (Snapshot, error) {
	row := q.db.QueryRowContext(ctx, getSnapshot, key)
	var i Snapshot
	err := row.Scan(&i.Key, &i.Data, &i.Revision, &i.UpdatedAt)
	return i, err
}

const upsertSnapshot = `
INSERT INTO snapshots (key, data, revision, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (key) DO UPDATE SET
    data = excluded.data,
    revision = excluded.revision,
    updated_at = excluded.updated_at
`

type UpsertSnapshotParams struct {
	Key       string
	Data      []byte
	Revision  string
	UpdatedAt time.Time
}

func (q *Queries) UpsertSnapshot(ctx context.Context, arg UpsertSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, upsertSnapshot, arg.Key, arg.Data, arg.Revision, arg.UpdatedAt)
	return err
}

const listSnapshotRevisions = `
SELECT key, revision, updated_at, length(data) AS size FROM snapshots
ORDER BY key
`

type ListSnapshotRevisionsRow struct {
	Key       string
	Revision  string
	UpdatedAt time.Time
	Size      int64
}

func (q *Queries) ListSnapshotRevisions(ctx context.Context) ([]ListSnapshotRevisionsRow, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshotRevisions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSnapshotRevisionsRow
	for rows.Next() {
		var i ListSnapshotRevisionsRow
		if err := rows.Scan(&i.Key, &i.Revision, &i.UpdatedAt, &i.Size); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

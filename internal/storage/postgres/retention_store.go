package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RetentionStore purges project documents that have been soft-deleted for
// longer than the retention window.
type RetentionStore struct {
	db *sql.DB
}

func NewRetentionStore(db *sql.DB) *RetentionStore {
	return &RetentionStore{db: db}
}

// PurgeDeleted permanently removes documents soft-deleted before the cutoff.
// Returns the number of rows removed.
func (s *RetentionStore) PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
DELETE FROM project_documents
WHERE deleted_at IS NOT NULL AND deleted_at < $1;
`
	result, err := s.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge deleted documents: %w", err)
	}
	return result.RowsAffected()
}

// CountDeleted reports how many soft-deleted documents are awaiting purge.
func (s *RetentionStore) CountDeleted(ctx context.Context) (int64, error) {
	const q = `
SELECT COUNT(*) FROM project_documents WHERE deleted_at IS NOT NULL;
`
	var n int64
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count deleted documents: %w", err)
	}
	return n, nil
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRetentionStore(t *testing.T) (*RetentionStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRetentionStore(db), mock
}

func TestRetentionStore_PurgeDeleted(t *testing.T) {
	store, mock := setupRetentionStore(t)

	t.Run("purges rows older than cutoff", func(t *testing.T) {
		cutoff := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectExec(`DELETE FROM project_documents`).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := store.PurgeDeleted(context.Background(), cutoff)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows matching cutoff", func(t *testing.T) {
		cutoff := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectExec(`DELETE FROM project_documents`).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 0))

		n, err := store.PurgeDeleted(context.Background(), cutoff)
		require.NoError(t, err)
		assert.Zero(t, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps database errors", func(t *testing.T) {
		cutoff := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectExec(`DELETE FROM project_documents`).
			WithArgs(cutoff).
			WillReturnError(assert.AnError)

		_, err := store.PurgeDeleted(context.Background(), cutoff)
		assert.ErrorContains(t, err, "purge deleted documents")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRetentionStore_CountDeleted(t *testing.T) {
	store, mock := setupRetentionStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM project_documents`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := store.CountDeleted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

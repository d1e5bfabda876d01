package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	t.Run("record not found", func(t *testing.T) {
		err := translate("get flange", gorm.ErrRecordNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrStorageFailure)
	})

	t.Run("postgres unique violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505"}
		assert.ErrorIs(t, translate("create customer", pgErr), ErrDuplicateName)
		assert.ErrorIs(t, translate("create customer", errors.Wrap(pgErr, "insert")), ErrDuplicateName)
	})

	t.Run("translated duplicate key", func(t *testing.T) {
		assert.ErrorIs(t, translate("create customer", gorm.ErrDuplicatedKey), ErrDuplicateName)
	})

	t.Run("anything else is a storage failure that keeps its cause", func(t *testing.T) {
		cause := errors.New("connection reset by peer")
		err := translate("list customers", cause)

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.ErrorIs(t, err, cause)

		var storageErr *StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "list customers", storageErr.Op)
	})

	t.Run("other postgres codes are storage failures", func(t *testing.T) {
		err := translate("create asset", &pgconn.PgError{Code: "53100"})
		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := OpenDialector(postgres.New(postgres.Config{Conn: conn}), quietLogger())
	require.NoError(t, err)
	return db, mock
}

func TestStorageFailuresSurface(t *testing.T) {
	ctx := context.Background()

	t.Run("list customers", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "customers"`).WillReturnError(errors.New("disk I/O error"))

		_, err := NewHierarchyStore(db).ListCustomers(ctx)
		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list flanges by workpack", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT flanges\.\*, workpacks\.name AS workpack_name FROM "flanges"`).
			WillReturnError(errors.New("connection refused"))

		_, err := NewFlangeRepository(db).ListByWorkpack(ctx, 1)
		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed parent check stops the insert", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).WillReturnError(errors.New("timeout"))

		_, err := NewHierarchyStore(db).CreateAsset(ctx, 1, "Platform A")
		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

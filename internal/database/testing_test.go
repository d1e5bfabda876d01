package database

import (
	"context"
	"io"
	"testing"

	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestDB opens a migrated in-memory database. The pool is pinned to one
// connection so every statement sees the same memory database.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenDialector(sqlite.Open(":memory:"), quietLogger())
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type chain struct {
	customer models.Customer
	asset    models.Asset
	project  models.Project
	workpack models.Workpack
}

func seedChain(t *testing.T, s *HierarchyStore, customerName string) chain {
	t.Helper()
	ctx := context.Background()

	c, err := s.CreateCustomer(ctx, customerName)
	require.NoError(t, err)
	a, err := s.CreateAsset(ctx, c.ID, "Platform A")
	require.NoError(t, err)
	p, err := s.CreateProject(ctx, a.ID, "Shutdown 2026")
	require.NoError(t, err)
	w, err := s.CreateWorkpack(ctx, p.ID, "WP-01")
	require.NoError(t, err)

	return chain{customer: c, asset: a, project: p, workpack: w}
}

package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kelfit/internal/db"
)

// newTestDB opens a migrated single-file database in a temp dir.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.NewSQLite(filepath.Join(t.TempDir(), "kelfit-test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() { _ = db.Close(gormDB) })
	return gormDB
}

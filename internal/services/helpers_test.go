package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/isdelr/diary/internal/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "diary.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestUserService(t *testing.T, db *sql.DB) *UserService {
	t.Helper()
	return NewUserService(db, bcrypt.MinCost)
}

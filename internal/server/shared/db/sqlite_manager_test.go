package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkovalev/nutrigenie/internal/server/searches"
	"github.com/dkovalev/nutrigenie/internal/server/users"
)

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"plain file path", "nutrigenie.db", "nutrigenie.db?_pragma=foreign_keys(1)"},
		{"existing query string", "file:x.db?mode=memory", "file:x.db?mode=memory&_pragma=foreign_keys(1)"},
		{"pragma already present", "x.db?_pragma=foreign_keys(1)", "x.db?_pragma=foreign_keys(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, withForeignKeys(tt.dsn))
		})
	}
}

func newFileManager(t *testing.T) (RepositoryManager, string) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	m, err := NewSQLiteRepositoryManager(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, dsn
}

func TestSQLiteManager_MigrationsCreateSchema(t *testing.T) {
	m, _ := newFileManager(t)
	ctx := context.Background()

	u, err := m.Users().Create(ctx, &users.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	rec, err := m.Searches().Create(ctx, &searches.SearchRecord{
		UserID: u.ID, Feature: searches.FeatureNutrigenie, Query: "q", Response: "a",
	})
	require.NoError(t, err)
	require.NotZero(t, rec.ID)
}

func TestSQLiteManager_RerunKeepsExistingData(t *testing.T) {
	m, _ := newFileManager(t)
	ctx := context.Background()

	u, err := m.Users().Create(ctx, &users.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	// second run is what every process start does
	require.NoError(t, m.RunMigrations(ctx))

	got, err := m.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
}

func TestSQLiteManager_ForeignKeysEnforced(t *testing.T) {
	m, _ := newFileManager(t)

	_, err := m.Conn().Exec(
		`INSERT INTO searches (user_id, feature, query, response) VALUES (?, ?, ?, ?)`,
		9999, "Nutrigenie", "q", "a")
	require.Error(t, err)
	require.Contains(t, err.Error(), "FOREIGN KEY constraint failed")
}

func TestNewRepositoryManager_SelectsSQLiteForFilePaths(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "select.db")
	m, err := NewRepositoryManager(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	_, ok := m.(*SQLiteRepositoryManager)
	require.True(t, ok)
}

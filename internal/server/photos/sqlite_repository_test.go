package photos

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE users (
  id       INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  email    TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE photos (
  id           INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id      INTEGER NOT NULL REFERENCES users(id),
  object_key   TEXT NOT NULL,
  content_type TEXT NOT NULL,
  created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
INSERT INTO users (username, email, password) VALUES ('alice', 'alice@example.com', 'hash');
`)
	require.NoError(t, err)
	return db
}

func TestSQLiteCreate(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	p, err := r.Create(ctx, &Photo{UserID: 1, ObjectKey: "meals/2026/8/30/abc", ContentType: "image/jpeg"})
	require.NoError(t, err)
	require.NotZero(t, p.ID)
	require.False(t, p.CreatedAt.IsZero())
}

func TestSQLiteListByUser(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := r.Create(ctx, &Photo{UserID: 1, ObjectKey: fmt.Sprintf("meals/k%d", i), ContentType: "image/png"})
		require.NoError(t, err)
	}

	list, err := r.ListByUser(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "meals/k2", list[0].ObjectKey)

	list, err = r.ListByUser(ctx, 2, 10)
	require.NoError(t, err)
	require.Empty(t, list)
}

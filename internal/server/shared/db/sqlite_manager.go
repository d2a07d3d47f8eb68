package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dkovalev/nutrigenie/internal/server/migrations"
	"github.com/dkovalev/nutrigenie/internal/server/photos"
	"github.com/dkovalev/nutrigenie/internal/server/searches"
	"github.com/dkovalev/nutrigenie/internal/server/users"
)

type SQLiteRepositoryManager struct {
	db       *sql.DB
	users    users.Repository
	searches searches.Repository
	photos   photos.Repository
}

func (m *SQLiteRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLiteRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *SQLiteRepositoryManager) Searches() searches.Repository {
	return m.searches
}

func (m *SQLiteRepositoryManager) Photos() photos.Repository {
	return m.photos
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.SQLite)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "sqlite"); err != nil {
		return err
	}

	return nil
}

// withForeignKeys makes every pooled connection enforce foreign keys;
// sqlite ships with enforcement off.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func NewSQLiteRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &SQLiteRepositoryManager{
		db:       db,
		users:    users.NewSQLiteRepository(db),
		searches: searches.NewSQLiteRepository(db),
		photos:   photos.NewSQLiteRepository(db),
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

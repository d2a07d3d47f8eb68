package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dkovalev/nutrigenie/internal/server/migrations"
	"github.com/dkovalev/nutrigenie/internal/server/photos"
	"github.com/dkovalev/nutrigenie/internal/server/searches"
	"github.com/dkovalev/nutrigenie/internal/server/users"
)

type PostgresRepositoryManager struct {
	db       *sql.DB
	users    users.Repository
	searches searches.Repository
	photos   photos.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Searches() searches.Repository {
	return m.searches
}

func (m *PostgresRepositoryManager) Photos() photos.Repository {
	return m.photos
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Postgres)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "postgres"); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:       db,
		users:    users.NewPostgresRepository(db),
		searches: searches.NewPostgresRepository(db),
		photos:   photos.NewPostgresRepository(db),
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

// NewRepositoryManager selects the backend from the DSN: postgres URLs get
// the pgx manager, anything else is treated as a sqlite file path.
func NewRepositoryManager(dsn string) (RepositoryManager, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresRepositoryManager(dsn)
	}
	return NewSQLiteRepositoryManager(dsn)
}

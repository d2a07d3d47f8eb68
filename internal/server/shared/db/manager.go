// Package db wires the relational backends behind a single manager
// interface: repositories per entity, migrations, and the shared
// connection handle. The backend is selected from the DSN.
package db

import (
	"context"
	"database/sql"

	"github.com/dkovalev/nutrigenie/internal/server/photos"
	"github.com/dkovalev/nutrigenie/internal/server/searches"
	"github.com/dkovalev/nutrigenie/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Searches() searches.Repository
	Photos() photos.Repository
	Close() error
}

package photos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dkovalev/nutrigenie/internal/dbx"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts the metadata row and reads back the store-assigned
// creation time in the same transaction.
func (r *SQLiteRepository) Create(ctx context.Context, photo *Photo) (*Photo, error) {

	query :=
		`INSERT INTO photos (user_id, object_key, content_type)
		 VALUES (?, ?, ?)
		 `

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		res, err := tx.ExecContext(ctx, query, photo.UserID, photo.ObjectKey, photo.ContentType)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		photo.ID = id

		var ts string
		if err := tx.QueryRowContext(ctx, `SELECT created_at FROM photos WHERE id = ?`, id).Scan(&ts); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		photo.CreatedAt, err = parseSQLiteTime(ts)
		return err
	})
	if err != nil {
		return nil, err
	}

	return photo, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]Photo, error) {

	query :=
		`SELECT id, user_id, object_key, content_type, created_at FROM photos
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []Photo{}
	for rows.Next() {
		var p Photo
		var ts string
		if err := rows.Scan(&p.ID, &p.UserID, &p.ObjectKey, &p.ContentType, &ts); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if p.CreatedAt, err = parseSQLiteTime(ts); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func parseSQLiteTime(s string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", s)
}

package searches

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dkovalev/nutrigenie/internal/dbx"
)

// sqliteTimeLayout is how CURRENT_TIMESTAMP renders in sqlite text columns.
const sqliteTimeLayout = "2006-01-02 15:04:05"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts the record and reads back the store-assigned timestamp.
// Both statements run in one transaction.
func (r *SQLiteRepository) Create(ctx context.Context, rec *SearchRecord) (*SearchRecord, error) {

	query :=
		`INSERT INTO searches (user_id, feature, query, response)
		 VALUES (?, ?, ?, ?)
		 `

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		res, err := tx.ExecContext(ctx, query, rec.UserID, string(rec.Feature), rec.Query, rec.Response)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		rec.ID = id

		var ts string
		if err := tx.QueryRowContext(ctx, `SELECT timestamp FROM searches WHERE id = ?`, id).Scan(&ts); err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		rec.Timestamp, err = parseSQLiteTime(ts)
		return err
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *SQLiteRepository) ListRecent(ctx context.Context, userID int64, feature Feature, limit int) ([]SearchRecord, error) {

	query :=
		`SELECT id, user_id, feature, query, response, timestamp FROM searches
		 WHERE user_id = ? AND feature = ?
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, string(feature), limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	records := []SearchRecord{}
	for rows.Next() {
		var rec SearchRecord
		var feat, ts string
		if err := rows.Scan(&rec.ID, &rec.UserID, &feat, &rec.Query, &rec.Response, &ts); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		rec.Feature = Feature(feat)
		if rec.Timestamp, err = parseSQLiteTime(ts); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return records, nil
}

// Delete removes the record with the given id. A missing id is a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {

	_, err := r.db.ExecContext(ctx, `DELETE FROM searches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// DeleteOwned removes the record only when it belongs to userID. A missing
// or foreign id is a no-op.
func (r *SQLiteRepository) DeleteOwned(ctx context.Context, userID, id int64) error {

	_, err := r.db.ExecContext(ctx, `DELETE FROM searches WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func parseSQLiteTime(s string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", s)
}

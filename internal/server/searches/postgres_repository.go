package searches

import (
	"context"
	"fmt"

	"github.com/dkovalev/nutrigenie/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *SearchRecord) (*SearchRecord, error) {

	query :=
		`INSERT INTO searches (user_id, feature, query, response)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, timestamp
		 `

	err := r.db.QueryRowContext(ctx, query,
		rec.UserID, string(rec.Feature), rec.Query, rec.Response).Scan(&rec.ID, &rec.Timestamp)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, userID int64, feature Feature, limit int) ([]SearchRecord, error) {

	query :=
		`SELECT id, user_id, feature, query, response, timestamp FROM searches
		 WHERE user_id = $1 AND feature = $2
		 ORDER BY timestamp DESC, id DESC
		 LIMIT $3
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, string(feature), limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	records := []SearchRecord{}
	for rows.Next() {
		var rec SearchRecord
		var feat string
		if err := rows.Scan(&rec.ID, &rec.UserID, &feat, &rec.Query, &rec.Response, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		rec.Feature = Feature(feat)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return records, nil
}

// Delete removes the record with the given id. A missing id is a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {

	_, err := r.db.ExecContext(ctx, `DELETE FROM searches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// DeleteOwned removes the record only when it belongs to userID. A missing
// or foreign id is a no-op.
func (r *PostgresRepository) DeleteOwned(ctx context.Context, userID, id int64) error {

	_, err := r.db.ExecContext(ctx, `DELETE FROM searches WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

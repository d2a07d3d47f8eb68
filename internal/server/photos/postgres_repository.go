package photos

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

func (r *PostgresRepository) Create(ctx context.Context, photo *Photo) (*Photo, error) {

	query :=
		`INSERT INTO photos (user_id, object_key, content_type)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		photo.UserID, photo.ObjectKey, photo.ContentType).Scan(&photo.ID, &photo.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return photo, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]Photo, error) {

	query :=
		`SELECT id, user_id, object_key, content_type, created_at FROM photos
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []Photo{}
	for rows.Next() {
		var p Photo
		if err := rows.Scan(&p.ID, &p.UserID, &p.ObjectKey, &p.ContentType, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

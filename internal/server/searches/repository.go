package searches

import "context"

type Repository interface {
	Create(ctx context.Context, rec *SearchRecord) (*SearchRecord, error)
	ListRecent(ctx context.Context, userID int64, feature Feature, limit int) ([]SearchRecord, error)
	Delete(ctx context.Context, id int64) error
	DeleteOwned(ctx context.Context, userID, id int64) error
}

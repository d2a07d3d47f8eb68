package photos

import "context"

type Repository interface {
	Create(ctx context.Context, photo *Photo) (*Photo, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Photo, error)
}

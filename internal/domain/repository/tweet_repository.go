package repository

import (
	"context"

	"github.com/vidtube/backend/internal/domain/entity"
)

// TweetRepository defines community-post persistence operations.
type TweetRepository interface {
	Create(ctx context.Context, t *entity.Tweet) error
	GetByID(ctx context.Context, id string) (*entity.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Tweet, error)
	Update(ctx context.Context, t *entity.Tweet) error
	Delete(ctx context.Context, id string) error
}

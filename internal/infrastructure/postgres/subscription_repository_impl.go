package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/domain/repository"
)

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
	`, subscriberID, channelID)
	if err != nil {
		return false, translate(err)
	}
	if res.RowsAffected() > 0 {
		return false, nil // was subscribed, now removed
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO subscriptions (subscriber_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`, subscriberID, channelID)
	if err != nil {
		return false, translate(err)
	}
	return true, nil
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
		)
	`, subscriberID, channelID).Scan(&exists)
	return exists, translate(err)
}

var _ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)

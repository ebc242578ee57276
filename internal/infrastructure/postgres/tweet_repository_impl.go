package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/domain/entity"
	"github.com/vidtube/backend/internal/domain/repository"
)

type TweetRepository struct {
	pool *pgxpool.Pool
}

func NewTweetRepository(pool *pgxpool.Pool) *TweetRepository {
	return &TweetRepository{pool: pool}
}

func (r *TweetRepository) Create(ctx context.Context, t *entity.Tweet) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tweets (owner_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, t.OwnerID, t.Content)
	return translate(row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt))
}

func (r *TweetRepository) GetByID(ctx context.Context, id string) (*entity.Tweet, error) {
	t := &entity.Tweet{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, content, created_at, updated_at FROM tweets WHERE id = $1
	`, id).Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Tweet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, content, created_at, updated_at
		FROM tweets
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	tweets := make([]entity.Tweet, 0)
	for rows.Next() {
		var t entity.Tweet
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Content, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, translate(err)
		}
		tweets = append(tweets, t)
	}
	return tweets, translate(rows.Err())
}

func (r *TweetRepository) Update(ctx context.Context, t *entity.Tweet) error {
	t.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE tweets SET content = $1, updated_at = $2 WHERE id = $3
	`, t.Content, t.UpdatedAt, t.ID)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TweetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TweetRepository = (*TweetRepository)(nil)

package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/domain/entity"
	"github.com/vidtube/backend/internal/domain/repository"
)

const userColumns = `id, username, email, full_name, password_hash,
	avatar_url, avatar_asset_id, COALESCE(cover_image_url, ''), COALESCE(cover_image_asset_id, ''),
	COALESCE(refresh_token_hash, ''), created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row interface{ Scan(...any) error }) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Password,
		&u.AvatarURL, &u.AvatarAssetID, &u.CoverImageURL, &u.CoverImageAssetID,
		&u.RefreshTokenHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, full_name, password_hash,
			avatar_url, avatar_asset_id, cover_image_url, cover_image_asset_id)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''))
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.FullName, u.Password,
		u.AvatarURL, u.AvatarAssetID, u.CoverImageURL, u.CoverImageAssetID)

	return translate(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE (username = NULLIF($1, '') OR email = NULLIF($2, ''))
		LIMIT 1
	`, username, email))
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE username = $1 OR email = $2
		)
	`, username, email).Scan(&exists)
	return exists, translate(err)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, full_name = $3,
			avatar_url = $4, avatar_asset_id = $5,
			cover_image_url = NULLIF($6, ''), cover_image_asset_id = NULLIF($7, ''),
			updated_at = $8
		WHERE id = $9
	`, u.Username, u.Email, u.FullName,
		u.AvatarURL, u.AvatarAssetID, u.CoverImageURL, u.CoverImageAssetID,
		u.UpdatedAt, u.ID)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id, tokenHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET refresh_token_hash = $1, updated_at = now() WHERE id = $2
	`, tokenHash, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET refresh_token_hash = NULL, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RotateRefreshToken is the compare-and-swap closing the concurrent-refresh
// window: the new digest lands only if the stored one still equals oldHash.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, id, oldHash, newHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET refresh_token_hash = $1, updated_at = now()
		WHERE id = $2 AND refresh_token_hash = $3
	`, newHash, id, oldHash)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrStaleData
	}
	return nil
}

func (r *UserRepository) AddWatchHistory(ctx context.Context, userID, videoID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = now()
	`, userID, videoID)
	return translate(err)
}

func (r *UserRepository) GetWatchHistory(ctx context.Context, userID string) ([]entity.WatchHistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.id, v.owner_id, v.video_url, v.video_asset_id,
			v.thumbnail_url, v.thumbnail_asset_id,
			v.title, v.description, v.duration, v.views, v.is_published,
			v.created_at, v.updated_at,
			o.id, o.username, o.full_name, o.avatar_url,
			h.watched_at
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		JOIN users o ON o.id = v.owner_id
		WHERE h.user_id = $1
		ORDER BY h.watched_at DESC
	`, userID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	entries := make([]entity.WatchHistoryEntry, 0)
	for rows.Next() {
		var e entity.WatchHistoryEntry
		if err := rows.Scan(
			&e.Video.ID, &e.Video.OwnerID, &e.Video.VideoURL, &e.Video.VideoAssetID,
			&e.Video.ThumbnailURL, &e.Video.ThumbnailAssetID,
			&e.Video.Title, &e.Video.Description, &e.Video.Duration, &e.Video.Views, &e.Video.IsPublished,
			&e.Video.CreatedAt, &e.Video.UpdatedAt,
			&e.Owner.ID, &e.Owner.Username, &e.Owner.FullName, &e.Owner.Avatar,
			&e.WatchedAt,
		); err != nil {
			return nil, translate(err)
		}
		entries = append(entries, e)
	}
	return entries, translate(rows.Err())
}

func (r *UserRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*entity.ChannelProfile, error) {
	p := &entity.ChannelProfile{}
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.full_name, u.avatar_url, COALESCE(u.cover_image_url, ''),
			(SELECT count(*) FROM subscriptions s WHERE s.channel_id = u.id),
			(SELECT count(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
			EXISTS (
				SELECT 1 FROM subscriptions s
				WHERE s.channel_id = u.id AND s.subscriber_id = NULLIF($2, '')::uuid
			)
		FROM users u
		WHERE u.username = $1
	`, username, viewerID).Scan(
		&p.ID, &p.Username, &p.FullName, &p.Avatar, &p.CoverImage,
		&p.SubscriberCount, &p.SubscribedTo, &p.IsSubscribed,
	)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)

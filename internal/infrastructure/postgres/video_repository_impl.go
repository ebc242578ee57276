package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidtube/backend/internal/domain/entity"
	"github.com/vidtube/backend/internal/domain/repository"
)

type VideoRepository struct {
	pool *pgxpool.Pool
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

func (r *VideoRepository) Create(ctx context.Context, v *entity.Video) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO videos (owner_id, video_url, video_asset_id,
			thumbnail_url, thumbnail_asset_id, title, description, duration, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, views, created_at, updated_at
	`, v.OwnerID, v.VideoURL, v.VideoAssetID,
		v.ThumbnailURL, v.ThumbnailAssetID, v.Title, v.Description, v.Duration, v.IsPublished)

	return translate(row.Scan(&v.ID, &v.Views, &v.CreatedAt, &v.UpdatedAt))
}

func (r *VideoRepository) GetByID(ctx context.Context, id string) (*entity.Video, error) {
	v := &entity.Video{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, video_url, video_asset_id,
			thumbnail_url, thumbnail_asset_id,
			title, description, duration, views, is_published, created_at, updated_at
		FROM videos
		WHERE id = $1
	`, id).Scan(&v.ID, &v.OwnerID, &v.VideoURL, &v.VideoAssetID,
		&v.ThumbnailURL, &v.ThumbnailAssetID,
		&v.Title, &v.Description, &v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return v, nil
}

func (r *VideoRepository) GetByIDWithOwner(ctx context.Context, id string) (*entity.VideoWithOwner, error) {
	v := &entity.VideoWithOwner{}
	err := r.pool.QueryRow(ctx, videoListSelect+` WHERE v.id = $1`, id).Scan(
		&v.ID, &v.OwnerID, &v.VideoURL, &v.VideoAssetID,
		&v.ThumbnailURL, &v.ThumbnailAssetID,
		&v.Title, &v.Description, &v.Duration, &v.Views, &v.IsPublished,
		&v.CreatedAt, &v.UpdatedAt,
		&v.Owner.ID, &v.Owner.Username, &v.Owner.FullName, &v.Owner.Avatar,
	)
	if err != nil {
		return nil, translate(err)
	}
	return v, nil
}

func (r *VideoRepository) Update(ctx context.Context, v *entity.Video) error {
	v.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE videos
		SET title = $1, description = $2,
			thumbnail_url = $3, thumbnail_asset_id = $4,
			duration = $5, updated_at = $6
		WHERE id = $7
	`, v.Title, v.Description, v.ThumbnailURL, v.ThumbnailAssetID, v.Duration, v.UpdatedAt, v.ID)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *VideoRepository) SetPublished(ctx context.Context, id string, published bool) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE videos SET is_published = $1, updated_at = now() WHERE id = $2
	`, published, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *VideoRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE videos SET views = views + 1 WHERE id = $1
	`, id)
	return translate(err)
}

func (r *VideoRepository) List(ctx context.Context, p repository.VideoListParams) ([]entity.VideoWithOwner, int64, error) {
	q := buildListPipeline(p)

	var total int64
	countSQL, countArgs := q.countSQL()
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, translate(err)
	}

	listSQL, listArgs := q.listSQL()
	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	items := make([]entity.VideoWithOwner, 0, p.Limit)
	for rows.Next() {
		var v entity.VideoWithOwner
		if err := rows.Scan(
			&v.ID, &v.OwnerID, &v.VideoURL, &v.VideoAssetID,
			&v.ThumbnailURL, &v.ThumbnailAssetID,
			&v.Title, &v.Description, &v.Duration, &v.Views, &v.IsPublished,
			&v.CreatedAt, &v.UpdatedAt,
			&v.Owner.ID, &v.Owner.Username, &v.Owner.FullName, &v.Owner.Avatar,
		); err != nil {
			return nil, 0, translate(err)
		}
		items = append(items, v)
	}
	return items, total, translate(rows.Err())
}

var _ repository.VideoRepository = (*VideoRepository)(nil)

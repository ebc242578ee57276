package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vidtube/backend/internal/domain/entity"
	repo "github.com/vidtube/backend/internal/domain/repository"
	"github.com/vidtube/backend/pkg/media"
	"github.com/vidtube/backend/pkg/response"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100

	// searchCandidateLimit caps the ids pulled from the external search stage
	// at five pages of the maximum page size. Pagination of a search query
	// past that window returns no further results.
	searchCandidateLimit = maxPageLimit * 5
)

// VideoSearcher resolves a full-text query to candidate video ids.
// *search.VideoIndex satisfies it; nil disables the external search stage.
type VideoSearcher interface {
	Search(ctx context.Context, query string, size int) ([]string, error)
	Upsert(ctx context.Context, v *entity.Video)
	Remove(ctx context.Context, videoID string)
}

// VideoService implements publishing and discovery use cases.
type VideoService struct {
	Videos   repo.VideoRepository
	Users    repo.UserRepository
	Media    media.Uploader
	Searcher VideoSearcher
	Logger   *logrus.Logger
}

func NewVideoService(videos repo.VideoRepository, users repo.UserRepository, uploader media.Uploader, searcher VideoSearcher, logger *logrus.Logger) *VideoService {
	return &VideoService{Videos: videos, Users: users, Media: uploader, Searcher: searcher, Logger: logger}
}

type PublishInput struct {
	OwnerID     string
	Title       string
	Description string

	// Local paths of the uploaded form files; both mandatory.
	VideoPath     string
	ThumbnailPath string

	// Duration in seconds as reported by the client; the storage
	// collaborator does not probe media.
	Duration float64
}

// Publish uploads both files and creates the record unpublished; listing the
// video requires an explicit publish toggle.
func (s *VideoService) Publish(ctx context.Context, in PublishInput) (*entity.Video, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, ErrMissingFields
	}

	videoAsset, err := s.Media.Upload(ctx, in.VideoPath, "videos")
	if err != nil {
		return nil, errors.Join(ErrUploadFailed, err)
	}
	thumbAsset, err := s.Media.Upload(ctx, in.ThumbnailPath, "thumbnails")
	if err != nil {
		// The video asset is already durable; drop it rather than leak it.
		s.deleteAsset(ctx, videoAsset.AssetID)
		return nil, errors.Join(ErrUploadFailed, err)
	}

	v := &entity.Video{
		OwnerID:          in.OwnerID,
		VideoURL:         videoAsset.URL,
		VideoAssetID:     videoAsset.AssetID,
		ThumbnailURL:     thumbAsset.URL,
		ThumbnailAssetID: thumbAsset.AssetID,
		Title:            title,
		Description:      description,
		Duration:         in.Duration,
		IsPublished:      false,
	}
	if err := s.Videos.Create(ctx, v); err != nil {
		s.deleteAsset(ctx, videoAsset.AssetID)
		s.deleteAsset(ctx, thumbAsset.AssetID)
		return nil, err
	}
	if s.Searcher != nil {
		s.Searcher.Upsert(ctx, v)
	}
	return v, nil
}

type ListInput struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

// List runs the discovery pipeline and wraps the result in a page envelope.
func (s *VideoService) List(ctx context.Context, in ListInput) (*response.Page[entity.VideoWithOwner], error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 {
		in.Limit = defaultPageLimit
	}
	if in.Limit > maxPageLimit {
		in.Limit = maxPageLimit
	}
	if in.UserID != "" {
		if _, err := uuid.Parse(in.UserID); err != nil {
			return nil, ErrInvalidID
		}
	}

	params := repo.VideoListParams{
		Page:    in.Page,
		Limit:   in.Limit,
		OwnerID: in.UserID,
	}
	params.SortBy, params.SortDesc = normalizeSort(in.SortBy, in.SortType)

	if q := strings.TrimSpace(in.Query); q != "" {
		params.Query = q
		if s.Searcher != nil {
			ids, err := s.Searcher.Search(ctx, q, searchCandidateLimit)
			if err != nil {
				// Search outage degrades to the SQL stage.
				if s.Logger != nil {
					s.Logger.WithError(err).Warn("video search failed, falling back to sql stage")
				}
			} else {
				if len(ids) == 0 {
					return emptyPage(in.Page, in.Limit), nil
				}
				params.MatchIDs = ids
				params.Query = ""
			}
		}
	}

	items, total, err := s.Videos.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &response.Page[entity.VideoWithOwner]{
		Items:      items,
		Page:       in.Page,
		Limit:      in.Limit,
		TotalPages: totalPages(total, in.Limit),
		TotalItems: total,
	}, nil
}

func emptyPage(page, limit int) *response.Page[entity.VideoWithOwner] {
	return &response.Page[entity.VideoWithOwner]{
		Items: []entity.VideoWithOwner{},
		Page:  page,
		Limit: limit,
	}
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func normalizeSort(sortBy, sortType string) (repo.VideoSortField, bool) {
	field := repo.VideoSortField(sortBy)
	switch field {
	case repo.SortByCreatedAt, repo.SortByViews, repo.SortByDuration, repo.SortByTitle:
	default:
		return repo.SortByCreatedAt, true
	}
	return field, !strings.EqualFold(sortType, "asc")
}

// Get fetches one video for viewerID, bumping its view count and recording
// watch history. Unpublished videos are visible to their owner only.
func (s *VideoService) Get(ctx context.Context, videoID, viewerID string) (*entity.VideoWithOwner, error) {
	if _, err := uuid.Parse(videoID); err != nil {
		return nil, ErrInvalidID
	}
	v, err := s.Videos.GetByIDWithOwner(ctx, videoID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if !v.IsPublished && v.OwnerID != viewerID {
		return nil, ErrVideoNotFound
	}

	if err := s.Videos.IncrementViews(ctx, videoID); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("video_id", videoID).Warn("view increment failed")
		}
	} else {
		v.Views++
	}
	if viewerID != "" {
		if err := s.Users.AddWatchHistory(ctx, viewerID, videoID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("video_id", videoID).Warn("watch history write failed")
		}
	}
	return v, nil
}

type UpdateVideoInput struct {
	VideoID     string
	RequesterID string
	Title       string
	Description string

	// Optional replacement thumbnail (local path of the uploaded file).
	ThumbnailPath string
}

func (s *VideoService) Update(ctx context.Context, in UpdateVideoInput) (*entity.Video, error) {
	v, err := s.ownedVideo(ctx, in.VideoID, in.RequesterID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, ErrMissingFields
	}
	v.Title = title
	v.Description = description

	if in.ThumbnailPath != "" {
		asset, uerr := s.Media.Upload(ctx, in.ThumbnailPath, "thumbnails")
		if uerr != nil {
			return nil, errors.Join(ErrUploadFailed, uerr)
		}
		s.deleteAsset(ctx, v.ThumbnailAssetID)
		v.ThumbnailURL = asset.URL
		v.ThumbnailAssetID = asset.AssetID
	}

	if err := s.Videos.Update(ctx, v); err != nil {
		return nil, err
	}
	if s.Searcher != nil {
		s.Searcher.Upsert(ctx, v)
	}
	return v, nil
}

// Delete removes the record, then best-effort deletes both stored assets.
func (s *VideoService) Delete(ctx context.Context, videoID, requesterID string) error {
	v, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return err
	}
	if err := s.Videos.Delete(ctx, v.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	s.deleteAsset(ctx, v.VideoAssetID)
	s.deleteAsset(ctx, v.ThumbnailAssetID)
	if s.Searcher != nil {
		s.Searcher.Remove(ctx, v.ID)
	}
	return nil
}

// TogglePublish flips is_published and returns the new state.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, requesterID string) (*entity.Video, error) {
	v, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}
	v.IsPublished = !v.IsPublished
	if err := s.Videos.SetPublished(ctx, v.ID, v.IsPublished); err != nil {
		return nil, err
	}
	if s.Searcher != nil {
		s.Searcher.Upsert(ctx, v)
	}
	return v, nil
}

func (s *VideoService) ownedVideo(ctx context.Context, videoID, requesterID string) (*entity.Video, error) {
	if _, err := uuid.Parse(videoID); err != nil {
		return nil, ErrInvalidID
	}
	v, err := s.Videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if v.OwnerID != requesterID {
		return nil, ErrNotOwner
	}
	return v, nil
}

func (s *VideoService) deleteAsset(ctx context.Context, assetID string) {
	if assetID == "" {
		return
	}
	if err := s.Media.Delete(ctx, assetID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("asset_id", assetID).Warn("asset delete failed")
	}
}

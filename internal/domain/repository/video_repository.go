package repository

import (
	"context"

	"github.com/vidtube/backend/internal/domain/entity"
)

// VideoSortField whitelists the sortable columns of a listing.
type VideoSortField string

const (
	SortByCreatedAt VideoSortField = "createdAt"
	SortByViews     VideoSortField = "views"
	SortByDuration  VideoSortField = "duration"
	SortByTitle     VideoSortField = "title"
)

// VideoListParams drive the discovery pipeline. Stage order is contractual:
// search, owner filter, published filter, sort, owner join, pagination.
type VideoListParams struct {
	Page  int
	Limit int

	// Query is the full-text search term for the SQL search stage. When the
	// search collaborator already resolved the term to ids, MatchIDs is set
	// instead and Query is ignored.
	Query    string
	MatchIDs []string

	OwnerID  string
	SortBy   VideoSortField
	SortDesc bool
}

// VideoRepository defines video persistence operations.
type VideoRepository interface {
	Create(ctx context.Context, v *entity.Video) error
	GetByID(ctx context.Context, id string) (*entity.Video, error)
	GetByIDWithOwner(ctx context.Context, id string) (*entity.VideoWithOwner, error)
	Update(ctx context.Context, v *entity.Video) error
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error
	IncrementViews(ctx context.Context, id string) error

	// List runs the discovery pipeline and returns the page rows plus the
	// total item count of the filtered set.
	List(ctx context.Context, p VideoListParams) ([]entity.VideoWithOwner, int64, error)
}

package repository

import (
	"context"
	"errors"

	"github.com/vidtube/backend/internal/domain/entity"
)

// Sentinel errors shared by all repositories.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("duplicate record")
	ErrStaleData = errors.New("stale data")
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Refresh-token lifecycle. SetRefreshToken overwrites whatever session
	// existed; RotateRefreshToken is a compare-and-swap that fails with
	// ErrStaleData when the stored digest no longer matches oldHash.
	SetRefreshToken(ctx context.Context, id, tokenHash string) error
	ClearRefreshToken(ctx context.Context, id string) error
	RotateRefreshToken(ctx context.Context, id, oldHash, newHash string) error

	// Watch history (newest first). Re-watching moves the entry to the top.
	AddWatchHistory(ctx context.Context, userID, videoID string) error
	GetWatchHistory(ctx context.Context, userID string) ([]entity.WatchHistoryEntry, error)

	// ChannelProfile aggregates subscriber counts for username, flagging
	// whether viewerID subscribes to it. viewerID may be empty.
	ChannelProfile(ctx context.Context, username, viewerID string) (*entity.ChannelProfile, error)
}

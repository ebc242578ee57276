package entity

import "time"

// Video metadata. The media files themselves live with the storage
// collaborator; VideoAssetID/ThumbnailAssetID identify them for deletion.
type Video struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"ownerId"`
	VideoURL         string    `json:"videoFile"`
	VideoAssetID     string    `json:"-"`
	ThumbnailURL     string    `json:"thumbnail"`
	ThumbnailAssetID string    `json:"-"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Duration         float64   `json:"duration"`
	Views            int64     `json:"views"`
	IsPublished      bool      `json:"isPublished"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// VideoWithOwner is a listing row: the video joined with its owner's public
// fields.
type VideoWithOwner struct {
	Video
	Owner VideoOwner `json:"owner"`
}

// WatchHistoryEntry is one watched video with its compact owner projection.
type WatchHistoryEntry struct {
	Video     Video      `json:"video"`
	Owner     VideoOwner `json:"owner"`
	WatchedAt time.Time  `json:"watchedAt"`
}

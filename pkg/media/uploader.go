// Package media wraps the external media-storage collaborator behind an
// injected interface so services and tests never touch process-wide state.
package media

import (
	"context"
	"errors"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/vidtube/backend/pkg/helpers"
)

// Asset describes a stored media object: a durable public URL plus the
// storage identifier needed to delete it later.
type Asset struct {
	URL      string
	AssetID  string
	Duration float64 // seconds; zero unless supplied by the caller
}

// Uploader is the media-storage collaborator contract. Upload consumes the
// local file at localPath: the file is removed on success and failure alike.
type Uploader interface {
	Upload(ctx context.Context, localPath, folder string) (*Asset, error)
	Delete(ctx context.Context, assetID string) error
}

var ErrNotConfigured = errors.New("media storage not configured")

// GCSUploader stores assets in a Google Cloud Storage bucket.
type GCSUploader struct {
	Client *storage.Client
	Bucket string
}

func NewGCSUploader(client *storage.Client, bucket string) *GCSUploader {
	return &GCSUploader{Client: client, Bucket: bucket}
}

func (u *GCSUploader) Upload(ctx context.Context, localPath, folder string) (*Asset, error) {
	// The temp file must not outlive the attempt, whatever the outcome.
	defer func() { _ = os.Remove(localPath) }()

	if u.Client == nil || u.Bucket == "" {
		return nil, ErrNotConfigured
	}
	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(localPath))
	objectPath := filepath.ToSlash(filepath.Join(folder, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, u.Client, u.Bucket, objectPath, contentTypeFor(ext), f)
	if err != nil {
		return nil, err
	}
	return &Asset{URL: url, AssetID: objectPath}, nil
}

func (u *GCSUploader) Delete(ctx context.Context, assetID string) error {
	if u.Client == nil || u.Bucket == "" {
		return ErrNotConfigured
	}
	return helpers.DeleteObject(ctx, u.Client, u.Bucket, assetID)
}

func contentTypeFor(ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var _ Uploader = (*GCSUploader)(nil)

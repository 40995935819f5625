package storage

import (
	"context"
	"time"
)

// MediaService stores venue imagery (table photos, menus, event flyers) on a
// CDN-backed object store.
type MediaService interface {
	// UploadFile uploads a local file into the given folder and returns the
	// permanent public identifier.
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)

	// DeleteFile removes a stored file by its public identifier.
	DeleteFile(ctx context.Context, publicID string) error

	// GetDownloadURL returns a public delivery URL for a stored file.
	GetDownloadURL(ctx context.Context, publicID string) (string, error)

	// GetSecureDownloadURL returns a signed URL that expires after the given
	// duration, for media not meant for open delivery.
	GetSecureDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error)
}

package storage

import (
	"context"
	"fmt"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores public assets such as team emblems.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// TeamEmblemKey is the object key of a team emblem. version keeps cached URLs from going stale.
func TeamEmblemKey(teamID int, version string, ext string) string {
	return fmt.Sprintf("teams/%d/emblem_%s%s", teamID, version, ext)
}

package persist

import (
	"context"
	"errors"

	"github.com/soocke/arcap-go/domain/media"
)

// DownloadStrategy is the universal fallback: a transient reference is
// created, a save is triggered under the suggested filename and the
// reference is released right after.
type DownloadStrategy struct {
	URLs       URLStore
	Downloader Downloader
}

func (s *DownloadStrategy) Name() string { return "download" }

func (s *DownloadStrategy) CanHandle(_ media.Artifact, caps Capabilities) bool {
	return s != nil && s.URLs != nil && s.Downloader != nil && caps.Download
}

func (s *DownloadStrategy) Attempt(ctx context.Context, a media.Artifact) error {
	if s.URLs == nil || s.Downloader == nil {
		return errors.New("persist: download not configured")
	}
	ref := s.URLs.Create(a.Bytes, a.ContentType())
	defer s.URLs.Revoke(ref)
	return s.Downloader.Download(ctx, ref, a.Filename)
}

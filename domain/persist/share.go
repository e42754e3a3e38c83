package persist

import (
	"context"
	"errors"

	"github.com/soocke/arcap-go/domain/media"
)

// ShareStrategy hands the artifact to the native share primitive when the
// host accepts files of its exact type.
type ShareStrategy struct {
	Sharer Sharer
}

func (s *ShareStrategy) Name() string { return "share" }

func (s *ShareStrategy) CanHandle(a media.Artifact, caps Capabilities) bool {
	if s == nil || s.Sharer == nil {
		return false
	}
	mime := a.ContentType()
	return caps.CanShareType(mime) && s.Sharer.CanShare(mime)
}

func (s *ShareStrategy) Attempt(ctx context.Context, a media.Artifact) error {
	if s.Sharer == nil {
		return errors.New("persist: no sharer")
	}
	a.MIMEType = a.ContentType()
	return s.Sharer.Share(ctx, a, ShareTitle)
}

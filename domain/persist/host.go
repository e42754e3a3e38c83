package persist

import (
	"context"

	"github.com/soocke/arcap-go/domain/media"
)

// ShareTitle is the title passed to native share sheets.
const ShareTitle = "AR capture"

// Sharer is the host's native share primitive.
type Sharer interface {
	CanShare(mime string) bool
	Share(ctx context.Context, a media.Artifact, title string) error
}

// URLStore hands out transient references to in-memory bytes.
type URLStore interface {
	Create(data []byte, mime string) string
	Revoke(ref string)
}

// Opener opens a reference as a new top-level document.
type Opener interface {
	Open(ctx context.Context, ref string) error
}

// Downloader triggers a save-as of the referenced bytes.
type Downloader interface {
	Download(ctx context.Context, ref, filename string) error
}

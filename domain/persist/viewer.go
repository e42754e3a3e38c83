package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/soocke/arcap-go/assets"
	"github.com/soocke/arcap-go/domain/media"
)

var viewerTmpl = template.Must(template.New("viewer").Parse(assets.ViewerTemplate))

// ViewerPage is the data rendered into the standalone viewer document.
type ViewerPage struct {
	Title      string
	Filename   string
	VideoSrc   template.URL
	VideoURL   string
	ShareTitle string
}

// RenderViewer renders the viewer document for a video reachable at ref.
// Double quotes are stripped from the filename as in the saved title.
func RenderViewer(ref, filename string) ([]byte, error) {
	safe := strings.ReplaceAll(filename, `"`, "")
	page := ViewerPage{
		Title:      safe,
		Filename:   safe,
		VideoSrc:   template.URL(ref),
		VideoURL:   ref,
		ShareTitle: ShareTitle,
	}
	var buf bytes.Buffer
	if err := viewerTmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("persist: render viewer: %w", err)
	}
	return buf.Bytes(), nil
}

// ViewerStrategy opens an interactive viewer document for videos on
// platforms that cannot save or share from a background context.
type ViewerStrategy struct {
	URLs   URLStore
	Opener Opener
}

func (s *ViewerStrategy) Name() string { return "viewer" }

func (s *ViewerStrategy) CanHandle(a media.Artifact, caps Capabilities) bool {
	return s != nil && s.URLs != nil && s.Opener != nil && a.Kind == media.Video && caps.ConstrainedMobile
}

// Attempt registers the video and the page. Both references stay alive
// after success because the opened page keeps using them.
func (s *ViewerStrategy) Attempt(ctx context.Context, a media.Artifact) error {
	if s.URLs == nil || s.Opener == nil {
		return errors.New("persist: viewer not configured")
	}
	videoRef := s.URLs.Create(a.Bytes, a.ContentType())
	html, err := RenderViewer(videoRef, a.Filename)
	if err != nil {
		s.URLs.Revoke(videoRef)
		return err
	}
	pageRef := s.URLs.Create(html, "text/html; charset=utf-8")
	if err := s.Opener.Open(ctx, pageRef); err != nil {
		s.URLs.Revoke(pageRef)
		s.URLs.Revoke(videoRef)
		return fmt.Errorf("persist: open viewer: %w", err)
	}
	return nil
}

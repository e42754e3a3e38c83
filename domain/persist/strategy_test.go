package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/arcap-go/domain/media"
)

// journal records host interactions in order across fakes.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	j.entries = append(j.entries, s)
	j.mu.Unlock()
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

type fakeStore struct {
	j       *journal
	next    int
	live    map[string][]byte
	revoked []string
}

func newFakeStore(j *journal) *fakeStore {
	return &fakeStore{j: j, live: map[string][]byte{}}
}

func (s *fakeStore) Create(data []byte, mime string) string {
	s.next++
	ref := fmt.Sprintf("http://127.0.0.1:9/blob/%d", s.next)
	s.live[ref] = data
	s.j.add("create " + mime)
	return ref
}

func (s *fakeStore) Revoke(ref string) {
	delete(s.live, ref)
	s.revoked = append(s.revoked, ref)
	s.j.add("revoke")
}

type fakeSharer struct {
	j      *journal
	accept bool
	err    error
}

func (f *fakeSharer) CanShare(string) bool { return f.accept }

func (f *fakeSharer) Share(_ context.Context, a media.Artifact, title string) error {
	f.j.add("share " + title)
	return f.err
}

type fakeOpener struct {
	j      *journal
	err    error
	opened []string
}

func (o *fakeOpener) Open(_ context.Context, ref string) error {
	o.j.add("open")
	o.opened = append(o.opened, ref)
	return o.err
}

type fakeDownloader struct {
	j     *journal
	err   error
	names []string
}

func (d *fakeDownloader) Download(_ context.Context, ref, filename string) error {
	d.j.add("download " + filename)
	d.names = append(d.names, filename)
	return d.err
}

type rig struct {
	j     *journal
	store *fakeStore
	share *fakeSharer
	open  *fakeOpener
	down  *fakeDownloader
	chain *Chain
}

func newRig(caps Capabilities) *rig {
	j := &journal{}
	r := &rig{
		j:     j,
		store: newFakeStore(j),
		share: &fakeSharer{j: j, accept: true},
		open:  &fakeOpener{j: j},
		down:  &fakeDownloader{j: j},
	}
	r.chain = NewChain(nil, StaticDetector(caps),
		&ShareStrategy{Sharer: r.share},
		&ViewerStrategy{URLs: r.store, Opener: r.open},
		&DownloadStrategy{URLs: r.store, Downloader: r.down},
	)
	return r
}

var (
	photo = media.Artifact{Bytes: []byte("png"), MIMEType: media.MIMEPNG, Kind: media.Photo, Filename: "ar-screenshot-2024-3-5_14-7-9.png"}
	video = media.Artifact{Bytes: []byte("webm"), MIMEType: "video/webm;codecs=vp9", Kind: media.Video, Filename: "ar-video-1.webm"}
)

func TestChain_ShareWinsWhenSupported(t *testing.T) {
	r := newRig(Capabilities{Share: true, ConstrainedMobile: true, Download: true})
	out, err := r.chain.Run(context.Background(), video)
	require.NoError(t, err)
	assert.Equal(t, "share", out.Strategy)
	assert.Equal(t, []string{"share AR capture"}, r.j.all())
}

func TestChain_ShareFailureFallsThroughSilently(t *testing.T) {
	r := newRig(Capabilities{Share: true, Download: true})
	r.share.err = errors.New("AbortError")
	out, err := r.chain.Run(context.Background(), photo)
	require.NoError(t, err)
	assert.Equal(t, "download", out.Strategy)
	assert.Equal(t, []string{"share", "download"}, out.Tried)
	assert.Equal(t, []string{photo.Filename}, r.down.names)
}

func TestChain_ViewerForVideoOnConstrainedPlatform(t *testing.T) {
	r := newRig(Capabilities{ConstrainedMobile: true, Download: true})
	out, err := r.chain.Run(context.Background(), video)
	require.NoError(t, err)
	assert.Equal(t, "viewer", out.Strategy)
	require.Len(t, r.open.opened, 1)
	page, ok := r.store.live[r.open.opened[0]]
	require.True(t, ok, "viewer page must stay referenced")
	assert.Len(t, r.store.live, 2)
	assert.Empty(t, r.store.revoked)
	assert.Contains(t, string(page), "http://127.0.0.1:9/blob/1")
	assert.Empty(t, r.down.names)
}

func TestChain_PhotoOnConstrainedPlatformDownloads(t *testing.T) {
	r := newRig(Capabilities{ConstrainedMobile: true, Download: true})
	out, err := r.chain.Run(context.Background(), photo)
	require.NoError(t, err)
	assert.Equal(t, "download", out.Strategy)
	assert.Empty(t, r.open.opened)
}

func TestChain_DownloadReleasesReference(t *testing.T) {
	r := newRig(Capabilities{Download: true})
	_, err := r.chain.Run(context.Background(), photo)
	require.NoError(t, err)
	assert.Empty(t, r.store.live)
	assert.Len(t, r.store.revoked, 1)
	assert.Equal(t, []string{"create image/png", "download " + photo.Filename, "revoke"}, r.j.all())
}

func TestChain_ViewerOpenFailureFallsBackToDownload(t *testing.T) {
	r := newRig(Capabilities{ConstrainedMobile: true, Download: true})
	r.open.err = errors.New("popup blocked")
	out, err := r.chain.Run(context.Background(), video)
	require.NoError(t, err)
	assert.Equal(t, "download", out.Strategy)
	assert.Empty(t, r.store.live, "failed viewer must release its references")
}

func TestChain_TotalAndOrdered(t *testing.T) {
	type shareMode int
	const (
		shareUnsupported shareMode = iota
		shareOK
		shareFails
	)
	for _, sm := range []shareMode{shareUnsupported, shareOK, shareFails} {
		for _, mobile := range []bool{false, true} {
			for _, a := range []media.Artifact{photo, video} {
				name := fmt.Sprintf("share=%d/mobile=%v/%s", sm, mobile, a.Kind)
				t.Run(name, func(t *testing.T) {
					r := newRig(Capabilities{Share: sm != shareUnsupported, ConstrainedMobile: mobile, Download: true})
					if sm == shareFails {
						r.share.err = errors.New("share failed")
					}
					out, err := r.chain.Run(context.Background(), a)
					require.NoError(t, err)

					delivered := 0
					if sm == shareOK {
						delivered++
						assert.Equal(t, "share", out.Strategy)
					}
					if len(r.open.opened) > 0 && r.open.err == nil {
						delivered++
						assert.Equal(t, "viewer", out.Strategy)
					}
					if len(r.down.names) > 0 {
						delivered++
						assert.Equal(t, "download", out.Strategy)
					}
					assert.Equal(t, 1, delivered)

					rank := map[string]int{"share": 1, "viewer": 2, "download": 3}
					for i := 1; i < len(out.Tried); i++ {
						assert.Less(t, rank[out.Tried[i-1]], rank[out.Tried[i]])
					}
				})
			}
		}
	}
}

func TestChain_ExhaustedWhenEverythingFails(t *testing.T) {
	r := newRig(Capabilities{Share: true, Download: true})
	r.share.err = errors.New("nope")
	r.down.err = errors.New("blocked")
	out, err := r.chain.Run(context.Background(), photo)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Empty(t, out.Strategy)
	assert.Equal(t, []string{"share", "download"}, out.Tried)
}

type panicStrategy struct{}

func (panicStrategy) Name() string                              { return "panic" }
func (panicStrategy) CanHandle(media.Artifact, Capabilities) bool { return true }
func (panicStrategy) Attempt(context.Context, media.Artifact) error {
	panic("host exploded")
}

func TestChain_PanickingStrategyAdvances(t *testing.T) {
	r := newRig(Capabilities{Download: true})
	chain := NewChain(nil, StaticDetector{Download: true}, panicStrategy{}, &DownloadStrategy{URLs: r.store, Downloader: r.down})
	out, err := chain.Run(context.Background(), photo)
	require.NoError(t, err)
	assert.Equal(t, "download", out.Strategy)
}

func TestChain_CancelledContext(t *testing.T) {
	r := newRig(Capabilities{Download: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, r.chain.Persist(ctx, photo), context.Canceled)
	assert.Empty(t, r.j.all())
}

func TestIsConstrainedMobile(t *testing.T) {
	cases := []struct {
		ua, platform string
		touch        int
		want         bool
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", "iPhone", 5, true},
		{"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", "iPad", 5, true},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)", "MacIntel", 5, true},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)", "MacIntel", 0, false},
		{"Mozilla/5.0 (Linux; Android 14)", "Linux armv8l", 5, false},
		{"Mozilla/5.0 (X11; Linux x86_64)", "Linux x86_64", 0, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsConstrainedMobile(c.ua, c.platform, c.touch), c.ua)
	}
	caps := UserAgentDetector{UserAgent: "iPod touch", Base: Capabilities{Download: true}}.Detect()
	assert.True(t, caps.ConstrainedMobile)
	assert.True(t, caps.Download)
}

func TestCapabilities_CanShareType(t *testing.T) {
	assert.False(t, Capabilities{}.CanShareType("image/png"))
	assert.True(t, Capabilities{Share: true}.CanShareType("video/webm"))
	c := Capabilities{Share: true, ShareTypes: []string{"image/png", "video/*"}}
	assert.True(t, c.CanShareType("image/png"))
	assert.True(t, c.CanShareType("video/webm;codecs=vp9"))
	assert.False(t, c.CanShareType("image/jpeg"))
}

func TestRenderViewer_SelfContained(t *testing.T) {
	ref := "http://127.0.0.1:8123/blob/abc"
	html, err := RenderViewer(ref, `ar-"video"-1.webm`)
	require.NoError(t, err)
	doc := string(html)
	assert.Equal(t, 1, strings.Count(doc, "src="), "exactly one media reference")
	assert.Equal(t, 1, strings.Count(doc, "<script>"))
	assert.NotContains(t, doc, "<link")
	assert.Contains(t, doc, `src="http://127.0.0.1:8123/blob/abc"`)
	assert.Contains(t, doc, "<title>ar-video-1.webm</title>")
	assert.Contains(t, doc, `const blobUrl = "http://127.0.0.1:8123/blob/abc";`)
	assert.Contains(t, doc, `const filename = "ar-video-1.webm";`)
}

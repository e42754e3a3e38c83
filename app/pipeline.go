package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/soocke/arcap-go/config"
	"github.com/soocke/arcap-go/domain/capture"
	"github.com/soocke/arcap-go/domain/compositor"
	"github.com/soocke/arcap-go/domain/media"
	"github.com/soocke/arcap-go/domain/persist"
	"github.com/soocke/arcap-go/platform/blobstore"
	"github.com/soocke/arcap-go/platform/download"
	"github.com/soocke/arcap-go/platform/ffmpeg"
	"github.com/soocke/arcap-go/platform/opener"
	"github.com/soocke/arcap-go/platform/scene"
	"github.com/soocke/arcap-go/platform/share"
)

// Sources are the capture inputs; the UI uses the screen, snap a file.
type Sources struct {
	Camera capture.CameraFinder
	Scene  capture.Scene
}

// Pipeline is the capture machine plus everything persistence needs,
// independent of any UI.
type Pipeline struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   *blobstore.Store
	Opener  opener.Opener
	Sharer  *share.Command
	Saver   *download.Saver
	Chain   *persist.Chain
	Encoder *ffmpeg.Encoder
	Machine *capture.Machine

	mu        sync.Mutex
	notifiers []func(string)
	persisted []func(media.Artifact, error)
}

// NewPipeline wires the host adapters, the persistence chain and the
// machine, and starts the transient URL server.
func NewPipeline(cfg *config.Config, logger *slog.Logger, src Sources) (*Pipeline, error) {
	_ = cfg.Validate()
	p := &Pipeline{Config: cfg, Logger: logger}

	p.Store = blobstore.New(logger, cfg.TransientCapacity)
	if err := p.Store.Start(cfg.ViewerAddr); err != nil {
		return nil, err
	}
	op, err := opener.New(opener.Kind(cfg.Opener), cfg.BrowserBin, logger)
	if err != nil {
		_ = p.Store.Close(context.Background())
		return nil, err
	}
	p.Opener = op
	p.Sharer = share.NewCommand(cfg.ShareCommand, cfg.ShareTypes, logger)
	p.Saver = download.NewSaver(p.Store, cfg.OutputDir, logger)

	detector := persist.UserAgentDetector{
		UserAgent:      cfg.UserAgent,
		Platform:       cfg.Platform,
		MaxTouchPoints: cfg.MaxTouchPoints,
		Base: persist.Capabilities{
			Share:      p.Sharer.Available(),
			ShareTypes: cfg.ShareTypes,
			Download:   true,
		},
	}
	p.Chain = persist.NewChain(logger, detector,
		&persist.ShareStrategy{Sharer: p.Sharer},
		&persist.ViewerStrategy{URLs: p.Store, Opener: p.Opener},
		&persist.DownloadStrategy{URLs: p.Store, Downloader: p.Saver},
	)

	if src.Scene == nil {
		src.Scene = scene.NewReticle(cfg.FallbackWidth, cfg.FallbackHeight)
	}
	p.Encoder = ffmpeg.New(cfg.FFmpegBin, cfg.VideoMIME, logger)
	p.Machine = capture.NewMachine(logger, capture.Options{
		Camera:         src.Camera,
		Scene:          src.Scene,
		Encoder:        p.Encoder,
		Persister:      persisterFunc(p.persist),
		Notifier:       capture.NotifierFunc(p.notify),
		Compositor:     compositor.New(cfg.Scaler),
		FPS:            cfg.FPS,
		FallbackWidth:  cfg.FallbackWidth,
		FallbackHeight: cfg.FallbackHeight,
	})
	return p, nil
}

type persisterFunc func(ctx context.Context, a media.Artifact) error

func (f persisterFunc) Persist(ctx context.Context, a media.Artifact) error { return f(ctx, a) }

func (p *Pipeline) persist(ctx context.Context, a media.Artifact) error {
	err := p.Chain.Persist(ctx, a)
	p.mu.Lock()
	hooks := slices.Clone(p.persisted)
	p.mu.Unlock()
	for _, h := range hooks {
		h(a, err)
	}
	return err
}

func (p *Pipeline) notify(msg string) {
	p.mu.Lock()
	hooks := slices.Clone(p.notifiers)
	p.mu.Unlock()
	if len(hooks) == 0 && p.Logger != nil {
		p.Logger.Warn("notification", "message", msg)
	}
	for _, h := range hooks {
		h(msg)
	}
}

// OnNotify registers a receiver for user-facing messages.
func (p *Pipeline) OnNotify(fn func(string)) {
	p.mu.Lock()
	p.notifiers = append(p.notifiers, fn)
	p.mu.Unlock()
}

// OnPersisted registers a receiver called after every persistence attempt.
func (p *Pipeline) OnPersisted(fn func(media.Artifact, error)) {
	p.mu.Lock()
	p.persisted = append(p.persisted, fn)
	p.mu.Unlock()
}

// Snap takes one photo and waits until it has been persisted or a
// notification reports failure.
func (p *Pipeline) Snap(ctx context.Context) (media.Artifact, error) {
	type result struct {
		a   media.Artifact
		err error
	}
	done := make(chan result, 1)
	deliver := func(r result) {
		select {
		case done <- r:
		default:
		}
	}
	p.OnPersisted(func(a media.Artifact, err error) { deliver(result{a, err}) })
	p.OnNotify(func(msg string) { deliver(result{err: errors.New(msg)}) })

	p.Machine.TakePhoto()
	select {
	case r := <-done:
		return r.a, r.err
	case <-ctx.Done():
		return media.Artifact{}, fmt.Errorf("snap: %w", ctx.Err())
	}
}

// Close stops the machine, the browser opener and the URL server.
func (p *Pipeline) Close() {
	p.Machine.Close()
	if b, ok := p.Opener.(*opener.Browser); ok {
		_ = b.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = p.Store.Close(ctx)
}

package opener

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Browser opens references as tabs of a visible Chromium instance that is
// launched on first use and reused afterwards.
type Browser struct {
	bin    string
	logger *slog.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowser returns an opener using bin, or the first Chromium found on
// the system when bin is empty.
func NewBrowser(bin string, logger *slog.Logger) *Browser {
	return &Browser{bin: bin, logger: logger}
}

func (b *Browser) Open(ctx context.Context, ref string) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	browser, err := b.ensure()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBlocked, err)
	}
	page, err := browser.Page(proto.TargetCreateTarget{URL: ref})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBlocked, err)
	}
	if b.logger != nil {
		b.logger.Debug("document opened in browser", "ref", ref, "target", page.TargetID)
	}
	return nil
}

// Close shuts the browser down if it was launched.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}

// ensure launches lazily. The browser outlives any single Open call, so it
// is not bound to the caller's context.
func (b *Browser) ensure() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		return b.browser, nil
	}
	l := launcher.New().Headless(false).Leakless(false)
	if b.bin != "" {
		l = l.Bin(b.bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	b.browser = browser
	return browser, nil
}

// LookPath reports the browser binary rod would launch.
func LookPath() (string, bool) {
	return launcher.LookPath()
}

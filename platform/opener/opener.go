// Package opener opens transient references as new top-level documents,
// either through the operating system's URL handler or a browser driven
// over the DevTools protocol.
package opener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrBlocked mirrors a popup blocker: the document could not be opened.
var ErrBlocked = errors.New("opener: document could not be opened")

// Kind names an opener implementation in configuration.
type Kind string

const (
	KindSystem  Kind = "system"
	KindBrowser Kind = "browser"
)

// Opener is satisfied by every implementation in this package.
type Opener interface {
	Open(ctx context.Context, ref string) error
}

// New builds the opener named by kind.
func New(kind Kind, browserBin string, logger *slog.Logger) (Opener, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case "", KindSystem:
		return &System{logger: logger}, nil
	case KindBrowser:
		return NewBrowser(browserBin, logger), nil
	default:
		return nil, fmt.Errorf("opener: unknown kind %q", kind)
	}
}

func checkRef(ref string) error {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return fmt.Errorf("%w: %q is not an absolute URL", ErrBlocked, ref)
	}
	return nil
}

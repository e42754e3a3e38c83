package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soocke/arcap-go/domain/media"
)

// ErrExhausted is returned when no strategy could deliver the artifact.
var ErrExhausted = errors.New("persist: all strategies failed")

// Strategy is one delivery mechanism in the fallback chain.
type Strategy interface {
	Name() string
	CanHandle(a media.Artifact, caps Capabilities) bool
	Attempt(ctx context.Context, a media.Artifact) error
}

// Outcome records which strategy delivered an artifact.
type Outcome struct {
	Strategy string
	Tried    []string
}

// Chain tries its strategies in order and stops at the first success.
// Intermediate failures are logged and never surfaced.
type Chain struct {
	strategies []Strategy
	detector   Detector
	logger     *slog.Logger
}

// NewChain builds a chain. A nil detector reports download-only.
func NewChain(logger *slog.Logger, detector Detector, strategies ...Strategy) *Chain {
	if detector == nil {
		detector = StaticDetector{Download: true}
	}
	return &Chain{strategies: strategies, detector: detector, logger: logger}
}

// Run persists a and reports which strategy succeeded.
func (c *Chain) Run(ctx context.Context, a media.Artifact) (Outcome, error) {
	caps := c.detector.Detect()
	var out Outcome
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if !s.CanHandle(a, caps) {
			c.debug("strategy skipped", "strategy", s.Name(), "file", a.Filename)
			continue
		}
		out.Tried = append(out.Tried, s.Name())
		if err := attempt(ctx, s, a); err != nil {
			c.debug("strategy failed", "strategy", s.Name(), "file", a.Filename, "error", err)
			continue
		}
		out.Strategy = s.Name()
		if c.logger != nil {
			c.logger.Info("artifact delivered", "strategy", s.Name(), "file", a.Filename)
		}
		return out, nil
	}
	return out, fmt.Errorf("%w: %s", ErrExhausted, a.Filename)
}

// Persist satisfies capture.Persister.
func (c *Chain) Persist(ctx context.Context, a media.Artifact) error {
	_, err := c.Run(ctx, a)
	return err
}

// attempt converts a panicking strategy into an ordinary failure so the
// chain can advance.
func attempt(ctx context.Context, s Strategy, a media.Artifact) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("persist: %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Attempt(ctx, a)
}

func (c *Chain) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

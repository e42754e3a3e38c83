package opener

import (
	"context"
	"fmt"
	"log/slog"
)

// System hands references to the platform's default URL handler.
type System struct {
	logger *slog.Logger
}

func (s *System) Open(ctx context.Context, ref string) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := openURL(ref); err != nil {
		return fmt.Errorf("%w: %v", ErrBlocked, err)
	}
	if s.logger != nil {
		s.logger.Debug("document opened", "ref", ref)
	}
	return nil
}

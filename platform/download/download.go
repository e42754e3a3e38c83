// Package download saves transient references to disk, the desktop
// counterpart of an anchor-click download.
package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
)

// Resolver returns the bytes behind a transient reference.
type Resolver interface {
	Resolve(ref string) ([]byte, string, error)
}

// Saver writes downloads below Dir. With no Dir, images go to the user's
// pictures directory and everything else to the videos directory.
type Saver struct {
	Resolver Resolver
	Dir      string
	logger   *slog.Logger

	// OnSaved receives the final path, which differs from the requested
	// name when that was taken.
	OnSaved func(path string)
}

func NewSaver(r Resolver, dir string, logger *slog.Logger) *Saver {
	return &Saver{Resolver: r, Dir: dir, logger: logger}
}

// Download resolves ref and writes it as filename, never overwriting an
// existing file.
func (s *Saver) Download(ctx context.Context, ref, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, mime, err := s.Resolver.Resolve(ref)
	if err != nil {
		return fmt.Errorf("download %s: %w", filename, err)
	}
	dir := s.dirFor(mime)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("download %s: %w", filename, err)
	}
	path, err := writeUnique(dir, filepath.Base(filename), data)
	if err != nil {
		return fmt.Errorf("download %s: %w", filename, err)
	}
	if s.logger != nil {
		s.logger.Info("artifact saved", "path", path, "size", humanize.Bytes(uint64(len(data))))
	}
	if s.OnSaved != nil {
		s.OnSaved(path)
	}
	return nil
}

func (s *Saver) dirFor(mime string) string {
	if s.Dir != "" {
		return s.Dir
	}
	if strings.HasPrefix(mime, "image/") {
		return filepath.Join(xdg.UserDirs.Pictures, "arcap")
	}
	return filepath.Join(xdg.UserDirs.Videos, "arcap")
}

func writeUnique(dir, name string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; i < 1000; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", err
		}
		return path, f.Close()
	}
	return "", fmt.Errorf("no free name for %s in %s", name, dir)
}

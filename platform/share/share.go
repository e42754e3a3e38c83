// Package share implements the native share primitive as an external
// command, e.g. a desktop share portal or a messaging CLI.
package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/soocke/arcap-go/domain/media"
)

// ErrUnsupported is returned when no command is configured or the MIME
// type is not accepted.
var ErrUnsupported = errors.New("share: unsupported")

const (
	filePlaceholder  = "{file}"
	titlePlaceholder = "{title}"
	mimePlaceholder  = "{mime}"
)

// Command shares an artifact by writing it to a temporary file and
// running Argv with placeholders substituted.
type Command struct {
	Argv   []string
	Types  []string
	TmpDir string
	logger *slog.Logger
}

// NewCommand returns a sharer for argv accepting the given MIME types.
// An empty types list accepts everything.
func NewCommand(argv, types []string, logger *slog.Logger) *Command {
	return &Command{Argv: argv, Types: types, logger: logger}
}

// Available reports whether a command is configured at all.
func (c *Command) Available() bool { return c != nil && len(c.Argv) > 0 }

// CanShare reports whether files of mime would be accepted.
func (c *Command) CanShare(mime string) bool {
	return c.Available() && media.MatchesType(mime, c.Types)
}

// Share runs the command and waits for it. A non-zero exit (the user
// dismissing the sheet) is reported as an error.
func (c *Command) Share(ctx context.Context, a media.Artifact, title string) error {
	if !c.CanShare(a.ContentType()) {
		return fmt.Errorf("%w: %s", ErrUnsupported, a.ContentType())
	}
	dir, err := os.MkdirTemp(c.TmpDir, "arcap-share-")
	if err != nil {
		return fmt.Errorf("share: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(a.Filename))
	if err := os.WriteFile(path, a.Bytes, 0o600); err != nil {
		return fmt.Errorf("share: write %s: %w", a.Filename, err)
	}

	argv := expand(c.Argv, path, title, a.ContentType())
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("share: %s: %w: %s", argv[0], err, strings.TrimSpace(string(out)))
	}
	if c.logger != nil {
		c.logger.Info("artifact shared", "file", a.Filename, "command", argv[0])
	}
	return nil
}

func expand(argv []string, path, title, mime string) []string {
	r := strings.NewReplacer(filePlaceholder, path, titlePlaceholder, title, mimePlaceholder, mime)
	out := make([]string, len(argv))
	hasFile := false
	for i, a := range argv {
		if strings.Contains(a, filePlaceholder) {
			hasFile = true
		}
		out[i] = r.Replace(a)
	}
	if !hasFile {
		out = append(out, path)
	}
	return out
}

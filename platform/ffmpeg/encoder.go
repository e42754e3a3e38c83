// Package ffmpeg encodes a compositor stream by piping raw RGBA frames into
// an ffmpeg process and streaming its container output back as chunks.
package ffmpeg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/soocke/arcap-go/domain/capture"
	"github.com/soocke/arcap-go/domain/compositor"
)

const (
	MIMEWebM = "video/webm;codecs=vp9"
	MIMEMP4  = "video/mp4"

	chunkSize = 64 << 10
)

// ErrNotFound is returned when the ffmpeg binary cannot be located.
var ErrNotFound = errors.New("ffmpeg: binary not found")

// Encoder opens one ffmpeg process per recording.
type Encoder struct {
	Bin  string
	MIME string
	// Args overrides the argument list; used to swap the codec or, in
	// tests, the whole process.
	Args   func(w, h, fps int) []string
	logger *slog.Logger
}

// New returns an encoder producing mime (webm or mp4) with bin.
func New(bin, mime string, logger *slog.Logger) *Encoder {
	if bin == "" {
		bin = "ffmpeg"
	}
	if mime == "" {
		mime = MIMEWebM
	}
	return &Encoder{Bin: bin, MIME: mime, logger: logger}
}

// Check verifies the binary is on PATH.
func (e *Encoder) Check() (string, error) {
	path, err := exec.LookPath(e.Bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, e.Bin)
	}
	return path, nil
}

// BuildArgs returns the ffmpeg argument list for a w x h stream at fps.
func BuildArgs(mime string, w, h, fps int) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", strconv.Itoa(w) + "x" + strconv.Itoa(h),
		"-r", strconv.Itoa(fps),
		"-i", "-",
		"-an",
	}
	if strings.Contains(strings.ToLower(mime), "webm") {
		args = append(args,
			"-c:v", "libvpx-vp9",
			"-deadline", "realtime",
			"-cpu-used", "8",
			"-pix_fmt", "yuv420p",
			"-f", "webm",
		)
	} else {
		// fragmented so the container can be written to a pipe
		args = append(args,
			"-c:v", "libx264",
			"-preset", "ultrafast",
			"-pix_fmt", "yuv420p",
			"-movflags", "frag_keyframe+empty_moov+default_base_moof",
			"-f", "mp4",
		)
	}
	return append(args, "-")
}

// Open prepares a session for stream. Nothing runs until Start.
func (e *Encoder) Open(stream *compositor.Stream, cb capture.EncoderCallbacks) (capture.EncodingSession, error) {
	if stream == nil {
		return nil, errors.New("ffmpeg: nil stream")
	}
	argsFn := e.Args
	if argsFn == nil {
		mime := e.MIME
		argsFn = func(w, h, fps int) []string { return BuildArgs(mime, w, h, fps) }
	}
	return &Session{
		bin:    e.Bin,
		args:   argsFn(stream.Width(), stream.Height(), stream.FPS()),
		mime:   e.MIME,
		stream: stream,
		cb:     cb,
		stop:   make(chan struct{}),
		logger: e.logger,
	}, nil
}

// Session is one running ffmpeg process.
type Session struct {
	bin    string
	args   []string
	mime   string
	stream *compositor.Stream
	cb     capture.EncoderCallbacks
	logger *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	started  bool
}

func (s *Session) MIMEType() string { return s.mime }

// Start launches ffmpeg and the feeder and reader goroutines. OnStop fires
// once both have finished and the process has exited.
func (s *Session) Start() error {
	if s.started {
		return errors.New("ffmpeg: session already started")
	}
	s.started = true

	cmd := exec.Command(s.bin, s.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg: stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg: stdout: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg: start %s: %w", s.bin, err)
	}
	if s.logger != nil {
		s.logger.Debug("ffmpeg started", "pid", cmd.Process.Pid, "args", strings.Join(s.args, " "))
	}

	var g errgroup.Group
	g.Go(func() error { return s.feed(stdin) })
	g.Go(func() error { return s.read(stdout) })
	go func() {
		gerr := g.Wait()
		werr := cmd.Wait()
		err := gerr
		if err == nil && werr != nil {
			err = fmt.Errorf("ffmpeg: %w: %s", werr, strings.TrimSpace(stderr.String()))
		}
		if s.logger != nil {
			s.logger.Debug("ffmpeg exited", "error", err)
		}
		if s.cb.OnStop != nil {
			s.cb.OnStop(err)
		}
	}()
	return nil
}

// Stop asks the feeder to write one last frame and close ffmpeg's input;
// the remaining output is still delivered before OnStop. Close the stream
// first so the last frame is the one it captured.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Session) feed(stdin io.WriteCloser) error {
	defer stdin.Close()
	fps := s.stream.FPS()
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	buf := make([]byte, s.stream.FrameSize())
	for {
		stopping := false
		select {
		case <-s.stop:
			// one more read picks up the frame composited before the stop
			stopping = true
		case <-ticker.C:
		}
		if err := s.stream.ReadFrame(buf); err != nil {
			if errors.Is(err, compositor.ErrStreamClosed) {
				return nil
			}
			return err
		}
		if _, err := stdin.Write(buf); err != nil {
			return fmt.Errorf("ffmpeg: write frame: %w", err)
		}
		if stopping {
			return nil
		}
	}
}

func (s *Session) read(stdout io.Reader) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := stdout.Read(buf)
		if n > 0 && s.cb.OnData != nil {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.cb.OnData(chunk)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("ffmpeg: read output: %w", err)
		}
	}
}

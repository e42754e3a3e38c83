package debug

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/soocke/arcap-go/domain/capture"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestGoroutineLogger_LogsCaptureStats(t *testing.T) {
	defer goleak.VerifyNone(t)
	out := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, nil))
	stop := StartGoroutineLogger(5*time.Millisecond, logger, func() capture.Stats {
		return capture.Stats{Frames: 42, Bytes: 2048}
	})
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "runtime-stats") && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	stop()
	stop()
	s := out.String()
	if !strings.Contains(s, `"frames":42`) || !strings.Contains(s, `"encoded":"2.0 kB"`) {
		t.Fatalf("log = %s", s)
	}
}

package debug

// Debug runtime logger. Started only when config.Debug is true. Emits the
// goroutine count, stack and heap usage, resident set size and the capture
// machine's counters at a fixed interval.

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/arcap-go/domain/capture"
)

// StartGoroutineLogger launches a ticker that logs runtime and capture
// stats. stats may be nil. The returned function stops the logger.
func StartGoroutineLogger(interval time.Duration, logger *slog.Logger, stats func() capture.Stats) (stop func()) {
	if interval <= 0 {
		interval = time.Second
	}
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		t := time.NewTicker(interval)
		defer t.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-quit:
				return
			case <-t.C:
			}
			rssErrLogged = logOnce(logger, stats, rssErrLogged)
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			<-done
		})
	}
}

func logOnce(logger *slog.Logger, stats func() capture.Stats, rssErrLogged bool) bool {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var goroutines uint64
	if samples[0].Value.Kind() == metrics.KindUint64 {
		goroutines = samples[0].Value.Uint64()
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	rss, err := residentBytes()
	if err != nil && !rssErrLogged {
		logger.Warn("debug: resident size unavailable", slog.String("err", err.Error()))
		rssErrLogged = true
	}
	attrs := []any{
		slog.Uint64("goroutines", goroutines),
		slog.String("stack_inuse", humanize.Bytes(ms.StackInuse)),
		slog.String("heap_alloc", humanize.Bytes(ms.HeapAlloc)),
		slog.String("heap_sys", humanize.Bytes(ms.HeapSys)),
		slog.String("rss", humanize.Bytes(rss)),
		slog.Uint64("num_gc", uint64(ms.NumGC)),
	}
	if stats != nil {
		s := stats()
		attrs = append(attrs,
			slog.Uint64("recordings", s.Recordings),
			slog.Uint64("photos", s.Photos),
			slog.Uint64("videos", s.Videos),
			slog.Uint64("frames", s.Frames),
			slog.Uint64("chunks", s.Chunks),
			slog.String("encoded", humanize.Bytes(s.Bytes)),
			slog.Uint64("failures", s.Failures),
		)
	}
	logger.Info("runtime-stats", attrs...)
	return rssErrLogged
}

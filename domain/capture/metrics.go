package capture

import "sync/atomic"

// Stats summarises machine activity for debug logging.
type Stats struct {
	Recordings uint64
	Photos     uint64
	Videos     uint64
	Frames     uint64
	Chunks     uint64
	Bytes      uint64
	Failures   uint64
}

type counters struct {
	recordings atomic.Uint64
	photos     atomic.Uint64
	videos     atomic.Uint64
	frames     atomic.Uint64
	chunks     atomic.Uint64
	bytes      atomic.Uint64
	failures   atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Recordings: c.recordings.Load(),
		Photos:     c.photos.Load(),
		Videos:     c.videos.Load(),
		Frames:     c.frames.Load(),
		Chunks:     c.chunks.Load(),
		Bytes:      c.bytes.Load(),
		Failures:   c.failures.Load(),
	}
}

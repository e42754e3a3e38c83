// Package blobstore hands out transient URLs for in-memory byte buffers and
// serves them over a loopback HTTP listener, so generated documents and
// saved media can be opened by an external browser.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNotFound is returned when a reference is unknown or was revoked.
var ErrNotFound = errors.New("blobstore: reference not found")

const (
	pathPrefix      = "/blob/"
	defaultCapacity = 16

	// MinCapacity keeps a viewer page and the video it embeds alive
	// together.
	MinCapacity = 2
)

type entry struct {
	data []byte
	mime string
}

// Store keeps at most capacity live references; the least recently used
// one is dropped when a new reference would exceed it. References that are
// never revoked (viewer pages) are therefore bounded.
type Store struct {
	mu      sync.RWMutex
	cache   *lru.Cache[string, entry]
	baseURL string
	router  *mux.Router
	srv     *http.Server
	logger  *slog.Logger
}

// New returns a store holding up to capacity references. Until Start is
// called references are relative paths.
func New(logger *slog.Logger, capacity int) *Store {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	capacity = max(capacity, MinCapacity)
	s := &Store{logger: logger}
	cache, err := lru.NewWithEvict[string, entry](capacity, func(id string, e entry) {
		if s.logger != nil {
			s.logger.Debug("transient reference evicted", "id", id, "bytes", len(e.data))
		}
	})
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	s.cache = cache
	s.router = mux.NewRouter()
	s.router.HandleFunc(pathPrefix+"{id}", s.serveBlob).Methods(http.MethodGet, http.MethodHead)
	return s
}

// Handler exposes the blob routes.
func (s *Store) Handler() http.Handler { return s.router }

// Start listens on addr (e.g. "127.0.0.1:0") and serves references until
// Close.
func (s *Store) Start(addr string) error {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("blobstore: listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	s.mu.Lock()
	s.srv = srv
	s.baseURL = "http://" + ln.Addr().String()
	s.mu.Unlock()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && s.logger != nil {
			s.logger.Error("blobstore server stopped", "error", err)
		}
	}()
	if s.logger != nil {
		s.logger.Info("blobstore listening", "addr", ln.Addr().String())
	}
	return nil
}

// BaseURL is the origin references are issued under, or "" before Start.
func (s *Store) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

// Create registers data and returns its reference.
func (s *Store) Create(data []byte, mime string) string {
	id := uuid.NewString()
	s.cache.Add(id, entry{data: data, mime: mime})
	return s.BaseURL() + pathPrefix + id
}

// Revoke releases a reference. Unknown references are ignored.
func (s *Store) Revoke(ref string) {
	if id, ok := idFromRef(ref); ok {
		s.cache.Remove(id)
	}
}

// Resolve returns the bytes and MIME type behind a reference.
func (s *Store) Resolve(ref string) ([]byte, string, error) {
	id, ok := idFromRef(ref)
	if !ok {
		return nil, "", ErrNotFound
	}
	e, ok := s.cache.Get(id)
	if !ok {
		return nil, "", ErrNotFound
	}
	return e.data, e.mime, nil
}

// Len reports the number of live references.
func (s *Store) Len() int { return s.cache.Len() }

// Close stops the listener, if any.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Store) serveBlob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	e, ok := s.cache.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if e.mime != "" {
		w.Header().Set("Content-Type", e.mime)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(e.data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(e.data)
}

func idFromRef(ref string) (string, bool) {
	i := strings.LastIndex(ref, pathPrefix)
	if i < 0 {
		return "", false
	}
	id := ref[i+len(pathPrefix):]
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

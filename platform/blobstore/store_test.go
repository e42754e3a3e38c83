package blobstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateResolveRevoke(t *testing.T) {
	s := New(nil, 4)
	ref := s.Create([]byte("hello"), "text/plain")
	assert.Contains(t, ref, "/blob/")

	data, mime, err := s.Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "text/plain", mime)

	s.Revoke(ref)
	_, _, err = s.Resolve(ref)
	assert.ErrorIs(t, err, ErrNotFound)
	s.Revoke(ref)
	s.Revoke("not a reference")
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := New(nil, 2)
	first := s.Create([]byte("1"), "")
	second := s.Create([]byte("2"), "")
	_, _, err := s.Resolve(first)
	require.NoError(t, err)
	third := s.Create([]byte("3"), "")

	assert.Equal(t, 2, s.Len())
	_, _, err = s.Resolve(second)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = s.Resolve(first)
	assert.NoError(t, err)
	_, _, err = s.Resolve(third)
	assert.NoError(t, err)
}

func TestStore_CapacityFitsViewerPageAndVideo(t *testing.T) {
	s := New(nil, 1)
	video := s.Create([]byte("webm"), "video/webm")
	page := s.Create([]byte("<html>"), "text/html")

	_, _, err := s.Resolve(video)
	require.NoError(t, err, "creating the page must not evict the video")
	_, _, err = s.Resolve(page)
	require.NoError(t, err)
}

func TestStore_ServesOverHTTP(t *testing.T) {
	s := New(nil, 4)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ref := s.Create([]byte("<!doctype html>"), "text/html; charset=utf-8")
	resp, err := http.Get(srv.URL + ref)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "<!doctype html>", string(body))

	s.Revoke(ref)
	resp2, err := http.Get(srv.URL + ref)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestStore_StartIssuesAbsoluteURLs(t *testing.T) {
	s := New(nil, 4)
	require.NoError(t, s.Start("127.0.0.1:0"))
	defer s.Close(context.Background())

	ref := s.Create([]byte("x"), "application/octet-stream")
	assert.Regexp(t, `^http://127\.0\.0\.1:\d+/blob/[0-9a-f-]{36}$`, ref)
	resp, err := http.Get(ref)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

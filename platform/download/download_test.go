package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapResolver map[string]string

func (m mapResolver) Resolve(ref string) ([]byte, string, error) {
	v, ok := m[ref]
	if !ok {
		return nil, "", errors.New("gone")
	}
	return []byte(v), "image/png", nil
}

func TestSaver_WritesAndDeduplicates(t *testing.T) {
	dir := t.TempDir()
	var last []string
	s := NewSaver(mapResolver{"r1": "one", "r2": "two"}, dir, nil)
	s.OnSaved = func(p string) { last = append(last, p) }

	require.NoError(t, s.Download(context.Background(), "r1", "shot.png"))
	require.NoError(t, s.Download(context.Background(), "r2", "shot.png"))

	first, err := os.ReadFile(filepath.Join(dir, "shot.png"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(first))
	second, err := os.ReadFile(filepath.Join(dir, "shot (1).png"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(second))
	assert.Equal(t, []string{filepath.Join(dir, "shot.png"), filepath.Join(dir, "shot (1).png")}, last)
}

func TestSaver_UnknownReference(t *testing.T) {
	s := NewSaver(mapResolver{}, t.TempDir(), nil)
	assert.Error(t, s.Download(context.Background(), "missing", "a.png"))
}

func TestSaver_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(mapResolver{"r": "x"}, dir, nil)
	require.NoError(t, s.Download(context.Background(), "r", "../../escape.png"))
	_, err := os.Stat(filepath.Join(dir, "escape.png"))
	assert.NoError(t, err)
}

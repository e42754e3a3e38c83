package cli

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(&Dependencies{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "arcap dev"))
}

func TestDoctorReportsMissingFFmpeg(t *testing.T) {
	cfgPath := writeConfig(t, "ffmpeg_bin: arcap-no-such-ffmpeg\noutput_dir: "+t.TempDir()+"\n")
	out, err := execute(t, "doctor", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✗ ffmpeg")
	assert.Contains(t, out, "Some prerequisites are missing.")
	assert.Contains(t, out, cfgPath)
}

func TestSnapWithBackgroundFile(t *testing.T) {
	dir := t.TempDir()
	bg := filepath.Join(dir, "bg.png")
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+2], img.Pix[i+3] = 255, 255
	}
	f, err := os.Create(bg)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	outDir := filepath.Join(dir, "out")
	cfgPath := writeConfig(t, "viewer_addr: 127.0.0.1:0\n")
	out, err := execute(t, "snap", "--config", cfgPath, "--background", bg, "--output", outDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "saved "+filepath.Join(outDir, "ar-screenshot-"))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), decoded.Bounds())
}

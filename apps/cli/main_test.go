package main

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string, w, h int) string {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 10, B: 90, A: 255})
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, imaging.Save(img, path), "failed to set up test image")
	return path
}

func tileNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_Success(t *testing.T) {
	// --- Arrange ---
	path := fixture(t, "photo.png", 30, 20)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(out, errOut, []string{path, "2", "3"})

	// --- Assert ---
	require.NoError(t, err)
	dir := filepath.Join(filepath.Dir(path), "photo")
	assert.Contains(t, out.String(), "Wrote 6 tiles to "+dir)
	assert.ElementsMatch(t, []string{
		"r00_c00.png", "r00_c01.png", "r00_c02.png",
		"r01_c00.png", "r01_c01.png", "r01_c02.png",
	}, tileNames(t, dir))
	assert.Contains(t, errOut.String(), "splitting image")
}

func TestRun_FormatFlag(t *testing.T) {
	path := fixture(t, "icon.png", 8, 8)

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{path, "1", "2", "--format", "jpg"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r00_c00.jpg", "r00_c01.jpg"}, tileNames(t, filepath.Join(filepath.Dir(path), "icon")))
}

func TestRun_ConfigFile(t *testing.T) {
	path := fixture(t, "icon.png", 8, 8)
	cfgPath := filepath.Join(t.TempDir(), "gridsplit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format: bmp\nlog:\n  level: error\n"), 0o600))
	errOut := &bytes.Buffer{}

	err := run(&bytes.Buffer{}, errOut, []string{path, "2", "2", "--config", cfgPath})
	require.NoError(t, err)
	assert.Len(t, tileNames(t, filepath.Join(filepath.Dir(path), "icon")), 4)
	assert.Contains(t, tileNames(t, filepath.Join(filepath.Dir(path), "icon")), "r01_c01.bmp")
	assert.Empty(t, errOut.String(), "info logs should be suppressed at error level")
}

func TestRun_Errors(t *testing.T) {
	path := fixture(t, "banner.png", 300, 100)

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"too few args", []string{path, "2"}, "accepts 3 arg(s)"},
		{"bad rows", []string{path, "two", "2"}, `rows must be an integer, got "two"`},
		{"bad cols", []string{path, "2", "x"}, `cols must be an integer, got "x"`},
		{"not divisible", []string{path, "3", "4"}, "300x100"},
		{"zero grid", []string{path, "0", "4"}, "must be positive"},
		{"missing image", []string{filepath.Join(t.TempDir(), "none.png"), "1", "1"}, "open image"},
		{"bad format", []string{path, "1", "1", "--format", "xyz"}, "unsupported format"},
		{"missing config", []string{path, "1", "1", "--config", "/does/not/exist.yaml"}, "read config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := run(&bytes.Buffer{}, &bytes.Buffer{}, tc.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRun_Help(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, run(out, &bytes.Buffer{}, []string{"-h"}))
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "gridsplit <image_path> <rows> <cols>")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	p := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(p, []byte("storage:\n  bucket: mine\n"), 0o600))
	cfg, err = loadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "mine", cfg.Storage.Bucket)
	assert.Equal(t, "us-east-1", cfg.Storage.Region, "unset fields keep their defaults")
	assert.Equal(t, "png", cfg.Format)
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	newLogger("warn", "json", buf).Info("hidden")
	assert.Empty(t, buf.String())

	newLogger("debug", "json", buf).Debug("shown", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

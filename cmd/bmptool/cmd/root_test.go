package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/bmp-tools/internal/bmp"
	"github.com/ironsheep/bmp-tools/internal/config"
	"github.com/ironsheep/bmp-tools/internal/raster"
)

var testInfo = BuildInfo{Version: "1.0.0-test", BuildTime: "today", GitCommit: "abc123"}

// run executes bmptool with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvLogLevel, "")

	var out bytes.Buffer
	root := NewRootCmd(testInfo)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bmptool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)

	assert.Contains(t, out, "bmptool 1.0.0-test")
	assert.Contains(t, out, "Build time: today")
	assert.Contains(t, out, "Git commit: abc123")
}

func TestRootCommand_Config(t *testing.T) {
	t.Run("Missing config file", func(t *testing.T) {
		_, err := run(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "version")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("Invalid log level", func(t *testing.T) {
		path := writeConfig(t, "logging:\n  level: verbose\n")
		_, err := run(t, "", "--config", path, "version")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("Output dir from config", func(t *testing.T) {
		dir := t.TempDir()
		path := writeConfig(t, "output_dir: "+dir+"\n")

		out, err := run(t, "", "--config", path, "create", "--width", "2", "--height", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Wrote "+dir)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, strings.HasPrefix(entries[0].Name(), "create-"))
		assert.Equal(t, ".bmp", filepath.Ext(entries[0].Name()))
	})
}

func TestCreateCommand(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "solid.bmp")

	out, err := run(t, "", "create", "-W", "5", "-H", "3", "--color", "#336699", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "(5x3, ")

	img, err := bmp.LoadStrict(dst)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Width())
	assert.Equal(t, 3, img.Height())
	assert.Equal(t, "#336699", img.ColorAt(4, 2).Hex())

	t.Run("Bad color", func(t *testing.T) {
		_, err := run(t, "", "create", "-W", "1", "-H", "1", "--color", "teal", dst)
		assert.Error(t, err)
	})

	t.Run("Missing size", func(t *testing.T) {
		_, err := run(t, "", "create", dst)
		assert.Error(t, err)
	})

	t.Run("Zero size", func(t *testing.T) {
		_, err := run(t, "", "create", "-W", "0", "-H", "4", dst)
		assert.ErrorIs(t, err, bmp.ErrEmptyImage)
	})
}

func TestInfoCommand(t *testing.T) {
	src := filepath.Join(t.TempDir(), "info.bmp")
	require.NoError(t, bmp.Save(raster.New(5, 2, raster.White), src))

	out, err := run(t, "", "info", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Size:       5x2")
	assert.Contains(t, out, "Stride:     16")
	assert.Contains(t, out, "Row order:  bottom-up")

	out, err = run(t, "", "info", "--json", src)
	require.NoError(t, err)
	assert.Contains(t, out, `"bits_per_pixel": 24`)

	_, err = run(t, "", "info", filepath.Join(t.TempDir(), "missing.bmp"))
	assert.Error(t, err)
}

func TestConvertAndGrayCommands(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bmp")
	img := raster.New(4, 4, raster.RGB(255, 0, 0))
	require.NoError(t, bmp.Save(img, src))

	converted := filepath.Join(dir, "converted.bmp")
	_, err := run(t, "", "convert", src, converted)
	require.NoError(t, err)

	back, err := bmp.Load(converted)
	require.NoError(t, err)
	assert.True(t, img.Equal(back))

	gray := filepath.Join(dir, "gray.bmp")
	_, err = run(t, "", "gray", src, gray)
	require.NoError(t, err)

	g, err := bmp.Load(gray)
	require.NoError(t, err)
	c := g.ColorAt(1, 1)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
	assert.InDelta(t, 76, int(c.R), 1)
}

func TestServeCommand(t *testing.T) {
	requests := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n")

	out, err := run(t, requests, "serve", "--output-dir", t.TempDir())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"name":"bmp-tools"`)
	assert.Contains(t, lines[0], `"version":"1.0.0-test"`)
	assert.Contains(t, lines[1], `"id":2`)
}

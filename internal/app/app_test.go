package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/engine/model"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "richedit.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	opts.LogOutput = io.Discard
	a, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func TestNewApplication(t *testing.T) {
	a := newTestApp(t, Options{Sanitize: true, Language: "de", ScriptPaths: []string{"/nonexistent"}})

	assert.False(t, a.IsRunning())
	assert.Nil(t, a.Editor())
	assert.NotNil(t, a.Logger())
	assert.NotNil(t, a.Metrics())
	assert.True(t, a.Config().Conversion.Sanitize)
	assert.Equal(t, "de", a.Config().Language)
	assert.Contains(t, a.Config().Scripts.Paths, "/nonexistent")
}

func TestNewApplication_BadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[conversion]\nupcastPolicy = \"sometimes\"\n")
	_, err := New(Options{ConfigPath: path, LogOutput: io.Discard})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInitialization)
}

func TestApplication_StartLogsCreationStack(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "plugins = [\"Nope\"]\n")
	var logs bytes.Buffer
	a, err := New(Options{ConfigPath: path, LogOutput: &logs})
	require.NoError(t, err)
	defer a.Shutdown()

	err = a.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInitialization)
	assert.False(t, a.IsRunning())
	assert.Contains(t, logs.String(), "editor creation failed")
	assert.Contains(t, logs.String(), "internal/editor.Create")
}

func TestApplication_StartAndShutdown(t *testing.T) {
	a := newTestApp(t, Options{})

	_, err := a.Open("whatever.html")
	assert.ErrorIs(t, err, ErrNotRunning)

	require.NoError(t, a.Start(context.Background()))
	assert.True(t, a.IsRunning())
	assert.ErrorIs(t, a.Start(context.Background()), ErrAlreadyRunning)
	require.NotNil(t, a.Editor())

	a.Shutdown()
	a.Shutdown()
	assert.False(t, a.IsRunning())
	assert.Nil(t, a.Editor())
}

func TestApplication_StartCanceled(t *testing.T) {
	a := newTestApp(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.Start(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, a.IsRunning())
}

func TestApplication_Reload(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "plugins = [\"Paragraph\", \"ImageInline\"]\n")
	htmlPath := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(`<p>a<img src="x.png"></p>`), 0o644))

	a := newTestApp(t, Options{ConfigPath: cfgPath})
	require.NoError(t, a.Start(context.Background()))
	doc, err := a.Open(htmlPath)
	require.NoError(t, err)
	first := a.Editor()

	ed := doc.Editor()
	require.NoError(t, ed.Model().Change(func(w *model.Writer) error {
		return w.Append(w.CreateElement("paragraph", nil), ed.Model().Document().MainRoot())
	}))

	writeConfig(t, dir, "plugins = [\"Paragraph\", \"ImageInline\", \"ImageBlock\"]\nlanguage = \"de\"\n")
	require.NoError(t, a.Reload(context.Background()))

	assert.NotSame(t, first, a.Editor())
	assert.Equal(t, "de", a.Config().Language)
	assert.True(t, a.Editor().Plugins().Has("ImageBlock"))
	assert.True(t, a.Document().IsModified())

	content, err := a.Document().Content()
	require.NoError(t, err)
	assert.Equal(t, `<p>a<img src="x.png"/></p><p></p>`, content)

	writeConfig(t, dir, "plugins = [\"Nope\"]\n")
	require.Error(t, a.Reload(context.Background()))
	assert.Equal(t, "de", a.Config().Language)

	s, err := a.Metrics().Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.Reloads)
}

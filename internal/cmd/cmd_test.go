package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/app"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := Root(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "richedit 1.2.3\ncommit: abc\nbuilt: today\n", out)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.html", `<h1>Title</h1><p>x<img src="a.png"></p>`)

	out, err := run(t, "", "convert", in)
	require.NoError(t, err)
	assert.Equal(t, "<p>Title</p><p>x<img src=\"a.png\"/></p>\n", out)

	out, err = run(t, `<img src="b.png">`, "convert", "--sanitize", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `src="b.png"`)

	target := filepath.Join(dir, "out.html")
	_, err = run(t, "", "convert", in, "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, `<p>Title</p><p>x<img src="a.png"/></p>`, string(data))

	_, err = run(t, "", "convert", filepath.Join(dir, "missing.html"))
	assert.Error(t, err)
}

func TestView(t *testing.T) {
	in := writeFile(t, t.TempDir(), "in.html", `<figure class="image"><img src="a.png"></figure>`)
	out, err := run(t, "", "view", in)
	require.NoError(t, err)
	assert.Contains(t, out, `ck-widget`)
	assert.Contains(t, out, `aria-label="image widget"`)
}

func TestToolbar(t *testing.T) {
	out, err := run(t, "", "toolbar")
	require.NoError(t, err)
	assert.Contains(t, out, "main: [Insert image]")
	assert.Contains(t, out, "[Open file manager] (disabled)")
	assert.Contains(t, out, "image: [Change image type]")

	out, err = run(t, "", "toolbar", "--lang", "de")
	require.NoError(t, err)
	assert.Contains(t, out, "[Bild einfügen]")
}

func TestPlugins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shout.lua", `require("richedit").commands.add("shout", function(s) return string.upper(s) end)`)

	out, err := run(t, "", "plugins", "--scripts", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Paragraph")
	assert.Contains(t, out, "CKBox")
	assert.Contains(t, out, filepath.Join(dir, "shout.lua"))
}

func TestBadConfig(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "richedit.toml", "plugins = [\"Nope\"]\n")
	_, err := run(t, "", "plugins", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nope")
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
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

func TestWatchDocument(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.html", `<p>one</p>`)
	cfg := writeFile(t, dir, "richedit.toml", "language = \"en\"\n")

	a, err := app.New(app.Options{ConfigPath: cfg, LogOutput: io.Discard})
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))
	defer a.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- watchDocument(ctx, a, doc, cfg, 20*time.Millisecond, &out) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "<p>one</p>") }, 2*time.Second, 10*time.Millisecond)

	first := a.Editor()
	writeFile(t, dir, "doc.html", `<p>two</p>`)
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "<p>two</p>") }, 5*time.Second, 20*time.Millisecond)

	writeFile(t, dir, "richedit.toml", "language = \"de\"\n")
	require.Eventually(t, func() bool { return a.Config().Language == "de" }, 5*time.Second, 20*time.Millisecond)
	assert.NotSame(t, first, a.Editor())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/editor"
	"github.com/dshills/richedit/internal/engine/model"
)

func newTestEditor(t *testing.T) *editor.Editor {
	t.Helper()
	ed, err := editor.Create(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ed.Destroy() })
	return ed
}

func writeHTML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument(newTestEditor(t), "", "<p>hello</p>")
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, "Untitled", doc.Name)
	assert.True(t, doc.IsScratch())
	assert.False(t, doc.IsModified())
	assert.Positive(t, doc.Version())

	content, err := doc.Content()
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", content)

	assert.ErrorIs(t, doc.Save(), ErrNoActiveDocument)
	assert.ErrorIs(t, doc.Reload(), ErrNoActiveDocument)
}

func TestDocument_ModifiedAndSave(t *testing.T) {
	path := writeHTML(t, "doc.html", `<p>a</p>`)
	doc, err := OpenDocument(newTestEditor(t), path)
	require.NoError(t, err)
	defer doc.Close()

	assert.Equal(t, "doc.html", doc.Name)
	assert.False(t, doc.IsModified())

	ed := doc.Editor()
	require.NoError(t, ed.Model().Change(func(w *model.Writer) error {
		return w.Append(w.CreateElement("paragraph", nil), ed.Model().Document().MainRoot())
	}))
	assert.True(t, doc.IsModified())

	require.NoError(t, doc.Save())
	assert.False(t, doc.IsModified())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `<p>a</p><p></p>`, string(data))

	out := filepath.Join(filepath.Dir(path), "copy.html")
	require.NoError(t, doc.SaveAs(out))
	assert.Equal(t, out, doc.Path)
	assert.Equal(t, "copy.html", doc.Name)
}

func TestDocument_Reload(t *testing.T) {
	path := writeHTML(t, "doc.html", `<p>a</p>`)
	doc, err := OpenDocument(newTestEditor(t), path)
	require.NoError(t, err)
	defer doc.Close()

	require.NoError(t, os.WriteFile(path, []byte(`<p>b</p>`), 0o644))
	require.NoError(t, doc.Reload())
	assert.False(t, doc.IsModified())

	content, err := doc.Content()
	require.NoError(t, err)
	assert.Equal(t, `<p>b</p>`, content)
}

func TestOpenDocument_NotFound(t *testing.T) {
	_, err := OpenDocument(newTestEditor(t), filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocument_CloseStopsTracking(t *testing.T) {
	doc, err := NewDocument(newTestEditor(t), "", "<p>a</p>")
	require.NoError(t, err)
	doc.Close()

	ed := doc.Editor()
	require.NoError(t, ed.SetData("<p>b</p>"))
	assert.False(t, doc.IsModified())
}

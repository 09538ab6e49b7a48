package editor_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/editor"
	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/features/paragraph"
	"github.com/dshills/richedit/internal/plugin"
)

// recorder is a plugin that records its lifecycle calls.
type recorder struct {
	name     string
	requires []string
	initErr  error
	calls    *[]string
}

func (r *recorder) PluginName() string { return r.name }
func (r *recorder) Requires() []string { return r.requires }

func (r *recorder) Init(plugin.Host) error {
	*r.calls = append(*r.calls, "init:"+r.name)
	return r.initErr
}

func (r *recorder) AfterInit(plugin.Host) error {
	*r.calls = append(*r.calls, "after:"+r.name)
	return nil
}

func (r *recorder) Destroy() error {
	*r.calls = append(*r.calls, "destroy:"+r.name)
	return nil
}

type fakeMetrics struct {
	mu          sync.Mutex
	commands    []string
	conversions []string
	failures    int
}

func (m *fakeMetrics) ObserveCommand(name string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, name)
	if err != nil {
		m.failures++
	}
}

func (m *fakeMetrics) ObserveConversion(op string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversions = append(m.conversions, op)
	if err != nil {
		m.failures++
	}
}

func paragraphOnly() *config.Config {
	cfg := config.Default()
	cfg.Plugins = []string{paragraph.PluginName}
	cfg.Toolbar.Items = nil
	cfg.Image.Toolbar = nil
	return cfg
}

func TestCreateDefaults(t *testing.T) {
	ed, err := editor.Create(context.Background(), nil)
	require.NoError(t, err)
	defer ed.Destroy()

	assert.Equal(t, editor.StateReady, ed.State())
	assert.NotEmpty(t, ed.ID())
	assert.ElementsMatch(t,
		[]string{"Paragraph", "ImageEditing", "ImageBlock", "ImageInline", "CloudServices", "CKBox"},
		ed.Plugins().Names())
	assert.Equal(t, 3, ed.Toolbar().Len())
	assert.Contains(t, ed.Toolbar().Render(), "[Open file manager] (disabled)")

	require.NoError(t, ed.SetData(`<p>a<img src="a.png"></p><figure class="image"><img src="b.png"></figure>`))
	out, err := ed.GetData()
	require.NoError(t, err)
	assert.Equal(t, `<p>a<img src="a.png"/></p><figure class="image"><img src="b.png"/></figure>`, out)
}

func TestCreateErrors(t *testing.T) {
	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := editor.Create(ctx, paragraphOnly())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unknown plugin", func(t *testing.T) {
		cfg := paragraphOnly()
		cfg.Plugins = append(cfg.Plugins, "Nope")
		_, err := editor.Create(context.Background(), cfg)
		assert.ErrorIs(t, err, plugin.ErrPluginNotFound)
		assert.Contains(t, fmt.Sprintf("%+v", err), "internal/editor.Create")
	})

	t.Run("unknown upcast policy", func(t *testing.T) {
		cfg := paragraphOnly()
		cfg.Conversion.UpcastPolicy = "some-matches"
		_, err := editor.Create(context.Background(), cfg)
		assert.ErrorIs(t, err, conversion.ErrUnknownPolicy)
	})
}

func TestCreateRollsBackPlugins(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	first := &recorder{name: "First", calls: &calls}
	second := &recorder{name: "Second", requires: []string{"First"}, initErr: boom, calls: &calls}

	_, err := editor.Create(context.Background(), paragraphOnly(), editor.WithPlugins(second, first))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"init:First", "init:Second", "destroy:First"}, calls)
}

func TestPluginLifecycle(t *testing.T) {
	var calls []string
	a := &recorder{name: "A", calls: &calls}
	b := &recorder{name: "B", requires: []string{"A"}, calls: &calls}

	ed, err := editor.Create(context.Background(), paragraphOnly(), editor.WithPlugins(b, a))
	require.NoError(t, err)

	var destroyed int
	ed.On(editor.EventDestroy, func(*event.Info, any) { destroyed++ })

	require.NoError(t, ed.Destroy())
	require.NoError(t, ed.Destroy())
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, editor.StateDestroyed, ed.State())
	assert.Equal(t,
		[]string{"init:A", "init:B", "after:A", "after:B", "destroy:B", "destroy:A"},
		calls)
}

func TestDestroyedEditorRejectsCalls(t *testing.T) {
	ed, err := editor.Create(context.Background(), paragraphOnly())
	require.NoError(t, err)
	require.NoError(t, ed.Destroy())

	_, err = ed.GetData()
	assert.ErrorIs(t, err, editor.ErrEditorDestroyed)
	assert.ErrorIs(t, ed.SetData("<p>a</p>"), editor.ErrEditorDestroyed)
	_, err = ed.RenderEditing()
	assert.ErrorIs(t, err, editor.ErrEditorDestroyed)
	_, err = ed.Execute(paragraph.InsertParagraphCommand)
	assert.ErrorIs(t, err, editor.ErrEditorDestroyed)
}

func TestCreateAsync(t *testing.T) {
	res := <-editor.CreateAsync(context.Background(), paragraphOnly(), editor.WithInitialData("<p>hi</p>"))
	require.NoError(t, res.Err)
	defer res.Editor.Destroy()

	out, err := res.Editor.GetData()
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", out)

	cfg := paragraphOnly()
	cfg.Plugins = []string{"Nope"}
	ch := editor.CreateAsync(context.Background(), cfg)
	res = <-ch
	assert.ErrorIs(t, res.Err, plugin.ErrPluginNotFound)
	assert.Nil(t, res.Editor)

	_, open := <-ch
	assert.False(t, open)
}

func TestMetrics(t *testing.T) {
	m := &fakeMetrics{}
	ed, err := editor.Create(context.Background(), paragraphOnly(), editor.WithMetrics(m))
	require.NoError(t, err)
	defer ed.Destroy()

	require.NoError(t, ed.SetData("<p>a</p>"))
	_, err = ed.GetData()
	require.NoError(t, err)
	_, err = ed.Execute(paragraph.InsertParagraphCommand, "bad")
	require.Error(t, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Equal(t, []string{"set", "get"}, m.conversions)
	assert.Equal(t, []string{paragraph.InsertParagraphCommand}, m.commands)
	assert.Equal(t, 1, m.failures)
}

func TestToolbarSkipsUnknownItems(t *testing.T) {
	cfg := config.Default()
	cfg.Toolbar.Items = []string{"nope", "|", "insertImage", "|", "|"}
	ed, err := editor.Create(context.Background(), cfg)
	require.NoError(t, err)
	defer ed.Destroy()

	assert.Equal(t, 1, ed.Toolbar().Len())
	assert.NotNil(t, ed.Toolbar().FindButton("Insert image"))
}

const highlightScript = `
local re = require("richedit")
re.schema.register("highlight", { inheritAllFrom = "$block" })
re.conversion.element_to_element("downcast", "highlight", { name = "div", classes = { "highlight" } })
re.conversion.element_to_element("upcast", "highlight", { name = "div", classes = { "highlight" } })
re.commands.add("shout", function(s) return string.upper(s) end)
re.commands.add("echo", function(s)
  local loud = re.commands.execute("shout", s)
  return loud .. " " .. loud
end)
`

func TestScriptPlugins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "highlight.lua"), []byte(highlightScript), 0o644))

	cfg := paragraphOnly()
	cfg.Scripts.Paths = []string{dir}
	ed, err := editor.Create(context.Background(), cfg)
	require.NoError(t, err)
	defer ed.Destroy()

	assert.True(t, ed.Plugins().Has("highlight"))

	require.NoError(t, ed.SetData(`<div class="highlight">x</div><p>y</p>`))
	out, err := ed.GetData()
	require.NoError(t, err)
	assert.Equal(t, `<div class="highlight">x</div><p>y</p>`, out)

	res, err := ed.Execute("shout", "hi")
	require.NoError(t, err)
	assert.Equal(t, "HI", res)

	// A script command calling another command of the same script.
	res, err = ed.Execute("echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "HI HI", res)
}

func TestScriptPluginFailure(t *testing.T) {
	dir := t.TempDir()
	script := `require("richedit").schema.register("paragraph", {})`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.lua"), []byte(script), 0o644))

	cfg := paragraphOnly()
	cfg.Scripts.Paths = []string{dir}
	_, err := editor.Create(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dup")
}

package ui

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/command"
)

func newFactory(t *testing.T) *ComponentFactory {
	t.Helper()
	f := NewComponentFactory()
	require.NoError(t, f.Add("insertImage", func() Component {
		return &Button{Name: "insertImage", Label: "Insert image", Command: "imageInsert"}
	}))
	require.NoError(t, f.Add("ckbox", func() Component {
		return &Button{Name: "ckbox", Label: "Open file manager", Command: "ckbox", Tooltip: true}
	}))
	return f
}

func TestComponentFactory(t *testing.T) {
	f := newFactory(t)

	err := f.Add("ckbox", func() Component { return Separator{} })
	assert.ErrorIs(t, err, ErrComponentExists)

	assert.True(t, f.Has("ckbox"))
	assert.False(t, f.Has("bold"))
	assert.Equal(t, []string{"ckbox", "insertImage"}, f.Names())

	_, err = f.Create("bold")
	assert.ErrorIs(t, err, ErrComponentNotFound)

	a, err := f.Create("ckbox")
	require.NoError(t, err)
	b, err := f.Create("ckbox")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestBuildToolbarSkipsUnknownItems(t *testing.T) {
	log, hook := test.NewNullLogger()

	tb := BuildToolbar(newFactory(t), []string{"|", "heading", "|", "insertImage", "|", "|", "bold", "ckbox", "|"}, log)

	names := make([]string, 0, tb.Len())
	for _, item := range tb.Items() {
		names = append(names, item.ComponentName())
	}
	assert.Equal(t, []string{"insertImage", "|", "ckbox"}, names)

	var skipped []any
	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.WarnLevel, e.Level)
		skipped = append(skipped, e.Data["item"])
	}
	assert.Equal(t, []any{"heading", "bold"}, skipped)
}

func TestToolbarFindItem(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	tb := BuildToolbar(newFactory(t), []string{"insertImage", "|", "ckbox"}, logger)

	item := tb.FindItem(func(c Component) bool {
		b, ok := c.(*Button)
		return ok && b.Label == "Open file manager"
	})
	require.NotNil(t, item)
	assert.Equal(t, "ckbox", item.ComponentName())

	assert.Nil(t, tb.FindItem(func(Component) bool { return false }))
	assert.Nil(t, tb.FindButton("Bold"))
	assert.Same(t, item, Component(tb.FindButton("Open file manager")))
}

type stateCommand struct {
	command.Base
	enabled bool
	on      bool
}

func (c *stateCommand) Refresh() {
	c.SetEnabled(c.enabled)
	c.SetValue(c.on)
}

func (c *stateCommand) Execute(...any) (any, error) { return nil, nil }

func TestToolbarRefreshAndRender(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cmds := command.NewCollection()
	require.NoError(t, cmds.Add("imageInsert", &stateCommand{enabled: true, on: true}))

	tb := BuildToolbar(newFactory(t), []string{"insertImage", "|", "ckbox"}, logger)
	tb.Refresh(cmds)

	insert := tb.FindButton("Insert image")
	require.NotNil(t, insert)
	assert.True(t, insert.IsEnabled)
	assert.True(t, insert.IsOn)
	assert.False(t, tb.FindButton("Open file manager").IsEnabled)

	assert.Equal(t, "[Insert image] | [Open file manager] (disabled)", tb.Render())
}

func TestButtonExecute(t *testing.T) {
	b := &Button{Name: "x"}
	assert.ErrorIs(t, b.Execute(), ErrNotExecutable)

	ran := 0
	b.OnExecute = func() error { ran++; return nil }
	require.NoError(t, b.Execute())
	assert.Equal(t, 0, ran)

	b.IsEnabled = true
	require.NoError(t, b.Execute())
	assert.Equal(t, 1, ran)
}

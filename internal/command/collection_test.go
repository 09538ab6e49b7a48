package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toggleCommand struct {
	Base
	allowed   bool
	executed  int
	destroyed bool
}

func (c *toggleCommand) Refresh() {
	c.SetEnabled(c.allowed)
	c.SetValue(c.executed)
}

func (c *toggleCommand) Execute(...any) (any, error) {
	c.executed++
	return c.executed, nil
}

func (c *toggleCommand) Destroy() { c.destroyed = true }

func TestCollectionAddOnce(t *testing.T) {
	c := NewCollection()

	require.NoError(t, c.Add("imageInsert", &toggleCommand{allowed: true}))
	err := c.Add("imageInsert", &toggleCommand{})

	assert.ErrorIs(t, err, ErrCommandExists)
	assert.Contains(t, err.Error(), "imageInsert")
	assert.Equal(t, 1, c.Count())
}

func TestCollectionAddInvalid(t *testing.T) {
	c := NewCollection()
	assert.ErrorIs(t, c.Add("", &toggleCommand{}), ErrInvalidCommand)
	assert.ErrorIs(t, c.Add("x", nil), ErrInvalidCommand)
}

func TestCollectionExecute(t *testing.T) {
	c := NewCollection()
	cmd := &toggleCommand{allowed: true}
	require.NoError(t, c.Add("toggle", cmd))

	result, err := c.Execute("toggle")
	require.NoError(t, err)
	assert.Equal(t, 1, result)

	cmd.allowed = false
	_, err = c.Execute("toggle")
	assert.ErrorIs(t, err, ErrCommandDisabled)
	assert.Equal(t, 1, cmd.executed)
}

type ctxKey struct{}

type contextCommand struct {
	Base
	seen any
}

func (c *contextCommand) Execute(args ...any) (any, error) {
	return c.ExecuteContext(context.Background(), args...)
}

func (c *contextCommand) ExecuteContext(ctx context.Context, _ ...any) (any, error) {
	c.seen = ctx.Value(ctxKey{})
	return c.seen, nil
}

func TestCollectionExecuteContext(t *testing.T) {
	c := NewCollection()
	cmd := &contextCommand{}
	require.NoError(t, c.Add("ctx", cmd))

	result, err := c.ExecuteContext(context.WithValue(context.Background(), ctxKey{}, "outer"), "ctx")
	require.NoError(t, err)
	assert.Equal(t, "outer", result)

	result, err = c.Execute("ctx")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCollectionExecuteUnknown(t *testing.T) {
	c := NewCollection()

	_, err := c.Execute("missing")

	assert.ErrorIs(t, err, ErrCommandNotFound)
}

func TestCollectionExecutePanic(t *testing.T) {
	c := NewCollection()
	require.NoError(t, c.Add("boom", NewFunc(func(...any) (any, error) {
		panic("broken")
	})))

	_, err := c.Execute("boom")

	assert.ErrorIs(t, err, ErrCommandPanic)
	assert.Contains(t, err.Error(), "broken")
}

func TestCollectionObserver(t *testing.T) {
	c := NewCollection()
	failure := errors.New("nope")
	require.NoError(t, c.Add("fail", NewFunc(func(...any) (any, error) { return nil, failure })))

	var seen []string
	var seenErr error
	c.SetObserver(func(name string, d time.Duration, err error) {
		seen = append(seen, name)
		seenErr = err
		assert.GreaterOrEqual(t, d, time.Duration(0))
	})

	_, err := c.Execute("fail")
	assert.ErrorIs(t, err, failure)
	_, _ = c.Execute("unknown")

	assert.Equal(t, []string{"fail"}, seen)
	assert.ErrorIs(t, seenErr, failure)
}

func TestForceDisabled(t *testing.T) {
	cmd := &toggleCommand{allowed: true}
	cmd.Refresh()
	assert.True(t, cmd.IsEnabled())

	cmd.ForceDisabled("readOnly")
	cmd.ForceDisabled("other")
	assert.False(t, cmd.IsEnabled())

	cmd.ClearForceDisabled("readOnly")
	assert.False(t, cmd.IsEnabled())
	cmd.ClearForceDisabled("other")
	assert.True(t, cmd.IsEnabled())
}

func TestCollectionNamesAndDestroy(t *testing.T) {
	c := NewCollection()
	a := &toggleCommand{}
	require.NoError(t, c.Add("b", NewFunc(func(...any) (any, error) { return nil, nil })))
	require.NoError(t, c.Add("a", a))

	assert.Equal(t, []string{"a", "b"}, c.Names())
	assert.True(t, c.Has("a"))

	c.RefreshAll()
	assert.Equal(t, 0, a.Value())

	c.Destroy()
	assert.True(t, a.destroyed)
	assert.Zero(t, c.Count())
}

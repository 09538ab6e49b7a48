package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageSchema(t *testing.T) *Schema {
	t.Helper()
	s := NewSchema()
	require.NoError(t, s.Register("paragraph", SchemaItemDefinition{InheritAllFrom: BlockName}))
	require.NoError(t, s.Register("imageInline", SchemaItemDefinition{
		IsObject:        true,
		IsInline:        true,
		AllowWhere:      []string{TextName},
		AllowAttributes: []string{"alt", "src", "srcset"},
	}))
	require.NoError(t, s.Register("imageBlock", SchemaItemDefinition{
		InheritAllFrom:  BlockObjectName,
		AllowAttributes: []string{"alt", "src", "srcset"},
	}))
	return s
}

func TestSchemaRegisterTwiceFails(t *testing.T) {
	s := newImageSchema(t)

	err := s.Register("imageInline", SchemaItemDefinition{IsObject: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaItemExists)
	assert.Contains(t, err.Error(), "imageInline")
}

func TestSchemaGenericItemsCannotBeRegisteredAgain(t *testing.T) {
	s := NewSchema()
	for _, name := range []string{RootName, BlockName, TextName, InlineObjectName} {
		assert.ErrorIs(t, s.Register(name, SchemaItemDefinition{}), ErrSchemaItemExists, name)
	}
}

func TestSchemaRegisterEmptyName(t *testing.T) {
	assert.ErrorIs(t, NewSchema().Register("", SchemaItemDefinition{}), ErrInvalidSchemaItem)
}

func TestSchemaPlacement(t *testing.T) {
	s := newImageSchema(t)

	tests := []struct {
		parent, child string
		want          bool
	}{
		{RootName, "paragraph", true},
		{RootName, "imageBlock", true},
		{RootName, "imageInline", false},
		{RootName, TextName, false},
		{"paragraph", TextName, true},
		{"paragraph", "imageInline", true},
		{"paragraph", "imageBlock", false},
		{"paragraph", "paragraph", false},
		{DocumentFragmentName, "paragraph", true},
		{"imageInline", TextName, false},
		{"unknown", "paragraph", false},
	}

	for _, tt := range tests {
		t.Run(tt.parent+">"+tt.child, func(t *testing.T) {
			assert.Equal(t, tt.want, s.CheckChild(tt.parent, tt.child))
		})
	}
}

func TestSchemaFlags(t *testing.T) {
	s := newImageSchema(t)

	assert.True(t, s.IsObject("imageInline"))
	assert.True(t, s.IsInline("imageInline"))
	assert.False(t, s.IsBlock("imageInline"))
	assert.True(t, s.IsBlock("imageBlock"))
	assert.True(t, s.IsObject("imageBlock"))
	assert.True(t, s.IsBlock("paragraph"))
	assert.True(t, s.IsLimit(RootName))
	assert.True(t, s.IsLimit("imageInline"))
	assert.False(t, s.IsObject("missing"))
}

func TestSchemaAttributes(t *testing.T) {
	s := newImageSchema(t)

	assert.True(t, s.CheckAttribute("imageInline", "src"))
	assert.True(t, s.CheckAttribute("imageInline", "alt"))
	assert.False(t, s.CheckAttribute("imageInline", "href"))
	assert.False(t, s.CheckAttribute("paragraph", "src"))
}

func TestSchemaExtend(t *testing.T) {
	s := newImageSchema(t)

	require.NoError(t, s.Extend("imageInline", SchemaItemDefinition{AllowAttributes: []string{"ckboxImageId"}}))
	assert.True(t, s.CheckAttribute("imageInline", "ckboxImageId"))
	assert.True(t, s.CheckAttribute("imageInline", "src"))

	err := s.Extend("video", SchemaItemDefinition{})
	assert.ErrorIs(t, err, ErrSchemaItemNotFound)
}

func TestSchemaAllowChildren(t *testing.T) {
	s := NewSchema()
	require.NoError(t, s.Register("caption", SchemaItemDefinition{}))
	require.NoError(t, s.Register("figure", SchemaItemDefinition{
		AllowWhere:    []string{BlockName},
		AllowChildren: []string{"caption"},
	}))

	assert.True(t, s.CheckChild("figure", "caption"))
	assert.True(t, s.CheckChild(RootName, "figure"))
	assert.False(t, s.CheckChild(RootName, "caption"))
}

func TestSchemaItem(t *testing.T) {
	s := newImageSchema(t)

	item, ok := s.Item("imageInline")
	require.True(t, ok)
	assert.Equal(t, []string{"alt", "src", "srcset"}, item.Attributes)
	assert.Contains(t, item.AllowIn, "paragraph")
	assert.True(t, item.IsObject)

	_, ok = s.Item("nope")
	assert.False(t, ok)
	assert.Contains(t, s.Names(), "imageBlock")
	assert.True(t, s.IsRegistered("paragraph"))
}

func TestSchemaFindAllowedParent(t *testing.T) {
	s := newImageSchema(t)
	root := NewElement(RootName, nil)
	root.doc = &Document{}
	p := NewElement("paragraph", nil, NewText("ab", nil))
	root.appendChild(p)

	pos, ok := s.FindAllowedParent(PositionAt(p, 1), "imageBlock")
	require.True(t, ok)
	assert.Equal(t, root, pos.Parent)
	assert.Equal(t, 1, pos.Offset)

	pos, ok = s.FindAllowedParent(PositionAt(p, 0), "imageInline")
	require.True(t, ok)
	assert.Equal(t, p, pos.Parent)

	_, ok = s.FindAllowedParent(PositionAt(root, 0), "imageInline")
	assert.False(t, ok)
}

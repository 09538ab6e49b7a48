package image

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dshills/richedit/internal/command"
	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
)

// Command names.
const (
	InsertCommandName = "imageInsert"
	ToggleCommandName = "imageTypeToggle"
)

// ErrNoSource is returned by imageInsert when no image source was given.
var ErrNoSource = errors.New("no image source")

// InsertOptions are the arguments of imageInsert.
type InsertOptions struct {
	// Source lists the image URLs. One image is inserted per entry.
	Source []string

	// Attributes are set on every inserted image where the schema allows
	// them.
	Attributes map[string]any
}

// ParseInsertOptions reads imageInsert arguments: InsertOptions, a single
// source string, a []string or a map with "source" and "attributes" keys.
func ParseInsertOptions(args []any) (InsertOptions, error) {
	if len(args) == 0 {
		return InsertOptions{}, ErrNoSource
	}
	var opts InsertOptions
	switch a := args[0].(type) {
	case InsertOptions:
		opts = a
	case *InsertOptions:
		if a != nil {
			opts = *a
		}
	case string:
		opts.Source = []string{a}
	case []string:
		opts.Source = a
	case map[string]any:
		opts.Source = stringList(a["source"])
		opts.Attributes, _ = a["attributes"].(map[string]any)
	default:
		return InsertOptions{}, fmt.Errorf("unsupported argument %T", args[0])
	}
	if len(opts.Source) == 0 {
		return InsertOptions{}, ErrNoSource
	}
	return opts, nil
}

func stringList(v any) []string {
	switch s := v.(type) {
	case string:
		return []string{s}
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// InsertCommand inserts images at the selection. The image type follows
// the configured insert type; in auto mode images go inline when the
// selection is in non-empty text and as blocks otherwise.
type InsertCommand struct {
	command.Base
	model      *model.Model
	insertType string
}

// NewInsertCommand creates the imageInsert command.
func NewInsertCommand(m *model.Model, insertType string) *InsertCommand {
	return &InsertCommand{model: m, insertType: insertType}
}

// Refresh enables the command when an image fits at the selection.
func (c *InsertCommand) Refresh() {
	sel := c.model.Document().Selection()
	pos := sel.Focus()
	if !pos.IsValid() {
		c.SetEnabled(false)
		return
	}
	name := determineInsertType(c.model.Schema, sel, c.insertType)
	if !c.model.Schema.IsRegistered(name) {
		c.SetEnabled(false)
		return
	}
	if el := sel.SelectedElement(); el != nil {
		pos = model.PositionAfter(el)
	}
	_, ok := c.model.Schema.FindAllowedParent(pos, name)
	c.SetEnabled(ok)
}

// Execute implements command.Command. It returns the inserted images.
func (c *InsertCommand) Execute(args ...any) (any, error) {
	opts, err := ParseInsertOptions(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", InsertCommandName, err)
	}

	var inserted []*model.Element
	err = c.model.Change(func(w *model.Writer) error {
		for _, src := range opts.Source {
			el, err := c.insert(w, src, opts.Attributes)
			if err != nil {
				return err
			}
			inserted = append(inserted, el)
		}
		return nil
	})
	if err != nil {
		return inserted, fmt.Errorf("%s: %w", InsertCommandName, err)
	}
	return inserted, nil
}

func (c *InsertCommand) insert(w *model.Writer, src string, attrs map[string]any) (*model.Element, error) {
	schema := c.model.Schema
	sel := c.model.Document().Selection()
	name := determineInsertType(schema, sel, c.insertType)

	values := map[string]any{"src": src}
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		if key != "src" && schema.CheckAttribute(name, key) {
			values[key] = attrs[key]
		}
	}
	el := w.CreateElement(name, values)

	pos, err := c.position(w, sel, name)
	if err != nil {
		return nil, err
	}
	if err := c.model.InsertObject(w, el, pos); err != nil {
		return nil, err
	}
	return el, nil
}

// position returns where the next image goes: after the selected element,
// in place of an empty block for block images, or at the focus.
func (c *InsertCommand) position(w *model.Writer, sel *model.Selection, name string) (model.Position, error) {
	if el := sel.SelectedElement(); el != nil {
		return model.PositionAfter(el), nil
	}
	pos := sel.Focus()
	if !pos.IsValid() {
		return pos, model.ErrNotAllowed
	}
	block := pos.Parent
	if name == BlockModelName && !block.IsRoot() && block.IsEmpty() && c.model.Schema.IsBlock(block.Name()) {
		at := model.PositionBefore(block)
		if err := w.Remove(block); err != nil {
			return pos, err
		}
		return at, nil
	}
	return pos, nil
}

// TypeToggleCommand converts the selected image between inline and block.
// Its value is the model name of the selected image.
type TypeToggleCommand struct {
	command.Base
	model *model.Model
}

// NewTypeToggleCommand creates the imageTypeToggle command.
func NewTypeToggleCommand(m *model.Model) *TypeToggleCommand {
	return &TypeToggleCommand{model: m}
}

// Refresh implements command.Command.
func (c *TypeToggleCommand) Refresh() {
	img := SelectedImage(c.model.Document().Selection())
	if img == nil {
		c.SetValue(nil)
		c.SetEnabled(false)
		return
	}
	c.SetValue(img.Name())
	c.SetEnabled(c.model.Schema.IsRegistered(toggledName(img.Name())))
}

// Execute implements command.Command. It returns the new image element.
func (c *TypeToggleCommand) Execute(...any) (any, error) {
	img := SelectedImage(c.model.Document().Selection())
	if img == nil {
		return nil, fmt.Errorf("%s: no image selected: %w", ToggleCommandName, model.ErrNotAllowed)
	}
	target := toggledName(img.Name())
	schema := c.model.Schema
	if !schema.IsRegistered(target) {
		return nil, fmt.Errorf("%s: %s: %w", ToggleCommandName, target, model.ErrSchemaItemNotFound)
	}

	var out *model.Element
	err := c.model.Change(func(w *model.Writer) error {
		attrs := make(map[string]any)
		for key, value := range img.Attributes() {
			if schema.CheckAttribute(target, key) {
				attrs[key] = value
			}
		}
		out = w.CreateElement(target, attrs)

		pos := model.PositionBefore(img)
		if err := w.Remove(img); err != nil {
			return err
		}
		if target == InlineModelName && !schema.CheckChild(pos.Parent.Name(), target) {
			// Inline images need a text block around them.
			para := w.CreateElement(conversion.AutoParagraphName, nil)
			if err := w.Insert(para, pos); err != nil {
				return err
			}
			pos = model.PositionAt(para, 0)
		}
		return c.model.InsertObject(w, out, pos)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ToggleCommandName, err)
	}
	return out, nil
}

func toggledName(name string) string {
	if name == BlockModelName {
		return InlineModelName
	}
	return BlockModelName
}

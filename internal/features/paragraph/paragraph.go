// Package paragraph provides the paragraph block, its <p> converters and
// the insertParagraph command.
package paragraph

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/richedit/internal/command"
	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/plugin"
)

// Names registered by the plugin.
const (
	PluginName             = "Paragraph"
	ModelName              = conversion.AutoParagraphName
	InsertParagraphCommand = "insertParagraph"
)

// LikeElements are block elements upcast to paragraphs when no other
// converter claims them.
var LikeElements = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"blockquote", "dd", "dt", "li", "td", "th", "div",
}

// Paragraph registers the paragraph schema item and converters.
type Paragraph struct{}

// New creates the plugin.
func New() plugin.Plugin { return &Paragraph{} }

// PluginName implements plugin.Plugin.
func (*Paragraph) PluginName() string { return PluginName }

// Init implements plugin.Plugin.
func (*Paragraph) Init(host plugin.Host) error {
	m := host.Model()
	if err := m.Schema.Register(ModelName, model.SchemaItemDefinition{InheritAllFrom: model.BlockName}); err != nil {
		return err
	}

	conv := host.Conversion()
	if err := conv.For(conversion.GroupDowncast).
		ElementToElement(conversion.ElementToElementConfig{Model: ModelName, View: "p"}).
		Err(); err != nil {
		return err
	}
	if err := conv.For(conversion.GroupUpcast).
		ElementToElement(conversion.ElementToElementConfig{Model: ModelName, View: "p"}).
		ElementToElement(conversion.ElementToElementConfig{
			Model: ModelName,
			ViewPattern: &view.Pattern{
				NameRegexp: likeElementName,
				Func:       func(el *view.Element) bool { return !hasBlockChild(el) },
			},
			Priority: "low",
		}).
		Err(); err != nil {
		return err
	}

	return host.Commands().Add(InsertParagraphCommand, NewInsertCommand(m))
}

var likeElementName = regexp.MustCompile("^(" + strings.Join(LikeElements, "|") + ")$")

// hasBlockChild keeps containers such as <div><p>..</p></div> transparent.
func hasBlockChild(el *view.Element) bool {
	for _, child := range el.Children() {
		c, ok := child.(*view.Element)
		if ok && (c.Name() == "p" || c.Name() == "figure" || likeElementName.MatchString(c.Name())) {
			return true
		}
	}
	return false
}

// InsertCommand inserts an empty paragraph. Called without arguments it
// inserts after the selected block; a model.Position argument inserts there,
// splitting ancestors as the schema requires.
type InsertCommand struct {
	command.Base
	model *model.Model
}

// NewInsertCommand creates the insertParagraph command.
func NewInsertCommand(m *model.Model) *InsertCommand {
	return &InsertCommand{model: m}
}

// Refresh enables the command when a paragraph fits at the selection.
func (c *InsertCommand) Refresh() {
	pos, ok := c.target(nil)
	if ok {
		_, ok = c.model.Schema.FindAllowedParent(pos, ModelName)
	}
	c.SetEnabled(ok)
}

// Execute implements command.Command. It returns the new paragraph.
func (c *InsertCommand) Execute(args ...any) (any, error) {
	var at *model.Position
	if len(args) > 0 {
		pos, ok := args[0].(model.Position)
		if !ok {
			return nil, fmt.Errorf("%s: position argument has type %T", InsertParagraphCommand, args[0])
		}
		at = &pos
	}
	pos, ok := c.target(at)
	if !ok {
		return nil, fmt.Errorf("%s: %w", InsertParagraphCommand, model.ErrNotAllowed)
	}

	var para *model.Element
	err := c.model.Change(func(w *model.Writer) error {
		para = w.CreateElement(ModelName, nil)
		if err := c.model.InsertObject(w, para, pos); err != nil {
			return err
		}
		w.SetSelectionAt(model.PositionAt(para, 0))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", InsertParagraphCommand, err)
	}
	return para, nil
}

func (c *InsertCommand) target(at *model.Position) (model.Position, bool) {
	if at != nil {
		return *at, at.IsValid()
	}
	sel := c.model.Document().Selection()
	if el := sel.SelectedElement(); el != nil {
		return model.PositionAfter(el), true
	}
	pos := sel.Focus()
	if !pos.IsValid() {
		return model.Position{}, false
	}
	for p := pos.Parent; p != nil && !p.IsRoot(); p = p.Parent() {
		if c.model.Schema.IsBlock(p.Name()) {
			return model.PositionAfter(p), true
		}
	}
	return pos, true
}

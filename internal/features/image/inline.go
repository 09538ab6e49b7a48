package image

import (
	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/plugin"
)

// Inline adds the imageInline model element.
type Inline struct{}

// NewInline creates the plugin.
func NewInline() plugin.Plugin { return &Inline{} }

// PluginName implements plugin.Plugin.
func (*Inline) PluginName() string { return InlinePluginName }

// Requires implements plugin.Requirer.
func (*Inline) Requires() []string { return []string{EditingPluginName} }

// Init implements plugin.Plugin.
func (*Inline) Init(host plugin.Host) error {
	schema := host.Model().Schema
	if err := schema.Register(InlineModelName, model.SchemaItemDefinition{
		IsObject:        true,
		IsInline:        true,
		AllowWhere:      []string{model.TextName},
		AllowAttributes: Attributes(),
	}); err != nil {
		return err
	}

	conv := host.Conversion()
	if err := conv.For(conversion.GroupDataDowncast).
		ElementToElement(conversion.ElementToElementConfig{
			Model:      InlineModelName,
			CreateView: createDataView(InlineModelName),
		}).Err(); err != nil {
		return err
	}
	if err := conv.For(conversion.GroupEditingDowncast).
		ElementToElement(conversion.ElementToElementConfig{
			Model:      InlineModelName,
			CreateView: createEditingView(host.Locale(), InlineModelName),
		}).Err(); err != nil {
		return err
	}
	if err := registerDowncastAttributes(conv, InlineModelName); err != nil {
		return err
	}

	// An <img> inside figure.image belongs to ImageBlock when it is loaded.
	return conv.For(conversion.GroupUpcast).
		ElementToElement(upcastImage(InlineModelName, func(img *view.Element) bool {
			return !inImageFigure(img) || !schema.IsRegistered(BlockModelName)
		})).
		Err()
}

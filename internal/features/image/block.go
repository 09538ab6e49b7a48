package image

import (
	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/plugin"
)

// Block adds the imageBlock model element.
type Block struct{}

// NewBlock creates the plugin.
func NewBlock() plugin.Plugin { return &Block{} }

// PluginName implements plugin.Plugin.
func (*Block) PluginName() string { return BlockPluginName }

// Requires implements plugin.Requirer.
func (*Block) Requires() []string { return []string{EditingPluginName} }

// Init implements plugin.Plugin.
func (*Block) Init(host plugin.Host) error {
	schema := host.Model().Schema
	if err := schema.Register(BlockModelName, model.SchemaItemDefinition{
		IsObject:        true,
		IsBlock:         true,
		AllowWhere:      []string{model.BlockName},
		AllowAttributes: Attributes(),
	}); err != nil {
		return err
	}

	conv := host.Conversion()
	if err := conv.For(conversion.GroupDataDowncast).
		ElementToElement(conversion.ElementToElementConfig{
			Model:      BlockModelName,
			CreateView: createDataView(BlockModelName),
		}).Err(); err != nil {
		return err
	}
	if err := conv.For(conversion.GroupEditingDowncast).
		ElementToElement(conversion.ElementToElementConfig{
			Model:      BlockModelName,
			CreateView: createEditingView(host.Locale(), BlockModelName),
		}).Err(); err != nil {
		return err
	}
	if err := registerDowncastAttributes(conv, BlockModelName); err != nil {
		return err
	}

	return conv.For(conversion.GroupUpcast).
		Add(func(d conversion.Dispatcher) {
			d.On("element.figure", upcastFigure)
		}).
		ElementToElement(upcastImage(BlockModelName, func(img *view.Element) bool {
			return inImageFigure(img) || !schema.IsRegistered(InlineModelName)
		})).
		Err()
}

package editor

import (
	"github.com/dshills/richedit/internal/features/ckbox"
	"github.com/dshills/richedit/internal/features/cloudservices"
	"github.com/dshills/richedit/internal/features/image"
	"github.com/dshills/richedit/internal/features/paragraph"
	"github.com/dshills/richedit/internal/plugin"
)

// DefaultRegistry returns a registry with the built-in feature plugins.
func DefaultRegistry() *plugin.Registry {
	r := plugin.NewRegistry()
	r.MustRegister(paragraph.PluginName, paragraph.New)
	r.MustRegister(image.EditingPluginName, image.NewEditing)
	r.MustRegister(image.InlinePluginName, image.NewInline)
	r.MustRegister(image.BlockPluginName, image.NewBlock)
	r.MustRegister(cloudservices.PluginName, cloudservices.New)
	r.MustRegister(ckbox.PluginName, ckbox.New)
	return r
}

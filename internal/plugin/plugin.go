package plugin

import (
	"github.com/sirupsen/logrus"

	"github.com/dshills/richedit/internal/command"
	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/locale"
	"github.com/dshills/richedit/internal/ui"
)

// Plugin is an editor feature.
type Plugin interface {
	// PluginName returns the unique plugin name.
	PluginName() string

	// Init registers the plugin's schema, converters, commands and
	// components.
	Init(host Host) error
}

// Requirer is implemented by plugins that depend on other plugins.
type Requirer interface {
	// Requires returns the names of plugins that must be initialized first.
	Requires() []string
}

// AfterIniter is implemented by plugins that need every plugin initialized
// before they finish setting up, e.g. to check whether an optional plugin
// is loaded.
type AfterIniter interface {
	AfterInit(host Host) error
}

// Destroyer is implemented by plugins that hold resources.
type Destroyer interface {
	Destroy() error
}

// Host is the editor as seen by plugins.
type Host interface {
	// ID returns the editor instance ID.
	ID() string

	// Model returns the document model and its schema.
	Model() *model.Model

	// Conversion returns the converter registry.
	Conversion() *conversion.Conversion

	// Commands returns the command collection.
	Commands() *command.Collection

	// EditingView returns the editing view.
	EditingView() *view.View

	// Plugins returns the plugin collection.
	Plugins() *Collection

	// Components returns the UI component factory.
	Components() *ui.ComponentFactory

	// Config returns the editor configuration.
	Config() *config.Config

	// Locale returns the editor locale.
	Locale() *locale.Locale

	// Logger returns a logger scoped to the editor.
	Logger() *logrus.Entry
}

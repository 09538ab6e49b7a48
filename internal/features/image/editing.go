package image

import (
	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/plugin"
	"github.com/dshills/richedit/internal/ui"
)

// Plugin names.
const (
	EditingPluginName = "ImageEditing"
	InlinePluginName  = "ImageInline"
	BlockPluginName   = "ImageBlock"
)

// Component names.
const (
	InsertComponentName = "insertImage"
	ToggleComponentName = "toggleImageType"
)

// Editing is the base image plugin. It adds the load observer, the shared
// upcast converters, the image commands and components. ImageInline and
// ImageBlock require it.
type Editing struct {
	toolbar *ui.Toolbar
}

// NewEditing creates the plugin.
func NewEditing() plugin.Plugin { return &Editing{} }

// PluginName implements plugin.Plugin.
func (*Editing) PluginName() string { return EditingPluginName }

// Init implements plugin.Plugin.
func (*Editing) Init(host plugin.Host) error {
	m := host.Model()
	host.EditingView().AddObserver(NewLoadObserver)

	if err := registerUpcastAttributes(host.Conversion()); err != nil {
		return err
	}

	insertType := config.InsertAuto
	if cfg := host.Config(); cfg != nil {
		insertType = cfg.Image.InsertType
	}
	cmds := host.Commands()
	if err := cmds.Add(InsertCommandName, NewInsertCommand(m, insertType)); err != nil {
		return err
	}
	if err := cmds.Add(ToggleCommandName, NewTypeToggleCommand(m)); err != nil {
		return err
	}

	t := host.Locale()
	components := host.Components()
	if err := components.Add(InsertComponentName, func() ui.Component {
		return &ui.Button{
			Name:    InsertComponentName,
			Label:   t.T("Insert image"),
			Command: InsertCommandName,
			Icon:    "image",
			Tooltip: true,
		}
	}); err != nil {
		return err
	}
	return components.Add(ToggleComponentName, func() ui.Component {
		return &ui.Button{
			Name:    ToggleComponentName,
			Label:   t.T("Change image type"),
			Command: ToggleCommandName,
			Icon:    "image-type",
			Tooltip: true,
			OnExecute: func() error {
				_, err := cmds.Execute(ToggleCommandName)
				return err
			},
		}
	})
}

// AfterInit builds the image toolbar once every plugin registered its
// components.
func (e *Editing) AfterInit(host plugin.Host) error {
	var items []string
	if cfg := host.Config(); cfg != nil {
		items = cfg.Image.Toolbar
	}
	e.toolbar = ui.BuildToolbar(host.Components(), items, host.Logger().WithField("toolbar", "image"))
	return nil
}

// Toolbar returns the image toolbar. It is nil before AfterInit.
func (e *Editing) Toolbar() *ui.Toolbar { return e.toolbar }

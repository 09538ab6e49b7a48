// Package ckbox integrates the CKBox file manager: it inserts chosen assets
// as images and keeps their asset ids in the ckboxImageId attribute.
package ckbox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/dshills/richedit/internal/command"
	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/features/cloudservices"
	"github.com/dshills/richedit/internal/features/image"
	"github.com/dshills/richedit/internal/plugin"
	"github.com/dshills/richedit/internal/ui"
)

// Names registered by the plugin.
const (
	PluginName     = "CKBox"
	CommandName    = "ckbox"
	ComponentName  = "ckbox"
	ModelAttribute = "ckboxImageId"
	ViewAttribute  = "data-ckbox-resource-id"
)

// ErrNoAssets is returned when the ckbox command is executed without assets.
var ErrNoAssets = errors.New("no assets chosen")

// CKBox is the file manager plugin.
type CKBox struct {
	origin *url.URL
}

// New creates the plugin.
func New() plugin.Plugin { return &CKBox{} }

// PluginName implements plugin.Plugin.
func (*CKBox) PluginName() string { return PluginName }

// Requires implements plugin.Requirer.
func (*CKBox) Requires() []string {
	return []string{image.EditingPluginName, cloudservices.PluginName}
}

// Init implements plugin.Plugin.
func (c *CKBox) Init(host plugin.Host) error {
	if cfg := host.Config(); cfg != nil && cfg.CKBox.ServiceOrigin != "" {
		origin, err := url.Parse(cfg.CKBox.ServiceOrigin)
		if err != nil {
			return fmt.Errorf("ckbox service origin: %w", err)
		}
		c.origin = origin
	}

	conv := host.Conversion()
	if err := conv.For(conversion.GroupDowncast).
		AttributeToAttribute(conversion.AttributeToAttributeConfig{
			Key:     ModelAttribute,
			ViewKey: ViewAttribute,
			Target:  image.ViewImage,
		}).Err(); err != nil {
		return err
	}
	if err := conv.For(conversion.GroupUpcast).
		AttributeToAttribute(conversion.AttributeToAttributeConfig{
			View:    "img",
			Key:     ModelAttribute,
			ViewKey: ViewAttribute,
		}).Err(); err != nil {
		return err
	}

	services := findCloudServices(host)
	cmd := &Command{
		model:    host.Model(),
		commands: host.Commands(),
		services: services,
		origin:   c.origin,
	}
	if err := host.Commands().Add(CommandName, cmd); err != nil {
		return err
	}

	t := host.Locale()
	return host.Components().Add(ComponentName, func() ui.Component {
		return &ui.Button{
			Name:    ComponentName,
			Label:   t.T("Open file manager"),
			Command: CommandName,
			Icon:    "browse-files",
			Tooltip: true,
			OnExecute: func() error {
				// Opening the dialog belongs to the host UI; without assets
				// there is nothing to insert.
				return fmt.Errorf("%s: %w", CommandName, ErrNoAssets)
			},
		}
	})
}

// AfterInit extends the image elements loaded by other plugins.
func (*CKBox) AfterInit(host plugin.Host) error {
	schema := host.Model().Schema
	for _, name := range []string{image.InlineModelName, image.BlockModelName} {
		if !schema.IsRegistered(name) {
			continue
		}
		if err := schema.Extend(name, model.SchemaItemDefinition{AllowAttributes: []string{ModelAttribute}}); err != nil {
			return err
		}
	}
	return nil
}

func findCloudServices(host plugin.Host) *cloudservices.CloudServices {
	p, ok := host.Plugins().Get(cloudservices.PluginName)
	if !ok {
		return nil
	}
	cs, _ := p.(*cloudservices.CloudServices)
	return cs
}

// Asset is a file chosen in the file manager.
type Asset struct {
	ID  string
	URL string
	Alt string
}

// ParseAssets reads ckbox command arguments: Assets, []Asset or a list of
// maps with "id", "url" and "alt" keys.
func ParseAssets(args []any) ([]Asset, error) {
	var assets []Asset
	for _, arg := range args {
		switch a := arg.(type) {
		case Asset:
			assets = append(assets, a)
		case []Asset:
			assets = append(assets, a...)
		case map[string]any:
			assets = append(assets, assetFromMap(a))
		case []any:
			for _, item := range a {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("unsupported asset %T", item)
				}
				assets = append(assets, assetFromMap(m))
			}
		default:
			return nil, fmt.Errorf("unsupported argument %T", arg)
		}
	}
	assets = slices.DeleteFunc(assets, func(a Asset) bool { return a.URL == "" })
	if len(assets) == 0 {
		return nil, ErrNoAssets
	}
	return assets, nil
}

func assetFromMap(m map[string]any) Asset {
	var a Asset
	a.ID, _ = m["id"].(string)
	a.URL, _ = m["url"].(string)
	a.Alt, _ = m["alt"].(string)
	return a
}

// Command inserts chosen assets as images. It is disabled when no token
// URL is configured or when no image can be inserted at the selection, and
// fails when no token can be fetched.
type Command struct {
	command.Base
	model    *model.Model
	commands *command.Collection
	services *cloudservices.CloudServices
	origin   *url.URL
}

// Refresh implements command.Command.
func (c *Command) Refresh() {
	if c.services == nil || c.services.TokenURL() == "" {
		c.SetEnabled(false)
		return
	}
	insert, ok := c.commands.Get(image.InsertCommandName)
	if !ok {
		c.SetEnabled(false)
		return
	}
	insert.Refresh()
	c.SetEnabled(insert.IsEnabled())
}

// Execute implements command.Command. It returns the inserted images.
func (c *Command) Execute(args ...any) (any, error) {
	return c.ExecuteContext(context.Background(), args...)
}

// ExecuteContext implements command.ContextCommand. The file manager works
// on behalf of a cloud services token, so a token is fetched before any
// asset is inserted.
func (c *Command) ExecuteContext(ctx context.Context, args ...any) (any, error) {
	assets, err := ParseAssets(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CommandName, err)
	}
	if c.services == nil {
		return nil, fmt.Errorf("%s: %w", CommandName, cloudservices.ErrNoToken)
	}
	if _, err := c.services.EnsureToken(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", CommandName, err)
	}

	var images []*model.Element
	err = c.model.Change(func(w *model.Writer) error {
		for _, asset := range assets {
			opts := image.InsertOptions{Source: []string{c.resolve(asset.URL)}}
			if asset.Alt != "" {
				opts.Attributes = map[string]any{"alt": asset.Alt}
			}
			res, err := c.commands.ExecuteContext(ctx, image.InsertCommandName, opts)
			if err != nil {
				return err
			}
			inserted, _ := res.([]*model.Element)
			for _, el := range inserted {
				if asset.ID == "" || !c.model.Schema.CheckAttribute(el.Name(), ModelAttribute) {
					continue
				}
				if err := w.SetAttribute(ModelAttribute, asset.ID, el); err != nil {
					return err
				}
			}
			images = append(images, inserted...)
		}
		return nil
	})
	if err != nil {
		return images, fmt.Errorf("%s: %w", CommandName, err)
	}
	return images, nil
}

// resolve makes asset URLs relative to the service origin absolute.
func (c *Command) resolve(raw string) string {
	if c.origin == nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil || ref.IsAbs() {
		return raw
	}
	return c.origin.ResolveReference(ref).String()
}

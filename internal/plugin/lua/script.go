package lua

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/richedit/internal/plugin"
)

// ModuleName is the name scripts require to reach the editor.
const ModuleName = "richedit"

// ScriptPlugin is a plugin implemented by a Lua script.
type ScriptPlugin struct {
	manifest *Manifest
	timeout  time.Duration

	state *State
	api   *api
	log   *logrus.Entry
}

// ScriptOption configures a ScriptPlugin.
type ScriptOption func(*ScriptPlugin)

// WithTimeout sets the execution timeout of every call into the script.
func WithTimeout(d time.Duration) ScriptOption {
	return func(p *ScriptPlugin) {
		p.timeout = d
	}
}

// NewScriptPlugin creates a plugin that runs the manifest's entry point
// when initialized.
func NewScriptPlugin(m *Manifest, opts ...ScriptOption) *ScriptPlugin {
	p := &ScriptPlugin{manifest: m, timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PluginName implements plugin.Plugin.
func (p *ScriptPlugin) PluginName() string { return p.manifest.Name }

// Requires implements plugin.Requirer.
func (p *ScriptPlugin) Requires() []string { return p.manifest.Requires }

// Manifest returns the plugin manifest.
func (p *ScriptPlugin) Manifest() *Manifest { return p.manifest }

// Init implements plugin.Plugin. It runs the script with the richedit
// module available.
func (p *ScriptPlugin) Init(host plugin.Host) error {
	p.log = host.Logger().WithFields(logrus.Fields{
		"plugin": p.manifest.Name,
		"script": p.manifest.MainPath(),
	})
	p.state = NewState(
		WithExecutionTimeout(p.timeout),
		WithPrint(func(msg string) { p.log.Info(msg) }),
	)
	p.api = newAPI(host, p.state, p.log)
	p.state.Provide(ModuleName, p.api.module())

	if err := p.state.DoFile(p.manifest.MainPath()); err != nil {
		_ = p.state.Close()
		if p.api.err != nil {
			return fmt.Errorf("run %s: %w (%v)", p.manifest.Main, p.api.err, err)
		}
		return fmt.Errorf("run %s: %w", p.manifest.Main, err)
	}
	p.log.Debug("script plugin initialized")
	return nil
}

// Destroy implements plugin.Destroyer.
func (p *ScriptPlugin) Destroy() error {
	if p.state == nil {
		return nil
	}
	return p.state.Close()
}

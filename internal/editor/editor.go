// Package editor assembles the model, the data and editing pipelines, the
// command collection, the UI component factory and the plugins into an
// editor instance.
//
// Create builds an editor synchronously; CreateAsync runs the same steps on
// a goroutine and delivers exactly one CreateResult. Editors are not safe
// for concurrent use once created.
package editor

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dshills/richedit/internal/command"
	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/engine/controller"
	"github.com/dshills/richedit/internal/engine/conversion"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/view"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/locale"
	"github.com/dshills/richedit/internal/plugin"
	"github.com/dshills/richedit/internal/plugin/lua"
	"github.com/dshills/richedit/internal/ui"
)

// Editor events.
const (
	EventReady   = "ready"
	EventDestroy = "destroy"
)

// State is the editor lifecycle state.
type State int

const (
	StateInitializing State = iota
	StateReady
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Editor is a headless rich-text editor. It implements plugin.Host.
type Editor struct {
	*event.Emitter

	id         string
	cfg        *config.Config
	log        *logrus.Entry
	model      *model.Model
	data       *controller.DataController
	editing    *controller.EditingController
	conversion *conversion.Conversion
	commands   *command.Collection
	components *ui.ComponentFactory
	plugins    *plugin.Collection
	locale     *locale.Locale
	toolbar    *ui.Toolbar
	metrics    Metrics

	mu    sync.Mutex
	state State
	subs  []event.Subscription
}

// Create builds an editor from cfg. A nil cfg uses config.Default. Plugin
// failures abort creation; plugins initialized so far are destroyed.
// Errors carry the stack trace of the failing step.
func Create(ctx context.Context, cfg *config.Config, opts ...Option) (*Editor, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.logger = logrus.NewEntry(l)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}

	policy, err := conversion.ParsePolicy(cfg.Conversion.UpcastPolicy)
	if err != nil {
		return nil, errors.Wrap(err, "create editor")
	}
	loc, err := locale.New(cfg.Language)
	if err != nil {
		return nil, errors.Wrap(err, "create editor")
	}

	id := uuid.NewString()
	e := &Editor{
		Emitter:    event.NewEmitter(),
		id:         id,
		cfg:        cfg,
		log:        o.logger.WithField("editor", id),
		model:      model.New(),
		commands:   command.NewCollection(),
		components: ui.NewComponentFactory(),
		locale:     loc,
		metrics:    o.metrics,
	}
	e.data = controller.NewDataController(e.model, policy)
	if cfg.Conversion.Sanitize {
		e.data.EnableSanitizer()
	}
	e.editing = controller.NewEditingController(e.model, e.log.WithField("component", "editing"))
	e.conversion = conversion.New(e.data.Downcast, e.editing.Downcast, e.data.Upcast)
	if e.metrics != nil {
		e.commands.SetObserver(e.metrics.ObserveCommand)
	}
	e.plugins = plugin.NewCollection(e, o.registry)

	instances := append([]plugin.Plugin(nil), o.plugins...)
	scripts, err := e.discoverScripts()
	if err != nil {
		e.teardown()
		return nil, errors.Wrap(err, "create editor")
	}
	instances = append(instances, scripts...)

	if err := e.plugins.Load(ctx, cfg.Plugins, instances...); err != nil {
		e.teardown()
		return nil, errors.Wrap(err, "create editor")
	}

	e.toolbar = ui.BuildToolbar(e.components, cfg.Toolbar.Items, e.log.WithField("toolbar", "main"))
	e.refresh()
	refresh := func(*event.Info, any) { e.refresh() }
	doc := e.model.Document()
	e.subs = append(e.subs,
		doc.On("change", refresh, event.WithPriority(event.PriorityLowest)),
		doc.On("selection", refresh, event.WithPriority(event.PriorityLowest)),
	)

	if o.hasData {
		if err := e.SetData(o.data); err != nil {
			e.teardown()
			return nil, errors.Wrap(err, "create editor: initial data")
		}
	}

	e.mu.Lock()
	e.state = StateReady
	e.mu.Unlock()

	e.log.WithField("plugins", e.plugins.Names()).Debug("editor ready")
	e.Fire(EventReady, e)
	return e, nil
}

// CreateResult is the outcome of CreateAsync.
type CreateResult struct {
	Editor *Editor
	Err    error
}

// CreateAsync runs Create on a goroutine. The returned channel receives
// exactly one result and is then closed.
func CreateAsync(ctx context.Context, cfg *config.Config, opts ...Option) <-chan CreateResult {
	ch := make(chan CreateResult, 1)
	go func() {
		defer close(ch)
		ed, err := Create(ctx, cfg, opts...)
		ch <- CreateResult{Editor: ed, Err: err}
	}()
	return ch
}

func (e *Editor) discoverScripts() ([]plugin.Plugin, error) {
	if len(e.cfg.Scripts.Paths) == 0 {
		return nil, nil
	}
	manifests, err := lua.NewLoader(e.cfg.Scripts.Paths...).Discover()
	if err != nil {
		return nil, fmt.Errorf("discover scripts: %w", err)
	}
	out := make([]plugin.Plugin, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, lua.NewScriptPlugin(m, lua.WithTimeout(e.cfg.Scripts.Timeout())))
	}
	return out, nil
}

func (e *Editor) refresh() {
	e.commands.RefreshAll()
	if e.toolbar != nil {
		e.toolbar.Refresh(e.commands)
	}
}

// State returns the lifecycle state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) checkReady() error {
	if e.State() == StateDestroyed {
		return ErrEditorDestroyed
	}
	return nil
}

// Destroy fires "destroy", destroys plugins in reverse init order, the
// commands and the editing view. Calling it again is a no-op.
func (e *Editor) Destroy() error {
	e.mu.Lock()
	if e.state == StateDestroyed {
		e.mu.Unlock()
		return nil
	}
	e.state = StateDestroyed
	e.mu.Unlock()

	e.Fire(EventDestroy, e)
	err := e.teardown()
	e.StopListening()
	if err != nil {
		return fmt.Errorf("destroy editor: %w", err)
	}
	e.log.Debug("editor destroyed")
	return nil
}

func (e *Editor) teardown() error {
	for _, sub := range e.subs {
		sub.Off()
	}
	e.subs = nil
	err := e.plugins.Destroy()
	e.commands.Destroy()
	e.editing.Destroy()
	return err
}

// GetData returns the main root as HTML.
func (e *Editor) GetData() (string, error) {
	if err := e.checkReady(); err != nil {
		return "", err
	}
	start := time.Now()
	out, err := e.data.Get(model.MainRootName)
	e.observeConversion("get", start, err)
	return out, err
}

// SetData replaces the main root with the upcast HTML.
func (e *Editor) SetData(data string) error {
	if err := e.checkReady(); err != nil {
		return err
	}
	start := time.Now()
	err := e.data.Set(model.MainRootName, data)
	e.observeConversion("set", start, err)
	return err
}

// RenderEditing returns the editing view as HTML.
func (e *Editor) RenderEditing() (string, error) {
	if err := e.checkReady(); err != nil {
		return "", err
	}
	if err := e.editing.Err(); err != nil {
		return "", err
	}
	return e.editing.Render()
}

// Execute runs a command.
func (e *Editor) Execute(name string, args ...any) (any, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	return e.commands.Execute(name, args...)
}

func (e *Editor) observeConversion(op string, start time.Time, err error) {
	if e.metrics != nil {
		e.metrics.ObserveConversion(op, time.Since(start), err)
	}
}

// ID implements plugin.Host.
func (e *Editor) ID() string { return e.id }

// Model implements plugin.Host.
func (e *Editor) Model() *model.Model { return e.model }

// Conversion implements plugin.Host.
func (e *Editor) Conversion() *conversion.Conversion { return e.conversion }

// Commands implements plugin.Host.
func (e *Editor) Commands() *command.Collection { return e.commands }

// EditingView implements plugin.Host.
func (e *Editor) EditingView() *view.View { return e.editing.View }

// Plugins implements plugin.Host.
func (e *Editor) Plugins() *plugin.Collection { return e.plugins }

// Components implements plugin.Host.
func (e *Editor) Components() *ui.ComponentFactory { return e.components }

// Config implements plugin.Host.
func (e *Editor) Config() *config.Config { return e.cfg }

// Locale implements plugin.Host.
func (e *Editor) Locale() *locale.Locale { return e.locale }

// Logger implements plugin.Host.
func (e *Editor) Logger() *logrus.Entry { return e.log }

// Data returns the data controller.
func (e *Editor) Data() *controller.DataController { return e.data }

// Toolbar returns the main toolbar.
func (e *Editor) Toolbar() *ui.Toolbar { return e.toolbar }

var _ plugin.Host = (*Editor)(nil)

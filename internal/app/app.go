package app

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/editor"
)

// Application owns the configuration, logger, metrics and the editor of a
// command line session. Reload swaps in a new editor built from the current
// configuration file and carries the open document over.
type Application struct {
	mu sync.RWMutex

	config   *config.Config
	logger   *Logger
	metrics  *Metrics
	editor   *editor.Editor
	document *Document

	running atomic.Bool
	opts    Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the TOML configuration file. Empty uses
	// defaults and the environment only.
	ConfigPath string

	// LogLevel overrides logging.level.
	LogLevel string

	// LogOutput is where logs are written. Defaults to os.Stderr.
	LogOutput io.Writer

	// Debug forces debug logging.
	Debug bool

	// Sanitize forces conversion.sanitize on.
	Sanitize bool

	// Language overrides the editor language.
	Language string

	// ScriptPaths are added to scripts.paths.
	ScriptPaths []string
}

// New loads the configuration and sets up logging and metrics. The editor
// is created by Start.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Start creates the editor.
func (app *Application) Start(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	ed, err := app.createEditor(ctx, app.Config())
	if err != nil {
		app.running.Store(false)
		return err
	}
	app.mu.Lock()
	app.editor = ed
	app.mu.Unlock()
	app.logger.WithField("editor", ed.ID()).Debug("application started")
	return nil
}

// Open loads an HTML file into the editor, replacing the open document.
func (app *Application) Open(path string) (*Document, error) {
	if !app.running.Load() {
		return nil, ErrNotRunning
	}
	app.mu.Lock()
	defer app.mu.Unlock()

	doc, err := OpenDocument(app.editor, path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	if app.document != nil {
		app.document.Close()
	}
	app.document = doc
	return doc, nil
}

// Reload re-reads the configuration and replaces the editor. The open
// document keeps its content and modified state. On failure the current
// editor stays in place.
func (app *Application) Reload(ctx context.Context) (err error) {
	if !app.running.Load() {
		return ErrNotRunning
	}
	defer func() { app.metrics.RecordConfigReload(err) }()
	log := app.logger.WithComponent("reload")

	cfg, err := loadConfig(app.opts)
	if err != nil {
		log.Warn("configuration rejected, keeping current editor: %v", err)
		return NewOperationError("reload", app.opts.ConfigPath, err)
	}
	ed, err := app.createEditor(ctx, cfg)
	if err != nil {
		return NewOperationError("reload", app.opts.ConfigPath, err)
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.document != nil {
		old := app.document
		content, err := old.Content()
		if err == nil {
			var doc *Document
			doc, err = NewDocument(ed, old.Path, content)
			if err == nil {
				if old.IsModified() {
					doc.modified.Store(true)
				}
				old.Close()
				app.document = doc
			}
		}
		if err != nil {
			_ = ed.Destroy()
			return NewOperationError("reload", old.Path, err)
		}
	}

	prev := app.editor
	app.editor = ed
	app.config = cfg
	app.logger.SetLevel(logLevel(app.opts, cfg))
	if prev != nil {
		if err := prev.Destroy(); err != nil {
			log.Warn("destroy previous editor: %v", err)
		}
	}
	log.WithField("editor", ed.ID()).Info("configuration reloaded")
	return nil
}

// Shutdown destroys the editor. It is safe to call more than once.
func (app *Application) Shutdown() {
	if !app.running.CompareAndSwap(true, false) {
		return
	}
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.document != nil {
		app.document.Close()
		app.document = nil
	}
	if app.editor != nil {
		if err := app.editor.Destroy(); err != nil {
			app.logger.WithComponent("shutdown").Error("destroy editor: %v", err)
		}
		app.editor = nil
	}
}

// IsRunning returns true between Start and Shutdown.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Metrics returns the application metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Editor returns the current editor, or nil before Start.
func (app *Application) Editor() *editor.Editor {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.editor
}

// Document returns the open document, or nil.
func (app *Application) Document() *Document {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.document
}

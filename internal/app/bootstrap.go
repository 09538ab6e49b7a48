package app

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/editor"
)

// bootstrapper initializes the application components in order.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 3),
	}
}

func (b *bootstrapper) bootstrap() error {
	if err := b.initConfig(); err != nil {
		return err
	}
	b.initLogger()
	b.initMetrics()
	return nil
}

func (b *bootstrapper) initConfig() error {
	cfg, err := loadConfig(b.opts)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

func (b *bootstrapper) initLogger() {
	cfg := b.app.config
	b.app.logger = NewLogger(LoggerConfig{
		Level:  logLevel(b.opts, cfg),
		Output: b.opts.LogOutput,
		Format: cfg.Logging.Format,
		Prefix: "richedit",
	})
	b.initOrder = append(b.initOrder, "logger")
	b.app.logger.WithComponent("bootstrap").Debug("config loaded from %q", b.opts.ConfigPath)
}

func (b *bootstrapper) initMetrics() {
	b.app.metrics = NewMetrics()
	b.initOrder = append(b.initOrder, "metrics")
}

// loadConfig loads the configuration file and applies command line
// overrides.
func loadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Sanitize {
		cfg.Conversion.Sanitize = true
	}
	if opts.Language != "" {
		cfg.Language = opts.Language
	}
	cfg.Scripts.Paths = append(cfg.Scripts.Paths, opts.ScriptPaths...)
	return cfg, nil
}

func logLevel(opts Options, cfg *config.Config) LogLevel {
	switch {
	case opts.Debug:
		return LogLevelDebug
	case opts.LogLevel != "":
		return ParseLogLevel(opts.LogLevel)
	default:
		return ParseLogLevel(cfg.Logging.Level)
	}
}

// createEditor builds an editor asynchronously and waits for it. Failures
// are logged with their stack trace.
func (app *Application) createEditor(ctx context.Context, cfg *config.Config) (*editor.Editor, error) {
	log := app.logger.WithComponent("bootstrap")
	ch := editor.CreateAsync(ctx, cfg,
		editor.WithLogger(app.logger.WithComponent("editor").Entry()),
		editor.WithMetrics(app.metrics),
	)

	select {
	case res := <-ch:
		app.metrics.RecordEditorCreated(res.Err)
		if res.Err != nil {
			log.Error("editor creation failed: %+v", res.Err)
			return nil, &InitError{Component: "editor", Err: res.Err}
		}
		return res.Editor, nil
	case <-ctx.Done():
		go func() {
			if res := <-ch; res.Editor != nil {
				_ = res.Editor.Destroy()
			}
		}()
		return nil, errors.WithStack(ctx.Err())
	}
}

package editor

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/richedit/internal/plugin"
)

// Metrics receives editor measurements.
type Metrics interface {
	// ObserveCommand is called after every command execution.
	ObserveCommand(name string, d time.Duration, err error)

	// ObserveConversion is called after every data get or set.
	ObserveConversion(op string, d time.Duration, err error)
}

type options struct {
	logger   *logrus.Entry
	registry *plugin.Registry
	plugins  []plugin.Plugin
	metrics  Metrics
	data     string
	hasData  bool
}

// Option configures editor creation.
type Option func(*options)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRegistry replaces the plugin registry used to resolve plugin names.
func WithRegistry(r *plugin.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithPlugins adds plugin instances on top of the configured names.
func WithPlugins(plugins ...plugin.Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugins...)
	}
}

// WithMetrics installs a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithInitialData sets the main root data once plugins are ready.
func WithInitialData(data string) Option {
	return func(o *options) {
		o.data = data
		o.hasData = true
	}
}

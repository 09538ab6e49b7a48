package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/dshills/richedit/internal/config/loader"
)

// Upcast policies accepted by conversion.upcastPolicy.
const (
	UpcastFirstMatch = "first-match"
	UpcastAllMatches = "all-matches"
)

// Image insert types accepted by image.insertType.
const (
	InsertAuto   = "auto"
	InsertInline = "inline"
	InsertBlock  = "block"
)

// DefaultFileName is the config file looked up by the CLI when none is given.
const DefaultFileName = "richedit.toml"

// maxIncludeDepth bounds nested include files.
const maxIncludeDepth = 8

// Config is the editor configuration.
type Config struct {
	Language      string              `toml:"language"`
	Plugins       []string            `toml:"plugins"`
	Toolbar       ToolbarConfig       `toml:"toolbar"`
	Image         ImageConfig         `toml:"image"`
	CKBox         CKBoxConfig         `toml:"ckbox"`
	CloudServices CloudServicesConfig `toml:"cloudServices"`
	Conversion    ConversionConfig    `toml:"conversion"`
	Scripts       ScriptsConfig       `toml:"scripts"`
	Logging       LoggingConfig       `toml:"logging"`
}

// ToolbarConfig lists the main toolbar items in order. "|" is a separator.
type ToolbarConfig struct {
	Items []string `toml:"items"`
}

// ImageConfig holds image feature settings.
type ImageConfig struct {
	// InsertType forces imageInsert to produce inline or block images.
	InsertType string   `toml:"insertType"`
	Toolbar    []string `toml:"toolbar"`
}

// CKBoxConfig holds the hosted file manager settings.
type CKBoxConfig struct {
	TokenURL      string `toml:"tokenUrl"`
	ServiceOrigin string `toml:"serviceOrigin"`
}

// CloudServicesConfig holds token endpoint settings.
type CloudServicesConfig struct {
	TokenURL  string `toml:"tokenUrl"`
	RetryMax  int    `toml:"retryMax"`
	TimeoutMs int    `toml:"timeoutMs"`
}

// Timeout returns the per-request timeout.
func (c CloudServicesConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ConversionConfig holds data pipeline settings.
type ConversionConfig struct {
	UpcastPolicy string `toml:"upcastPolicy"`
	Sanitize     bool   `toml:"sanitize"`
}

// ScriptsConfig locates Lua plugins.
type ScriptsConfig struct {
	Paths     []string `toml:"paths"`
	TimeoutMs int      `toml:"timeoutMs"`
}

// Timeout returns the per-call script execution timeout.
func (c ScriptsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Language: "en",
		Plugins:  []string{"Paragraph", "ImageBlock", "ImageInline", "CKBox"},
		Toolbar: ToolbarConfig{
			Items: []string{"insertImage", "|", "ckbox"},
		},
		Image: ImageConfig{
			InsertType: InsertAuto,
			Toolbar:    []string{"toggleImageType"},
		},
		CloudServices: CloudServicesConfig{
			RetryMax:  3,
			TimeoutMs: 10000,
		},
		Conversion: ConversionConfig{
			UpcastPolicy: UpcastFirstMatch,
		},
		Scripts: ScriptsConfig{
			TimeoutMs: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// TokenURL returns the cloud services token endpoint, falling back to the
// CKBox one.
func (c *Config) TokenURL() string {
	if c.CloudServices.TokenURL != "" {
		return c.CloudServices.TokenURL
	}
	return c.CKBox.TokenURL
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Plugins = slices.Clone(c.Plugins)
	out.Toolbar.Items = slices.Clone(c.Toolbar.Items)
	out.Image.Toolbar = slices.Clone(c.Image.Toolbar)
	out.Scripts.Paths = slices.Clone(c.Scripts.Paths)
	return &out
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if strings.TrimSpace(c.Language) == "" {
		fail("language", "must not be empty", c.Language)
	}

	seen := make(map[string]bool, len(c.Plugins))
	for _, name := range c.Plugins {
		if name == "" {
			fail("plugins", "empty plugin name", name)
			continue
		}
		if seen[name] {
			fail("plugins", "duplicate plugin", name)
		}
		seen[name] = true
	}

	switch c.Image.InsertType {
	case InsertAuto, InsertInline, InsertBlock:
	default:
		fail("image.insertType", "must be auto, inline or block", c.Image.InsertType)
	}

	switch c.Conversion.UpcastPolicy {
	case UpcastFirstMatch, UpcastAllMatches:
	default:
		fail("conversion.upcastPolicy", "must be first-match or all-matches", c.Conversion.UpcastPolicy)
	}

	for path, raw := range map[string]string{
		"ckbox.tokenUrl":         c.CKBox.TokenURL,
		"ckbox.serviceOrigin":    c.CKBox.ServiceOrigin,
		"cloudServices.tokenUrl": c.CloudServices.TokenURL,
	} {
		if raw == "" {
			continue
		}
		if msg := checkHTTPURL(raw); msg != "" {
			fail(path, msg, raw)
		}
	}

	if c.CloudServices.RetryMax < 0 {
		fail("cloudServices.retryMax", "must not be negative", c.CloudServices.RetryMax)
	}
	if c.CloudServices.TimeoutMs < 0 {
		fail("cloudServices.timeoutMs", "must not be negative", c.CloudServices.TimeoutMs)
	}
	if c.Scripts.TimeoutMs < 0 {
		fail("scripts.timeoutMs", "must not be negative", c.Scripts.TimeoutMs)
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		fail("logging.level", "unknown level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		fail("logging.format", "must be text or json", c.Logging.Format)
	}

	// Map iteration above is unordered.
	slices.SortStableFunc(errs, func(a, b error) int {
		return strings.Compare(a.(*ValidationError).Path, b.(*ValidationError).Path)
	})
	return errors.Join(errs...)
}

func checkHTTPURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid URL"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "must be an http or https URL"
	}
	if u.Host == "" {
		return "missing host"
	}
	return ""
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs  loader.FileSystem
	env loader.Loader
}

// WithFileSystem reads config files from fsys.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnv replaces the environment layer. A nil loader disables it.
func WithEnv(env loader.Loader) Option {
	return func(o *options) {
		o.env = env
	}
}

// Load resolves the configuration from defaults, the TOML file at path and
// the environment, then validates it. An empty path skips the file layer.
func Load(path string, opts ...Option) (*Config, error) {
	o := &options{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(o)
	}

	cfg := Default()

	if path != "" {
		file, err := loader.NewTOMLLoaderWithFS(o.fs, path).LoadWithIncludes(path, maxIncludeDepth)
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if err := decodeLayer(cfg, file, true); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if o.env != nil {
		env, err := o.env.Load()
		if err != nil {
			return nil, fmt.Errorf("environment: %w", err)
		}
		if err := decodeLayer(cfg, env, false); err != nil {
			return nil, fmt.Errorf("environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listPaths are settings that accept a single string in place of a list.
var listPaths = [][]string{
	{"plugins"},
	{"toolbar", "items"},
	{"image", "toolbar"},
	{"scripts", "paths"},
}

// decodeLayer overlays a raw layer onto cfg. Keys absent from the layer keep
// their current values.
func decodeLayer(cfg *Config, layer map[string]any, strict bool) error {
	if len(layer) == 0 {
		return nil
	}
	layer = loader.Clone(layer)
	for _, path := range listPaths {
		normalizeList(layer, path)
	}

	data, err := toml.Marshal(layer)
	if err != nil {
		return err
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(cfg)
}

func normalizeList(m map[string]any, path []string) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			return
		}
		m = next
	}
	last := path[len(path)-1]
	if s, ok := m[last].(string); ok {
		if s == "" {
			m[last] = []any{}
		} else {
			m[last] = []any{s}
		}
	}
}

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEnv map[string]any

func (e staticEnv) Load() (map[string]any, error) { return e, nil }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, UpcastFirstMatch, cfg.Conversion.UpcastPolicy)
	assert.Equal(t, []string{"insertImage", "|", "ckbox"}, cfg.Toolbar.Items)
	assert.Empty(t, cfg.TokenURL())
}

func TestLoad_Layers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "richedit.toml", `
language = "de"
plugins = ["Paragraph", "ImageInline"]

[toolbar]
items = ["ckbox"]

[ckbox]
tokenUrl = "https://example.com/token"

[conversion]
upcastPolicy = "all-matches"
`)

	env := staticEnv{
		"language":   "fr",
		"conversion": map[string]any{"sanitize": true},
		"scripts":    map[string]any{"paths": "./plugins"},
		"unknown":    "ignored",
	}

	cfg, err := Load(path, WithEnv(env))
	require.NoError(t, err)

	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, []string{"Paragraph", "ImageInline"}, cfg.Plugins)
	assert.Equal(t, []string{"ckbox"}, cfg.Toolbar.Items)
	assert.Equal(t, "https://example.com/token", cfg.TokenURL())
	assert.Equal(t, UpcastAllMatches, cfg.Conversion.UpcastPolicy)
	assert.True(t, cfg.Conversion.Sanitize)
	assert.Equal(t, []string{"./plugins"}, cfg.Scripts.Paths)
	// untouched defaults survive
	assert.Equal(t, InsertAuto, cfg.Image.InsertType)
	assert.Equal(t, 3, cfg.CloudServices.RetryMax)
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("RICHEDIT_LOG_LEVEL", "debug")
	t.Setenv("RICHEDIT_CLOUDSERVICES_TIMEOUT_MS", "2500")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 2500, cfg.CloudServices.TimeoutMs)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"), WithEnv(nil))
	assert.ErrorIs(t, err, ErrFileNotFound)

	unknown := writeFile(t, dir, "unknown.toml", "[toolbar]\nbuttons = [\"x\"]\n")
	_, err = Load(unknown, WithEnv(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), unknown)

	invalid := writeFile(t, dir, "invalid.toml", "[conversion]\nupcastPolicy = \"last\"\n")
	_, err = Load(invalid, WithEnv(nil))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestLoad_Include(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.toml", "language = \"pl\"\n[image]\ninsertType = \"block\"\n")
	path := writeFile(t, dir, "richedit.toml", "include = \"base.toml\"\n[image]\ninsertType = \"inline\"\n")

	cfg, err := Load(path, WithEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "pl", cfg.Language)
	assert.Equal(t, InsertInline, cfg.Image.InsertType)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		paths  []string
	}{
		{"empty language", func(c *Config) { c.Language = " " }, []string{"language"}},
		{"duplicate plugin", func(c *Config) { c.Plugins = append(c.Plugins, "Paragraph") }, []string{"plugins"}},
		{"insert type", func(c *Config) { c.Image.InsertType = "float" }, []string{"image.insertType"}},
		{"token url scheme", func(c *Config) { c.CKBox.TokenURL = "ftp://x" }, []string{"ckbox.tokenUrl"}},
		{"token url host", func(c *Config) { c.CloudServices.TokenURL = "https:///token" }, []string{"cloudServices.tokenUrl"}},
		{"negative", func(c *Config) {
			c.CloudServices.RetryMax = -1
			c.Scripts.TimeoutMs = -5
		}, []string{"cloudServices.retryMax", "scripts.timeoutMs"}},
		{"logging", func(c *Config) {
			c.Logging.Level = "loud"
			c.Logging.Format = "xml"
		}, []string{"logging.format", "logging.level"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, ErrValidationFailed)

			joined, ok := err.(interface{ Unwrap() []error })
			require.True(t, ok)
			var paths []string
			for _, e := range joined.Unwrap() {
				paths = append(paths, e.(*ValidationError).Path)
			}
			assert.Equal(t, tt.paths, paths)
		})
	}
}

func TestCloneAndEncode(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Toolbar.Items[0] = "changed"
	assert.Equal(t, "insertImage", cfg.Toolbar.Items[0])

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "upcastPolicy = 'first-match'")

	dir := t.TempDir()
	path := writeFile(t, dir, "round.toml", buf.String())
	loaded, err := Load(path, WithEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, cfg.Plugins, loaded.Plugins)
	assert.Equal(t, cfg.Toolbar, loaded.Toolbar)
	assert.Equal(t, cfg.Image, loaded.Image)
	assert.Equal(t, cfg.CloudServices, loaded.CloudServices)
	assert.Equal(t, cfg.Conversion, loaded.Conversion)
	assert.Equal(t, cfg.Logging, loaded.Logging)
}

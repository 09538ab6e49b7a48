package lua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest name inside a plugin directory.
const ManifestFile = "plugin.yaml"

// DefaultMain is the entry point used when a manifest names none.
const DefaultMain = "init.lua"

// Manifest describes a scripted plugin.
type Manifest struct {
	// Name is the plugin name, unique per editor.
	Name string `yaml:"name"`

	// Version is an optional version string.
	Version string `yaml:"version,omitempty"`

	// Description is a short description.
	Description string `yaml:"description,omitempty"`

	// Main is the entry point relative to the plugin directory.
	Main string `yaml:"main,omitempty"`

	// Requires lists plugins that must be initialized first.
	Requires []string `yaml:"requires,omitempty"`

	// Dir is the plugin directory.
	Dir string `yaml:"-"`
}

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// LoadManifest loads and parses a plugin manifest from a file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	manifest.Dir = filepath.Dir(path)
	if manifest.Main == "" {
		manifest.Main = DefaultMain
	}
	return &manifest, nil
}

// NewManifestMinimal creates a manifest for a bare script.
func NewManifestMinimal(name, dir, main string) *Manifest {
	return &Manifest{Name: name, Dir: dir, Main: main}
}

// MainPath returns the absolute path of the entry point.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.Dir, m.Main)
}

// Validate checks the manifest fields.
func (m *Manifest) Validate() error {
	var errs []error
	if m.Name == "" {
		errs = append(errs, errors.New("name is required"))
	} else if !namePattern.MatchString(m.Name) {
		errs = append(errs, fmt.Errorf("name %q must start with a letter and contain only letters, digits, '-' or '_'", m.Name))
	}
	if !strings.HasSuffix(m.Main, ".lua") {
		errs = append(errs, fmt.Errorf("main %q must be a .lua file", m.Main))
	}
	for _, dep := range m.Requires {
		if dep == m.Name {
			errs = append(errs, fmt.Errorf("plugin cannot require itself"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, errors.Join(errs...))
	}
	return nil
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

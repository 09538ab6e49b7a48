package lua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader discovers scripted plugins in a list of paths. A path may be a
// .lua file, a plugin directory, or a directory of plugins.
type Loader struct {
	paths []string
}

// NewLoader creates a loader for the given paths.
func NewLoader(paths ...string) *Loader {
	return &Loader{paths: paths}
}

// Paths returns the configured search paths.
func (l *Loader) Paths() []string {
	return l.paths
}

// Discover finds all plugins in the search paths, sorted by name. The first
// path that provides a name wins. Paths that do not exist are skipped;
// invalid plugins are reported in the joined error while valid ones are
// still returned.
func (l *Loader) Discover() ([]*Manifest, error) {
	found := make(map[string]*Manifest)
	var errs []error

	add := func(m *Manifest) {
		if err := m.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.Dir, err))
			return
		}
		if _, exists := found[m.Name]; !exists {
			found[m.Name] = m
		}
	}

	for _, basePath := range l.paths {
		info, err := os.Stat(basePath)
		if err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, err)
			}
			continue
		}

		if !info.IsDir() {
			if filepath.Ext(basePath) == ".lua" {
				add(singleFile(basePath))
			}
			continue
		}

		// A plugin directory itself
		if m, err := inspectPlugin(basePath); err == nil {
			add(m)
			continue
		} else if !errors.Is(err, ErrNoEntryPoint) {
			errs = append(errs, err)
			continue
		}

		entries, err := os.ReadDir(basePath)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(basePath, entry.Name())
			if !entry.IsDir() {
				if filepath.Ext(entry.Name()) == ".lua" {
					add(singleFile(path))
				}
				continue
			}
			m, err := inspectPlugin(path)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			add(m)
		}
	}

	plugins := make([]*Manifest, 0, len(found))
	for _, m := range found {
		plugins = append(plugins, m)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Name < plugins[j].Name
	})

	return plugins, errors.Join(errs...)
}

func singleFile(path string) *Manifest {
	name := strings.TrimSuffix(filepath.Base(path), ".lua")
	return NewManifestMinimal(name, filepath.Dir(path), filepath.Base(path))
}

// inspectPlugin examines a plugin directory and returns its manifest.
func inspectPlugin(dir string) (*Manifest, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil {
		return LoadManifest(manifestPath)
	}

	// No manifest - check for init.lua
	if _, err := os.Stat(filepath.Join(dir, DefaultMain)); err == nil {
		return NewManifestMinimal(filepath.Base(dir), dir, DefaultMain), nil
	}

	return nil, ErrNoEntryPoint
}

package app

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/dshills/richedit/internal/editor"
	"github.com/dshills/richedit/internal/event"
)

// Document is an HTML file loaded into an editor.
type Document struct {
	// Path is the absolute file path (empty for scratch documents).
	Path string

	// Name is the display name (file name or "Untitled").
	Name string

	editor   *editor.Editor
	modified atomic.Bool
	loading  atomic.Bool
	version  atomic.Int64
	sub      event.Subscription
}

// NewDocument loads content into ed. Later model changes mark the document
// modified.
func NewDocument(ed *editor.Editor, path, content string) (*Document, error) {
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}
	d := &Document{Path: path, Name: name, editor: ed}
	d.sub = ed.Model().Document().On("change", func(*event.Info, any) {
		d.version.Add(1)
		if !d.loading.Load() {
			d.modified.Store(true)
		}
	})
	if err := d.load(content); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// OpenDocument reads the file at path into ed.
func OpenDocument(ed *editor.Editor, path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %q", abs)
	}
	return NewDocument(ed, abs, string(data))
}

func (d *Document) load(content string) error {
	d.loading.Store(true)
	defer d.loading.Store(false)
	if err := d.editor.SetData(content); err != nil {
		return NewOperationError("load", d.Path, err)
	}
	d.modified.Store(false)
	return nil
}

// Editor returns the editor holding the document.
func (d *Document) Editor() *editor.Editor { return d.editor }

// IsModified returns true if the document has unsaved changes.
func (d *Document) IsModified() bool {
	return d.modified.Load()
}

// IsScratch returns true if the document has no file.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// Version counts model changes, loads included.
func (d *Document) Version() int64 {
	return d.version.Load()
}

// Content returns the document as HTML data.
func (d *Document) Content() (string, error) {
	return d.editor.GetData()
}

// Reload re-reads the file, discarding unsaved changes.
func (d *Document) Reload() error {
	if d.IsScratch() {
		return NewOperationError("reload", "", ErrNoActiveDocument)
	}
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return NewOperationError("reload", d.Path, err)
	}
	return d.load(string(data))
}

// Save writes the document data to its file.
func (d *Document) Save() error {
	return d.SaveAs(d.Path)
}

// SaveAs writes the document data to path and makes it the document file.
func (d *Document) SaveAs(path string) error {
	if path == "" {
		return NewOperationError("save", "", ErrNoActiveDocument)
	}
	out, err := d.Content()
	if err != nil {
		return NewOperationError("save", path, err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return NewOperationError("save", path, err)
	}
	d.Path = path
	d.Name = filepath.Base(path)
	d.modified.Store(false)
	return nil
}

// Close detaches the document from the editor.
func (d *Document) Close() {
	d.sub.Off()
}

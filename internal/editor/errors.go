package editor

import "errors"

// ErrEditorDestroyed is returned by operations on a destroyed editor.
var ErrEditorDestroyed = errors.New("editor destroyed")

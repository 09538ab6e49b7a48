// Package command provides editor commands and the per-editor command
// collection.
//
// A command is a named, stateful operation. Its state (IsEnabled, Value)
// is recomputed by Refresh, which the collection calls before every
// execution and whenever the editor asks for a refresh after a model
// change. Commands are added exactly once per name; executing a name that
// was never added fails with ErrCommandNotFound.
package command

// Package view provides the view tree the model is converted into.
//
// A view tree is an abstract DOM: elements of several kinds (container,
// attribute, empty, UI, root) and text nodes. The data pipeline converts the
// model into a detached view fragment that is rendered to HTML; the editing
// pipeline keeps a live tree under View.Root that is updated incrementally
// and may carry widget decorations and custom properties that never reach
// the data output.
//
// HTML parsing and rendering are delegated to golang.org/x/net/html.
package view

// Package ui provides the headless editor UI: a component factory that
// features register toolbar components in, and a toolbar built from the
// configured item names.
//
// The toolbar is a plain list of components. Components that wrap a command
// track its enabled state through Toolbar.Refresh, and Render produces a
// one-line text rendering used by the CLI:
//
//	[Insert image] | [Open file manager]
package ui

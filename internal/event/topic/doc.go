// Package topic provides hierarchical event names and pattern matching used
// by the emitter and the conversion dispatchers.
//
// # Topic Format
//
// Topics use dot-notation:
//
//	insert.imageInline
//	attribute.alt.imageInline
//	element.img
//	view.imageLoaded
//
// # Wildcards
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	insert.*              matches insert.paragraph, insert.imageInline
//	attribute.alt.*       matches attribute.alt.imageInline, attribute.alt.imageBlock
//	attribute.**          matches every attribute change
//	element.*             matches any upcast element event
package topic

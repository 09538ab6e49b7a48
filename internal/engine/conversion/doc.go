// Package conversion converts between the model tree and view trees.
//
// Downcasting (model to view) is driven by a DowncastDispatcher. It fires
// one event per converted item:
//
//	insert.<name>             a model node was inserted
//	attribute.<key>.<name>    an attribute of a model node was set or removed
//	remove.<name>             a model node was removed
//
// Upcasting (view to model) is driven by an UpcastDispatcher:
//
//	documentFragment   the root view fragment
//	element.<name>     a view element
//	text               a view text node
//
// Converters are plain listeners on the dispatcher emitters. Listeners with
// lower priority values run first; equal priorities run in registration
// order. Consumables record which parts of an item were already converted so
// that generic fallback converters skip them.
//
// Conversion.For returns helpers for a named group:
//
//	dataDowncast      data pipeline only
//	editingDowncast   editing pipeline only
//	downcast          both downcast pipelines
//	upcast            the upcast dispatcher
package conversion

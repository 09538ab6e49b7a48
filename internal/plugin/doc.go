// Package plugin provides the editor plugin system.
//
// A plugin is any value with a static name and an Init method. Init receives
// the editor through the Host interface and registers everything the feature
// needs: schema items, converters, commands, view observers and UI
// components. Plugins may declare other plugins they depend on through
// Requirer; the Collection instantiates missing dependencies from a
// Registry and initializes every plugin after its dependencies.
//
// # Lifecycle
//
//	StateCreated -> Init() -> StateInitialized
//	StateInitialized -> AfterInit() -> StateReady
//	StateReady -> Destroy() -> StateDestroyed
//
// A failing Init or AfterInit puts the plugin in StateError, destroys the
// plugins initialized before it in reverse order, and aborts Load.
//
// # Example
//
//	type Paragraph struct{}
//
//	func (Paragraph) PluginName() string { return "Paragraph" }
//
//	func (Paragraph) Init(host plugin.Host) error {
//	    if err := host.Model().Schema.Register("paragraph", model.SchemaItemDefinition{
//	        InheritAllFrom: model.BlockName,
//	    }); err != nil {
//	        return err
//	    }
//	    return host.Conversion().For(conversion.GroupDowncast).
//	        ElementToElement(conversion.ElementToElementConfig{Model: "paragraph", View: "p"}).
//	        Err()
//	}
//
// Scripted plugins written in Lua live in the lua subpackage.
package plugin

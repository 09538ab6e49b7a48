// Package lua runs scripted editor plugins on gopher-lua.
//
// A scripted plugin is either a single .lua file or a directory with a
// plugin.yaml manifest:
//
//	name: highlight
//	main: init.lua
//	requires:
//	  - Paragraph
//
// The script runs once when the plugin is initialized. It reaches the editor
// through the richedit module:
//
//	local richedit = require("richedit")
//
//	richedit.schema.register("highlight", {
//	    allowWhere = { "$text" },
//	    isInline = true,
//	    allowAttributes = { "color" },
//	})
//	richedit.conversion.element_to_element("downcast", "highlight", { name = "mark", classes = { "hl" } })
//	richedit.conversion.element_to_element("upcast", "highlight", "mark")
//	richedit.commands.add("highlight", function(color)
//	    return richedit.t("Highlight") .. " " .. color
//	end)
//
// Scripts run in a sandbox: only the base, table, string and math libraries
// are opened, dofile/loadfile/load/loadstring are removed, and require
// resolves only the safe builtin libraries and modules provided by the host.
// Every call into Lua runs under an execution timeout.
package lua

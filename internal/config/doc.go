// Package config provides the editor configuration.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← RICHEDIT_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← richedit.toml (with include)
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML file and environment variable layers
//   - watcher: fsnotify-based file watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load("richedit.toml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Toolbar.Items)
//
// # Configuration Files
//
//	language = "en"
//	plugins = ["Paragraph", "ImageBlock", "ImageInline", "CKBox"]
//
//	[toolbar]
//	items = ["insertImage", "|", "ckbox"]
//
//	[ckbox]
//	tokenUrl = "https://example.com/ckbox/token"
//
//	[conversion]
//	upcastPolicy = "first-match"
//	sanitize = true
//
// Lists replace lower layers rather than appending to them.
package config

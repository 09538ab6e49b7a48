// Package cmd implements the richedit command line.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath  string
	logLevel    string
	debug       bool
	language    string
	scriptPaths []string
)

// BuildInfo is set by the main package from linker flags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Root returns the richedit root command.
func Root(info BuildInfo) *cobra.Command {
	cmd := cobra.Command{
		Use:           "richedit",
		Short:         "Convert and inspect rich-text documents with a headless editor",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pflags := cmd.PersistentFlags()

	pflags.StringVarP(&configPath, "config", "c", "", "Path to a richedit.toml configuration file.")
	pflags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error). Overrides logging.level.")
	pflags.BoolVarP(&debug, "debug", "d", false, "Enable debug logging.")
	pflags.StringVar(&language, "lang", "", "UI language. Overrides the configured language.")
	pflags.StringSliceVar(&scriptPaths, "scripts", nil, "Additional Lua plugin files or directories.")

	cmd.AddCommand(convertCmd())
	cmd.AddCommand(viewCmd())
	cmd.AddCommand(toolbarCmd())
	cmd.AddCommand(pluginsCmd())
	cmd.AddCommand(watchCmd())
	cmd.AddCommand(versionCmd(info))

	return &cmd
}

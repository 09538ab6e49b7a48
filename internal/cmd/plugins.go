package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/richedit/internal/plugin/lua"
)

func pluginsCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "plugins",
		Short: "List the loaded plugins in initialization order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := startApp(cmd.Context(), cmd, startOptions{})
			if err != nil {
				return err
			}
			defer a.Shutdown()

			plugins := a.Editor().Plugins()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tSTATE\tSOURCE")
			for _, name := range plugins.Names() {
				state, _ := plugins.State(name)
				source := "builtin"
				if p, ok := plugins.Get(name); ok {
					if sp, ok := p.(*lua.ScriptPlugin); ok {
						source = sp.Manifest().MainPath()
					}
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, state, source)
			}
			return w.Flush()
		},
	}

	return &cmd
}

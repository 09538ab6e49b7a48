package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/richedit/internal/features/image"
)

func toolbarCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "toolbar",
		Short: "Print the configured toolbars.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := startApp(cmd.Context(), cmd, startOptions{})
			if err != nil {
				return err
			}
			defer a.Shutdown()

			ed := a.Editor()
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "main: %s\n", ed.Toolbar().Render()); err != nil {
				return err
			}
			if p, ok := ed.Plugins().Get(image.EditingPluginName); ok {
				if editing, ok := p.(*image.Editing); ok && editing.Toolbar() != nil {
					_, err = fmt.Fprintf(out, "image: %s\n", editing.Toolbar().Render())
				}
			}
			return err
		},
	}

	return &cmd
}

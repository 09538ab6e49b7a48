package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func viewCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "view FILE",
		Short: "Print the editing view of an HTML file, widgets included.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := startApp(cmd.Context(), cmd, startOptions{})
			if err != nil {
				return err
			}
			defer a.Shutdown()

			if _, err := loadDocument(cmd, a, args[0]); err != nil {
				return err
			}
			out, err := a.Editor().RenderEditing()
			if err != nil {
				return errors.Wrap(err, "failed to render editing view")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	return &cmd
}

package cmd

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dshills/richedit/internal/app"
)

func convertCmd() *cobra.Command {
	var (
		sanitize bool
		output   string
	)

	cmd := cobra.Command{
		Use:   "convert FILE",
		Short: "Load an HTML file into the editor and print its normalized data. Use - for stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := startApp(cmd.Context(), cmd, startOptions{sanitize: sanitize})
			if err != nil {
				return err
			}
			defer a.Shutdown()

			doc, err := loadDocument(cmd, a, args[0])
			if err != nil {
				return err
			}
			if output != "" {
				return errors.Wrapf(doc.SaveAs(output), "failed to write %q", output)
			}
			data, err := doc.Content()
			if err != nil {
				return errors.Wrap(err, "failed to get data")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), data)
			return err
		},
	}

	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "Sanitize the output HTML.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to a file instead of stdout.")

	return &cmd
}

// loadDocument opens a file, or reads stdin for "-".
func loadDocument(cmd *cobra.Command, a *app.Application, name string) (*app.Document, error) {
	if name != "-" {
		doc, err := a.Open(name)
		return doc, errors.Wrapf(err, "failed to open %q", name)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, errors.Wrap(err, "failed to read from stdin")
	}
	doc, err := app.NewDocument(a.Editor(), "", string(data))
	return doc, errors.Wrap(err, "failed to load stdin")
}

package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dshills/richedit/internal/app"
)

type startOptions struct {
	sanitize bool
}

// startApp loads the configuration and creates the editor. The caller must
// call Shutdown.
func startApp(ctx context.Context, cmd *cobra.Command, so startOptions) (*app.Application, error) {
	a, err := app.New(app.Options{
		ConfigPath:  configPath,
		LogLevel:    logLevel,
		LogOutput:   cmd.ErrOrStderr(),
		Debug:       debug,
		Sanitize:    so.sanitize,
		Language:    language,
		ScriptPaths: scriptPaths,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := a.Start(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to create editor")
	}
	return a, nil
}

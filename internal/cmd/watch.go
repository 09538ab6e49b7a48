package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dshills/richedit/internal/app"
	"github.com/dshills/richedit/internal/config/watcher"
)

func watchCmd() *cobra.Command {
	var (
		metricsAddr string
		debounce    time.Duration
	)

	cmd := cobra.Command{
		Use:   "watch FILE",
		Short: "Print the normalized data of FILE every time it or the configuration changes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := startApp(ctx, cmd, startOptions{})
			if err != nil {
				return err
			}
			defer a.Shutdown()

			if metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: a.Metrics().Handler(), ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.Logger().WithComponent("metrics").Error("serve: %v", err)
					}
				}()
				defer srv.Close()
			}

			return watchDocument(ctx, a, args[0], configPath, debounce, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090.")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Quiet period before a change is handled.")

	return &cmd
}

// watchDocument prints the document data once and again after every change
// to the document or the configuration file, until ctx is done.
func watchDocument(ctx context.Context, a *app.Application, docPath, cfgPath string, debounce time.Duration, out io.Writer) error {
	doc, err := a.Open(docPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", docPath)
	}

	var mu sync.Mutex
	emit := func() {
		mu.Lock()
		defer mu.Unlock()
		data, err := a.Document().Content()
		if err != nil {
			a.Logger().WithComponent("watch").Error("get data: %v", err)
			return
		}
		_, _ = fmt.Fprintln(out, data)
	}
	emit()

	log := a.Logger().WithComponent("watch")
	w, err := watcher.New(
		watcher.WithDebounce(debounce),
		watcher.WithErrorHandler(func(err error) { log.Warn("watcher: %v", err) }),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer w.Close()

	if err := w.Watch(doc.Path); err != nil {
		return errors.Wrapf(err, "failed to watch %q", doc.Path)
	}
	absCfg := ""
	if cfgPath != "" {
		if absCfg, err = filepath.Abs(cfgPath); err != nil {
			return errors.WithStack(err)
		}
		if err := w.Watch(absCfg); err != nil {
			return errors.Wrapf(err, "failed to watch %q", absCfg)
		}
	}

	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			log.Warn("%s: %s", ev.Op, ev.Path)
			return
		}
		switch ev.Path {
		case absCfg:
			if err := a.Reload(ctx); err != nil {
				log.Error("reload: %v", err)
				return
			}
		default:
			d := a.Document()
			if d == nil || d.Path != ev.Path {
				return
			}
			if err := d.Reload(); err != nil {
				log.Error("reload document: %v", err)
				return
			}
		}
		emit()
	})

	return w.Run(ctx)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gerunddev/parsercache/internal/config"
	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/styles"
	"github.com/gerunddev/parsercache/internal/tui"
	"github.com/gerunddev/parsercache/internal/watch"
)

// WatchOptions controls the watch command
type WatchOptions struct {
	// MetricsAddr serves Prometheus metrics on /metrics when set
	MetricsAddr string
	// Dashboard shows a live dashboard instead of printing one line per parse
	Dashboard bool
}

// Watch parses files under dirs as they change until ctx is cancelled
func Watch(ctx context.Context, env *Env, out io.Writer, dirs []string, opts WatchOptions) error {
	runner, c, err := newRunner(env)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Save(config.CacheFilePath()); err != nil {
			env.Log.Error("failed to save cache", "error", err)
		}
	}()

	w, err := watch.New(runner, dirs, env.Config.Debounce)
	if err != nil {
		return err
	}
	w.SetLogger(env.Log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	addr := opts.MetricsAddr
	if addr == "" {
		addr = env.Config.MetricsAddr
	}
	if addr != "" {
		srv, err := serveMetrics(env, addr)
		if err != nil {
			return err
		}
		defer shutdown(srv)
		fmt.Fprintln(out, styles.DimStyle.Render("Metrics on http://"+srv.Addr+"/metrics"))
	}

	if opts.Dashboard {
		errCh := make(chan error, 1)
		err := tui.RunWatch(dirs, func(send func(tui.ParsedMsg)) {
			w.OnParsed(func(path string, f *file.File, err error) {
				msg := tui.ParsedMsg{Path: path, Err: err, At: time.Now()}
				if f != nil {
					msg.DataKeys = len(f.Data)
				}
				send(msg)
			})
			go func() {
				errCh <- w.Run(ctx)
			}()
		})
		cancel()
		if runErr := <-errCh; runErr != nil {
			return runErr
		}
		return err
	}

	w.OnParsed(func(path string, f *file.File, err error) {
		if err != nil {
			fmt.Fprintln(out, styles.ErrorStyle.Render("✗ "+path+": "+err.Error()))
			return
		}
		fmt.Fprintln(out, styles.SuccessStyle.Render("✓ "+path)+" "+styles.DimStyle.Render(fmt.Sprintf("(%d data keys)", len(f.Data))))
	})

	fmt.Fprintln(out, styles.DimStyle.Render(fmt.Sprintf("Watching %d director(ies), ctrl+c to stop", len(dirs))))
	return w.Run(ctx)
}

// serveMetrics starts an HTTP server for the metrics handler. The returned
// server's Addr holds the bound address.
func serveMetrics(env *Env, addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", env.Metrics.Handler())

	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			env.Log.Error("metrics server failed", "error", err)
		}
	}()

	return srv, nil
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

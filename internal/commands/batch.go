package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/gerunddev/parsercache/internal/batch"
	"github.com/gerunddev/parsercache/internal/cache"
	"github.com/gerunddev/parsercache/internal/config"
	"github.com/gerunddev/parsercache/internal/styles"
	"github.com/gerunddev/parsercache/internal/tui"
)

// BatchOptions controls the batch command
type BatchOptions struct {
	Force bool
	// Progress shows a spinner while the run is in progress
	Progress bool
}

// newRunner loads the parse cache and builds a runner over it
func newRunner(env *Env) (*batch.Runner, *cache.Cache, error) {
	c, err := cache.Load(config.CacheFilePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cache: %w", err)
	}

	r := batch.NewRunner(env.Parsers, c)
	r.SetLogger(env.Log)
	r.SetExcludePatterns(env.Config.ExcludePatterns)
	return r, c, nil
}

// Batch parses every eligible file under dir and saves the cache
func Batch(ctx context.Context, env *Env, out io.Writer, dir string, opts BatchOptions) error {
	runner, c, err := newRunner(env)
	if err != nil {
		return err
	}
	runner.SetForce(opts.Force)

	var result *batch.Result
	if opts.Progress {
		result, err = tui.RunBatch(dir, func() (*batch.Result, error) {
			return runner.Run(ctx, dir)
		})
	} else {
		result, err = runner.Run(ctx, dir)
	}

	// Keep whatever was parsed before a cancellation
	if saveErr := c.Save(config.CacheFilePath()); saveErr != nil {
		env.Log.Error("failed to save cache", "error", saveErr)
	}

	if err != nil {
		return err
	}

	if !opts.Progress {
		fmt.Fprintln(out, result.String())
		for _, e := range result.Errors {
			fmt.Fprintln(out, styles.ErrorStyle.Render("  ✗ "+e.Error()))
		}
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d file(s) failed to parse", len(result.Errors))
	}
	return nil
}

package commands

import (
	"context"

	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/parser"
	"github.com/gerunddev/parsercache/internal/tui"
)

// View parses path and opens it in the interactive viewer.
// A parse failure is shown in the viewer rather than returned.
func View(ctx context.Context, env *Env, path string) error {
	f, err := file.Read(path)
	if err != nil {
		return err
	}

	f, parseErr := parser.Wait(ctx, func(cb parser.Callback) {
		env.Parsers.Parse(f, cb)
	})

	return tui.RunViewer(f, parseErr, env.Config.RenderWidth)
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gerunddev/parsercache/internal/builtin"
	"github.com/gerunddev/parsercache/internal/diff"
	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/parser"
	"github.com/gerunddev/parsercache/internal/render"
)

// ParseOptions controls the parse command
type ParseOptions struct {
	// Path is the file to parse; empty or "-" reads from the input reader
	Path  string
	Ext   string
	Stack []string

	Render bool
	Diff   bool
	JSON   bool
}

// parseOutput is the --json form of a parsed file
type parseOutput struct {
	Path        string         `json:"path,omitempty"`
	Ext         string         `json:"ext,omitempty"`
	Content     string         `json:"content"`
	Data        map[string]any `json:"data"`
	OrigContent string         `json:"orig_content"`
	Attrs       map[string]any `json:"attrs,omitempty"`
}

// Parse parses one file or stdin and writes the result to out
func Parse(ctx context.Context, env *Env, in io.Reader, out io.Writer, opts ParseOptions) error {
	f, err := readInput(in, opts)
	if err != nil {
		return err
	}

	var explicit parser.Stack
	if len(opts.Stack) > 0 {
		explicit, err = builtin.Stack(opts.Stack)
		if err != nil {
			return err
		}
	}

	f, err = parser.Wait(ctx, func(cb parser.Callback) {
		if explicit != nil {
			env.Parsers.ParseWith(f, explicit, cb)
			return
		}
		env.Parsers.Parse(f, cb)
	})
	if err != nil {
		return fmt.Errorf("failed to parse: %w", err)
	}

	return writeFile(out, f, opts, env.Config.RenderWidth)
}

func readInput(in io.Reader, opts ParseOptions) (*file.File, error) {
	if opts.Path != "" && opts.Path != "-" {
		f, err := file.Read(opts.Path)
		if err != nil {
			return nil, err
		}
		if opts.Ext != "" {
			f.Ext = file.NormalizeExt(opts.Ext)
		}
		return f, nil
	}

	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return &file.File{Content: string(content), Ext: opts.Ext}, nil
}

func writeFile(out io.Writer, f *file.File, opts ParseOptions, width int) error {
	switch {
	case opts.JSON:
		orig, _ := f.Orig()
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(parseOutput{
			Path:        f.Path,
			Ext:         f.Ext,
			Content:     f.Content,
			Data:        f.Data,
			OrigContent: orig.Content,
			Attrs:       f.Attrs,
		})

	case opts.Diff:
		d := diff.Render(f, width)
		if d == "" {
			_, err := fmt.Fprintln(out, "No changes")
			return err
		}
		_, err := fmt.Fprint(out, d)
		return err

	case opts.Render:
		rendered, err := render.Terminal(f.Content, width)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, rendered)
		return err

	default:
		_, err := fmt.Fprint(out, f.Content)
		return err
	}
}

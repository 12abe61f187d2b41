package diff

import (
	"fmt"
	"path/filepath"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/render"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatRendered renders diffs with glamour (default)
	FormatRendered Format = iota
	// FormatPlain returns the unified diff as is
	FormatPlain
)

// Generate diffs the content a file had before parsing against its current content.
// It returns an empty string when the file has no original or nothing changed.
func Generate(f *file.File, format Format, width int) (string, error) {
	switch format {
	case FormatRendered:
		return Render(f, width), nil
	case FormatPlain:
		return Unified(f), nil
	default:
		return "", fmt.Errorf("unsupported diff format: %d", format)
	}
}

// Unified returns a unified diff of the original content against the current content
func Unified(f *file.File) string {
	orig, ok := f.Orig()
	if !ok || orig.Content == f.Content {
		return ""
	}

	name := "content"
	if f.Path != "" {
		name = filepath.Base(f.Path)
	}
	from, to := "a/"+name, "b/"+name

	edits := myers.ComputeEdits(span.URIFromPath(from), orig.Content, f.Content)
	return fmt.Sprint(gotextdiff.ToUnified(from, to, orig.Content, edits))
}

// Render wraps the unified diff in a diff code fence and renders it for the
// terminal, falling back to the fenced text if rendering fails
func Render(f *file.File, width int) string {
	unified := Unified(f)
	if unified == "" {
		return ""
	}

	fenced := fmt.Sprintf("```diff\n%s```\n", unified)

	rendered, err := render.Terminal(fenced, width)
	if err != nil {
		return fenced
	}

	return rendered
}

package parser

import (
	"fmt"

	"github.com/gerunddev/parsercache/internal/file"
)

// Resolution sources, reported to the logger
const (
	SourceExplicit = "explicit"
	SourceRegistry = "registry"
	SourceDefault  = "default"
)

// Resolve picks the stack to run for f.
//
// A non-nil explicit stack is used verbatim and the registry is not
// consulted. Otherwise the stack registered for f.Ext (or the extension of
// f.Path) is used, then the wildcard default.
func (r *Registry) Resolve(f *file.File, explicit Stack) (Stack, error) {
	stack, _, err := r.resolve(f, explicit)
	return stack, err
}

func (r *Registry) resolve(f *file.File, explicit Stack) (Stack, string, error) {
	if explicit != nil {
		return explicit, SourceExplicit, nil
	}

	ext := f.Ext
	if ext == "" {
		ext = file.ExtOf(f.Path)
	}

	if ext != "" {
		if stack, ok := r.Lookup(ext); ok {
			return stack, SourceRegistry, nil
		}
	}

	if stack, ok := r.Default(); ok {
		return stack, SourceDefault, nil
	}

	if ext == "" {
		return nil, "", ErrNoParserAvailable
	}
	return nil, "", fmt.Errorf("%w for extension '%s'", ErrNoParserAvailable, ext)
}

// Package builtin names the parsers that can be assembled into stacks from
// configuration.
package builtin

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/matter"
	"github.com/gerunddev/parsercache/internal/parser"
	"github.com/gerunddev/parsercache/internal/render"
)

// ErrUnknownParser is returned for a parser name that is not in the catalog
var ErrUnknownParser = errors.New("unknown parser")

var catalog = map[string]parser.Parser{
	"noop":   parser.Noop,
	"matter": matter.Parser,
	"html":   render.HTML,
	"trim":   Trim,
}

// Trim strips leading and trailing whitespace from the content
func Trim(f *file.File, next parser.Next) {
	next(parser.Replace(strings.TrimSpace(f.Content)))
}

// Lookup returns the parser registered under name
func Lookup(name string) (parser.Parser, error) {
	p, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w '%s' (available: %s)", ErrUnknownParser, name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names returns the catalog names in sorted order
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Stack builds a stack from parser names
func Stack(names []string) (parser.Stack, error) {
	stack := make(parser.Stack, 0, len(names))
	for _, name := range names {
		p, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		stack = append(stack, p)
	}
	return stack, nil
}

// Apply registers a stack for each extension. Nothing is registered if any
// name is unknown.
func Apply(r *parser.Registry, stacks map[string][]string) error {
	built := make(map[string]parser.Stack, len(stacks))
	for ext, names := range stacks {
		stack, err := Stack(names)
		if err != nil {
			return fmt.Errorf("stack for '%s': %w", ext, err)
		}
		built[ext] = stack
	}

	for ext, stack := range built {
		r.Register(ext, stack...)
	}
	return nil
}

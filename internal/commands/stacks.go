package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/gerunddev/parsercache/internal/builtin"
	"github.com/gerunddev/parsercache/internal/parser"
	"github.com/gerunddev/parsercache/internal/styles"
)

// Stacks lists the registered stacks and the parsers available to configure them
func Stacks(out io.Writer, env *Env) error {
	fmt.Fprintln(out, styles.TitleStyle.Render("Stacks"))

	registry := env.Parsers.Registry()
	for _, ext := range registry.Keys() {
		names := "(default)"
		if ext != parser.Wildcard {
			names = strings.Join(env.Config.Stacks[ext], " → ")
		}
		fmt.Fprintf(out, "  %s %s %s\n",
			styles.ExtStyle.Render(fmt.Sprintf("%-10s", ext)),
			styles.DimStyle.Render(fmt.Sprintf("%d parser(s)", registry.Len(ext))),
			styles.ValueStyle.Render(names))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.TitleStyle.Render("Available parsers"))
	fmt.Fprintf(out, "  %s\n", styles.ValueStyle.Render(strings.Join(builtin.Names(), ", ")))
	return nil
}

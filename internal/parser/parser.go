// Package parser runs stacks of parser functions over normalized files.
//
// Parsers are registered per extension in a Registry. A parse call
// normalizes its input, resolves a stack (explicit, by extension, or the
// wildcard default) and runs it in order, stopping at the first error.
package parser

import (
	"errors"
	"fmt"

	"github.com/gerunddev/parsercache/internal/file"
)

var (
	// ErrNoParserAvailable is reported when no stack matches and no default
	// stack was installed.
	ErrNoParserAvailable = errors.New("parsercache: no parser available")

	// ErrParserFailure matches errors produced by a parser that panicked.
	ErrParserFailure = errors.New("parsercache: parser failed")

	// ErrNilParser is reported when a stack contains a nil parser.
	ErrNilParser = errors.New("parsercache: nil parser in stack")
)

// Parser transforms f and reports completion through next exactly once
type Parser func(f *file.File, next Next)

// Next reports the outcome of one parser step
type Next func(Result)

// Stack is an ordered list of parsers
type Stack []Parser

// Callback receives the settled outcome of a parse call
type Callback func(err error, f *file.File)

// Result is the tagged completion value a parser hands to next.
// A failed result aborts the stack; a successful one may carry replacement
// content, which takes precedence over any in-place edit of f.Content.
type Result struct {
	Err     error
	content string
	replace bool
}

// OK advances to the next parser
func OK() Result {
	return Result{}
}

// Fail aborts the stack with err
func Fail(err error) Result {
	return Result{Err: err}
}

// Replace sets the file content and advances
func Replace(content string) Result {
	return Result{content: content, replace: true}
}

// Content returns the replacement content, if any
func (r Result) Content() (string, bool) {
	return r.content, r.replace
}

// PanicError wraps a value recovered from a panicking parser
type PanicError struct {
	Index int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("parser %d panicked: %v", e.Index, e.Value)
}

// Unwrap exposes the panic value when it was itself an error
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Is reports whether target is ErrParserFailure
func (e *PanicError) Is(target error) bool {
	return target == ErrParserFailure
}

// Noop leaves the file unchanged
func Noop(f *file.File, next Next) {
	next(OK())
}

// Func adapts a synchronous function into a Parser
func Func(fn func(f *file.File) error) Parser {
	return func(f *file.File, next Next) {
		if err := fn(f); err != nil {
			next(Fail(err))
			return
		}
		next(OK())
	}
}

// Transform adapts a content-to-content function into a Parser
func Transform(fn func(content string) (string, error)) Parser {
	return func(f *file.File, next Next) {
		content, err := fn(f.Content)
		if err != nil {
			next(Fail(err))
			return
		}
		next(Replace(content))
	}
}

// Single wraps one parser into a stack
func Single(p Parser) Stack {
	return Stack{p}
}

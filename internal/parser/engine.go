package parser

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gerunddev/parsercache/internal/file"
)

// Run executes stack against f and calls cb once with the outcome.
//
// Parsers run in order. A failed result stops the stack and cb receives that
// error unchanged. A parser may call next synchronously or later from another
// goroutine; only its first call is honored. A parser that panics before
// calling next fails the stack with a *PanicError. A panic in cb is raised
// unchanged on whichever goroutine called next.
func Run(stack Stack, f *file.File, cb Callback) {
	var (
		once       sync.Once
		cbPanicked atomic.Bool
	)
	settle := func(err error) {
		once.Do(func() {
			defer func() {
				if v := recover(); v != nil {
					cbPanicked.Store(true)
					panic(v)
				}
			}()
			cb(err, f)
		})
	}

	step(stack, 0, f, settle, &cbPanicked)
}

func step(stack Stack, i int, f *file.File, settle func(error), cbPanicked *atomic.Bool) {
	if i >= len(stack) {
		settle(nil)
		return
	}

	p := stack[i]
	if p == nil {
		settle(fmt.Errorf("%w at index %d", ErrNilParser, i))
		return
	}

	var done atomic.Bool
	next := func(res Result) {
		if !done.CompareAndSwap(false, true) {
			return
		}
		if res.Err != nil {
			settle(res.Err)
			return
		}
		if content, ok := res.Content(); ok {
			f.Content = content
		}
		step(stack, i+1, f, settle, cbPanicked)
	}

	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if cbPanicked.Load() {
			panic(v)
		}
		// A panic after next was called cannot change the outcome.
		if !done.Load() {
			next(Fail(&PanicError{Index: i, Value: v}))
		}
	}()

	p(f, next)
}

package parser

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gerunddev/parsercache/internal/file"
)

// runSync runs stack and waits for the callback, failing if it never fires
func runSync(t *testing.T, stack Stack, f *file.File) (*file.File, error) {
	t.Helper()

	type outcome struct {
		err  error
		file *file.File
	}
	ch := make(chan outcome, 4)
	Run(stack, f, func(err error, f *file.File) {
		ch <- outcome{err: err, file: f}
	})

	select {
	case o := <-ch:
		return o.file, o.err
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
		return nil, nil
	}
}

func TestRunEmptyStack(t *testing.T) {
	f := file.New("unchanged")

	got, err := runSync(t, Stack{}, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != f || got.Content != "unchanged" {
		t.Errorf("file changed: %+v", got)
	}
}

func TestRunInOrder(t *testing.T) {
	stack := Stack{
		Transform(func(s string) (string, error) { return s + "1", nil }),
		Func(func(f *file.File) error {
			f.Content += "2"
			return nil
		}),
		func(f *file.File, next Next) {
			next(Replace(f.Content + "3"))
		},
	}

	f, err := runSync(t, stack, file.New("0"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Content != "0123" {
		t.Errorf("Content = %q, want %q", f.Content, "0123")
	}
}

func TestRunShortCircuits(t *testing.T) {
	boom := errors.New("boom")
	var secondRan atomic.Bool

	stack := Stack{
		func(f *file.File, next Next) { next(Fail(boom)) },
		func(f *file.File, next Next) {
			secondRan.Store(true)
			next(OK())
		},
	}

	_, err := runSync(t, stack, file.New("x"))
	if err != boom {
		t.Errorf("err = %v, want the exact error passed to next", err)
	}
	if secondRan.Load() {
		t.Error("second parser ran after failure")
	}
}

func TestRunFuncErrorPassesThrough(t *testing.T) {
	boom := errors.New("func failed")

	_, err := runSync(t, Single(Func(func(*file.File) error { return boom })), file.New("x"))
	if err != boom {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestRunReplaceWinsOverMutation(t *testing.T) {
	stack := Single(func(f *file.File, next Next) {
		f.Content = "mutated"
		next(Replace("explicit"))
	})

	f, _ := runSync(t, stack, file.New("x"))
	if f.Content != "explicit" {
		t.Errorf("Content = %q, want %q", f.Content, "explicit")
	}
}

func TestRunFailKeepsPartialFile(t *testing.T) {
	boom := errors.New("boom")
	stack := Single(func(f *file.File, next Next) {
		f.Content = "partial"
		next(Fail(boom))
	})

	f, err := runSync(t, stack, file.New("x"))
	if err != boom {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if f.Content != "partial" {
		t.Errorf("expected partial file to be returned, got %q", f.Content)
	}
}

func TestRunCallbackFiresOnceWhenNextCalledTwice(t *testing.T) {
	var calls atomic.Int32
	var thirdRuns atomic.Int32

	stack := Stack{
		func(f *file.File, next Next) {
			next(OK())
			next(OK())
			next(Fail(errors.New("late")))
		},
		Noop,
		func(f *file.File, next Next) {
			thirdRuns.Add(1)
			next(OK())
		},
	}

	Run(stack, file.New("x"), func(err error, f *file.File) {
		calls.Add(1)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	if n := calls.Load(); n != 1 {
		t.Errorf("callback fired %d times, want 1", n)
	}
	if n := thirdRuns.Load(); n != 1 {
		t.Errorf("third parser ran %d times, want 1", n)
	}
}

func TestRunAsyncNext(t *testing.T) {
	stack := Stack{
		func(f *file.File, next Next) {
			go func() {
				time.Sleep(5 * time.Millisecond)
				f.Content += "-async"
				next(OK())
			}()
		},
		Transform(func(s string) (string, error) { return s + "-sync", nil }),
	}

	f, err := runSync(t, stack, file.New("start"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Content != "start-async-sync" {
		t.Errorf("Content = %q", f.Content)
	}
}

func TestRunAsyncDoubleNext(t *testing.T) {
	var calls atomic.Int32
	var wg sync.WaitGroup
	wg.Add(1)

	stack := Single(func(f *file.File, next Next) {
		go func() {
			defer wg.Done()
			var inner sync.WaitGroup
			for i := 0; i < 10; i++ {
				inner.Add(1)
				go func() {
					defer inner.Done()
					next(OK())
				}()
			}
			inner.Wait()
		}()
	})

	Run(stack, file.New("x"), func(err error, f *file.File) {
		calls.Add(1)
	})
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("callback fired %d times, want 1", n)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	var secondRan atomic.Bool
	stack := Stack{
		func(f *file.File, next Next) {
			panic("kaboom")
		},
		func(f *file.File, next Next) {
			secondRan.Store(true)
			next(OK())
		},
	}

	_, err := runSync(t, stack, file.New("x"))

	if !errors.Is(err, ErrParserFailure) {
		t.Fatalf("expected ErrParserFailure, got %v", err)
	}
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PanicError, got %T", err)
	}
	if pe.Index != 0 || pe.Value != "kaboom" {
		t.Errorf("unexpected panic error: %+v", pe)
	}
	if secondRan.Load() {
		t.Error("second parser ran after panic")
	}
}

func TestRunPanicWithErrorUnwraps(t *testing.T) {
	cause := errors.New("cause")
	stack := Single(func(f *file.File, next Next) {
		panic(cause)
	})

	_, err := runSync(t, stack, file.New("x"))
	if !errors.Is(err, cause) {
		t.Errorf("expected panic error to unwrap to cause, got %v", err)
	}
}

func TestRunPanicAfterNextIsIgnored(t *testing.T) {
	var calls atomic.Int32
	stack := Single(func(f *file.File, next Next) {
		next(OK())
		panic("too late")
	})

	Run(stack, file.New("x"), func(err error, f *file.File) {
		calls.Add(1)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	if n := calls.Load(); n != 1 {
		t.Errorf("callback fired %d times, want 1", n)
	}
}

func TestRunCallbackPanicPropagates(t *testing.T) {
	defer func() {
		if v := recover(); v != "from callback" {
			t.Errorf("recovered %v, want the callback's panic value", v)
		}
	}()

	Run(Stack{Noop, Noop}, file.New("x"), func(err error, f *file.File) {
		panic("from callback")
	})
	t.Error("expected panic to reach the caller")
}

func TestRunCallbackPanicFromParserGoroutine(t *testing.T) {
	recovered := make(chan any, 1)
	stack := Single(func(f *file.File, next Next) {
		go func() {
			defer func() {
				recovered <- recover()
			}()
			next(OK())
		}()
	})

	Run(stack, file.New("x"), func(err error, f *file.File) {
		panic("from callback")
	})

	select {
	case v := <-recovered:
		if v != "from callback" {
			t.Errorf("recovered %#v, want the callback's panic value", v)
		}
	case <-time.After(time.Second):
		t.Fatal("next was never called")
	}
}

func TestRunNilParser(t *testing.T) {
	_, err := runSync(t, Stack{Noop, nil}, file.New("x"))
	if !errors.Is(err, ErrNilParser) {
		t.Errorf("expected ErrNilParser, got %v", err)
	}
}

func TestResultContent(t *testing.T) {
	if _, ok := OK().Content(); ok {
		t.Error("OK() should carry no content")
	}
	if c, ok := Replace("x").Content(); !ok || c != "x" {
		t.Errorf("Replace(x).Content() = %q, %v", c, ok)
	}
	if Fail(errors.New("e")).Err == nil {
		t.Error("Fail should carry its error")
	}
}

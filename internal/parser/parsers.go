package parser

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/parsercache/internal/file"
	"github.com/gerunddev/parsercache/internal/logger"
	"github.com/gerunddev/parsercache/internal/metrics"
)

// Parsers is the entry point: a registry plus the parse calls that use it
type Parsers struct {
	registry *Registry
	log      *logger.Logger
	metrics  *metrics.Collector
}

// Option configures a Parsers instance
type Option func(*Parsers)

// WithRegistry uses an existing registry
func WithRegistry(r *Registry) Option {
	return func(p *Parsers) {
		p.registry = r
	}
}

// WithLogger sets the logger used for parse events
func WithLogger(l *logger.Logger) Option {
	return func(p *Parsers) {
		p.log = l
	}
}

// WithMetrics records every parse call on c
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Parsers) {
		p.metrics = c
	}
}

// New creates a Parsers instance with an empty registry
func New(opts ...Option) *Parsers {
	p := &Parsers{
		registry: NewRegistry(),
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init installs the default stack. Safe to call more than once.
func (p *Parsers) Init() *Parsers {
	p.registry.Init()
	return p
}

// Register appends parsers to the stack for ext
func (p *Parsers) Register(ext string, parsers ...Parser) *Parsers {
	p.registry.Register(ext, parsers...)
	return p
}

// Get returns the stack for ext, or the default stack for Wildcard
func (p *Parsers) Get(ext string) Stack {
	return p.registry.Get(ext)
}

// Registry returns the underlying registry
func (p *Parsers) Registry() *Registry {
	return p.registry
}

// Parse normalizes input and runs the stack registered for its extension,
// or the default stack. Every outcome, including invalid input, is
// delivered through cb exactly once; for invalid input the file is nil.
func (p *Parsers) Parse(input any, cb Callback) {
	p.parse(input, nil, cb)
}

// ParseWith runs stack verbatim without consulting the registry.
// A nil stack runs no parsers.
func (p *Parsers) ParseWith(input any, stack Stack, cb Callback) {
	if stack == nil {
		stack = Stack{}
	}
	p.parse(input, stack, cb)
}

func (p *Parsers) parse(input any, explicit Stack, cb Callback) {
	if cb == nil {
		cb = func(error, *file.File) {}
	}

	runID := uuid.NewString()
	start := time.Now()

	f, err := file.Normalize(input)
	if err != nil {
		p.log.ParseFailed(runID, "", err)
		p.observe("", err, start)
		cb(err, nil)
		return
	}
	p.log.ParseStarted(runID, f.Path, f.Ext)

	stack, source, err := p.registry.resolve(f, explicit)
	if err != nil {
		p.log.ParseFailed(runID, f.Path, err)
		p.observe(f.Ext, err, start)
		cb(err, f)
		return
	}
	p.log.StackResolved(runID, source, len(stack))
	if p.metrics != nil {
		p.metrics.ObserveStack(f.Ext, len(stack))
	}

	Run(stack, f, func(err error, f *file.File) {
		if err != nil {
			p.log.ParseFailed(runID, f.Path, err)
		} else {
			p.log.ParseCompleted(runID, f.Path, time.Since(start))
		}
		p.observe(f.Ext, err, start)
		cb(err, f)
	})
}

func (p *Parsers) observe(ext string, err error, start time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveParse(ext, err, time.Since(start))
	}
}

// Wait starts one parse call and blocks until its callback fires or ctx is
// done. On cancellation the chain keeps running in the background and its
// result is dropped.
//
//	f, err := parser.Wait(ctx, func(cb parser.Callback) {
//		p.Parse(input, cb)
//	})
func Wait(ctx context.Context, start func(Callback)) (*file.File, error) {
	type outcome struct {
		file *file.File
		err  error
	}

	ch := make(chan outcome, 1)
	start(func(err error, f *file.File) {
		select {
		case ch <- outcome{file: f, err: err}:
		default:
		}
	})

	// A chain that settled synchronously wins over a cancelled context.
	select {
	case o := <-ch:
		return o.file, o.err
	default:
	}

	select {
	case o := <-ch:
		return o.file, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

package parser

import (
	"slices"
	"sync"

	"github.com/gerunddev/parsercache/internal/file"
)

// Wildcard is the reserved key of the default stack
const Wildcard = "*"

// Registry maps extension keys to parser stacks
type Registry struct {
	stacks map[string]Stack
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry. Call Init to install the default
// stack before parsing without an explicit stack.
func NewRegistry() *Registry {
	return &Registry{
		stacks: make(map[string]Stack),
	}
}

// Key normalizes an extension key. The wildcard is kept as is.
func Key(ext string) string {
	return file.NormalizeExt(ext)
}

// Init installs the default pass-through stack if none exists
func (r *Registry) Init() *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stacks[Wildcard]; !exists {
		r.stacks[Wildcard] = Stack{Noop}
	}
	return r
}

// Register appends parsers to the stack for ext, creating it if absent.
// Registering the same parser twice runs it twice. Nil parsers are dropped.
func (r *Registry) Register(ext string, parsers ...Parser) *Registry {
	key := Key(ext)

	r.mu.Lock()
	defer r.mu.Unlock()

	stack := r.stacks[key]
	if stack == nil {
		stack = Stack{}
	}
	for _, p := range parsers {
		if p != nil {
			stack = append(stack, p)
		}
	}
	r.stacks[key] = stack
	return r
}

// Get returns a copy of the stack for ext, or nil if none is registered.
// Get(Wildcard) returns the default stack.
func (r *Registry) Get(ext string) Stack {
	stack, _ := r.Lookup(ext)
	return stack
}

// Lookup returns a copy of the stack for ext and whether it exists
func (r *Registry) Lookup(ext string) (Stack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stack, exists := r.stacks[Key(ext)]
	if !exists {
		return nil, false
	}
	return slices.Clone(stack), true
}

// Default returns the wildcard stack
func (r *Registry) Default() (Stack, bool) {
	return r.Lookup(Wildcard)
}

// GetOrDefault returns the stack for ext, falling back to the default stack
func (r *Registry) GetOrDefault(ext string) (Stack, bool) {
	if stack, ok := r.Lookup(ext); ok {
		return stack, true
	}
	return r.Default()
}

// Has reports whether ext has its own stack
func (r *Registry) Has(ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.stacks[Key(ext)]
	return exists
}

// Len returns the number of parsers registered for ext
func (r *Registry) Len(ext string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.stacks[Key(ext)])
}

// Remove deletes the stack for ext
func (r *Registry) Remove(ext string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key(ext)
	if _, exists := r.stacks[key]; !exists {
		return false
	}
	delete(r.stacks, key)
	return true
}

// Keys returns the registered keys in sorted order
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.stacks))
	for k := range r.stacks {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

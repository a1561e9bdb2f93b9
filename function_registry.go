package variation

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// Function represents a callable registered against evaluators.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom functions keyed by lower-cased name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: make(map[string]Function)}
}

// DefaultFunctionRegistry exposes the hashing primitives to rule expressions:
//
//	hash(value)                      -> HashString(value)
//	variant_index(seed, key, count)  -> SelectVariantIndex(seed, key, count)
//	clamp_seed(seed, max)            -> ClampSeed(seed, max)
func DefaultFunctionRegistry() *FunctionRegistry {
	registry := NewFunctionRegistry()
	_ = registry.Register("hash", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("variation: hash expects 1 argument, got %d", len(args))
		}
		return HashString(fmt.Sprint(args[0])), nil
	})
	_ = registry.Register("variant_index", func(args ...any) (any, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("variation: variant_index expects 3 arguments, got %d", len(args))
		}
		seed, err := toInt(args[0])
		if err != nil {
			return nil, err
		}
		count, err := toInt(args[2])
		if err != nil {
			return nil, err
		}
		return SelectVariantIndex(seed, fmt.Sprint(args[1]), count), nil
	})
	_ = registry.Register("clamp_seed", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("variation: clamp_seed expects 2 arguments, got %d", len(args))
		}
		seed, err := toInt(args[0])
		if err != nil {
			return nil, err
		}
		max, err := toInt(args[1])
		if err != nil {
			return nil, err
		}
		return ClampSeed(seed, max), nil
	})
	return registry
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("variation: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("variation: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("variation: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{functions: make(map[string]Function, len(r.functions))}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("variation: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("variation: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// toInt accepts the numeric shapes produced by expr (int), CEL (int64, uint64)
// and goja (int64, float64).
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("variation: expected integer, got %v", v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("variation: expected integer, got %T", value)
	}
}

// Package normalize applies a field's declared normalizer chain to a raw
// submitted value before validation runs. Normalizers are pure transforms
// applied as a left fold in declared order; an unknown identifier is a no-op
// so newer blueprints degrade gracefully on older engines, but unknown names
// are reported back to the caller so they stay observable.
package normalize

import (
	"strings"

	"github.com/goliatone/go-blueprint/pkg/schema"
)

// Built-in normalizer identifiers. The case transforms intentionally mirror
// the camelCase names blueprints were historically authored with.
const (
	Trim        = "trim"
	ToLowerCase = "toLowerCase"
	ToUpperCase = "toUpperCase"
)

// Func transforms a value. Implementations must be pure and must pass
// non-applicable types through untouched.
type Func func(value any) any

// Registry maps normalizer identifiers to their implementations.
type Registry struct {
	fns map[string]Func
}

// NewRegistry constructs a registry seeded with the built-in normalizers.
func NewRegistry() *Registry {
	r := &Registry{fns: make(map[string]Func)}
	r.Register(Trim, func(value any) any {
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s)
		}
		return value
	})
	r.Register(ToLowerCase, func(value any) any {
		if s, ok := value.(string); ok {
			return strings.ToLower(s)
		}
		return value
	})
	r.Register(ToUpperCase, func(value any) any {
		if s, ok := value.(string); ok {
			return strings.ToUpper(s)
		}
		return value
	})
	return r
}

// Register adds or replaces a normalizer. Empty names and nil funcs are
// ignored.
func (r *Registry) Register(name string, fn Func) {
	if r == nil || name == "" || fn == nil {
		return
	}
	r.fns[name] = fn
}

// Apply runs the field's normalizer chain over value and returns the result
// together with the identifiers that were not recognised. Unknown identifiers
// never fail the chain; the value flows past them unchanged.
func (r *Registry) Apply(field schema.Field, value any) (any, []string) {
	if r == nil || len(field.Normalizers) == 0 {
		return value, nil
	}
	var unknown []string
	for _, name := range field.Normalizers {
		fn, ok := r.fns[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		value = fn(value)
	}
	return value, unknown
}

// Package lookup defines the Remote Lookup Services collaborator the rule
// engine queries for uniqueness-style checks. Lookups are resolved by rule
// type through a registry, keeping the remote namespace open for host
// applications to extend.
package lookup

import "context"

// Rule types served by the built-in workspace services.
const (
	RuleUniqueWorkspaceName    = "unique_workspace_name"
	RuleUniqueWorkspaceContact = "unique_workspace_contact"
)

// Func answers one remote check. It reports whether a conflicting record
// already exists for value. A transport failure must be returned as an error
// and never folded into a false "no conflict" answer.
type Func func(ctx context.Context, value string) (bool, error)

// Services is the minimal contract the surrounding platform implements for
// the built-in uniqueness rules.
type Services interface {
	IsWorkspaceNameTaken(ctx context.Context, name string) (bool, error)
	IsContactEmailTaken(ctx context.Context, email string) (bool, error)
}

// Registry maps rule types to lookup functions.
type Registry struct {
	fns map[string]Func
}

// NewRegistry builds a registry. When services is non-nil the two built-in
// workspace lookups are registered under their catalogue rule types.
func NewRegistry(services Services) *Registry {
	r := &Registry{fns: make(map[string]Func)}
	if services != nil {
		r.Register(RuleUniqueWorkspaceName, services.IsWorkspaceNameTaken)
		r.Register(RuleUniqueWorkspaceContact, services.IsContactEmailTaken)
	}
	return r
}

// Register binds a lookup function to a rule type, replacing any previous
// binding. Empty types and nil funcs are ignored.
func (r *Registry) Register(ruleType string, fn Func) {
	if r == nil || ruleType == "" || fn == nil {
		return
	}
	r.fns[ruleType] = fn
}

// Resolve returns the lookup bound to ruleType, if any.
func (r *Registry) Resolve(ruleType string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.fns[ruleType]
	return fn, ok
}

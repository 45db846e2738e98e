// Package store provides the Schema Store collaborator: fetching blueprint
// trees by key or by filter. A fetch eagerly resolves steps, fields, and
// rules in one logical snapshot so projection and validation never observe a
// partially loaded tree, and returned blueprints are deep copies so callers
// can never mutate the stored schema.
package store

import (
	"context"

	"github.com/goliatone/go-blueprint/pkg/schema"
)

// FetchOptions controls how much of the tree a by-key fetch carries and an
// optional status equality filter. The status filter is exact: a mismatch
// yields nil rather than falling back to another version.
type FetchOptions struct {
	IncludeSteps  bool
	IncludeFields bool
	Status        schema.Status
}

// FullTree fetches everything; the rule engine always uses this so it
// evaluates against a complete snapshot.
func FullTree() FetchOptions {
	return FetchOptions{IncludeSteps: true, IncludeFields: true}
}

// Query filters a blueprint listing.
type Query struct {
	Status  []schema.Status
	Persona []string
	Limit   int
}

// Store is the read contract the engine consumes. A missing blueprint is
// (nil, nil), not an error.
type Store interface {
	BlueprintByKey(ctx context.Context, key string, opts FetchOptions) (*schema.Blueprint, error)
	Blueprints(ctx context.Context, q Query) ([]*schema.Blueprint, error)
}

func applyFetchOptions(bp *schema.Blueprint, opts FetchOptions) *schema.Blueprint {
	if bp == nil {
		return nil
	}
	if !opts.IncludeSteps {
		bp.Steps = nil
	}
	if !opts.IncludeFields {
		bp.Fields = nil
		for i := range bp.Steps {
			bp.Steps[i].Fields = nil
		}
	}
	return bp
}

func matchesQuery(bp *schema.Blueprint, q Query) bool {
	if len(q.Status) > 0 && !containsStatus(q.Status, bp.Status) {
		return false
	}
	if len(q.Persona) > 0 && !containsString(q.Persona, bp.Persona) {
		return false
	}
	return true
}

func containsStatus(haystack []schema.Status, needle schema.Status) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

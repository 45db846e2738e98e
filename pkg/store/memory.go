package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-blueprint/pkg/schema"
)

// Memory is an in-process Store. Blueprints are validated on the way in, so
// every tree handed out downstream already satisfies the model invariants.
type Memory struct {
	byKey map[string]*schema.Blueprint
	order []string
}

// NewMemory builds a store from the given blueprints. Each blueprint is
// validated and deep-copied; duplicate keys are rejected.
func NewMemory(blueprints ...*schema.Blueprint) (*Memory, error) {
	m := &Memory{byKey: make(map[string]*schema.Blueprint, len(blueprints))}
	for _, bp := range blueprints {
		if err := m.add(bp); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Memory) add(bp *schema.Blueprint) error {
	if err := bp.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if _, dup := m.byKey[bp.Key]; dup {
		return fmt.Errorf("store: duplicate blueprint key %q", bp.Key)
	}
	m.byKey[bp.Key] = bp.Clone()
	m.order = append(m.order, bp.Key)
	return nil
}

// BlueprintByKey returns a snapshot of the blueprint with the given key, or
// nil when absent or when the status filter does not match.
func (m *Memory) BlueprintByKey(ctx context.Context, key string, opts FetchOptions) (*schema.Blueprint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bp, ok := m.byKey[key]
	if !ok {
		return nil, nil
	}
	if opts.Status != "" && bp.Status != opts.Status {
		return nil, nil
	}
	return applyFetchOptions(bp.Clone(), opts), nil
}

// Blueprints returns snapshots of every blueprint matching the query, sorted
// by key for deterministic listings, capped at q.Limit when positive.
func (m *Memory) Blueprints(ctx context.Context, q Query) ([]*schema.Blueprint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys := make([]string, len(m.order))
	copy(keys, m.order)
	sort.Strings(keys)

	var out []*schema.Blueprint
	for _, key := range keys {
		bp := m.byKey[key]
		if !matchesQuery(bp, q) {
			continue
		}
		out = append(out, bp.Clone())
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

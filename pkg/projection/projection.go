// Package projection renders store snapshots into ordered, client-safe
// blueprint documents. Steps, fields, and rules are sorted by order index
// with stable identity tie-breaking, user-facing strings are sanitized, and
// when fields are included the derived initial value map rides along so the
// client starts from a fully populated form state. Projection is a read-only
// view; it never mutates the underlying model.
package projection

import (
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-blueprint/pkg/defaults"
	"github.com/goliatone/go-blueprint/pkg/schema"
	"github.com/goliatone/go-blueprint/pkg/store"
)

// Blueprint is the projected, client-safe document.
type Blueprint struct {
	Key           string         `json:"key"`
	Name          string         `json:"name"`
	Version       int            `json:"version"`
	Status        schema.Status  `json:"status"`
	Persona       string         `json:"persona,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Settings      map[string]any `json:"settings,omitempty"`
	Steps         []Step         `json:"steps,omitempty"`
	Fields        []Field        `json:"fields,omitempty"`
	InitialValues map[string]any `json:"initialValues,omitempty"`
}

// Step is a projected step with its fields in presentation order.
type Step struct {
	Key         string           `json:"stepKey"`
	Title       string           `json:"title"`
	OrderIndex  int              `json:"orderIndex"`
	GatingRules []map[string]any `json:"gatingRules,omitempty"`
	Fields      []Field          `json:"fields,omitempty"`
}

// Field is a projected field with its rule chain in evaluation order.
type Field struct {
	Name        string         `json:"name"`
	Label       string         `json:"label,omitempty"`
	Component   string         `json:"component,omitempty"`
	DataType    schema.DataType `json:"dataType"`
	Required    bool           `json:"required"`
	Default     any            `json:"defaultValue,omitempty"`
	Normalizers []string       `json:"normalizers,omitempty"`
	OrderIndex  int            `json:"orderIndex"`
	Visibility  map[string]any `json:"visibility,omitempty"`
	Rules       []Rule         `json:"rules,omitempty"`
}

// Rule is a projected rule. HaltOnFail is resolved to its effective value so
// clients do not have to re-implement the default.
type Rule struct {
	Type       string          `json:"type"`
	Message    string          `json:"message,omitempty"`
	Severity   schema.Severity `json:"severity,omitempty"`
	HaltOnFail bool            `json:"haltOnFail"`
	Config     map[string]any  `json:"config,omitempty"`
	OrderIndex int             `json:"orderIndex"`
}

// List is the result of a blueprint listing.
type List struct {
	Count int         `json:"count"`
	Items []Blueprint `json:"items"`
}

// ListFilter narrows a listing and controls how much of each tree is
// projected.
type ListFilter struct {
	Status        []schema.Status
	Persona       []string
	Limit         int
	IncludeSteps  bool
	IncludeFields bool
}

// GetOptions controls a single-blueprint projection.
type GetOptions struct {
	IncludeSteps  bool
	IncludeFields bool
	Status        schema.Status
}

// Option customises a Projection.
type Option func(*Projection)

// WithSanitizer overrides the policy used to scrub user-facing strings.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(p *Projection) {
		if policy != nil {
			p.policy = policy
		}
	}
}

// Projection builds client documents from a schema store.
type Projection struct {
	store  store.Store
	policy *bluemonday.Policy
}

// New constructs a Projection over the given store. By default user-facing
// strings are stripped of all markup.
func New(s store.Store, options ...Option) *Projection {
	p := &Projection{store: s, policy: bluemonday.StrictPolicy()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// List projects every blueprint matching the filter.
func (p *Projection) List(ctx context.Context, filter ListFilter) (List, error) {
	blueprints, err := p.store.Blueprints(ctx, store.Query{
		Status:  filter.Status,
		Persona: filter.Persona,
		Limit:   filter.Limit,
	})
	if err != nil {
		return List{}, fmt.Errorf("projection: list blueprints: %w", err)
	}

	items := make([]Blueprint, 0, len(blueprints))
	for _, bp := range blueprints {
		items = append(items, p.project(bp, filter.IncludeSteps, filter.IncludeFields))
	}
	return List{Count: len(items), Items: items}, nil
}

// ByKey projects the blueprint with the given key, or returns nil when no
// blueprint matches the key and optional status filter.
func (p *Projection) ByKey(ctx context.Context, key string, opts GetOptions) (*Blueprint, error) {
	bp, err := p.store.BlueprintByKey(ctx, key, store.FetchOptions{
		IncludeSteps:  opts.IncludeSteps,
		IncludeFields: opts.IncludeFields,
		Status:        opts.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("projection: fetch blueprint %q: %w", key, err)
	}
	if bp == nil {
		return nil, nil
	}
	projected := p.project(bp, opts.IncludeSteps, opts.IncludeFields)
	return &projected, nil
}

func (p *Projection) project(bp *schema.Blueprint, includeSteps, includeFields bool) Blueprint {
	out := Blueprint{
		Key:      bp.Key,
		Name:     p.clean(bp.Name),
		Version:  bp.Version,
		Status:   bp.Status,
		Persona:  bp.Persona,
		Metadata: bp.Metadata,
		Settings: bp.Settings,
	}

	if includeFields {
		out.Fields = p.projectFields(bp.Fields)
	}
	if includeSteps {
		steps := bp.SortedSteps()
		out.Steps = make([]Step, 0, len(steps))
		for _, step := range steps {
			projected := Step{
				Key:         step.Key,
				Title:       p.clean(step.Title),
				OrderIndex:  step.OrderIndex,
				GatingRules: step.GatingRules,
			}
			if includeFields {
				projected.Fields = p.projectFields(step.Fields)
			}
			out.Steps = append(out.Steps, projected)
		}
	}
	if includeFields {
		out.InitialValues = defaults.InitialValues(bp)
	}
	return out
}

func (p *Projection) projectFields(fields []schema.Field) []Field {
	sorted := schema.SortedFields(fields)
	out := make([]Field, 0, len(sorted))
	for _, field := range sorted {
		projected := Field{
			Name:        field.Name,
			Label:       p.clean(field.Label),
			Component:   field.Component,
			DataType:    field.DataType,
			Required:    field.Required,
			Default:     field.Default,
			Normalizers: field.Normalizers,
			OrderIndex:  field.OrderIndex,
			Visibility:  field.Visibility,
		}
		rules := field.SortedRules()
		if len(rules) > 0 {
			projected.Rules = make([]Rule, 0, len(rules))
			for _, rule := range rules {
				projected.Rules = append(projected.Rules, Rule{
					Type:       rule.Type,
					Message:    p.clean(rule.Message),
					Severity:   rule.Severity,
					HaltOnFail: rule.Halts(),
					Config:     rule.Config,
					OrderIndex: rule.OrderIndex,
				})
			}
		}
		out = append(out, projected)
	}
	return out
}

func (p *Projection) clean(s string) string {
	if s == "" {
		return ""
	}
	return p.policy.Sanitize(s)
}

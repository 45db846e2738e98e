// Package blueprint wires the schema store, normalization pipeline, rule
// engine, and projection into one engine: a declarative blueprint compiled at
// request time into a client-renderable form description with derived initial
// values, and a server-side validation pipeline producing structured
// verdicts.
package blueprint

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-blueprint/pkg/defaults"
	"github.com/goliatone/go-blueprint/pkg/lookup"
	"github.com/goliatone/go-blueprint/pkg/metrics"
	"github.com/goliatone/go-blueprint/pkg/normalize"
	"github.com/goliatone/go-blueprint/pkg/projection"
	"github.com/goliatone/go-blueprint/pkg/rules"
	"github.com/goliatone/go-blueprint/pkg/schema"
	"github.com/goliatone/go-blueprint/pkg/store"
)

// Option customises the engine configuration.
type Option func(*Engine)

// WithStore injects the schema store backing every read. Required.
func WithStore(s store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLookupServices wires the built-in workspace uniqueness lookups.
func WithLookupServices(services lookup.Services) Option {
	return func(e *Engine) {
		e.services = services
	}
}

// WithLookup registers an additional named remote lookup under ruleType.
func WithLookup(ruleType string, fn lookup.Func) Option {
	return func(e *Engine) {
		e.extraLookups = append(e.extraLookups, namedLookup{ruleType: ruleType, fn: fn})
	}
}

// WithNormalizer registers an additional normalizer.
func WithNormalizer(name string, fn normalize.Func) Option {
	return func(e *Engine) {
		e.extraNormalizers = append(e.extraNormalizers, namedNormalizer{name: name, fn: fn})
	}
}

// WithLogger injects a logger. The engine is silent by default.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics injects a metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(e *Engine) {
		e.metrics = collector
	}
}

type namedLookup struct {
	ruleType string
	fn       lookup.Func
}

type namedNormalizer struct {
	name string
	fn   normalize.Func
}

// Engine is the façade over the blueprint subsystem. It is safe for
// concurrent use: every call is a pure function of the schema snapshot, the
// input value, and the submission context.
type Engine struct {
	store            store.Store
	services         lookup.Services
	extraLookups     []namedLookup
	extraNormalizers []namedNormalizer
	logger           *zap.Logger
	metrics          *metrics.Collector

	projection *projection.Projection
	evaluator  *rules.Evaluator
}

// New constructs an Engine from the provided options. A store is required.
func New(options ...Option) (*Engine, error) {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("blueprint: store is required")
	}

	lookups := lookup.NewRegistry(e.services)
	for _, named := range e.extraLookups {
		lookups.Register(named.ruleType, named.fn)
	}

	normalizers := normalize.NewRegistry()
	for _, named := range e.extraNormalizers {
		normalizers.Register(named.name, named.fn)
	}

	e.projection = projection.New(e.store)
	e.evaluator = rules.New(e.store,
		rules.WithLookups(lookups),
		rules.WithNormalizers(normalizers),
		rules.WithLogger(e.logger),
		rules.WithMetrics(e.metrics),
	)
	return e, nil
}

// ListBlueprints projects every blueprint matching the filter.
func (e *Engine) ListBlueprints(ctx context.Context, filter projection.ListFilter) (projection.List, error) {
	return e.projection.List(ctx, filter)
}

// GetBlueprint projects a single blueprint, or returns nil when the key (and
// optional status filter) matches nothing.
func (e *Engine) GetBlueprint(ctx context.Context, key string, opts projection.GetOptions) (*projection.Blueprint, error) {
	return e.projection.ByKey(ctx, key, opts)
}

// EvaluateField validates one submitted value against the named field's rule
// chain.
func (e *Engine) EvaluateField(ctx context.Context, blueprintKey, fieldName string, value any, ec rules.Context) (rules.Verdict, error) {
	return e.evaluator.EvaluateField(ctx, blueprintKey, fieldName, value, ec)
}

// InitialValues derives the initial value map for a blueprint's fields.
func (e *Engine) InitialValues(ctx context.Context, blueprintKey string) (map[string]any, error) {
	bp, err := e.store.BlueprintByKey(ctx, blueprintKey, store.FullTree())
	if err != nil {
		return nil, err
	}
	if bp == nil {
		return nil, nil
	}
	return defaults.InitialValues(bp), nil
}

// Projection exposes the read-side projector, for callers that mount the
// HTTP component directly.
func (e *Engine) Projection() *projection.Projection { return e.projection }

// Evaluator exposes the rule engine.
func (e *Engine) Evaluator() *rules.Evaluator { return e.evaluator }

// Store exposes the backing schema store.
func (e *Engine) Store() store.Store { return e.store }

// Ensure the schema package's core types stay part of the root API surface
// without forcing callers to import every subpackage.
type (
	// Blueprint re-exports the schema model root.
	Blueprint = schema.Blueprint
	// Step re-exports the schema step.
	Step = schema.Step
	// Field re-exports the schema field.
	Field = schema.Field
	// Rule re-exports the schema rule.
	Rule = schema.Rule
	// Verdict re-exports the evaluation result.
	Verdict = rules.Verdict
)

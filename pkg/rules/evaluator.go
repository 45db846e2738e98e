// Package rules evaluates a field's ordered rule chain against a submitted
// value and produces a structured verdict. Dispatch runs over a closed tagged
// union of built-in rule kinds plus an open remote-lookup namespace; unknown
// rule types degrade to observable no-ops so blueprints authored against a
// newer engine never block submissions on an older one.
package rules

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-blueprint/internal/coerce"
	"github.com/goliatone/go-blueprint/pkg/lookup"
	"github.com/goliatone/go-blueprint/pkg/metrics"
	"github.com/goliatone/go-blueprint/pkg/normalize"
	"github.com/goliatone/go-blueprint/pkg/schema"
	"github.com/goliatone/go-blueprint/pkg/store"
)

// ErrBlueprintNotFound signals that a validate call named a blueprint key
// the store does not know. Unknown field names are not errors; unknown
// blueprint keys are.
var ErrBlueprintNotFound = errors.New("rules: blueprint not found")

// LookupError wraps a remote lookup transport failure. It is surfaced to the
// caller rather than being interpreted as "no conflict found", so an
// infrastructure hiccup can never accept invalid data.
type LookupError struct {
	RuleType string
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("rules: %s lookup failed: %v", e.RuleType, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Outcome is one rule failure attributed to a field.
type Outcome struct {
	Field    string          `json:"field"`
	Label    string          `json:"label,omitempty"`
	Message  string          `json:"message"`
	Severity schema.Severity `json:"severity"`
}

// Verdict is the result of evaluating one field's value. Warnings never
// affect Valid.
type Verdict struct {
	Valid    bool      `json:"valid"`
	Value    any       `json:"value"`
	Errors   []Outcome `json:"errors"`
	Warnings []Outcome `json:"warnings"`
}

// Context carries the sibling form values a submission arrived with, used by
// cross-field rules such as matches_field.
type Context struct {
	Values map[string]any `json:"values,omitempty"`
}

// Option customises an Evaluator.
type Option func(*Evaluator)

// WithLookups injects the remote lookup registry.
func WithLookups(registry *lookup.Registry) Option {
	return func(e *Evaluator) {
		if registry != nil {
			e.lookups = registry
		}
	}
}

// WithNormalizers overrides the normalizer registry.
func WithNormalizers(registry *normalize.Registry) Option {
	return func(e *Evaluator) {
		if registry != nil {
			e.normalizers = registry
		}
	}
}

// WithLogger injects a logger; silently skipped rules and normalizers are
// reported through it.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics injects a metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(e *Evaluator) {
		e.metrics = collector
	}
}

// Evaluator walks rule chains. It holds no mutable state between calls, so a
// single instance serves concurrent requests.
type Evaluator struct {
	store       store.Store
	lookups     *lookup.Registry
	normalizers *normalize.Registry
	logger      *zap.Logger
	metrics     *metrics.Collector
}

// New constructs an Evaluator over the given store.
func New(s store.Store, options ...Option) *Evaluator {
	e := &Evaluator{
		store:       s,
		lookups:     lookup.NewRegistry(nil),
		normalizers: normalize.NewRegistry(),
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// EvaluateField normalizes raw and walks the named field's rule chain in
// declared order. A field name the blueprint does not manage yields a
// permissive pass-through verdict, since clients may submit extra form state
// the schema never claimed.
func (e *Evaluator) EvaluateField(ctx context.Context, blueprintKey, fieldName string, raw any, ec Context) (Verdict, error) {
	if e.store == nil {
		return Verdict{}, errors.New("rules: store is required")
	}

	bp, err := e.store.BlueprintByKey(ctx, blueprintKey, store.FullTree())
	if err != nil {
		return Verdict{}, fmt.Errorf("rules: fetch blueprint %q: %w", blueprintKey, err)
	}
	if bp == nil {
		return Verdict{}, fmt.Errorf("%w: %q", ErrBlueprintNotFound, blueprintKey)
	}

	field := bp.FindField(fieldName)
	if field == nil {
		e.logger.Debug("field not managed by blueprint, passing through",
			zap.String("blueprint", blueprintKey),
			zap.String("field", fieldName))
		return Verdict{Valid: true, Value: raw, Errors: []Outcome{}, Warnings: []Outcome{}}, nil
	}

	value, unknownNormalizers := e.normalizers.Apply(*field, raw)
	for _, name := range unknownNormalizers {
		e.logger.Warn("skipping unknown normalizer",
			zap.String("blueprint", blueprintKey),
			zap.String("field", fieldName),
			zap.String("normalizer", name))
		e.metrics.ObserveUnknownNormalizer(name)
	}

	verdict := Verdict{Value: value, Errors: []Outcome{}, Warnings: []Outcome{}}
	for _, rule := range field.SortedRules() {
		message, err := e.evalRule(ctx, rule, *field, value, ec)
		if err != nil {
			return Verdict{}, err
		}
		if message == "" {
			continue
		}
		if rule.Message != "" {
			message = rule.Message
		}

		severity := effectiveSeverity(rule)
		outcome := Outcome{Field: field.Name, Label: field.Label, Message: message, Severity: severity}
		e.metrics.ObserveRuleFailure(rule.Type, string(severity))

		if severity == schema.SeverityWarning {
			// Warnings never block later rules, halt-on-fail included.
			verdict.Warnings = append(verdict.Warnings, outcome)
			continue
		}
		verdict.Errors = append(verdict.Errors, outcome)
		if rule.Halts() {
			break
		}
	}

	verdict.Valid = len(verdict.Errors) == 0
	e.metrics.ObserveEvaluation(verdict.Valid)
	return verdict, nil
}

// evalRule dispatches one rule. It returns the default failure message ("" on
// pass); only remote lookup transport failures return an error.
func (e *Evaluator) evalRule(ctx context.Context, rule schema.Rule, field schema.Field, value any, ec Context) (string, error) {
	kind := KindOf(rule.Type)
	if kind == KindUnknown {
		if _, registered := e.lookups.Resolve(rule.Type); registered {
			kind = KindRemoteLookup
		}
	}

	switch kind {
	case KindRequired:
		return validateRequired(field, value), nil
	case KindMinLength:
		return validateMinLength(field, value, rule.Config), nil
	case KindPattern:
		return validatePattern(field, value, rule.Config), nil
	case KindEmail:
		return validateEmail(field, value), nil
	case KindURL:
		return validateURL(field, value, rule.Config), nil
	case KindEnum:
		return validateEnum(field, value, rule.Config), nil
	case KindPasswordStrength:
		return validatePasswordStrength(field, value, rule.Config), nil
	case KindMatchesField:
		return validateMatchesField(field, value, rule.Config, ec), nil
	case KindAccepted:
		return validateAccepted(field, value), nil
	case KindRecommendedToggle:
		return validateRecommendedToggle(field, value), nil
	case KindRemoteLookup:
		return e.evalLookup(ctx, rule, field, value)
	}

	e.logger.Warn("skipping unknown rule type",
		zap.String("field", field.Name),
		zap.String("type", rule.Type))
	e.metrics.ObserveUnknownRule(rule.Type)
	return "", nil
}

func (e *Evaluator) evalLookup(ctx context.Context, rule schema.Rule, field schema.Field, value any) (string, error) {
	if coerce.IsEmpty(value) {
		return "", nil
	}
	fn, ok := e.lookups.Resolve(rule.Type)
	if !ok {
		e.logger.Warn("skipping unregistered lookup rule",
			zap.String("field", field.Name),
			zap.String("type", rule.Type))
		e.metrics.ObserveUnknownRule(rule.Type)
		return "", nil
	}
	taken, err := fn(ctx, coerce.String(value))
	if err != nil {
		e.metrics.ObserveLookupError(rule.Type)
		return "", &LookupError{RuleType: rule.Type, Err: err}
	}
	if taken {
		return lookupFailureMessage(rule.Type, field), nil
	}
	return "", nil
}

func lookupFailureMessage(ruleType string, field schema.Field) string {
	switch ruleType {
	case lookup.RuleUniqueWorkspaceName:
		return "a workspace with this name already exists"
	case lookup.RuleUniqueWorkspaceContact:
		return "a workspace with this contact email already exists"
	}
	return labelOf(field) + " already exists"
}

// effectiveSeverity defaults to error, except for the recommended toggle
// soft-check which is a warning unless the author explicitly says otherwise.
func effectiveSeverity(rule schema.Rule) schema.Severity {
	if rule.Severity != "" {
		return rule.Severity
	}
	if KindOf(rule.Type) == KindRecommendedToggle {
		return schema.SeverityWarning
	}
	return schema.SeverityError
}

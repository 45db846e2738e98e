// Package metrics exposes Prometheus counters for the validation engine.
// Every method is nil-safe so library callers that do not care about metrics
// can simply pass nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector aggregates the engine's counters.
type Collector struct {
	evaluations        *prometheus.CounterVec
	ruleFailures       *prometheus.CounterVec
	lookupErrors       *prometheus.CounterVec
	unknownRules       *prometheus.CounterVec
	unknownNormalizers *prometheus.CounterVec
}

// New registers the engine counters on reg and returns the collector.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blueprint_field_evaluations_total",
			Help: "Field evaluations by verdict.",
		}, []string{"result"}),
		ruleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blueprint_rule_failures_total",
			Help: "Rule failures by rule type and severity.",
		}, []string{"type", "severity"}),
		lookupErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blueprint_lookup_errors_total",
			Help: "Remote lookup transport failures by rule type.",
		}, []string{"type"}),
		unknownRules: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blueprint_unknown_rules_total",
			Help: "Rules skipped because the engine does not recognise their type.",
		}, []string{"type"}),
		unknownNormalizers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blueprint_unknown_normalizers_total",
			Help: "Normalizer identifiers skipped because they are not registered.",
		}, []string{"name"}),
	}
}

// ObserveEvaluation records one completed field evaluation.
func (c *Collector) ObserveEvaluation(valid bool) {
	if c == nil {
		return
	}
	result := "valid"
	if !valid {
		result = "invalid"
	}
	c.evaluations.WithLabelValues(result).Inc()
}

// ObserveRuleFailure records a failed rule outcome.
func (c *Collector) ObserveRuleFailure(ruleType, severity string) {
	if c == nil {
		return
	}
	c.ruleFailures.WithLabelValues(ruleType, severity).Inc()
}

// ObserveLookupError records a remote lookup transport failure.
func (c *Collector) ObserveLookupError(ruleType string) {
	if c == nil {
		return
	}
	c.lookupErrors.WithLabelValues(ruleType).Inc()
}

// ObserveUnknownRule records a silently skipped rule type.
func (c *Collector) ObserveUnknownRule(ruleType string) {
	if c == nil {
		return
	}
	c.unknownRules.WithLabelValues(ruleType).Inc()
}

// ObserveUnknownNormalizer records a silently skipped normalizer identifier.
func (c *Collector) ObserveUnknownNormalizer(name string) {
	if c == nil {
		return
	}
	c.unknownNormalizers.WithLabelValues(name).Inc()
}

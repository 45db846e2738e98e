package schema

// Status tracks a blueprint through its authoring lifecycle. Deprecation is a
// status change, never a removal, so active submissions can keep referencing
// the blueprint they were created against.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusActive     Status = "active"
	StatusDeprecated Status = "deprecated"
)

// DataType is the closed enum of value kinds a field can carry. Default
// coercion and several validators switch on it.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeNumber  DataType = "number"
	DataTypeInteger DataType = "integer"
	DataTypeBoolean DataType = "boolean"
	DataTypeJSON    DataType = "json"
)

// Severity classifies a rule outcome. Warnings never block submission.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Blueprint is the top-level declarative form schema, keyed by a stable
// string. It owns ordered steps and optionally top-level fields; a field
// belongs either to the blueprint directly or to one of its steps, never
// both.
type Blueprint struct {
	Key      string         `json:"key" yaml:"key"`
	Name     string         `json:"name" yaml:"name"`
	Version  int            `json:"version" yaml:"version"`
	Status   Status         `json:"status" yaml:"status"`
	Persona  string         `json:"persona,omitempty" yaml:"persona"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata"`
	Settings map[string]any `json:"settings,omitempty" yaml:"settings"`
	Steps    []Step         `json:"steps,omitempty" yaml:"steps"`
	Fields   []Field        `json:"fields,omitempty" yaml:"fields"`
}

// Step groups fields into one page of a multi-step form. GatingRules are
// consumed by the presentation layer and are opaque to this engine.
type Step struct {
	Key         string           `json:"stepKey" yaml:"stepKey"`
	Title       string           `json:"title" yaml:"title"`
	OrderIndex  int              `json:"orderIndex" yaml:"orderIndex"`
	GatingRules []map[string]any `json:"gatingRules,omitempty" yaml:"gatingRules"`
	Fields      []Field          `json:"fields,omitempty" yaml:"fields"`
}

// Field is one input slot. Component and Visibility are render hints the
// engine carries through projection without interpreting.
type Field struct {
	Name        string         `json:"name" yaml:"name"`
	Label       string         `json:"label,omitempty" yaml:"label"`
	Component   string         `json:"component,omitempty" yaml:"component"`
	DataType    DataType       `json:"dataType" yaml:"dataType"`
	Required    bool           `json:"required" yaml:"required"`
	Default     any            `json:"defaultValue,omitempty" yaml:"defaultValue"`
	Normalizers []string       `json:"normalizers,omitempty" yaml:"normalizers"`
	OrderIndex  int            `json:"orderIndex" yaml:"orderIndex"`
	Visibility  map[string]any `json:"visibility,omitempty" yaml:"visibility"`
	Rules       []Rule         `json:"rules,omitempty" yaml:"rules"`
}

// Rule is one validation check in a field's ordered chain. Type is an open
// string namespace: the engine recognises a fixed catalogue plus any remote
// lookup registered by the host, and silently passes everything else.
type Rule struct {
	Type       string         `json:"type" yaml:"type"`
	Message    string         `json:"message,omitempty" yaml:"message"`
	Severity   Severity       `json:"severity,omitempty" yaml:"severity"`
	HaltOnFail *bool          `json:"haltOnFail,omitempty" yaml:"haltOnFail"`
	Config     map[string]any `json:"config,omitempty" yaml:"config"`
	OrderIndex int            `json:"orderIndex" yaml:"orderIndex"`
}

// Halts reports the halt-on-fail policy, defaulting to true when the record
// does not set one.
func (r Rule) Halts() bool {
	if r.HaltOnFail == nil {
		return true
	}
	return *r.HaltOnFail
}

// BoolPtr returns a pointer to v, for literal Rule construction.
func BoolPtr(v bool) *bool { return &v }

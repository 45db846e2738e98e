// Package defaults derives the initial value map a client receives alongside
// a projected blueprint. Every reachable field gets an entry so the client
// never sees an undefined hole: declared defaults are coerced per data type,
// absent defaults become false for booleans and nil for everything else.
package defaults

import (
	"github.com/goliatone/go-blueprint/internal/coerce"
	"github.com/goliatone/go-blueprint/pkg/schema"
)

// InitialValues flattens every field reachable from the blueprint (top level
// and step-nested) into one map keyed by field name. The cross-step name
// uniqueness invariant enforced at load time guarantees the flattening is
// collision free.
func InitialValues(bp *schema.Blueprint) map[string]any {
	if bp == nil {
		return map[string]any{}
	}
	fields := bp.AllFields()
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		out[field.Name] = initialValue(field)
	}
	return out
}

func initialValue(field schema.Field) any {
	if field.Default == nil {
		if field.DataType == schema.DataTypeBoolean {
			return false
		}
		return nil
	}
	return CoerceDefault(field.DataType, field.Default)
}

// CoerceDefault interprets a declared raw default according to the field's
// data type. Parse failures keep the raw default rather than erroring, so a
// sloppy blueprint still renders.
func CoerceDefault(dataType schema.DataType, raw any) any {
	switch dataType {
	case schema.DataTypeBoolean:
		return coerce.Bool(raw)
	case schema.DataTypeNumber:
		if n, ok := coerce.Number(raw); ok {
			return n
		}
		return raw
	case schema.DataTypeInteger:
		if n, ok := coerce.Integer(raw); ok {
			return n
		}
		return raw
	case schema.DataTypeJSON:
		if decoded, ok := coerce.JSON(raw); ok {
			return decoded
		}
		return raw
	}
	return raw
}

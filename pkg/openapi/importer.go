// Package openapi imports OpenAPI operations into blueprint schemas. It is
// an authoring convenience: each operation with a JSON object request body
// becomes a draft blueprint whose fields mirror the body properties and
// whose schema constraints (required, minLength, pattern, enum, format)
// become validation rules in the engine's catalogue.
package openapi

import (
	"context"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-blueprint/pkg/rules"
	"github.com/goliatone/go-blueprint/pkg/schema"
)

// LoadFile reads and resolves an OpenAPI document from disk.
func LoadFile(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

// ImportDocument converts every eligible operation in doc into a blueprint.
// Operations without an operation id or without a JSON object request body
// are skipped. Results are ordered by blueprint key.
func ImportDocument(doc *openapi3.T) ([]*schema.Blueprint, error) {
	if doc == nil || doc.Paths == nil {
		return nil, fmt.Errorf("openapi: document is nil")
	}

	var out []*schema.Blueprint
	for _, pathItem := range doc.Paths.Map() {
		for _, op := range pathItem.Operations() {
			bp, ok := importOperation(op)
			if !ok {
				continue
			}
			if err := bp.Validate(); err != nil {
				return nil, fmt.Errorf("openapi: import %s: %w", op.OperationID, err)
			}
			out = append(out, bp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func importOperation(op *openapi3.Operation) (*schema.Blueprint, bool) {
	if op == nil || op.OperationID == "" || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, false
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, false
	}
	body := media.Schema.Value
	if !body.Type.Is(openapi3.TypeObject) || len(body.Properties) == 0 {
		return nil, false
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	bp := &schema.Blueprint{
		Key:     op.OperationID,
		Name:    op.Summary,
		Version: 1,
		Status:  schema.StatusDraft,
	}
	if bp.Name == "" {
		bp.Name = op.OperationID
	}

	for i, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		bp.Fields = append(bp.Fields, importField(name, i, ref.Value, isRequired))
	}
	return bp, true
}

func importField(name string, orderIndex int, prop *openapi3.Schema, required bool) schema.Field {
	field := schema.Field{
		Name:       name,
		Label:      prop.Title,
		DataType:   dataTypeOf(prop),
		Required:   required,
		Default:    prop.Default,
		OrderIndex: orderIndex,
	}

	ruleIndex := 0
	addRule := func(ruleType string, config map[string]any) {
		field.Rules = append(field.Rules, schema.Rule{
			Type:       ruleType,
			Config:     config,
			OrderIndex: ruleIndex,
		})
		ruleIndex++
	}

	if required {
		addRule(rules.TypeRequired, nil)
	}
	if prop.MinLength > 0 {
		addRule(rules.TypeMinLength, map[string]any{"min": int(prop.MinLength)})
	}
	if prop.Pattern != "" {
		addRule(rules.TypePattern, map[string]any{"pattern": prop.Pattern})
	}
	switch prop.Format {
	case "email":
		addRule(rules.TypeEmail, nil)
	case "uri", "url":
		addRule(rules.TypeURL, nil)
	}
	if len(prop.Enum) > 0 {
		addRule(rules.TypeEnum, map[string]any{"options": append([]any{}, prop.Enum...)})
	}
	return field
}

func dataTypeOf(prop *openapi3.Schema) schema.DataType {
	t := prop.Type
	switch {
	case t.Is(openapi3.TypeString):
		return schema.DataTypeString
	case t.Is(openapi3.TypeInteger):
		return schema.DataTypeInteger
	case t.Is(openapi3.TypeNumber):
		return schema.DataTypeNumber
	case t.Is(openapi3.TypeBoolean):
		return schema.DataTypeBoolean
	}
	return schema.DataTypeJSON
}

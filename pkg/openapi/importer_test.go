package openapi_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	importer "github.com/goliatone/go-blueprint/pkg/openapi"
	"github.com/goliatone/go-blueprint/pkg/schema"
)

const specDoc = `
openapi: 3.0.3
info:
  title: Workspace API
  version: 1.0.0
paths:
  /workspaces:
    post:
      operationId: createWorkspace
      summary: Create workspace
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
                  title: Workspace name
                  minLength: 3
                  pattern: "^[a-z0-9-]+$"
                contactEmail:
                  type: string
                  format: email
                homepage:
                  type: string
                  format: uri
                plan:
                  type: string
                  enum: [free, team, enterprise]
                  default: free
                seats:
                  type: integer
                active:
                  type: boolean
      responses:
        "201":
          description: created
  /ping:
    get:
      operationId: ping
      responses:
        "200":
          description: pong
`

func loadDoc(t *testing.T) *openapi3.T {
	t.Helper()
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(specDoc))
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("validate spec: %v", err)
	}
	return doc
}

func TestImportDocument(t *testing.T) {
	blueprints, err := importer.ImportDocument(loadDoc(t))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	// The bodyless ping operation is skipped.
	if len(blueprints) != 1 {
		t.Fatalf("expected one blueprint, got %d", len(blueprints))
	}

	bp := blueprints[0]
	if bp.Key != "createWorkspace" || bp.Status != schema.StatusDraft {
		t.Fatalf("unexpected blueprint header: %+v", bp)
	}

	byName := map[string]schema.Field{}
	for _, field := range bp.Fields {
		byName[field.Name] = field
	}

	name := byName["name"]
	if !name.Required || name.DataType != schema.DataTypeString || name.Label != "Workspace name" {
		t.Fatalf("unexpected name field: %+v", name)
	}
	var ruleTypes []string
	for _, rule := range name.Rules {
		ruleTypes = append(ruleTypes, rule.Type)
	}
	want := []string{"required", "min_length", "pattern"}
	if diff := cmp.Diff(want, ruleTypes); diff != "" {
		t.Fatalf("name rules mismatch (-want +got):\n%s", diff)
	}

	if got := byName["contactEmail"].Rules[0].Type; got != "email" {
		t.Fatalf("email format should map to an email rule, got %q", got)
	}
	if got := byName["homepage"].Rules[0].Type; got != "url" {
		t.Fatalf("uri format should map to a url rule, got %q", got)
	}

	plan := byName["plan"]
	if plan.Default != "free" {
		t.Fatalf("enum default must carry over, got %v", plan.Default)
	}
	if len(plan.Rules) != 1 || plan.Rules[0].Type != "enum" {
		t.Fatalf("unexpected plan rules: %+v", plan.Rules)
	}
	options, _ := plan.Rules[0].Config["options"].([]any)
	if len(options) != 3 {
		t.Fatalf("enum options must carry over, got %v", options)
	}

	if byName["seats"].DataType != schema.DataTypeInteger {
		t.Fatalf("integer mapping broken: %+v", byName["seats"])
	}
	if byName["active"].DataType != schema.DataTypeBoolean {
		t.Fatalf("boolean mapping broken: %+v", byName["active"])
	}

	// Imported blueprints pass model validation and have deterministic field
	// order (sorted property names).
	if err := bp.Validate(); err != nil {
		t.Fatalf("imported blueprint invalid: %v", err)
	}
	for i := 1; i < len(bp.Fields); i++ {
		if bp.Fields[i-1].OrderIndex >= bp.Fields[i].OrderIndex {
			t.Fatal("field order indexes must be strictly increasing")
		}
	}
}

func TestImportDocumentNil(t *testing.T) {
	if _, err := importer.ImportDocument(nil); err == nil {
		t.Fatal("nil document must error")
	}
}

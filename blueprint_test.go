package blueprint_test

import (
	"context"
	"strings"
	"testing"

	blueprint "github.com/goliatone/go-blueprint"
	"github.com/goliatone/go-blueprint/pkg/lookup"
	"github.com/goliatone/go-blueprint/pkg/projection"
	"github.com/goliatone/go-blueprint/pkg/rules"
	"github.com/goliatone/go-blueprint/pkg/schema"
	"github.com/goliatone/go-blueprint/pkg/store"
)

func newEngine(t *testing.T, options ...blueprint.Option) *blueprint.Engine {
	t.Helper()
	memory, err := store.NewMemory(&schema.Blueprint{
		Key:    "company_request",
		Name:   "Company Request",
		Status: schema.StatusActive,
		Fields: []schema.Field{
			{
				Name:        "companyName",
				Label:       "Company name",
				DataType:    schema.DataTypeString,
				Required:    true,
				Normalizers: []string{"trim"},
				OrderIndex:  0,
				Rules: []schema.Rule{
					{Type: "required", OrderIndex: 0},
					{Type: lookup.RuleUniqueWorkspaceName, OrderIndex: 1},
				},
			},
			{
				Name:       "newsletter",
				Label:      "Newsletter",
				DataType:   schema.DataTypeBoolean,
				OrderIndex: 1,
			},
			{
				Name:       "plan",
				DataType:   schema.DataTypeString,
				Default:    "free",
				OrderIndex: 2,
			},
		},
	})
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	options = append([]blueprint.Option{blueprint.WithStore(memory)}, options...)
	engine, err := blueprint.New(options...)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return engine
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := blueprint.New(); err == nil {
		t.Fatal("an engine without a store must not construct")
	}
}

func TestEngineRoundTrip(t *testing.T) {
	services := lookup.NewMemory()
	services.AddWorkspace("Acme Inc")
	engine := newEngine(t, blueprint.WithLookupServices(services))

	ctx := context.Background()

	list, err := engine.ListBlueprints(ctx, projection.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Count != 1 || list.Items[0].Key != "company_request" {
		t.Fatalf("unexpected listing: %+v", list)
	}

	bp, err := engine.GetBlueprint(ctx, "company_request", projection.GetOptions{IncludeFields: true})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if bp == nil || len(bp.Fields) != 3 {
		t.Fatalf("unexpected projection: %+v", bp)
	}

	values, err := engine.InitialValues(ctx, "company_request")
	if err != nil {
		t.Fatalf("initial values: %v", err)
	}
	if values["newsletter"] != false || values["plan"] != "free" || values["companyName"] != nil {
		t.Fatalf("unexpected initial values: %v", values)
	}

	verdict, err := engine.EvaluateField(ctx, "company_request", "companyName", "  acme inc  ", rules.Context{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if verdict.Valid {
		t.Fatal("a taken workspace name must not validate")
	}
	if verdict.Value != "acme inc" {
		t.Fatalf("normalizers must run before rules, got %q", verdict.Value)
	}
	if len(verdict.Errors) != 1 || !strings.Contains(verdict.Errors[0].Message, "already exists") {
		t.Fatalf("unexpected errors: %+v", verdict.Errors)
	}

	verdict, err = engine.EvaluateField(ctx, "company_request", "companyName", "Globex", rules.Context{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !verdict.Valid {
		t.Fatalf("a free name must validate, got %+v", verdict)
	}
}

func TestEngineCustomLookupAndNormalizer(t *testing.T) {
	engine := newEngine(t,
		blueprint.WithLookup("unique_project_slug", func(ctx context.Context, value string) (bool, error) {
			return value == "taken", nil
		}),
		blueprint.WithNormalizer("collapseSpaces", func(value any) any {
			if s, ok := value.(string); ok {
				return strings.Join(strings.Fields(s), " ")
			}
			return value
		}),
	)

	verdict, err := engine.EvaluateField(context.Background(), "company_request", "companyName", "Acme   Inc", rules.Context{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	// collapseSpaces is registered but the field does not reference it, so the
	// value only gets trimmed.
	if verdict.Value != "Acme   Inc" {
		t.Fatalf("unexpected value: %q", verdict.Value)
	}
	if !verdict.Valid {
		t.Fatalf("no lookup services configured, unique_workspace_name is a no-op: %+v", verdict)
	}
}

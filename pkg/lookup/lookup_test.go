package lookup_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-blueprint/pkg/lookup"
)

func TestRegistryBuiltins(t *testing.T) {
	services := lookup.NewMemory()
	services.AddWorkspace("Acme Inc")
	services.AddContact("ops@acme.test")

	registry := lookup.NewRegistry(services)

	fn, ok := registry.Resolve(lookup.RuleUniqueWorkspaceName)
	if !ok {
		t.Fatal("workspace name lookup must be registered")
	}
	taken, err := fn(context.Background(), "acme inc")
	if err != nil || !taken {
		t.Fatalf("expected case-insensitive match, got %v, %v", taken, err)
	}

	fn, ok = registry.Resolve(lookup.RuleUniqueWorkspaceContact)
	if !ok {
		t.Fatal("contact email lookup must be registered")
	}
	taken, err = fn(context.Background(), "OPS@ACME.TEST")
	if err != nil || !taken {
		t.Fatalf("expected case-insensitive match, got %v, %v", taken, err)
	}

	taken, err = fn(context.Background(), "new@acme.test")
	if err != nil || taken {
		t.Fatalf("expected no conflict, got %v, %v", taken, err)
	}
}

func TestRegistryOpenNamespace(t *testing.T) {
	registry := lookup.NewRegistry(nil)

	if _, ok := registry.Resolve(lookup.RuleUniqueWorkspaceName); ok {
		t.Fatal("no services were provided, nothing should be registered")
	}

	registry.Register("unique_project_slug", func(ctx context.Context, value string) (bool, error) {
		return value == "taken", nil
	})

	fn, ok := registry.Resolve("unique_project_slug")
	if !ok {
		t.Fatal("host-registered lookup must resolve")
	}
	taken, err := fn(context.Background(), "taken")
	if err != nil || !taken {
		t.Fatalf("unexpected result %v, %v", taken, err)
	}
}

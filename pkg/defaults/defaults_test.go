package defaults_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-blueprint/pkg/defaults"
	"github.com/goliatone/go-blueprint/pkg/schema"
)

func TestInitialValuesFullyPopulated(t *testing.T) {
	bp := &schema.Blueprint{
		Key: "settings",
		Fields: []schema.Field{
			{Name: "twoFactorEnabled", DataType: schema.DataTypeBoolean, Default: "true"},
			{Name: "notifyByEmail", DataType: schema.DataTypeBoolean},
			{Name: "displayName", DataType: schema.DataTypeString},
		},
		Steps: []schema.Step{
			{Key: "limits", Fields: []schema.Field{
				{Name: "seatCount", DataType: schema.DataTypeInteger, Default: "5"},
				{Name: "ratio", DataType: schema.DataTypeNumber, Default: "0.25"},
				{Name: "webhookConfig", DataType: schema.DataTypeJSON, Default: `{"url": "https://example.com"}`},
			}},
		},
	}

	got := defaults.InitialValues(bp)
	want := map[string]any{
		"twoFactorEnabled": true,
		"notifyByEmail":    false,
		"displayName":      nil,
		"seatCount":        int64(5),
		"ratio":            0.25,
		"webhookConfig":    map[string]any{"url": "https://example.com"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}
}

func TestCoerceDefaultKeepsRawOnParseFailure(t *testing.T) {
	if got := defaults.CoerceDefault(schema.DataTypeNumber, "not-a-number"); got != "not-a-number" {
		t.Fatalf("number parse failure must keep raw default, got %v", got)
	}
	if got := defaults.CoerceDefault(schema.DataTypeInteger, "3.5kg"); got != "3.5kg" {
		t.Fatalf("integer parse failure must keep raw default, got %v", got)
	}
	if got := defaults.CoerceDefault(schema.DataTypeJSON, "{broken"); got != "{broken" {
		t.Fatalf("json parse failure must keep raw default, got %v", got)
	}
}

func TestCoerceDefaultBooleanTokens(t *testing.T) {
	cases := map[string]bool{
		"true":  true,
		"TRUE":  true,
		"yes":   true,
		"1":     true,
		"false": false,
		"off":   false,
		"0":     false,
	}
	for raw, want := range cases {
		if got := defaults.CoerceDefault(schema.DataTypeBoolean, raw); got != want {
			t.Fatalf("CoerceDefault(boolean, %q) = %v, want %v", raw, got, want)
		}
	}
}

func TestInitialValuesNilBlueprint(t *testing.T) {
	got := defaults.InitialValues(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("nil blueprint must yield an empty map, got %v", got)
	}
}

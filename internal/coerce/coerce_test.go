package coerce_test

import (
	"testing"

	"github.com/goliatone/go-blueprint/internal/coerce"
)

func TestBoolTokens(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"true literal", true, true},
		{"false literal", false, false},
		{"true token", "true", true},
		{"mixed case token", "TrUe", true},
		{"yes token", "yes", true},
		{"on token", "ON", true},
		{"padded token", "  true  ", true},
		{"false token", "false", false},
		{"zero token", "0", false},
		{"off token", "off", false},
		{"empty string", "", false},
		{"blank string", "   ", false},
		{"arbitrary string", "banana", true},
		{"zero number", 0, false},
		{"non-zero number", 3.5, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := coerce.Bool(tc.value); got != tc.want {
				t.Fatalf("Bool(%v) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	if n, ok := coerce.Number(" 42.5 "); !ok || n != 42.5 {
		t.Fatalf("Number(\" 42.5 \") = %v, %v", n, ok)
	}
	if _, ok := coerce.Number("not a number"); ok {
		t.Fatal("expected parse failure")
	}
	if n, ok := coerce.Number(7); !ok || n != 7 {
		t.Fatalf("Number(7) = %v, %v", n, ok)
	}
}

func TestInteger(t *testing.T) {
	if n, ok := coerce.Integer("12"); !ok || n != 12 {
		t.Fatalf("Integer(\"12\") = %v, %v", n, ok)
	}
	if n, ok := coerce.Integer(12.0); !ok || n != 12 {
		t.Fatalf("Integer(12.0) = %v, %v", n, ok)
	}
	if _, ok := coerce.Integer("12.7"); ok {
		t.Fatal("expected fractional string to fail")
	}
}

func TestJSON(t *testing.T) {
	decoded, ok := coerce.JSON(`{"a": 1}`)
	if !ok {
		t.Fatal("expected JSON to decode")
	}
	obj, isMap := decoded.(map[string]any)
	if !isMap || obj["a"] != float64(1) {
		t.Fatalf("unexpected decode result: %#v", decoded)
	}
	if _, ok := coerce.JSON("{nope"); ok {
		t.Fatal("expected malformed JSON to fail")
	}
	if v, ok := coerce.JSON(map[string]any{"x": true}); !ok || v == nil {
		t.Fatal("expected non-string value to pass through")
	}
}

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"blank", "  ", true},
		{"text", "x", false},
		{"empty slice", []any{}, true},
		{"slice", []any{1}, false},
		{"zero int", 0, false},
		{"false", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := coerce.IsEmpty(tc.value); got != tc.want {
				t.Fatalf("IsEmpty(%v) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

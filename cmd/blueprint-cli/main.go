// Command blueprint-cli walks a blueprint interactively: it prompts for each
// field in declared step order, validates every answer through the rule
// engine, and prints the collected value map as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	blueprint "github.com/goliatone/go-blueprint"
	"github.com/goliatone/go-blueprint/internal/coerce"
	"github.com/goliatone/go-blueprint/pkg/lookup"
	"github.com/goliatone/go-blueprint/pkg/rules"
	"github.com/goliatone/go-blueprint/pkg/schema"
	"github.com/goliatone/go-blueprint/pkg/store"
)

func main() {
	schemaDir := flag.String("schemas", "schemas", "directory of blueprint YAML documents")
	key := flag.String("blueprint", "", "blueprint key to walk (prompted when empty)")
	flag.Parse()

	ctx := context.Background()

	schemaStore, err := store.NewMemoryFromFS(os.DirFS(*schemaDir))
	if err != nil {
		log.Fatalf("load schemas: %v", err)
	}

	engine, err := blueprint.New(
		blueprint.WithStore(schemaStore),
		blueprint.WithLookupServices(lookup.NewMemory()),
	)
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}

	bp, err := pickBlueprint(ctx, schemaStore, *key)
	if err != nil {
		fatal(err)
	}

	values, err := walk(ctx, engine, bp)
	if err != nil {
		fatal(err)
	}

	encoded, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		log.Fatalf("encode values: %v", err)
	}
	fmt.Println(string(encoded))
}

func fatal(err error) {
	if errors.Is(err, terminal.InterruptErr) {
		os.Exit(130)
	}
	log.Fatal(err)
}

func pickBlueprint(ctx context.Context, s store.Store, key string) (*schema.Blueprint, error) {
	if key != "" {
		bp, err := s.BlueprintByKey(ctx, key, store.FullTree())
		if err != nil {
			return nil, err
		}
		if bp == nil {
			return nil, fmt.Errorf("blueprint %q not found", key)
		}
		return bp, nil
	}

	all, err := s.Blueprints(ctx, store.Query{})
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, errors.New("no blueprints found")
	}

	options := make([]string, len(all))
	for i, bp := range all {
		options[i] = bp.Key
	}
	var picked string
	if err := survey.AskOne(&survey.Select{Message: "Blueprint:", Options: options}, &picked); err != nil {
		return nil, err
	}
	for _, bp := range all {
		if bp.Key == picked {
			return bp, nil
		}
	}
	return nil, fmt.Errorf("blueprint %q not found", picked)
}

func walk(ctx context.Context, engine *blueprint.Engine, bp *schema.Blueprint) (map[string]any, error) {
	initial, err := engine.InitialValues(ctx, bp.Key)
	if err != nil {
		return nil, err
	}
	values := initial
	if values == nil {
		values = map[string]any{}
	}

	for _, field := range schema.SortedFields(bp.Fields) {
		if err := askField(ctx, engine, bp.Key, field, values); err != nil {
			return nil, err
		}
	}
	for _, step := range bp.SortedSteps() {
		if step.Title != "" {
			fmt.Printf("\n== %s ==\n", step.Title)
		}
		for _, field := range schema.SortedFields(step.Fields) {
			if err := askField(ctx, engine, bp.Key, field, values); err != nil {
				return nil, err
			}
		}
	}
	return values, nil
}

// askField prompts until the answer passes the field's error-severity rules.
// Warnings are printed and accepted.
func askField(ctx context.Context, engine *blueprint.Engine, blueprintKey string, field schema.Field, values map[string]any) error {
	for {
		answer, err := prompt(field, values[field.Name])
		if err != nil {
			return err
		}

		verdict, err := engine.EvaluateField(ctx, blueprintKey, field.Name, answer, rules.Context{Values: values})
		if err != nil {
			return err
		}
		for _, warning := range verdict.Warnings {
			fmt.Printf("  ⚠ %s\n", warning.Message)
		}
		if verdict.Valid {
			values[field.Name] = verdict.Value
			return nil
		}
		for _, failure := range verdict.Errors {
			fmt.Printf("  ✗ %s\n", failure.Message)
		}
	}
}

func prompt(field schema.Field, initial any) (any, error) {
	message := field.Label
	if message == "" {
		message = field.Name
	}
	message += ":"

	if field.DataType == schema.DataTypeBoolean {
		var out bool
		err := survey.AskOne(&survey.Confirm{Message: message, Default: coerce.Bool(initial)}, &out)
		return out, err
	}

	if options := enumOptions(field); len(options) > 0 {
		var out string
		err := survey.AskOne(&survey.Select{Message: message, Options: options}, &out)
		return out, err
	}

	if field.Component == "password" {
		var out string
		err := survey.AskOne(&survey.Password{Message: message}, &out)
		return out, err
	}

	var out string
	prompt := &survey.Input{Message: message}
	if initial != nil {
		prompt.Default = coerce.String(initial)
	}
	err := survey.AskOne(prompt, &out)
	return out, err
}

// enumOptions pulls the options list from the field's enum rule, if any.
func enumOptions(field schema.Field) []string {
	for _, rule := range field.Rules {
		if rule.Type != rules.TypeEnum || rule.Config == nil {
			continue
		}
		raw, ok := rule.Config["options"].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			out = append(out, coerce.String(item))
		}
		return out
	}
	return nil
}

package rules

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/goliatone/go-blueprint/internal/coerce"
	"github.com/goliatone/go-blueprint/pkg/schema"
)

// emailShape is a deliberately conservative local@domain.tld check; stricter
// deliverability concerns belong to a remote lookup.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// The synchronous validators below return "" on pass and a default failure
// message otherwise. The evaluator substitutes the rule's authored message
// when one is present. Validators other than required treat empty values as
// passing; presence is enforced by pairing with a required rule.

func validateRequired(field schema.Field, value any) string {
	msg := labelOf(field) + " is required"
	if field.DataType == schema.DataTypeBoolean {
		if !coerce.Bool(value) {
			return msg
		}
		return ""
	}
	switch v := value.(type) {
	case nil:
		return msg
	case string:
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice && rv.Len() == 0 {
		return msg
	}
	return ""
}

func validateMinLength(field schema.Field, value any, cfg map[string]any) string {
	if coerce.IsEmpty(value) {
		return ""
	}
	min, ok := cfgInt(cfg, "min")
	if !ok {
		return ""
	}
	if len([]rune(coerce.String(value))) < min {
		return fmt.Sprintf("%s must be at least %d characters", labelOf(field), min)
	}
	return ""
}

func validatePattern(field schema.Field, value any, cfg map[string]any) string {
	if coerce.IsEmpty(value) {
		return ""
	}
	expr, ok := cfgString(cfg, "pattern")
	if !ok || expr == "" {
		return ""
	}
	if flags, ok := cfgString(cfg, "flags"); ok && flags != "" {
		expr = "(?" + sanitizeFlags(flags) + ")" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		// A malformed authored pattern must not abort the request; the rule
		// fails with a generic message instead.
		return labelOf(field) + " could not be validated"
	}
	if !re.MatchString(coerce.String(value)) {
		return labelOf(field) + " does not match the expected format"
	}
	return ""
}

// sanitizeFlags keeps only the regexp flags Go understands (i, m, s, U).
func sanitizeFlags(flags string) string {
	var b strings.Builder
	for _, r := range flags {
		switch r {
		case 'i', 'm', 's', 'U':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "i"
	}
	return b.String()
}

func validateEmail(field schema.Field, value any) string {
	if coerce.IsEmpty(value) {
		return ""
	}
	if !emailShape.MatchString(coerce.String(value)) {
		return labelOf(field) + " must be a valid email address"
	}
	return ""
}

func validateURL(field schema.Field, value any, cfg map[string]any) string {
	if coerce.IsEmpty(value) {
		return ""
	}
	raw := coerce.String(value)
	if allow, _ := cfgBool(cfg, "allowProtocolRelative"); allow && strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return labelOf(field) + " must be a valid URL"
	}
	return ""
}

func validateEnum(field schema.Field, value any, cfg map[string]any) string {
	if coerce.IsEmpty(value) {
		return ""
	}
	options, ok := cfgSlice(cfg, "options")
	if !ok || len(options) == 0 {
		return ""
	}
	for _, option := range options {
		if reflect.DeepEqual(value, option) || coerce.String(value) == coerce.String(option) {
			return ""
		}
	}
	return labelOf(field) + " must be one of the allowed values"
}

func validatePasswordStrength(field schema.Field, value any, cfg map[string]any) string {
	if coerce.IsEmpty(value) {
		return ""
	}
	password := coerce.String(value)

	minLength := 8
	if min, ok := cfgInt(cfg, "minLength"); ok {
		minLength = min
	}

	var problems []string
	if len([]rune(password)) < minLength {
		problems = append(problems, fmt.Sprintf("be at least %d characters", minLength))
	}
	if need, _ := cfgBool(cfg, "requireDigit"); need && !containsClass(password, unicode.IsDigit) {
		problems = append(problems, "include a digit")
	}
	if need, _ := cfgBool(cfg, "requireLetter"); need && !containsClass(password, unicode.IsLetter) {
		problems = append(problems, "include a letter")
	}
	if need, _ := cfgBool(cfg, "requireSymbol"); need && !containsSymbol(password) {
		problems = append(problems, "include a symbol")
	}

	if len(problems) == 0 {
		return ""
	}
	return labelOf(field) + " must " + strings.Join(problems, ", ")
}

func containsClass(s string, class func(rune) bool) bool {
	for _, r := range s {
		if class(r) {
			return true
		}
	}
	return false
}

func containsSymbol(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

func validateMatchesField(field schema.Field, value any, cfg map[string]any, ec Context) string {
	other, ok := cfgString(cfg, "otherField")
	if !ok || other == "" {
		return ""
	}
	var counterpart any
	if ec.Values != nil {
		counterpart = ec.Values[other]
	}
	if reflect.DeepEqual(value, counterpart) {
		return ""
	}
	return labelOf(field) + " does not match " + other
}

func validateAccepted(field schema.Field, value any) string {
	if !coerce.Bool(value) {
		return labelOf(field) + " must be accepted"
	}
	return ""
}

func validateRecommendedToggle(field schema.Field, value any) string {
	if !coerce.Bool(value) {
		return "enabling " + labelOf(field) + " is recommended"
	}
	return ""
}

func labelOf(field schema.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func cfgString(cfg map[string]any, key string) (string, bool) {
	if cfg == nil {
		return "", false
	}
	s, ok := cfg[key].(string)
	return s, ok
}

func cfgInt(cfg map[string]any, key string) (int, bool) {
	if cfg == nil {
		return 0, false
	}
	n, ok := coerce.Integer(cfg[key])
	if !ok {
		return 0, false
	}
	return int(n), true
}

func cfgBool(cfg map[string]any, key string) (bool, bool) {
	if cfg == nil {
		return false, false
	}
	if _, present := cfg[key]; !present {
		return false, false
	}
	return coerce.Bool(cfg[key]), true
}

func cfgSlice(cfg map[string]any, key string) ([]any, bool) {
	if cfg == nil {
		return nil, false
	}
	s, ok := cfg[key].([]any)
	return s, ok
}

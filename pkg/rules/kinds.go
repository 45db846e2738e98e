package rules

import "github.com/goliatone/go-blueprint/pkg/lookup"

// Rule type identifiers for the built-in synchronous catalogue. Remote
// lookups live in an open namespace resolved through the lookup registry;
// the two workspace uniqueness types are declared in package lookup next to
// the services that answer them.
const (
	TypeRequired          = "required"
	TypeMinLength         = "min_length"
	TypePattern           = "pattern"
	TypeEmail             = "email"
	TypeURL               = "url"
	TypeEnum              = "enum"
	TypePasswordStrength  = "password_strength"
	TypeMatchesField      = "matches_field"
	TypeAccepted          = "accepted"
	TypeRecommendedToggle = "recommended_toggle"
)

// Kind is the closed tagged union the evaluator dispatches on. String rule
// types collapse into one of these, with KindRemoteLookup covering every
// registered lookup type and KindUnknown everything else.
type Kind int

const (
	KindUnknown Kind = iota
	KindRequired
	KindMinLength
	KindPattern
	KindEmail
	KindURL
	KindEnum
	KindPasswordStrength
	KindMatchesField
	KindAccepted
	KindRecommendedToggle
	KindRemoteLookup
)

// KindOf maps a rule type string onto the closed catalogue. Types outside
// the catalogue report KindUnknown; the evaluator then consults the lookup
// registry before giving up on them.
func KindOf(ruleType string) Kind {
	switch ruleType {
	case TypeRequired:
		return KindRequired
	case TypeMinLength:
		return KindMinLength
	case TypePattern:
		return KindPattern
	case TypeEmail:
		return KindEmail
	case TypeURL:
		return KindURL
	case TypeEnum:
		return KindEnum
	case TypePasswordStrength:
		return KindPasswordStrength
	case TypeMatchesField:
		return KindMatchesField
	case TypeAccepted:
		return KindAccepted
	case TypeRecommendedToggle:
		return KindRecommendedToggle
	case lookup.RuleUniqueWorkspaceName, lookup.RuleUniqueWorkspaceContact:
		return KindRemoteLookup
	}
	return KindUnknown
}

package rulekind

import "fmt"

// InvalidRuleError reports that a set of attribute values violates a rule
// kind's schema: an unknown attribute, a type mismatch, or a missing
// mandatory value.
type InvalidRuleError struct {
	Kind    string // rule kind name
	Message string
}

func (e *InvalidRuleError) Error() string {
	return e.Message
}

func invalidRulef(kind string, format string, args ...any) *InvalidRuleError {
	return &InvalidRuleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// PackageLookupError reports that the rule kind itself could not be
// resolved: it is unknown, or its defining unit cannot be located.
type PackageLookupError struct {
	Kind    string
	Message string
}

func (e *PackageLookupError) Error() string {
	return e.Message
}

func packageLookupf(kind string, format string, args ...any) *PackageLookupError {
	return &PackageLookupError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

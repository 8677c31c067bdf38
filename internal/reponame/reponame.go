// Package reponame validates repository names.
//
// Two syntaxes exist. A user-provided name is the short name an extension
// picks for a repo it declares: it must start with a letter and may
// contain only letters, digits, dots, hyphens and underscores. A
// canonical name is minted by the system by joining a name prefix to a
// user-provided name with '+', so it additionally admits '+' and need not
// start with a letter. Path separators are rejected by both, so a name
// can never escape into the filesystem when it is later used as a
// directory component.
package reponame

import (
	"fmt"
	"regexp"
)

var (
	namePattern      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9._-]*$`)
	canonicalPattern = regexp.MustCompile(`^[a-zA-Z0-9._+-]+$`)
)

// Validate reports whether name is a syntactically valid user-provided
// repository name. The returned error is human-readable and names the
// offending input.
func Validate(name string) error {
	if name == "" {
		return fmt.Errorf("repo name may not be empty")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid repo name %q: repo names may contain only letters, digits, '.', '-' and '_', and must start with a letter", name)
	}
	return nil
}

// IsValid is a convenience wrapper around Validate for callers that do
// not need the diagnostic.
func IsValid(name string) bool {
	return Validate(name) == nil
}

// ValidateCanonical reports whether name is a syntactically valid
// canonical repository name, i.e. the part after the "@@" marker.
func ValidateCanonical(name string) error {
	if name == "" {
		return fmt.Errorf("repo name may not be empty")
	}
	if !canonicalPattern.MatchString(name) {
		return fmt.Errorf("invalid repo name %q: canonical repo names may contain only letters, digits, '.', '-', '_' and '+'", name)
	}
	return nil
}

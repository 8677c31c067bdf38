// Package vendoring tracks per-repository vendoring decisions: which
// repositories a vendor configuration ignores outright and which it pins
// to their vendored contents.
//
// The classifier is a flat membership tracker. There is no conflict
// logic; classifying the same repository twice is a no-op. Repositories
// are addressed by canonical name, written with a leading "@@".
package vendoring

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/extreg/internal/reponame"
)

// Classifier accumulates the ignored and pinned repository sets for one
// vendor-configuration evaluation. Like the repository registry it is
// scoped to a single sequential evaluation and needs no locking.
type Classifier struct {
	ignored map[string]struct{}
	pinned  map[string]struct{}
}

// NewClassifier returns an empty Classifier.
func NewClassifier() *Classifier {
	return &Classifier{
		ignored: make(map[string]struct{}),
		pinned:  make(map[string]struct{}),
	}
}

// Ignore marks a repository as excluded from vendoring. The name must be
// a canonical repo name ("@@" followed by a valid canonical name).
func (c *Classifier) Ignore(canonicalName string) error {
	name, err := parseCanonicalName(canonicalName)
	if err != nil {
		return err
	}
	c.ignored[name] = struct{}{}
	return nil
}

// Pin marks a repository's vendored contents as authoritative: it will
// not be refreshed while vendoring and is used as-is in vendor mode.
func (c *Classifier) Pin(canonicalName string) error {
	name, err := parseCanonicalName(canonicalName)
	if err != nil {
		return err
	}
	c.pinned[name] = struct{}{}
	return nil
}

// IgnoredRepos returns the ignored set, sorted, without the "@@" prefix.
func (c *Classifier) IgnoredRepos() []string {
	return sortedKeys(c.ignored)
}

// PinnedRepos returns the pinned set, sorted, without the "@@" prefix.
func (c *Classifier) PinnedRepos() []string {
	return sortedKeys(c.pinned)
}

func sortedKeys(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseCanonicalName(canonicalName string) (string, error) {
	if canonicalName == "" {
		return "", fmt.Errorf("repo_name parameter must be specified")
	}
	if !strings.HasPrefix(canonicalName, "@@") {
		return "", fmt.Errorf("repo_name parameter must be a canonical repo name")
	}
	name := strings.TrimPrefix(canonicalName, "@@")
	// Canonical names carry the system's name prefix, so '+' is legal here
	// even though user-provided names reject it.
	if err := reponame.ValidateCanonical(name); err != nil {
		return "", fmt.Errorf("invalid repo name: %w", err)
	}
	return name, nil
}

type key struct{}

var classifierKey = key{}

// WithClassifier returns a context carrying the classifier for one
// vendor-configuration evaluation.
func WithClassifier(ctx context.Context, c *Classifier) context.Context {
	return context.WithValue(ctx, classifierKey, c)
}

// ClassifierFromContextOrFail returns the attached classifier or an error
// naming the operation that required it.
func ClassifierFromContextOrFail(ctx context.Context, what string) (*Classifier, error) {
	if c, ok := ctx.Value(classifierKey).(*Classifier); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%s can only be used in a vendor configuration file", what)
}

package registry

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// NameError reports a missing, non-string, empty or syntactically invalid
// 'name' attribute in a repository declaration.
type NameError struct {
	Message string
}

func (e *NameError) Error() string {
	return e.Message
}

func namef(format string, args ...any) *NameError {
	return &NameError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports that a repository name was already declared
// earlier in the same evaluation. First is the declaration site of the
// original, surviving declaration; conflicts are always reported against
// it, never against the newer call.
type ConflictError struct {
	Name  string
	First hcl.Range
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a repo named %s is already generated by this module extension at %s", e.Name, e.First)
}

// AttributeError wraps a schema-validation failure from the rule
// materializer. The message is the collaborator's, verbatim; the registry
// does not understand individual rule schemas and does not editorialize.
type AttributeError struct {
	RuleKind string
	Err      error
}

func (e *AttributeError) Error() string {
	return e.Err.Error()
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

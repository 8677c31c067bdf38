// Package evalctx attaches the extension evaluation's repository registry
// to a context.Context so any code running within that evaluation can
// reach it without the registry being passed through every call.
//
// This is the Go rendition of thread-local context storage: the registry
// is stored once when evaluation begins and looked up by type wherever a
// repository declaration is executed. Different evaluations carry
// different contexts, so isolation between them is structural.
package evalctx

import (
	"context"
	"fmt"

	"github.com/vk/extreg/internal/registry"
)

type key struct{}

var registryKey = key{}

// WithRegistry returns a new context carrying the registry for one
// extension evaluation.
func WithRegistry(ctx context.Context, reg *registry.Registry) context.Context {
	return context.WithValue(ctx, registryKey, reg)
}

// RegistryFromContext returns the registry attached to the evaluation
// context, if any.
func RegistryFromContext(ctx context.Context) (*registry.Registry, bool) {
	reg, ok := ctx.Value(registryKey).(*registry.Registry)
	return reg, ok
}

// RegistryFromContextOrFail returns the attached registry or an error
// naming the operation that required it, for surfacing to the extension
// author.
func RegistryFromContextOrFail(ctx context.Context, what string) (*registry.Registry, error) {
	reg, ok := RegistryFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("%s can only be used during module extension evaluation", what)
	}
	return reg, nil
}

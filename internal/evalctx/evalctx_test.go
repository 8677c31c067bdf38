package evalctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/extreg/internal/registry"
	"github.com/vk/extreg/internal/rulekind"
)

func newRegistry(prefix string) *registry.Registry {
	return registry.New(registry.Config{
		NamePrefix:   prefix,
		Materializer: rulekind.NewSchemaMaterializer(),
	})
}

func TestRegistryFromContext(t *testing.T) {
	reg := newRegistry("ext+")
	ctx := WithRegistry(context.Background(), reg)

	got, ok := RegistryFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, reg, got)
}

func TestRegistryFromContext_Missing(t *testing.T) {
	_, ok := RegistryFromContext(context.Background())
	assert.False(t, ok)
}

func TestRegistryFromContextOrFail(t *testing.T) {
	_, err := RegistryFromContextOrFail(context.Background(), "repo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repo can only be used during module extension evaluation")

	reg := newRegistry("ext+")
	got, err := RegistryFromContextOrFail(WithRegistry(context.Background(), reg), "repo")
	require.NoError(t, err)
	assert.Same(t, reg, got)
}

// Parallel evaluations carry distinct registries on distinct contexts;
// isolation is structural, not synchronized.
func TestRegistryFromContext_PerEvaluationIsolation(t *testing.T) {
	regA := newRegistry("a+")
	regB := newRegistry("b+")

	ctxA := WithRegistry(context.Background(), regA)
	ctxB := WithRegistry(context.Background(), regB)

	gotA, _ := RegistryFromContext(ctxA)
	gotB, _ := RegistryFromContext(ctxB)
	assert.Same(t, regA, gotA)
	assert.Same(t, regB, gotB)
	assert.NotSame(t, gotA, gotB)
}

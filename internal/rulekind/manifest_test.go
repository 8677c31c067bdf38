package rulekind

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const archiveManifest = `
rule_kind "http_archive" {
  source = "@tools//repo:http.bzl"

  attribute "url" {
    type      = string
    mandatory = true
  }
  attribute "sha256" {
    type = string
  }
  attribute "strip_prefix" {
    type    = string
    default = ""
  }
  attribute "mirrors" {
    type = list(string)
  }
}
`

func TestLoadSource_Valid(t *testing.T) {
	kinds, err := LoadSource(context.Background(), "archive.hcl", []byte(archiveManifest))
	require.NoError(t, err)
	require.Len(t, kinds, 1)

	kind := kinds["http_archive"]
	require.NotNil(t, kind)
	assert.Equal(t, "http_archive", kind.Name())
	assert.Equal(t, "@tools//repo:http.bzl", kind.SourceDefinition())
	assert.Equal(t, []string{"mirrors", "sha256", "strip_prefix", "url"}, kind.AttrNames())

	url := kind.Attr("url")
	require.NotNil(t, url)
	assert.True(t, url.Mandatory)
	assert.True(t, url.Type.Equals(cty.String))
	assert.Nil(t, url.Default)

	prefix := kind.Attr("strip_prefix")
	require.NotNil(t, prefix)
	assert.False(t, prefix.Mandatory)
	require.NotNil(t, prefix.Default)
	assert.Equal(t, cty.StringVal(""), *prefix.Default)

	mirrors := kind.Attr("mirrors")
	require.NotNil(t, mirrors)
	assert.True(t, mirrors.Type.Equals(cty.List(cty.String)))

	assert.Nil(t, kind.Attr("nope"))
}

func TestLoadSource_MultipleKinds(t *testing.T) {
	src := `
rule_kind "http_archive" {
  source = "@tools//repo:http.bzl"
  attribute "url" { type = string }
}

rule_kind "git_repository" {
  source = "@tools//repo:git.bzl"
  attribute "remote" {
    type      = string
    mandatory = true
  }
  attribute "commit" { type = string }
}
`
	kinds, err := LoadSource(context.Background(), "kinds.hcl", []byte(src))
	require.NoError(t, err)
	assert.Len(t, kinds, 2)
	assert.Contains(t, kinds, "http_archive")
	assert.Contains(t, kinds, "git_repository")
}

func TestLoadSource_DuplicateKind(t *testing.T) {
	src := `
rule_kind "http_archive" {
  source = "@tools//repo:http.bzl"
}
rule_kind "http_archive" {
  source = "@tools//repo:http.bzl"
}
`
	_, err := LoadSource(context.Background(), "dup.hcl", []byte(src))
	assert.ErrorContains(t, err, "duplicate rule_kind")
}

func TestLoadSource_ReservedNameAttribute(t *testing.T) {
	src := `
rule_kind "http_archive" {
  source = "@tools//repo:http.bzl"
  attribute "name" { type = string }
}
`
	_, err := LoadSource(context.Background(), "bad.hcl", []byte(src))
	assert.ErrorContains(t, err, "reserved")
}

func TestLoadSource_MissingSource(t *testing.T) {
	src := `
rule_kind "http_archive" {
  attribute "url" { type = string }
}
`
	_, err := LoadSource(context.Background(), "bad.hcl", []byte(src))
	assert.Error(t, err)
}

func TestLoadSource_BadTypeConstraint(t *testing.T) {
	src := `
rule_kind "http_archive" {
  source = "@tools//repo:http.bzl"
  attribute "url" { type = "not-a-type" }
}
`
	_, err := LoadSource(context.Background(), "bad.hcl", []byte(src))
	assert.ErrorContains(t, err, "type constraint")
}

func TestLoadSource_DefaultTypeMismatch(t *testing.T) {
	src := `
rule_kind "http_archive" {
  source = "@tools//repo:http.bzl"
  attribute "timeout" {
    type    = number
    default = ["nope"]
  }
}
`
	_, err := LoadSource(context.Background(), "bad.hcl", []byte(src))
	assert.ErrorContains(t, err, "default")
}

func TestLoadSource_MandatoryWithDefault(t *testing.T) {
	src := `
rule_kind "http_archive" {
  source = "@tools//repo:http.bzl"
  attribute "url" {
    type      = string
    mandatory = true
    default   = "https://example.com"
  }
}
`
	_, err := LoadSource(context.Background(), "bad.hcl", []byte(src))
	assert.ErrorContains(t, err, "may not declare a default")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archive.hcl"), []byte(archiveManifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "git.hcl"), []byte(`
rule_kind "git_repository" {
  source = "@tools//repo:git.bzl"
  attribute "remote" {
    type      = string
    mandatory = true
  }
}
`), 0o644))

	kinds, err := LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, kinds, 2)
}

func TestLoadDir_CrossFileDuplicate(t *testing.T) {
	dir := t.TempDir()
	manifest := []byte(`
rule_kind "http_archive" {
  source = "@tools//repo:http.bzl"
}
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), manifest, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), manifest, 0o644))

	_, err := LoadDir(context.Background(), dir)
	assert.ErrorContains(t, err, "already declared")
}

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PositionalExtensionPath(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"extension.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "extension.hcl", cfg.ExtensionPath)
	assert.Equal(t, "rulekinds", cfg.RuleKindsPath)
	assert.Equal(t, "", cfg.NamePrefix)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_Flags(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{
		"-extension", "ext.hcl",
		"-rule-kinds", "kinds",
		"-vendor-file", "vendor.hcl",
		"-name-prefix", "mod+ext+",
		"-log-format", "text",
		"-log-level", "debug",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "ext.hcl", cfg.ExtensionPath)
	assert.Equal(t, "kinds", cfg.RuleKindsPath)
	assert.Equal(t, "vendor.hcl", cfg.VendorPath)
	assert.Equal(t, "mod+ext+", cfg.NamePrefix)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_ShorthandFlag(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-e", "ext.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "ext.hcl", cfg.ExtensionPath)
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-format", "xml", "ext.hcl"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "log-format")
}

func TestParse_InvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"-log-level", "loud", "ext.hcl"}, &out)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "log-level")
}

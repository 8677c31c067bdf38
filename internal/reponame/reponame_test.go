package reponame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "foo", false},
		{"mixed case", "MyRepo", false},
		{"digits after letter", "repo2", false},
		{"dots hyphens underscores", "a.b-c_d", false},
		{"single letter", "x", false},
		{"empty", "", true},
		{"leading digit", "9lives", true},
		{"leading underscore", "_private", true},
		{"leading dot", ".hidden", true},
		{"path separator", "foo/bar", true},
		{"backslash", `foo\bar`, true},
		{"space", "has space", true},
		{"at sign", "@foo", true},
		{"parent dir only rejected by first char", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantErr {
				assert.Error(t, err, "input %q", tt.input)
				assert.False(t, IsValid(tt.input))
			} else {
				assert.NoError(t, err, "input %q", tt.input)
				assert.True(t, IsValid(tt.input))
			}
		})
	}
}

func TestValidate_ErrorNamesTheInput(t *testing.T) {
	err := Validate("foo/bar")
	assert.ErrorContains(t, err, `"foo/bar"`)
}

func TestValidateCanonical(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "foo", false},
		{"prefixed extension repo", "mod+ext+repo", false},
		{"module with version", "otherrepo+1.0", false},
		{"leading digit", "9lives", false},
		{"leading plus", "+segment", false},
		{"dots hyphens underscores", "a.b-c_d", false},
		{"empty", "", true},
		{"path separator", "mod+ext/escape", true},
		{"space", "has space", true},
		{"at sign", "@foo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCanonical(tt.input)
			if tt.wantErr {
				assert.Error(t, err, "input %q", tt.input)
			} else {
				assert.NoError(t, err, "input %q", tt.input)
			}
		})
	}
}

// The prefixed names the registry mints must always round-trip through
// the canonical validator, even though they fail the user-name one.
func TestValidateCanonical_AcceptsMintedNames(t *testing.T) {
	assert.Error(t, Validate("ext+foo"))
	assert.NoError(t, ValidateCanonical("ext+foo"))
}

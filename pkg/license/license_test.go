package license

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromGitHub(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"apache-2.0", "asl20"},
		{"mit", "mit"},
		{"MIT", "mit"},
		{"bsd-3-clause", "bsd3"},
		{"cc0-1.0", "cc0"},
		{"mpl-2.0", "mpl20"},
		{"unlicense", "unlicense"},
		{"other", Unknown},
		{"", Unknown},
		{"not-a-license", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, FromGitHub(tt.key))
		})
	}
}

func TestFromPyPI(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Apache 2.0", "asl20"},
		{"Apache Software License", "asl20"},
		{"BSD-3-clause", "bsd3"},
		{"MIT License", "mit"},
		{"  MIT  ", "mit"},
		{"Python Software Foundation License", "psfl"},
		{"Proprietary", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromPyPI(tt.name))
		})
	}
}

func TestTablesAreNormalized(t *testing.T) {
	for _, table := range []map[string]string{githubLicenses, pypiLicenses} {
		for k, v := range table {
			assert.Equal(t, strings.ToLower(strings.TrimSpace(k)), k, "keys must be lowercase and trimmed")
			assert.NotEmpty(t, v)
			assert.NotEqual(t, Unknown, v)
		}
	}
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown("mit"))
	assert.False(t, IsKnown(Unknown))
	assert.False(t, IsKnown(""))
}

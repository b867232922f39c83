package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nix-template/pkg/errors"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		in   string
		want RemoteIdentifier
	}{
		{"github.com/jonringer/nix-template", GitHubRepo{"jonringer", "nix-template"}},
		{"https://github.com/jonringer/nix-template", GitHubRepo{"jonringer", "nix-template"}},
		{"http://github.com/jonringer/nix-template/", GitHubRepo{"jonringer", "nix-template"}},
		{"https://www.github.com/psf/requests.git", GitHubRepo{"psf", "requests"}},
		{"https://github.com/psf/requests/tree/main/src", GitHubRepo{"psf", "requests"}},
		{"https://pypi.org/project/requests", PyPIProject{"requests"}},
		{"pypi.org/project/azure-mgmt-core/", PyPIProject{"azure-mgmt-core"}},
		{"https://pypi.org/project/zope.interface/5.4.0/", PyPIProject{"zope.interface"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseURLErrors(t *testing.T) {
	tests := []struct {
		in      string
		message string
	}{
		{"https://gitlab.com/foo/bar", "Only github.com and pypi.org are supported"},
		{"crates.io/crates/serde", "Only github.com and pypi.org are supported"},
		{"github.com/onlyowner", "github.com/<owner>/<repo>"},
		{"https://pypi.org/simple/requests", "pypi.org/project/<project>"},
		{"github.com/-bad/repo", "malformed github url"},
		{"pypi.org/project/bad-", "malformed pypi url"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseURL(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedURL))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestRemoteIdentifierString(t *testing.T) {
	assert.Equal(t, "github.com/a/b", GitHubRepo{"a", "b"}.String())
	assert.Equal(t, "pypi.org/project/c", PyPIProject{"c"}.String())
}

package enrich

import (
	"regexp"
	"strings"

	"github.com/matzehuels/nix-template/pkg/errors"
	"github.com/matzehuels/nix-template/pkg/integrations/github"
)

var (
	githubURL = regexp.MustCompile(`^github\.com/([^/]+)/([^/?#]+?)(?:\.git)?/?(?:[/?#].*)?$`)
	pypiURL   = regexp.MustCompile(`^pypi\.org/project/([^/?#]+)/?(?:[/?#].*)?$`)
)

// RemoteIdentifier names the registry entry metadata is read from. It is
// one of [GitHubRepo] or [PyPIProject].
type RemoteIdentifier interface {
	remote()
	String() string
}

// GitHubRepo is a repository on github.com.
type GitHubRepo struct {
	Owner string
	Repo  string
}

func (GitHubRepo) remote() {}

func (r GitHubRepo) String() string { return "github.com/" + r.Owner + "/" + r.Repo }

// PyPIProject is a project on pypi.org.
type PyPIProject struct {
	Project string
}

func (PyPIProject) remote() {}

func (p PyPIProject) String() string { return "pypi.org/project/" + p.Project }

// ParseURL classifies a github.com or pypi.org URL. The scheme is optional.
func ParseURL(raw string) (RemoteIdentifier, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "www.")

	switch {
	case strings.HasPrefix(trimmed, "github.com"):
		m := githubURL.FindStringSubmatch(trimmed)
		if m == nil {
			return nil, errors.New(errors.ErrCodeUnsupportedURL,
				"please provide a github url of shape 'github.com/<owner>/<repo>', got %s", raw)
		}
		if err := github.ValidateRepoRef(m[1], m[2]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsupportedURL, err, "malformed github url %s", raw)
		}
		return GitHubRepo{Owner: m[1], Repo: m[2]}, nil

	case strings.HasPrefix(trimmed, "pypi.org"):
		m := pypiURL.FindStringSubmatch(trimmed)
		if m == nil {
			return nil, errors.New(errors.ErrCodeUnsupportedURL,
				"please provide a pypi url of shape 'pypi.org/project/<project>', got %s", raw)
		}
		if err := errors.ValidatePythonPackageName(m[1]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsupportedURL, err, "malformed pypi url %s", raw)
		}
		return PyPIProject{Project: m[1]}, nil

	default:
		return nil, errors.New(errors.ErrCodeUnsupportedURL,
			"%s is not a supported url. Only github.com and pypi.org are supported currently", raw)
	}
}

package github

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/matzehuels/nix-template/pkg/cache"
	"github.com/matzehuels/nix-template/pkg/integrations"
)

const defaultBaseURL = "https://api.github.com"

var repoURLPattern = regexp.MustCompile(`https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:[/?#]|$)`)

// Client provides access to the GitHub REST API for release and repository
// metadata. It handles HTTP requests with caching, automatic retries, and
// optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
// A nil cache disables response caching.
func NewClient(c cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(c, "github:", cacheTTL, headers),
		baseURL: defaultBaseURL,
	}
}

// WithBaseURL points the client at a different API root (GitHub Enterprise or
// a test server).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Repo fetches repository metadata. If refresh is true, cached data is bypassed.
func (c *Client) Repo(ctx context.Context, owner, repo string, refresh bool) (*Repo, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	key := "repo:" + owner + "/" + repo

	var r Repo
	err := c.Cached(ctx, key, refresh, &r, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
		return c.Get(ctx, url, &r)
	})
	if err != nil {
		return nil, wrapNotFound(err, owner, repo)
	}
	return &r, nil
}

// Releases lists the most recent releases of a repository (up to 100),
// including drafts and prereleases. Callers filter.
func (c *Client) Releases(ctx context.Context, owner, repo string, refresh bool) ([]Release, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	key := "releases:" + owner + "/" + repo

	var releases []Release
	err := c.Cached(ctx, key, refresh, &releases, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=100", c.baseURL, owner, repo)
		return c.Get(ctx, url, &releases)
	})
	if err != nil {
		return nil, wrapNotFound(err, owner, repo)
	}
	return releases, nil
}

// ArchiveURL returns the tarball URL GitHub serves for a tag.
func ArchiveURL(owner, repo, tag string) string {
	return fmt.Sprintf("https://github.com/%s/%s/archive/refs/tags/%s.tar.gz", owner, repo, tag)
}

// ExtractURL finds a GitHub owner and repo in package URLs, preferring the
// Source, Repository, Code and Homepage keys before falling back to homepage.
func ExtractURL(urls map[string]string, homepage string) (owner, repo string, ok bool) {
	return integrations.ExtractRepoURL(repoURLPattern, urls, homepage)
}

func wrapNotFound(err error, owner, repo string) error {
	if errors.Is(err, integrations.ErrNotFound) {
		return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
	}
	return err
}

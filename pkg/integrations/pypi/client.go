package pypi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/nix-template/pkg/cache"
	"github.com/matzehuels/nix-template/pkg/integrations"
)

// Project holds the PyPI metadata used to fill a python expression.
//
// Releases maps every published version to its distribution files. A
// version with no files (e.g. fully yanked) maps to an empty slice.
type Project struct {
	Name        string            `json:"name"`         // Canonical project name as published
	Version     string            `json:"version"`      // Version PyPI considers current
	Summary     string            `json:"summary"`      // One-line description (may be empty)
	License     string            `json:"license"`      // Classifier-derived license name, else the raw license field
	HomePage    string            `json:"home_page"`    // Declared homepage (may be empty)
	PackageURL  string            `json:"package_url"`  // https://pypi.org/project/<name>/
	ProjectURLs map[string]string `json:"project_urls"` // Project URLs (e.g. "Homepage", "Source")
	Releases    map[string][]File `json:"releases"`
}

// File is one distribution file of a release.
type File struct {
	Filename    string  `json:"filename"`
	PackageType string  `json:"packagetype"` // "sdist" or "bdist_wheel"
	URL         string  `json:"url"`
	Yanked      bool    `json:"yanked"`
	Digests     Digests `json:"digests"`
}

// Digests carries the hashes PyPI publishes for a file.
type Digests struct {
	SHA256 string `json:"sha256"`
}

// Sdist returns the first source distribution among files.
func Sdist(files []File) (File, bool) {
	for _, f := range files {
		if f.PackageType == "sdist" {
			return f, true
		}
	}
	return File{}, false
}

// Homepage returns the declared homepage, falling back to the "Homepage"
// project URL and then the package URL.
func (p *Project) Homepage() string {
	if p.HomePage != "" {
		return p.HomePage
	}
	if v := p.ProjectURLs["Homepage"]; v != "" {
		return v
	}
	keys := make([]string, 0, len(p.ProjectURLs))
	for k := range p.ProjectURLs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := p.ProjectURLs[k]; strings.EqualFold(k, "homepage") && v != "" {
			return v
		}
	}
	return p.PackageURL
}

// Client provides access to the PyPI JSON API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (nil or cache.NewNullCache() for no caching)
//   - cacheTTL: How long responses are cached (typical: 1-24 hours)
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "pypi:", cacheTTL, nil),
		baseURL: "https://pypi.org/pypi",
	}
}

// WithBaseURL points the client at a different index (a mirror or a test server).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// FetchProject retrieves metadata and the release table for a project.
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - Project populated with metadata on success
//   - [integrations.ErrNotFound] if the project doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
//   - [integrations.ErrDecode] when the response is not the expected JSON
func (c *Client) FetchProject(ctx context.Context, project string, refresh bool) (*Project, error) {
	key := integrations.NormalizePkgName(project)

	var p Project
	err := c.Cached(ctx, key, refresh, &p, func() error {
		return c.fetch(ctx, project, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) fetch(ctx context.Context, project string, p *Project) error {
	var data apiResponse
	url := fmt.Sprintf("%s/%s/json", c.baseURL, integrations.URLEncode(project))
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi project %s", err, project)
		}
		return err
	}

	urls := make(map[string]string, len(data.Info.ProjectURLs))
	for k, v := range data.Info.ProjectURLs {
		if s, ok := v.(string); ok {
			urls[k] = s
		}
	}

	releases := make(map[string][]File, len(data.Releases))
	for v, files := range data.Releases {
		if files == nil {
			files = []File{}
		}
		releases[v] = files
	}

	*p = Project{
		Name:        data.Info.Name,
		Version:     data.Info.Version,
		Summary:     data.Info.Summary,
		License:     extractLicenseType(data.Info.License, data.Info.Classifiers),
		HomePage:    data.Info.HomePage,
		PackageURL:  data.Info.PackageURL,
		ProjectURLs: urls,
		Releases:    releases,
	}
	return nil
}

type apiResponse struct {
	Info     apiInfo           `json:"info"`
	Releases map[string][]File `json:"releases"`
}

type apiInfo struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Summary     string         `json:"summary"`
	License     string         `json:"license"`
	Classifiers []string       `json:"classifiers"`
	ProjectURLs map[string]any `json:"project_urls"`
	HomePage    string         `json:"home_page"`
	PackageURL  string         `json:"package_url"`
}

// extractLicenseType extracts a short license identifier from PyPI data.
// It prefers the classifier (e.g., "License :: OSI Approved :: MIT License" -> "MIT License")
// and falls back to the license field if it's short enough.
func extractLicenseType(license string, classifiers []string) string {
	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, " :: ")
			if len(parts) >= 3 {
				// Return the last part, e.g., "MIT License", "BSD-3-Clause"
				return parts[len(parts)-1]
			}
		}
	}

	// If license field is short (likely just the type), use it
	if license != "" && len(license) < 100 && !strings.Contains(license, "\n") {
		return strings.TrimSpace(license)
	}

	// Otherwise, try to extract type from the beginning of the license text
	if license != "" {
		firstLine := strings.TrimSpace(strings.Split(license, "\n")[0])
		if len(firstLine) < 50 {
			return firstLine
		}
	}

	return ""
}

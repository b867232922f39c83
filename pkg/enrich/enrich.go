// Package enrich fills an [expr.Info] from a GitHub repository or a PyPI
// project: the latest release, its checksum, license, description and
// homepage.
//
// Fields the user already chose (pname, owner, license) are only filled while
// they still hold [expr.Sentinel]. A registry that has no usable release is
// reported and otherwise ignored; every other failure is returned.
//
// [expr.Info]: github.com/matzehuels/nix-template/pkg/expr.Info
// [expr.Sentinel]: github.com/matzehuels/nix-template/pkg/expr.Sentinel
package enrich

import (
	"context"
	stderrors "errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nix-template/pkg/errors"
	"github.com/matzehuels/nix-template/pkg/expr"
	"github.com/matzehuels/nix-template/pkg/integrations"
	"github.com/matzehuels/nix-template/pkg/integrations/github"
	"github.com/matzehuels/nix-template/pkg/integrations/pypi"
	"github.com/matzehuels/nix-template/pkg/license"
	"github.com/matzehuels/nix-template/pkg/observability"
	"github.com/matzehuels/nix-template/pkg/version"
)

// Enricher queries GitHub and PyPI on behalf of the pipeline.
type Enricher struct {
	GitHub     *github.Client
	PyPI       *pypi.Client
	Prefetcher Prefetcher
	Logger     *log.Logger

	// Refresh bypasses cached registry responses.
	Refresh bool
}

// New returns an Enricher. A nil logger discards diagnostics.
func New(gh *github.Client, py *pypi.Client, p Prefetcher, logger *log.Logger) *Enricher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Enricher{GitHub: gh, PyPI: py, Prefetcher: p, Logger: logger}
}

// Enrich parses rawURL and fills info from the registry it names.
func (e *Enricher) Enrich(ctx context.Context, rawURL string, info *expr.Info) error {
	id, err := ParseURL(rawURL)
	if err != nil {
		return err
	}

	var source string
	switch id.(type) {
	case GitHubRepo:
		source = "github"
	case PyPIProject:
		source = "pypi"
	}

	hooks := observability.Pipeline()
	hooks.OnEnrichStart(ctx, source, id.String())
	start := time.Now()

	switch id := id.(type) {
	case GitHubRepo:
		err = e.fromGitHub(ctx, id, info)
	case PyPIProject:
		err = e.fromPyPI(ctx, id, info)
	default:
		err = errors.New(errors.ErrCodeInternal, "unhandled remote identifier %T", id)
	}

	hooks.OnEnrichComplete(ctx, source, id.String(), time.Since(start), err)
	return err
}

func (e *Enricher) fromGitHub(ctx context.Context, id GitHubRepo, info *expr.Info) error {
	e.Logger.Infof("Determining latest release for %s", id.Repo)

	releases, err := e.GitHub.Releases(ctx, id.Owner, id.Repo, e.Refresh)
	if err != nil {
		return remoteError(err, id, "releases")
	}

	if tag, ok := latestTag(releases); ok {
		tok := version.Split(tag)
		info.TagPrefix, info.Version = tok.Prefix, tok.Version

		e.Logger.Infof("Determining sha256 for %s", id.Repo)
		archive := github.ArchiveURL(id.Owner, id.Repo, tok.Tag())
		sha, err := e.Prefetcher.Prefetch(ctx, archive)
		if err != nil {
			return errors.Wrap(errors.ErrCodeChecksumFailed, err, "unable to compute sha256 of %s", archive)
		}
		info.SrcSha = sha
	} else {
		e.Logger.Warnf("No releases found for %s", id)
	}

	repo, err := e.GitHub.Repo(ctx, id.Owner, id.Repo, e.Refresh)
	if err != nil {
		return remoteError(err, id, "repository metadata")
	}

	if key := repo.LicenseKey(); key != "" && key != "other" && !expr.IsSet(info.License) {
		info.License = license.FromGitHub(key)
	}
	if repo.Description != nil {
		info.Description = strings.TrimSpace(*repo.Description)
	}
	if info.Homepage == "" && repo.Homepage != "" {
		info.Homepage = repo.Homepage
	}
	if !expr.IsSet(info.Pname) {
		info.Pname = id.Repo
	}
	if !expr.IsSet(info.Owner) {
		info.Owner = id.Owner
	}
	return nil
}

// latestTag picks the newest published, non-prerelease tag.
func latestTag(releases []github.Release) (string, bool) {
	tags := make([]string, 0, len(releases))
	for _, r := range releases {
		if r.Draft || r.Prerelease || r.TagName == "" {
			continue
		}
		tags = append(tags, r.TagName)
	}
	if len(tags) == 0 {
		return "", false
	}
	sortTags(tags)
	return tags[0], true
}

// sortTags orders tags newest first by their version part.
func sortTags(tags []string) {
	sort.SliceStable(tags, func(i, j int) bool {
		return version.Compare(version.Split(tags[i]).Version, version.Split(tags[j]).Version) > 0
	})
}

func (e *Enricher) fromPyPI(ctx context.Context, id PyPIProject, info *expr.Info) error {
	e.Logger.Infof("Determining latest release for %s", id.Project)

	project, err := e.PyPI.FetchProject(ctx, id.Project, e.Refresh)
	if err != nil {
		return remoteError(err, id, "project metadata")
	}

	latest, ok := latestRelease(project.Releases)
	if !ok {
		e.Logger.Warnf("No releases found for %s", id)
		return nil
	}

	if sdist, ok := pypi.Sdist(project.Releases[latest]); ok {
		info.Fetcher = expr.FetcherPyPI
		info.SrcSha = sdist.Digests.SHA256
	} else {
		e.Logger.Warnf("Unable to find sdist for %s. Using default template", id.Project)
	}

	if !expr.IsSet(info.Pname) {
		info.Pname = id.Project
	}
	info.Version = latest
	info.Homepage = project.Homepage()
	info.Description = oneLine(project.Summary)
	if !expr.IsSet(info.License) {
		info.License = license.FromPyPI(project.License)
	}
	if !expr.IsSet(info.Owner) {
		if owner, _, ok := github.ExtractURL(project.ProjectURLs, project.HomePage); ok {
			info.Owner = owner
		}
	}
	return nil
}

// latestRelease returns the newest version in releases, preferring final
// releases over prereleases.
func latestRelease(releases map[string][]pypi.File) (string, bool) {
	versions := make([]string, 0, len(releases))
	for v := range releases {
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		return "", false
	}
	version.SortDescending(versions)
	for _, v := range versions {
		if !version.IsPrerelease(v) {
			return v, true
		}
	}
	return versions[0], true
}

// oneLine trims s to its first line without a trailing period.
func oneLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.TrimRight(s, ".")
	if s == "" {
		return expr.Sentinel
	}
	return s
}

func remoteError(err error, id RemoteIdentifier, what string) error {
	var rl *errors.RateLimitedError
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	case stderrors.As(err, &rl):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "rate limited while fetching %s for %s (set GITHUB_TOKEN to raise the limit)", what, id)
	case stderrors.Is(err, integrations.ErrDecode):
		return errors.Wrap(errors.ErrCodeRemoteParse, err, "unable to parse %s for %s", what, id)
	default:
		return errors.Wrap(errors.ErrCodeRemoteFetch, err, "unable to fetch %s for %s", what, id)
	}
}

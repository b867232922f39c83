// Package version splits release tags and orders version strings.
//
// [Split] separates a release tag such as "v1.2.0" or "azure-cli-2.61.0"
// into its non-numeric prefix and the version proper. [Compare] orders two
// version strings numerically, trying progressively looser schemes:
//
//  1. Semantic Versioning (Masterminds/semver, lenient about "v" and missing parts)
//  2. PEP 440 (Python release strings such as "2.0.0rc1" or "1.0.post2")
//  3. Debian version ordering (any string starting with a digit)
//  4. Plain byte-wise comparison
//
// Both strings must parse under a scheme for it to be used. Prereleases
// order below their release under every scheme.
package version

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	pep440 "github.com/aquasecurity/go-pep440-version"
	lru "github.com/hashicorp/golang-lru/v2"
	debversion "github.com/knqyf263/go-deb-version"
)

// Token is a release tag split into a prefix and a version.
// Prefix + Version reconstructs the tag.
type Token struct {
	Prefix  string
	Version string
}

// Tag reassembles the release tag.
func (t Token) Tag() string {
	return t.Prefix + t.Version
}

// Split separates tag at its first digit. Everything before the digit is the
// prefix ("v", "release-", "azure-cli-"); the rest is the version. A tag
// without any digit has an empty prefix and is returned whole as the version.
func Split(tag string) Token {
	i := strings.IndexAny(tag, "0123456789")
	if i <= 0 {
		return Token{Version: tag}
	}
	return Token{Prefix: tag[:i], Version: tag[i:]}
}

// parsed holds every successful interpretation of one version string.
type parsed struct {
	sem *semver.Version
	pep *pep440.Version
	deb *debversion.Version
}

const cacheSize = 4096

var parseCache *lru.Cache[string, parsed]

func init() {
	c, err := lru.New[string, parsed](cacheSize)
	if err != nil {
		panic(err)
	}
	parseCache = c
}

func parse(v string) parsed {
	if p, ok := parseCache.Get(v); ok {
		return p
	}

	var p parsed
	if s, err := semver.NewVersion(v); err == nil {
		p.sem = s
	}
	if pv, err := pep440.Parse(v); err == nil {
		p.pep = &pv
	}
	if dv, err := debversion.NewVersion(v); err == nil {
		p.deb = &dv
	}
	parseCache.Add(v, p)
	return p
}

// Compare returns -1 if a < b, 0 if they are equal and 1 if a > b.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	pa, pb := parse(a), parse(b)

	switch {
	case pa.sem != nil && pb.sem != nil:
		if c := pa.sem.Compare(pb.sem); c != 0 {
			return c
		}
	case pa.pep != nil && pb.pep != nil:
		if c := pa.pep.Compare(*pb.pep); c != 0 {
			return c
		}
	case pa.deb != nil && pb.deb != nil:
		if c := pa.deb.Compare(*pb.deb); c != 0 {
			return sign(c)
		}
	}
	// Equal under the scheme (e.g. "v1.0" vs "1.0.0") or unparseable:
	// fall back to bytes so the order is total and deterministic.
	return strings.Compare(a, b)
}

// SortDescending sorts versions in place, newest first.
func SortDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return Compare(versions[i], versions[j]) > 0
	})
}

// IsPrerelease reports whether v is explicitly marked as a prerelease under
// the first scheme that parses it.
func IsPrerelease(v string) bool {
	p := parse(v)
	switch {
	case p.sem != nil:
		return p.sem.Prerelease() != ""
	case p.pep != nil:
		return p.pep.IsPreRelease()
	default:
		return false
	}
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	default:
		return 0
	}
}

// Package expr defines the value object that flows through expression
// generation: what to scaffold ([Template]), how its source is fetched
// ([Fetcher]) and the fields written into the file ([Info]).
package expr

import (
	"fmt"
	"strings"
)

// Sentinel marks a field that still needs a human edit.
const Sentinel = "CHANGE"

// FakeSha256 is the placeholder hash nix reports a mismatch against.
const FakeSha256 = "0000000000000000000000000000000000000000000000000000"

// DefaultVersion is used when neither the user nor a registry supplies one.
const DefaultVersion = "0.0.1"

// Template is the kind of expression to scaffold.
type Template string

const (
	TemplateStdenv  Template = "stdenv"
	TemplatePython  Template = "python"
	TemplateGo      Template = "go"
	TemplateRust    Template = "rust"
	TemplateQt      Template = "qt"
	TemplateMkShell Template = "mkshell"
	TemplateModule  Template = "module"
	TemplateTest    Template = "test"
	TemplateFlake   Template = "flake"
)

// AllTemplates lists every template in display order.
func AllTemplates() []Template {
	return []Template{
		TemplateStdenv, TemplatePython, TemplateGo, TemplateRust, TemplateQt,
		TemplateMkShell, TemplateModule, TemplateTest, TemplateFlake,
	}
}

// ParseTemplate parses a template name case-insensitively.
func ParseTemplate(s string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllTemplates() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown template %q (expected one of %s)", s, joinTemplates())
}

func (t Template) String() string { return string(t) }

// IsPackage reports whether t is assembled from header, fetch and
// dependency blocks rather than a fixed skeleton.
func (t Template) IsPackage() bool {
	switch t {
	case TemplateStdenv, TemplatePython, TemplateGo, TemplateRust, TemplateQt:
		return true
	case TemplateMkShell, TemplateModule, TemplateTest, TemplateFlake:
		return false
	default:
		return false
	}
}

// Description is a one-line summary shown in pickers and listings.
func (t Template) Description() string {
	switch t {
	case TemplateStdenv:
		return "stdenv.mkDerivation package"
	case TemplatePython:
		return "buildPythonPackage for the python package set"
	case TemplateGo:
		return "buildGoModule package"
	case TemplateRust:
		return "rustPlatform.buildRustPackage package"
	case TemplateQt:
		return "Qt application using mkDerivation and wrapQtAppsHook"
	case TemplateMkShell:
		return "mkShell development environment"
	case TemplateModule:
		return "NixOS service module"
	case TemplateTest:
		return "NixOS VM test"
	case TemplateFlake:
		return "flake.nix with a package and a dev shell"
	default:
		return ""
	}
}

// DefaultFetcher is the fetcher used when none is given.
func (t Template) DefaultFetcher() Fetcher {
	if t == TemplatePython {
		return FetcherPyPI
	}
	return FetcherGitHub
}

// DefaultFilename is the file written outside nixpkgs when no path is given.
func (t Template) DefaultFilename() string {
	switch t {
	case TemplateMkShell:
		return "shell.nix"
	case TemplateTest:
		return "test.nix"
	case TemplateFlake:
		return "flake.nix"
	default:
		return "default.nix"
	}
}

func joinTemplates() string {
	names := make([]string, 0, len(AllTemplates()))
	for _, t := range AllTemplates() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// Fetcher is the strategy used to obtain the package source.
type Fetcher string

const (
	FetcherGitHub Fetcher = "github"
	FetcherGitLab Fetcher = "gitlab"
	FetcherURL    Fetcher = "url"
	FetcherZip    Fetcher = "zip"
	FetcherPyPI   Fetcher = "pypi"
)

// AllFetchers lists every fetcher.
func AllFetchers() []Fetcher {
	return []Fetcher{FetcherGitHub, FetcherGitLab, FetcherURL, FetcherZip, FetcherPyPI}
}

// ParseFetcher parses a fetcher name case-insensitively.
func ParseFetcher(s string) (Fetcher, error) {
	f := Fetcher(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllFetchers() {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, 0, len(AllFetchers()))
	for _, known := range AllFetchers() {
		names = append(names, string(known))
	}
	return "", fmt.Errorf("unknown fetcher %q (expected one of %s)", s, strings.Join(names, ", "))
}

func (f Fetcher) String() string { return string(f) }

// Function is the nixpkgs function name the fetch block calls.
func (f Fetcher) Function() (string, error) {
	switch f {
	case FetcherGitHub:
		return "fetchFromGitHub", nil
	case FetcherGitLab:
		return "fetchFromGitLab", nil
	case FetcherURL:
		return "fetchurl", nil
	case FetcherZip:
		return "fetchzip", nil
	case FetcherPyPI:
		return "fetchPypi", nil
	default:
		return "", fmt.Errorf("unknown fetcher %q", string(f))
	}
}

// Info is everything written into a generated expression.
//
// Pname, License, Owner and Description hold [Sentinel] until known.
// Maintainer is empty unless given or configured.
// TagPrefix + Version reconstructs the release tag. An empty Homepage is
// rendered as https://github.com/<owner>/<pname>.
type Info struct {
	Pname       string   `json:"pname" yaml:"pname"`
	Version     string   `json:"version" yaml:"version"`
	TagPrefix   string   `json:"tag_prefix" yaml:"tag_prefix"`
	License     string   `json:"license" yaml:"license"`
	Maintainer  string   `json:"maintainer" yaml:"maintainer"`
	Description string   `json:"description" yaml:"description"`
	Homepage    string   `json:"homepage" yaml:"homepage"`
	Owner       string   `json:"owner" yaml:"owner"`
	SrcSha      string   `json:"src_sha" yaml:"src_sha"`
	Template    Template `json:"template" yaml:"template"`
	Fetcher     Fetcher  `json:"fetcher" yaml:"fetcher"`

	PathToWrite  string `json:"path_to_write" yaml:"path_to_write"`
	TopLevelPath string `json:"top_level_path,omitempty" yaml:"top_level_path,omitempty"`

	IncludeDocumentationLinks bool `json:"include_documentation_links" yaml:"include_documentation_links"`
	IncludeMeta               bool `json:"include_meta" yaml:"include_meta"`
}

// New returns an Info for tmpl with every field at its default.
func New(tmpl Template) *Info {
	return &Info{
		Pname:       Sentinel,
		Version:     DefaultVersion,
		License:     Sentinel,
		Description: Sentinel,
		Owner:       Sentinel,
		SrcSha:      FakeSha256,
		Template:    tmpl,
		Fetcher:     tmpl.DefaultFetcher(),
		IncludeMeta: true,
	}
}

// IsSet reports whether v holds a real value rather than the sentinel.
func IsSet(v string) bool {
	return v != "" && v != Sentinel
}

// Tag is the release tag the source is fetched from.
func (i *Info) Tag() string {
	return i.TagPrefix + i.Version
}

// ResolvedHomepage returns Homepage or the GitHub URL derived from owner and pname.
func (i *Info) ResolvedHomepage() string {
	if i.Homepage != "" {
		return i.Homepage
	}
	return fmt.Sprintf("https://github.com/%s/%s", i.Owner, i.Pname)
}

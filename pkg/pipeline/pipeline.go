// Package pipeline generates one Nix expression from user options.
//
// # Architecture
//
// A run moves through three stages in order:
//
//  1. Enrich: fill fields from GitHub or PyPI when a source URL is given
//  2. Resolve: decide the write path and the index path
//  3. Render: produce the expression text
//
// Enrichment runs first so a pname discovered from the registry can drive
// path resolution.
//
// # Usage
//
//	runner := pipeline.NewRunner(enricher, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Template: "python",
//	    FromURL:  "https://pypi.org/project/requests",
//	    Nixpkgs:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	err = runner.Write(result)
//
// The same Runner serves the CLI and the preview server; only the CLI calls
// [Runner.Write].
package pipeline

import (
	"github.com/matzehuels/nix-template/pkg/errors"
	"github.com/matzehuels/nix-template/pkg/expr"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options is everything a single run needs. It supports JSON for the
// preview server.
type Options struct {
	Template   string `json:"template"`
	Fetcher    string `json:"fetcher,omitempty"`
	Pname      string `json:"pname,omitempty"`
	Version    string `json:"version,omitempty"`
	License    string `json:"license,omitempty"`
	Maintainer string `json:"maintainer,omitempty"`

	Path        string `json:"path,omitempty"`
	Nixpkgs     bool   `json:"nixpkgs,omitempty"`      // place the file in a nixpkgs checkout
	NixpkgsRoot string `json:"nixpkgs_root,omitempty"` // checkout root for Nixpkgs mode
	Stdout      bool   `json:"stdout,omitempty"`       // print instead of writing

	DocumentationLinks bool `json:"documentation_links,omitempty"`
	NoMeta             bool `json:"no_meta,omitempty"`

	FromURL string `json:"from_url,omitempty"`

	template  expr.Template
	fetcher   expr.Fetcher
	validated bool
}

// Result is the outcome of [Runner.Execute].
type Result struct {
	// Info is the fully populated expression, including resolved paths.
	Info *expr.Info

	// Text is the rendered expression.
	Text string

	// Hint tells the user how to register the new file; empty outside
	// Nixpkgs mode.
	Hint *Hint
}

// =============================================================================
// Validation
// =============================================================================

// ValidateAndSetDefaults checks option combinations and parses the enums.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	tmpl, err := expr.ParseTemplate(o.Template)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "invalid template")
	}
	o.template = tmpl

	o.fetcher = tmpl.DefaultFetcher()
	if o.Fetcher != "" {
		f, err := expr.ParseFetcher(o.Fetcher)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFetcher, err, "invalid fetcher")
		}
		o.fetcher = f
	}

	hasPname := expr.IsSet(o.Pname)
	if tmpl == expr.TemplateFlake && !hasPname {
		return errors.New(errors.ErrCodeInvalidInput, "the flake template requires --pname")
	}
	if o.Nixpkgs && tmpl != expr.TemplateModule && !hasPname && o.FromURL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--nixpkgs requires --pname or --from-url")
	}
	if o.Nixpkgs && o.NoMeta {
		return errors.New(errors.ErrCodeInvalidInput, "--no-meta cannot be used with --nixpkgs; nixpkgs requires a meta section")
	}
	if hasPname {
		if err := errors.ValidateNixPname(o.Pname); err != nil {
			return err
		}
	}

	if o.Version == "" {
		o.Version = expr.DefaultVersion
	}
	if o.License == "" {
		o.License = expr.Sentinel
	}

	o.validated = true
	return nil
}

// info builds the initial expression from validated options.
func (o *Options) info() *expr.Info {
	info := expr.New(o.template)
	info.Fetcher = o.fetcher
	if expr.IsSet(o.Pname) {
		info.Pname = o.Pname
	}
	info.Version = o.Version
	info.License = o.License
	info.Maintainer = o.Maintainer
	info.IncludeDocumentationLinks = o.DocumentationLinks
	info.IncludeMeta = !o.NoMeta
	return info
}

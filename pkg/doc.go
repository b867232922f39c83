// Package pkg provides the libraries behind nix-template, which scaffolds Nix
// expressions for nixpkgs, NixOS and flakes.
//
// # Overview
//
// The pkg directory is organized by stage:
//
//  1. [expr] - The value object every stage fills in (template, fetcher, fields)
//  2. [paths] - Where the file goes and how nixpkgs references it
//  3. [enrich] - Package values read from GitHub or PyPI
//  4. [render] - Expression text from skeletons and marker substitution
//  5. [pipeline] - Orchestration (enrich → resolve → render → write)
//
// Supporting packages:
//
//   - [integrations]: GitHub and PyPI HTTP clients
//   - [cache]: response cache (file, Redis, none)
//   - [version]: release tag parsing and ordering
//   - [license]: SPDX and PyPI license mapping to nixpkgs attributes
//   - [config]: user preferences
//   - [errors]: coded errors
//   - [observability]: hooks for logging and metrics
//   - [buildinfo]: version stamped at build time
//
// # Architecture
//
//	CLI flags / JSON options
//	         ↓
//	    [pipeline] validate
//	         ↓
//	    [enrich] (only with --from-url)
//	         ↓
//	    [paths] resolve
//	         ↓
//	    [render] substitute markers, annotate doc topics
//	         ↓
//	    default.nix / shell.nix / flake.nix / stdout
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/nix-template/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Template: "go",
//	    Pname:    "hugo",
//	    Stdout:   true,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(result.Text)
//
// [expr]: github.com/matzehuels/nix-template/pkg/expr
// [paths]: github.com/matzehuels/nix-template/pkg/paths
// [enrich]: github.com/matzehuels/nix-template/pkg/enrich
// [render]: github.com/matzehuels/nix-template/pkg/render
// [pipeline]: github.com/matzehuels/nix-template/pkg/pipeline
// [integrations]: github.com/matzehuels/nix-template/pkg/integrations
// [cache]: github.com/matzehuels/nix-template/pkg/cache
// [version]: github.com/matzehuels/nix-template/pkg/version
// [license]: github.com/matzehuels/nix-template/pkg/license
// [config]: github.com/matzehuels/nix-template/pkg/config
// [errors]: github.com/matzehuels/nix-template/pkg/errors
// [observability]: github.com/matzehuels/nix-template/pkg/observability
// [buildinfo]: github.com/matzehuels/nix-template/pkg/buildinfo
package pkg

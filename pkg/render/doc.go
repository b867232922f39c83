// Package render turns an [expr.Info] into the text of a Nix expression.
//
// # Skeletons
//
// The mkshell, module, test and flake kinds use fixed skeletons embedded
// from skeletons/. The package kinds (stdenv, python, go, rust, qt) are
// assembled from a header, a fetch block chosen by fetcher, a dependency
// block chosen by kind and an optional meta block.
//
// # Markers
//
// Skeletons carry two kinds of marker, resolved in two passes:
//
//	@pname@          value marker, replaced with a field of the Info
//	@doc:fetcher@    annotation marker, expanded to a manual link or deleted
//
// The value pass runs over a closed vocabulary (see [Markers]); a marker
// outside it is an error, so a successful render never leaves one behind.
// The annotation pass only matches markers at the start of a line.
//
//	text, err := render.Render(info)
//
// [expr.Info]: github.com/matzehuels/nix-template/pkg/expr.Info
package render

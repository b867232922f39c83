package render

// docLinks maps annotation topics to manual sections.
var docLinks = map[string]string{
	"buildDependencies":  "https://nixos.org/manual/nixpkgs/stable/#ssec-stdenv-dependencies",
	"buildGoModule":      "https://nixos.org/manual/nixpkgs/stable/#ssec-language-go",
	"buildPythonPackage": "https://nixos.org/manual/nixpkgs/stable/#buildpythonpackage-function",
	"buildRustPackage":   "https://nixos.org/manual/nixpkgs/stable/#compiling-rust-applications-with-cargo",
	"fetcher":            "https://nixos.org/manual/nixpkgs/stable/#chap-pkgs-fetchers",
	"flakes":             "https://nixos.org/manual/nix/stable/command-ref/new-cli/nix3-flake.html",
	"meta":               "https://nixos.org/manual/nixpkgs/stable/#chap-meta",
	"nixosModules":       "https://nixos.org/manual/nixos/stable/#sec-writing-modules",
	"nixosTests":         "https://nixos.org/manual/nixos/stable/#sec-nixos-tests",
	"qt":                 "https://nixos.org/manual/nixpkgs/stable/#sec-language-qt",
	"stdenvMkDerivation": "https://nixos.org/manual/nixpkgs/stable/#sec-using-stdenv",
}

// DocLink returns the manual URL for topic, or "" if the topic is unknown.
func DocLink(topic string) string {
	return docLinks[topic]
}

// comment is the text an annotation expands to. Unknown topics expand to
// nothing.
func comment(topic, indent string) string {
	url, ok := docLinks[topic]
	if !ok {
		return ""
	}
	return "# See the guide for more information: " + url + "\n" + indent
}

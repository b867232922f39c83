package render

import (
	"strings"

	"github.com/matzehuels/nix-template/pkg/errors"
	"github.com/matzehuels/nix-template/pkg/expr"
)

// helper describes the derivation function a package kind builds with.
type helper struct {
	inputs []string // header arguments besides lib and the fetcher
	call   string   // function applied to the rec attrset
	topic  string   // annotation topic for the call line
}

func helperFor(t expr.Template) (helper, error) {
	switch t {
	case expr.TemplateStdenv:
		return helper{[]string{"stdenv"}, "stdenv.mkDerivation", "stdenvMkDerivation"}, nil
	case expr.TemplatePython:
		return helper{[]string{"buildPythonPackage"}, "buildPythonPackage", "buildPythonPackage"}, nil
	case expr.TemplateGo:
		return helper{[]string{"buildGoModule"}, "buildGoModule", "buildGoModule"}, nil
	case expr.TemplateRust:
		return helper{[]string{"rustPlatform"}, "rustPlatform.buildRustPackage", "buildRustPackage"}, nil
	case expr.TemplateQt:
		return helper{[]string{"stdenv", "qtbase", "wrapQtAppsHook"}, "stdenv.mkDerivation", "qt"}, nil
	case expr.TemplateMkShell, expr.TemplateModule, expr.TemplateTest, expr.TemplateFlake:
		return helper{}, errors.New(errors.ErrCodeInvalidTemplate, "template %q is not a package template", string(t))
	default:
		return helper{}, errors.New(errors.ErrCodeInvalidTemplate, "unknown template %q", string(t))
	}
}

func fetchBlock(f expr.Fetcher) (string, error) {
	fn, err := f.Function()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFetcher, err, "cannot render fetch block")
	}

	var body string
	switch f {
	case expr.FetcherGitHub, expr.FetcherGitLab:
		body = `    owner = "@owner@";
    repo = pname;
    rev = @rev@;
    sha256 = "@src_sha@";`
	case expr.FetcherURL, expr.FetcherZip:
		body = `    url = "` + expr.Sentinel + `";
    sha256 = "@src_sha@";`
	case expr.FetcherPyPI:
		body = `    inherit pname version;
    sha256 = "@src_sha@";`
	default:
		return "", errors.New(errors.ErrCodeInvalidFetcher, "unknown fetcher %q", string(f))
	}
	return "  @doc:fetcher@src = " + fn + " {\n" + body + "\n  };", nil
}

func dependencyBlock(t expr.Template) (string, error) {
	switch t {
	case expr.TemplatePython:
		return `  @doc:buildDependencies@propagatedBuildInputs = [ ];

  pythonImportsCheck = [ "@pname-import-check@" ];`, nil
	case expr.TemplateGo:
		return `  vendorHash = lib.fakeHash;`, nil
	case expr.TemplateRust:
		return `  cargoHash = lib.fakeHash;`, nil
	case expr.TemplateQt:
		return `  @doc:buildDependencies@nativeBuildInputs = [ wrapQtAppsHook ];

  buildInputs = [ qtbase ];`, nil
	case expr.TemplateStdenv:
		return `  @doc:buildDependencies@nativeBuildInputs = [ ];

  buildInputs = [ ];`, nil
	case expr.TemplateMkShell, expr.TemplateModule, expr.TemplateTest, expr.TemplateFlake:
		return "", errors.New(errors.ErrCodeInvalidTemplate, "template %q has no dependency block", string(t))
	default:
		return "", errors.New(errors.ErrCodeInvalidTemplate, "unknown template %q", string(t))
	}
}

const metaBlock = `  @doc:meta@meta = with lib; {
    description = "@description@";
    homepage = "@homepage@";
    license = licenses.@license@;
    maintainers = with maintainers; [ @maintainer@ ];
  };`

// assemble builds the skeleton for a package kind.
func assemble(info *expr.Info) (string, error) {
	h, err := helperFor(info.Template)
	if err != nil {
		return "", err
	}
	fetch, err := fetchBlock(info.Fetcher)
	if err != nil {
		return "", err
	}
	deps, err := dependencyBlock(info.Template)
	if err != nil {
		return "", err
	}
	fn, _ := info.Fetcher.Function()

	inputs := append([]string{"lib"}, h.inputs...)
	inputs = append(inputs, fn)

	var b strings.Builder
	b.WriteString("{ " + strings.Join(inputs, ", ") + " }:\n\n")
	b.WriteString("@doc:" + h.topic + "@" + h.call + " rec {\n")
	b.WriteString("  pname = \"@pname@\";\n")
	b.WriteString("  version = \"@version@\";\n\n")
	b.WriteString(fetch + "\n\n")
	b.WriteString(deps + "\n")
	if info.IncludeMeta {
		b.WriteString("\n" + metaBlock + "\n")
	}
	b.WriteString("}\n")
	return b.String(), nil
}

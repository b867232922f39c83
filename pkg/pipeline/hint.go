package pipeline

import (
	"fmt"

	"github.com/matzehuels/nix-template/pkg/expr"
)

// Hint describes the line to add to a nixpkgs index file.
type Hint struct {
	File string `json:"file"` // index file, relative to the checkout root
	Line string `json:"line"` // the entry to add
}

func (h Hint) String() string {
	return fmt.Sprintf("Please add the following line to the appropriate file in %s:\n\n  %s", h.File, h.Line)
}

// hintFor returns the registration hint for info, or nil outside Nixpkgs mode.
func hintFor(info *expr.Info) *Hint {
	if info.TopLevelPath == "" {
		return nil
	}
	switch info.Template {
	case expr.TemplateModule:
		return &Hint{File: "nixos/modules/module-list.nix", Line: info.TopLevelPath}
	case expr.TemplateTest:
		return &Hint{
			File: "nixos/tests/all-tests.nix",
			Line: fmt.Sprintf("%s = runTest %s;", info.Pname, info.TopLevelPath),
		}
	case expr.TemplatePython:
		return &Hint{
			File: "pkgs/top-level/python-packages.nix",
			Line: fmt.Sprintf("%s = callPackage %s { };", info.Pname, info.TopLevelPath),
		}
	case expr.TemplateStdenv, expr.TemplateGo, expr.TemplateRust, expr.TemplateMkShell, expr.TemplateFlake:
		return &Hint{
			File: "pkgs/top-level/all-packages.nix",
			Line: fmt.Sprintf("%s = callPackage %s { };", info.Pname, info.TopLevelPath),
		}
	case expr.TemplateQt:
		return &Hint{
			File: "pkgs/top-level/all-packages.nix",
			Line: fmt.Sprintf("%s = libsForQt5.callPackage %s { };", info.Pname, info.TopLevelPath),
		}
	default:
		return nil
	}
}

// Package paths decides where a generated expression is written and how it
// is referenced from the nixpkgs index files.
//
// Outside a nixpkgs checkout the path is taken as given, except that a
// directory receives the template's default file name. With Nixpkgs set,
// the path is interpreted relative to the checkout root the way nixpkgs
// lays out its tree:
//
//	pkgs/<radix>/default.nix           referenced as ../<radix>       (all-packages.nix)
//	nixos/modules/<radix>              referenced as ./<radix>        (module-list.nix)
//	nixos/tests/<pname>.nix            referenced as ./<pname>.nix    (all-tests.nix)
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/nix-template/pkg/errors"
	"github.com/matzehuels/nix-template/pkg/expr"
)

// Default radixes used when no path is given in nixpkgs mode.
const (
	DefaultPythonRadix = "development/python-modules/"
	DefaultRadix       = "applications/misc"
	TestsDir           = "nixos/tests"
	ModulesDir         = "nixos/modules"
)

// Request describes one path resolution.
type Request struct {
	Template expr.Template
	Path     string // user-supplied path; empty means "use the default"
	Pname    string
	Root     string // nixpkgs checkout root; may be empty (current directory)
	Nixpkgs  bool   // register-in-index mode
}

// Result is the resolved location.
type Result struct {
	WritePath string // file to create
	IndexPath string // path to reference from the index file; empty outside nixpkgs mode

	// Defaulted is the directory chosen because no path was given, for
	// reporting. Empty when the user supplied a path.
	Defaulted string
}

// Resolve computes the write and index paths for req.
//
// The only filesystem access is a single stat deciding whether an explicit
// path names an existing directory.
func Resolve(req Request) (Result, error) {
	if !req.Nixpkgs {
		return Result{WritePath: resolveLocal(req.Path, req.Template)}, nil
	}

	if req.Template != expr.TemplateModule {
		if !expr.IsSet(req.Pname) {
			return Result{}, errors.New(errors.ErrCodeInvalidInput,
				"missing identifier: a pname is required to place a %s expression in nixpkgs", req.Template)
		}
		if err := errors.ValidatePackageName(req.Pname); err != nil {
			return Result{}, err
		}
	}

	switch req.Template {
	case expr.TemplateModule:
		return resolveModule(req)
	case expr.TemplateTest:
		return resolveTest(req)
	case expr.TemplateStdenv, expr.TemplatePython, expr.TemplateGo, expr.TemplateRust,
		expr.TemplateQt, expr.TemplateMkShell, expr.TemplateFlake:
		return resolvePackage(req)
	default:
		return Result{}, errors.New(errors.ErrCodeInvalidTemplate, "unknown template %q", string(req.Template))
	}
}

// resolveLocal places the file outside nixpkgs. A path ending in a separator
// or naming an existing directory gets the default file name appended.
func resolveLocal(p string, t expr.Template) string {
	switch {
	case p == "":
		return t.DefaultFilename()
	case strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) || isDir(p):
		return filepath.Join(p, t.DefaultFilename())
	default:
		return p
	}
}

func resolveModule(req Request) (Result, error) {
	if req.Path == "" {
		name := req.Pname
		if !expr.IsSet(name) {
			name = "<name>"
		}
		return Result{}, errors.New(errors.ErrCodeInvalidInput,
			"a path is required when using the module template, for example 'nixos/modules/services/%s.nix'", name)
	}

	radix, err := relative(req.Path)
	if err != nil {
		return Result{}, err
	}
	radix = trimDir(radix, ModulesDir)
	if radix == "" {
		return Result{}, errors.New(errors.ErrCodeInvalidPath,
			"module path %q must name a file below %s", req.Path, ModulesDir)
	}

	return Result{
		WritePath: filepath.Join(req.Root, ModulesDir, radix),
		IndexPath: "./" + filepath.ToSlash(radix),
	}, nil
}

func resolveTest(req Request) (Result, error) {
	if req.Path == "" {
		file := req.Pname + ".nix"
		return Result{
			WritePath: filepath.Join(req.Root, TestsDir, file),
			IndexPath: "./" + file,
			Defaulted: TestsDir + "/",
		}, nil
	}

	radix, err := relative(req.Path)
	if err != nil {
		return Result{}, err
	}
	radix = trimDir(radix, TestsDir)
	if filepath.Ext(radix) != ".nix" {
		radix = filepath.Join(radix, req.Pname+".nix")
	}

	return Result{
		WritePath: filepath.Join(req.Root, TestsDir, radix),
		IndexPath: "./" + filepath.ToSlash(radix),
	}, nil
}

func resolvePackage(req Request) (Result, error) {
	var (
		radix     string
		defaulted string
	)
	if req.Path == "" {
		if req.Template == expr.TemplatePython {
			radix = DefaultPythonRadix
		} else {
			radix = DefaultRadix
		}
		defaulted = "pkgs/" + radix
	} else {
		r, err := relative(req.Path)
		if err != nil {
			return Result{}, err
		}
		radix = trimDir(r, "pkgs")
	}
	radix = filepath.Clean(radix)

	if filepath.Base(radix) != req.Pname && filepath.Ext(radix) != ".nix" {
		radix = filepath.Join(radix, req.Pname)
	}

	write := filepath.Join(req.Root, "pkgs", radix)
	if isDir(write) || filepath.Ext(write) != ".nix" {
		write = filepath.Join(write, "default.nix")
	}

	return Result{
		WritePath: write,
		IndexPath: filepath.ToSlash(filepath.Join("..", radix)),
		Defaulted: defaulted,
	}, nil
}

// relative strips leading "./" and "/" so a user path is read relative to
// the checkout root, then rejects anything escaping it.
func relative(orig string) (string, error) {
	p := filepath.ToSlash(filepath.Clean(orig))
	p = strings.TrimLeft(p, "/")
	if p == "" || p == "." {
		return "", errors.New(errors.ErrCodeInvalidPath, "path %q does not name anything inside nixpkgs", orig)
	}
	if err := errors.ValidatePath(p); err != nil {
		return "", err
	}
	return filepath.FromSlash(p), nil
}

// trimDir removes a leading dir component sequence from p.
func trimDir(p, dir string) string {
	slashed := filepath.ToSlash(p)
	if slashed == dir {
		return ""
	}
	return filepath.FromSlash(strings.TrimPrefix(slashed, dir+"/"))
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

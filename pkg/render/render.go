package render

import (
	_ "embed"
	"regexp"
	"strings"

	"github.com/matzehuels/nix-template/pkg/errors"
	"github.com/matzehuels/nix-template/pkg/expr"
)

var (
	//go:embed skeletons/mkshell.nix
	mkshellSkeleton string

	//go:embed skeletons/module.nix
	moduleSkeleton string

	//go:embed skeletons/test.nix
	testSkeleton string

	//go:embed skeletons/flake.nix
	flakeSkeleton string
)

var (
	valueMarker      = regexp.MustCompile(`@([a-z][a-z_-]*)@`)
	annotationMarker = regexp.MustCompile(`(?m)^([ \t]*)@doc:(\w+)@`)
)

// Render produces the expression text for info.
//
// The output is a pure function of info.
func Render(info *expr.Info) (string, error) {
	skeleton, err := Skeleton(info)
	if err != nil {
		return "", err
	}
	if info.Template == expr.TemplateMkShell {
		return skeleton, nil
	}
	if err := errors.ValidateNixPname(info.Pname); err != nil {
		return "", err
	}

	text, err := substitute(skeleton, values(info))
	if err != nil {
		return "", err
	}
	if info.Maintainer == "" {
		text = strings.ReplaceAll(text, "maintainers; [  ];", "maintainers; [ ];")
	}
	return annotate(text, info.IncludeDocumentationLinks), nil
}

// Skeleton returns the unsubstituted text for info's template and fetcher.
func Skeleton(info *expr.Info) (string, error) {
	switch info.Template {
	case expr.TemplateMkShell:
		return mkshellSkeleton, nil
	case expr.TemplateModule:
		return moduleSkeleton, nil
	case expr.TemplateTest:
		return testSkeleton, nil
	case expr.TemplateFlake:
		return flakeSkeleton, nil
	case expr.TemplateStdenv, expr.TemplatePython, expr.TemplateGo, expr.TemplateRust, expr.TemplateQt:
		return assemble(info)
	default:
		return "", errors.New(errors.ErrCodeInvalidTemplate, "unknown template %q", string(info.Template))
	}
}

// Markers lists the value markers understood by the value pass.
func Markers() []string {
	return []string{
		"pname", "pname-import-check", "version", "owner", "rev",
		"src_sha", "description", "homepage", "license", "maintainer",
	}
}

func values(info *expr.Info) map[string]string {
	rev := "version"
	if info.TagPrefix != "" {
		rev = `"` + escape(info.TagPrefix) + `${version}"`
	}
	return map[string]string{
		"pname":              info.Pname,
		"pname-import-check": strings.ReplaceAll(info.Pname, "-", "."),
		"version":            escape(info.Version),
		"owner":              escape(info.Owner),
		"rev":                rev,
		"src_sha":            escape(info.SrcSha),
		"description":        escape(info.Description),
		"homepage":           escape(info.ResolvedHomepage()),
		"license":            info.License,
		"maintainer":         info.Maintainer,
	}
}

// substitute replaces every value marker in a single pass. Replacement text
// is never rescanned.
func substitute(text string, vals map[string]string) (string, error) {
	var unknown []string
	out := valueMarker.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := vals[name]
		if !ok {
			unknown = append(unknown, m)
			return m
		}
		return v
	})
	if len(unknown) > 0 {
		return "", errors.New(errors.ErrCodeInternal, "unknown template markers: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// annotate expands or deletes every annotation marker.
func annotate(text string, links bool) string {
	return annotationMarker.ReplaceAllStringFunc(text, func(m string) string {
		sub := annotationMarker.FindStringSubmatch(m)
		indent, topic := sub[1], sub[2]
		if !links {
			return indent
		}
		return indent + comment(topic, indent)
	})
}

// escape makes s safe inside a double-quoted Nix string.
func escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"${", `\${`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

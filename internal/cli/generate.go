package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nix-template/pkg/config"
	"github.com/matzehuels/nix-template/pkg/errors"
	"github.com/matzehuels/nix-template/pkg/expr"
	"github.com/matzehuels/nix-template/pkg/pipeline"
)

// generateOpts holds the command-line flags for expression generation.
type generateOpts struct {
	fetcher     string
	pname       string
	version     string
	license     string
	maintainer  string
	nixpkgsRoot string
	fromURL     string

	nixpkgs     bool
	stdout      bool
	docLinks    bool
	noMeta      bool
	interactive bool
	showInfo    bool
	noCache     bool
	refresh     bool
}

// pipelineOptions merges flags with configured preferences. Flags win.
func (o *generateOpts) pipelineOptions(cfg *config.Config, template, path string) pipeline.Options {
	maintainer := o.maintainer
	if maintainer == "" {
		maintainer = cfg.Maintainer
	}
	root := o.nixpkgsRoot
	if root == "" {
		root = cfg.NixpkgsRoot
	}
	return pipeline.Options{
		Template:           template,
		Fetcher:            o.fetcher,
		Pname:              o.pname,
		Version:            o.version,
		License:            o.license,
		Maintainer:         maintainer,
		Path:               path,
		Nixpkgs:            o.nixpkgs,
		NixpkgsRoot:        root,
		Stdout:             o.stdout,
		DocumentationLinks: o.docLinks,
		NoMeta:             o.noMeta,
		FromURL:            o.fromURL,
	}
}

// generateCommand creates the command that scaffolds one expression. It
// serves as the root command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   appName + " [TEMPLATE] [PATH]",
		Short: "Create common nix expressions",
		Long: `Create common nix expressions.

TEMPLATE is one of: ` + templateNames() + ` (default stdenv).
PATH is the directory or file to be written. For a directory, the template's
default file (default.nix, shell.nix, test.nix or flake.nix) is created inside
it. With --nixpkgs, PATH is read relative to the nixpkgs root.

Environment:
  GITHUB_TOKEN    token used for GitHub API calls
  NIXPKGS_ROOT    default for --nixpkgs-root

Examples:
  # generate an expression for this package
  nix-template rust --from-url https://github.com/jonringer/nix-template

  # generate a python package at pkgs/development/python-modules/requests/default.nix
  nix-template python --nixpkgs --pname requests

  # generate a shell.nix in the current directory
  nix-template mkshell

  # set maintainer name and location of nixpkgs, only needs to be done once
  nix-template config name jonringer
  nix-template config nixpkgs-root ~/nixpkgs`,
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: completeTemplates,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), &opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.pname, "pname", "p", "", "package name to be used in expression")
	f.StringVar(&opts.version, "package-version", expr.DefaultVersion, "version of the package")
	f.StringVarP(&opts.license, "license", "l", expr.Sentinel, "license attribute, e.g. mit")
	f.StringVarP(&opts.maintainer, "maintainer", "m", "", "maintainer handle (default from config)")
	f.StringVarP(&opts.fetcher, "fetcher", "f", "", "source fetcher: "+fetcherNames()+" (default github, pypi for python)")
	f.BoolVarP(&opts.nixpkgs, "nixpkgs", "n", false, "place the file inside nixpkgs and print the line registering it")
	f.StringVarP(&opts.nixpkgsRoot, "nixpkgs-root", "r", "", "root of the nixpkgs checkout (default from config or NIXPKGS_ROOT)")
	f.BoolVarP(&opts.stdout, "stdout", "s", false, "write the expression to stdout instead of PATH")
	f.BoolVarP(&opts.docLinks, "documentation-links", "d", false, "add comments linking to the relevant nixpkgs manual sections")
	f.BoolVar(&opts.noMeta, "no-meta", false, "omit the meta section")
	f.StringVarP(&opts.fromURL, "from-url", "u", "", "GitHub repository or PyPI project to read package values from")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "pick the template from a list")
	f.BoolVar(&opts.showInfo, "show-info", false, "print the collected expression values as YAML to stderr")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the registry response cache")
	f.BoolVar(&opts.refresh, "refresh", false, "bypass cached registry responses")

	cmd.MarkFlagsMutuallyExclusive("nixpkgs", "no-meta")
	cmd.MarkFlagsMutuallyExclusive("no-cache", "refresh")
	_ = cmd.RegisterFlagCompletionFunc("fetcher", completeFetchers)

	return cmd
}

// runGenerate executes the pipeline for one expression.
func (c *CLI) runGenerate(ctx context.Context, stdout io.Writer, o *generateOpts, args []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	template := string(expr.TemplateStdenv)
	switch {
	case len(args) > 0:
		template = args[0]
	case o.interactive:
		if !isTerminal(os.Stdin) || !isTerminal(os.Stderr) {
			return errors.New(errors.ErrCodeInvalidInput, "--interactive requires a terminal")
		}
		picked, ok, err := pickTemplate()
		if err != nil {
			return err
		}
		if !ok {
			printDetail("No template selected")
			return nil
		}
		template = string(picked)
	}
	var path string
	if len(args) > 1 {
		path = args[1]
	}

	opts := o.pipelineOptions(cfg, template, path)

	runner := c.offlineRunner()
	if opts.FromURL != "" {
		r, backend, err := c.newRunner(ctx, cfg, o.noCache, o.refresh)
		if err != nil {
			return err
		}
		defer backend.Close()
		runner = r
	}

	result, err := c.execute(ctx, runner, opts)
	if err != nil {
		return err
	}

	if o.showInfo {
		if err := dumpInfo(uiOut, result.Info); err != nil {
			return err
		}
	}

	if o.stdout {
		_, err := io.WriteString(stdout, result.Text)
		return err
	}

	if err := runner.Write(result); err != nil {
		return err
	}
	printSuccess("Generated %s expression", StyleHighlight.Render(string(result.Info.Template)))
	printFile(result.Info.PathToWrite)

	if missing := placeholders(result.Info); len(missing) > 0 {
		printWarning("Still to fill in: %s (search for %s)", strings.Join(missing, ", "), expr.Sentinel)
	}
	if result.Hint != nil {
		printNextStep("Register it in "+result.Hint.File, result.Hint.Line)
	}
	return nil
}

// execute runs the pipeline, showing a spinner while registries are queried.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	if opts.FromURL == "" {
		return runner.Execute(ctx, opts)
	}

	timer := startFetch(c.Logger, opts.FromURL)
	var spinner *fetchSpinner
	if isTerminal(os.Stderr) && c.Logger.GetLevel() > LogDebug {
		spinner = newFetchSpinner(ctx, opts.FromURL)
		spinner.Start()
	}

	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}
	timer.done(result.Info)
	return result, nil
}

// offlineRunner returns a runner that never touches the network.
func (c *CLI) offlineRunner() *pipeline.Runner {
	return pipeline.NewRunner(nil, c.Logger)
}

// placeholders lists the fields of a package expression still holding the
// sentinel.
func placeholders(info *expr.Info) []string {
	if !info.Template.IsPackage() {
		return nil
	}
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"pname", info.Pname},
		{"owner", info.Owner},
		{"description", info.Description},
		{"license", info.License},
	} {
		if f.value == expr.Sentinel {
			missing = append(missing, f.name)
		}
	}
	if info.SrcSha == expr.FakeSha256 {
		missing = append(missing, "hash")
	}
	return missing
}

// dumpInfo writes info as YAML.
func dumpInfo(w io.Writer, info *expr.Info) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(info); err != nil {
		return fmt.Errorf("encode info: %w", err)
	}
	return enc.Close()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// =============================================================================
// Completion
// =============================================================================

func completeTemplates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var out []string
	for _, t := range expr.AllTemplates() {
		out = append(out, string(t)+"\t"+t.Description())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeFetchers(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, f := range expr.AllFetchers() {
		out = append(out, string(f))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func templateNames() string {
	names := make([]string, 0, len(expr.AllTemplates()))
	for _, t := range expr.AllTemplates() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func fetcherNames() string {
	names := make([]string, 0, len(expr.AllFetchers()))
	for _, f := range expr.AllFetchers() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

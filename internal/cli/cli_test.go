package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nix-template/pkg/config"
	"github.com/matzehuels/nix-template/pkg/errors"
	"github.com/matzehuels/nix-template/pkg/expr"
	"github.com/matzehuels/nix-template/pkg/observability"
)

// testEnv isolates config and cache directories and captures status output.
func testEnv(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("NIXPKGS_ROOT", "")
	t.Setenv("GITHUB_TOKEN", "")

	var ui bytes.Buffer
	old := uiOut
	uiOut = &ui
	t.Cleanup(func() { uiOut = old })
	return &ui
}

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateStdout(t *testing.T) {
	testEnv(t)
	t.Chdir(t.TempDir())

	out, err := execute(t, "mkshell", "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "mkShell rec {")

	_, statErr := os.Stat("shell.nix")
	assert.True(t, os.IsNotExist(statErr), "--stdout must not write a file")
}

func TestGenerateWritesDefaultFile(t *testing.T) {
	ui := testEnv(t)
	t.Chdir(t.TempDir())

	out, err := execute(t, "stdenv", "--pname", "hello", "--package-version", "2.12.1", "--license", "gpl3Plus")
	require.NoError(t, err)
	assert.Empty(t, out, "status output belongs on stderr")

	data, err := os.ReadFile("default.nix")
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `pname = "hello";`)
	assert.Contains(t, text, `version = "2.12.1";`)
	assert.Contains(t, text, "licenses.gpl3Plus")

	assert.Contains(t, ui.String(), "default.nix")
	assert.Contains(t, ui.String(), "owner", "unfilled fields are reported")
}

func TestGenerateDefaultsToStdenv(t *testing.T) {
	testEnv(t)
	t.Chdir(t.TempDir())

	out, err := execute(t, "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "stdenv.mkDerivation")
}

func TestGenerateRefusesExistingFile(t *testing.T) {
	testEnv(t)
	t.Chdir(t.TempDir())

	_, err := execute(t, "mkshell")
	require.NoError(t, err)

	_, err = execute(t, "mkshell")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeOutputCollision), "got %v", err)
}

func TestGenerateNixpkgs(t *testing.T) {
	ui := testEnv(t)
	root := t.TempDir()

	_, err := execute(t, "python", "--nixpkgs", "--nixpkgs-root", root, "--pname", "requests")
	require.NoError(t, err)

	path := filepath.Join(root, "pkgs", "development", "python-modules", "requests", "default.nix")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "buildPythonPackage")
	assert.Contains(t, string(data), "fetchPypi")

	assert.Contains(t, ui.String(), "python-packages.nix")
	assert.Contains(t, ui.String(), "requests = callPackage ../development/python-modules/requests { };")
}

func TestGenerateUsesConfiguredDefaults(t *testing.T) {
	testEnv(t)
	root := t.TempDir()

	_, err := execute(t, "config", "name", "jonringer")
	require.NoError(t, err)
	_, err = execute(t, "config", "nixpkgs-root", root)
	require.NoError(t, err)

	_, err = execute(t, "stdenv", "--nixpkgs", "--pname", "hello")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "pkgs", "applications", "misc", "hello", "default.nix"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ jonringer ]")
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown template", []string{"cobol", "--stdout"}, errors.ErrCodeInvalidTemplate},
		{"unknown fetcher", []string{"stdenv", "--fetcher", "svn", "--stdout"}, errors.ErrCodeInvalidFetcher},
		{"flake without pname", []string{"flake", "--stdout"}, errors.ErrCodeInvalidInput},
		{"nixpkgs without pname", []string{"stdenv", "--nixpkgs", "--stdout"}, errors.ErrCodeInvalidInput},
		{"unsupported url", []string{"stdenv", "--from-url", "https://gitlab.com/a/b", "--stdout", "--no-cache"}, errors.ErrCodeUnsupportedURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)
			t.Chdir(t.TempDir())

			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "got %v", err)
		})
	}
}

func TestGenerateFlagConflicts(t *testing.T) {
	testEnv(t)
	t.Chdir(t.TempDir())

	_, err := execute(t, "stdenv", "--nixpkgs", "--no-meta", "--pname", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-meta")
}

func TestShowInfo(t *testing.T) {
	ui := testEnv(t)
	t.Chdir(t.TempDir())

	_, err := execute(t, "go", "--pname", "hugo", "--stdout", "--show-info")
	require.NoError(t, err)
	assert.Contains(t, ui.String(), "pname: hugo")
	assert.Contains(t, ui.String(), "template: go")
}

func TestConfigCommands(t *testing.T) {
	ui := testEnv(t)
	file := filepath.Join(t.TempDir(), "nt.toml")

	_, err := execute(t, "--config", file, "config", "set", "cache.ttl", "2h")
	require.NoError(t, err)
	_, err = execute(t, "--config", file, "config", "name", "alice")
	require.NoError(t, err)

	cfg, err := config.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Maintainer)
	assert.Equal(t, "2h", cfg.Cache.TTL)

	out, err := execute(t, "--config", file, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, file, strings.TrimSpace(out))

	ui.Reset()
	_, err = execute(t, "--config", file, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, ui.String(), "alice")
	assert.Contains(t, ui.String(), "2h0m0s")

	_, err = execute(t, "--config", file, "config", "set", "cache.ttl", "soon")
	assert.True(t, errors.Is(err, errors.ErrCodeConfig), "got %v", err)

	_, err = execute(t, "--config", file, "config", "set", "colour", "blue")
	assert.True(t, errors.Is(err, errors.ErrCodeConfig), "got %v", err)
}

func TestCacheCommands(t *testing.T) {
	ui := testEnv(t)

	out, err := execute(t, "cache", "path")
	require.NoError(t, err)
	dir := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName), dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ab"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ab", "entry.json"), []byte("{}"), 0o644))

	_, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, ui.String(), "Cleared 1 cached entries")
}

func TestCompletionCommand(t *testing.T) {
	testEnv(t)

	out, err := execute(t, "completion", "fish")
	require.NoError(t, err)
	assert.Contains(t, out, "nix-template")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestPipelineOptionsPreferFlags(t *testing.T) {
	cfg := &config.Config{Maintainer: "cfg-maint", NixpkgsRoot: "/cfg/nixpkgs"}

	opts := (&generateOpts{}).pipelineOptions(cfg, "stdenv", "")
	assert.Equal(t, "cfg-maint", opts.Maintainer)
	assert.Equal(t, "/cfg/nixpkgs", opts.NixpkgsRoot)

	opts = (&generateOpts{maintainer: "flag", nixpkgsRoot: "/flag"}).pipelineOptions(cfg, "python", "pkgs/x")
	assert.Equal(t, "flag", opts.Maintainer)
	assert.Equal(t, "/flag", opts.NixpkgsRoot)
	assert.Equal(t, "python", opts.Template)
	assert.Equal(t, "pkgs/x", opts.Path)
}

func TestPlaceholders(t *testing.T) {
	info := expr.New(expr.TemplateStdenv)
	assert.Equal(t, []string{"pname", "owner", "description", "license", "hash"}, placeholders(info))

	info.Pname = "hello"
	info.Owner = "gnu"
	info.Description = "Hello"
	info.License = "gpl3Plus"
	info.SrcSha = "1sxi3b1z9ks2dzwxjaa4v60zbah3c3r4v7x93q7ndq5xf5dv0rxk"
	assert.Empty(t, placeholders(info))

	assert.Nil(t, placeholders(expr.New(expr.TemplateMkShell)))
}

func TestDumpInfo(t *testing.T) {
	info := expr.New(expr.TemplatePython)
	info.Pname = "requests"

	var buf bytes.Buffer
	require.NoError(t, dumpInfo(&buf, info))
	assert.Contains(t, buf.String(), "pname: requests")
	assert.Contains(t, buf.String(), "fetcher: pypi")
	assert.Contains(t, buf.String(), "version: 0.0.1")
}

func TestTemplateListModel(t *testing.T) {
	m := NewTemplateListModel(expr.AllTemplates())

	key := func(s string) tea.KeyMsg {
		switch s {
		case "down":
			return tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			return tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			return tea.KeyMsg{Type: tea.KeyEnter}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	next, _ := m.Update(key("up"))
	m = next.(TemplateListModel)
	assert.Equal(t, 0, m.Cursor, "cursor stays at the top")

	next, _ = m.Update(key("down"))
	m = next.(TemplateListModel)
	next, _ = m.Update(key("j"))
	m = next.(TemplateListModel)
	assert.Equal(t, 2, m.Cursor)

	view := m.View()
	assert.Contains(t, view, "Select Template")
	assert.Contains(t, view, "buildGoModule")
	assert.Contains(t, view, "[3/9]")

	next, cmd := m.Update(key("enter"))
	m = next.(TemplateListModel)
	require.NotNil(t, m.Selected)
	assert.Equal(t, expr.TemplateGo, *m.Selected)
	assert.NotNil(t, cmd)

	next, _ = NewTemplateListModel(expr.AllTemplates()).Update(key("q"))
	assert.Nil(t, next.(TemplateListModel).Selected)
}

func TestSetLogLevelRegistersDebugHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetLogLevel(LogDebug)

	ctx := context.Background()
	observability.HTTP().OnResponse(ctx, "GET", "pypi.org", "/pypi/requests/json", 200, 15*time.Millisecond)
	observability.Cache().OnCacheHit(ctx, "github")
	observability.Pipeline().OnResolveComplete(ctx, "python", "default.nix", nil)

	out := logs.String()
	assert.Contains(t, out, "pypi.org/pypi/requests/json")
	assert.Contains(t, out, "cache hit")
	assert.Contains(t, out, "resolved path")
}

func TestReportError(t *testing.T) {
	ui := testEnv(t)

	ReportError(errors.New(errors.ErrCodeOutputCollision, "cannot write to file 'default.nix', already exists"))
	assert.Contains(t, ui.String(), "cannot write to file 'default.nix', already exists")
	assert.NotContains(t, ui.String(), "OUTPUT_COLLISION")
}

func TestGenerateIntoExistingDirectory(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir("mypkg", 0o755))

	_, err := execute(t, "stdenv", "mypkg", "--pname", "hello")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join("mypkg", "default.nix"))
	assert.NoError(t, err)

	_, err = execute(t, "mkshell", "newdir/")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join("newdir", "shell.nix"))
	assert.NoError(t, err)
}

package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nix-template/pkg/errors"
	"github.com/matzehuels/nix-template/pkg/expr"
	"github.com/matzehuels/nix-template/pkg/observability"
	"github.com/matzehuels/nix-template/pkg/paths"
	"github.com/matzehuels/nix-template/pkg/render"
)

// Enricher fills an expression from a registry URL.
// *enrich.Enricher is the production implementation.
type Enricher interface {
	Enrich(ctx context.Context, url string, info *expr.Info) error
}

// Runner executes the pipeline.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Enricher Enricher
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil enricher rejects options with a
// FromURL; a nil logger discards diagnostics.
func NewRunner(e Enricher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Enricher: e, Logger: logger}
}

// Execute validates opts, enriches, resolves paths and renders.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	info := opts.info()
	hooks := observability.Pipeline()

	// Stage 1: Enrich
	if opts.FromURL != "" {
		if r.Enricher == nil {
			return nil, errors.New(errors.ErrCodeUnsupported, "fetching metadata from %s is not available here", opts.FromURL)
		}
		if err := r.Enricher.Enrich(ctx, opts.FromURL, info); err != nil {
			return nil, err
		}
		r.Logger.Debug("enriched expression", "pname", info.Pname, "version", info.Version, "license", info.License)
	}

	// Stage 2: Resolve
	resolved, err := paths.Resolve(paths.Request{
		Template: info.Template,
		Path:     opts.Path,
		Pname:    info.Pname,
		Root:     opts.NixpkgsRoot,
		Nixpkgs:  opts.Nixpkgs,
	})
	hooks.OnResolveComplete(ctx, string(info.Template), resolved.WritePath, err)
	if err != nil {
		return nil, err
	}
	if resolved.Defaulted != "" {
		r.Logger.Infof("No [PATH] provided, defaulting to \"%s\"", resolved.Defaulted)
	}
	info.PathToWrite = resolved.WritePath
	info.TopLevelPath = resolved.IndexPath

	if !opts.Stdout {
		if _, err := os.Stat(info.PathToWrite); err == nil {
			return nil, collision(info.PathToWrite)
		}
	}

	// Stage 3: Render
	hooks.OnRenderStart(ctx, string(info.Template))
	start := time.Now()
	text, err := render.Render(info)
	hooks.OnRenderComplete(ctx, string(info.Template), len(text), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &Result{Info: info, Text: text, Hint: hintFor(info)}, nil
}

// Write creates result's file, refusing to replace an existing one.
// Parent directories are created as needed. On failure no file is left
// behind.
func (r *Runner) Write(result *Result) error {
	path := result.Info.PathToWrite
	if path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no path to write")
	}

	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			r.Logger.Infof("Creating directory: %s", dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeDirectoryCreation, err, "was unable to create directory %s", dir)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return collision(path)
		}
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "was unable to write to file %s", path)
	}

	if _, err := io.WriteString(f, result.Text); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "was unable to write to file %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return errors.Wrap(errors.ErrCodeWriteFailure, err, "was unable to write to file %s", path)
	}

	r.Logger.Debug("wrote expression", "path", path, "bytes", len(result.Text))
	return nil
}

func collision(path string) error {
	return errors.New(errors.ErrCodeOutputCollision, "cannot write to file '%s', already exists", path)
}

// Package appgen installs application modules into an existing project.
// It detects the layout, creates the module file set for it, and
// registers the module through anchored mutations of the settings, URL
// and manifest files.
package appgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/djinn-dev/djinn/internal/gen"
	"github.com/djinn-dev/djinn/internal/output"
	"github.com/djinn-dev/djinn/internal/plan"
	"github.com/djinn-dev/djinn/internal/project"
	"github.com/djinn-dev/djinn/internal/templates"
)

// Options control an install run.
type Options struct {
	DryRun bool
	Writer io.Writer
}

// Installer adds modules to detected projects.
type Installer struct {
	renderer *gen.Renderer
}

// New returns an Installer with a fresh template cache.
func New() *Installer {
	return &Installer{renderer: gen.NewRenderer()}
}

// Install adds the named modules to the project at root. Modules that
// already exist are reported and skipped; running the same install twice
// changes nothing.
func (in *Installer) Install(ctx context.Context, root string, modules []string, opts Options) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	prev := output.SetWriter(opts.Writer)
	defer output.SetWriter(prev)

	info, err := project.Inspect(root)
	if err != nil {
		return err
	}
	output.Verbose(fmt.Sprintf("Detected %s layout (config package %s)", info.Layout, info.ConfigPackage))

	manifest, err := project.LoadManifest(root)
	if err != nil {
		return err
	}

	mp, err := plan.ResolveModules(info, manifest, modules)
	if err != nil {
		return err
	}

	for _, m := range mp.Skipped {
		output.Info(fmt.Sprintf("Module %q already exists, skipping", m))
	}
	if len(mp.Added) == 0 {
		output.Success("Nothing to do")
		return nil
	}

	ops, err := in.buildOps(root, mp.Files)
	if err != nil {
		return err
	}

	if opts.DryRun {
		if err := gen.Execute(ctx, ops, gen.ExecuteOptions{DryRun: true, Writer: opts.Writer}); err != nil {
			return err
		}
		for _, op := range mp.Mutations {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s %s in %s\n", op.Kind, strings.TrimSpace(op.Payload), op.Path)
		}
		output.Info("Dry run complete, nothing was written")
		return nil
	}

	if err := gen.Execute(ctx, ops, gen.ExecuteOptions{Writer: opts.Writer}); err != nil {
		return err
	}

	report, err := gen.ApplyMutations(in.mutations(root, mp))
	if err != nil {
		return fmt.Errorf("registering modules: %w", err)
	}
	output.Verbose(fmt.Sprintf("Mutations: %d applied, %d skipped", report.Applied, report.Skipped))

	output.Success(fmt.Sprintf("Added %s", strings.Join(mp.Added, ", ")))
	return nil
}

// mutations collects the planned edits, including the manifest rewrite
// when a manifest file survives.
func (in *Installer) mutations(root string, mp *plan.ModulePlan) []gen.MutationOp {
	ops := mp.Mutations
	if mp.ManifestMutation != nil {
		if _, err := os.Stat(filepath.Join(root, project.ManifestName)); err == nil {
			ops = append(ops, *mp.ManifestMutation)
		}
	}
	return ops
}

func (in *Installer) buildOps(root string, files []plan.Entry) ([]gen.Operation, error) {
	var ops []gen.Operation
	for _, entry := range files {
		content, err := in.renderer.RenderFS(templates.FS, path.Join(templates.Root, entry.Template), entry.Context)
		if err != nil {
			return nil, err
		}
		ops = append(ops, &gen.WriteFileOp{
			Path:    filepath.Join(root, filepath.FromSlash(entry.Path)),
			Content: content,
			Mode:    entry.Mode,
		})
	}
	return ops, nil
}

// Package scaffold orchestrates project setup: it resolves the file plan
// for the chosen layout, renders every template, and executes the
// resulting operations with conflict handling and dry-run support.
package scaffold

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ddddddO/gtree"

	"github.com/djinn-dev/djinn/internal/gen"
	"github.com/djinn-dev/djinn/internal/output"
	"github.com/djinn-dev/djinn/internal/plan"
	"github.com/djinn-dev/djinn/internal/project"
	"github.com/djinn-dev/djinn/internal/secret"
	"github.com/djinn-dev/djinn/internal/templates"
	"github.com/djinn-dev/djinn/internal/validate"
)

// Options control a setup run.
type Options struct {
	DryRun bool
	Force  bool // overwrite existing files without asking
	Skip   bool // keep existing files without asking
	Writer io.Writer
}

// Scaffolder builds new projects.
type Scaffolder struct {
	renderer *gen.Renderer
}

// New returns a Scaffolder with a fresh template cache.
func New() *Scaffolder {
	return &Scaffolder{renderer: gen.NewRenderer()}
}

// Setup creates a complete project at cfg.Root.
func (s *Scaffolder) Setup(ctx context.Context, cfg *project.Config, opts Options) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	prev := output.SetWriter(opts.Writer)
	defer output.SetWriter(prev)

	if err := checkDestination(cfg.Root, opts.Force); err != nil {
		return err
	}

	key, err := secret.GenerateKey(secret.DefaultLength)
	if err != nil {
		return fmt.Errorf("generating secret key: %w", err)
	}

	p, err := plan.Resolve(cfg, key)
	if err != nil {
		return err
	}

	resolver, err := gen.NewConflictResolver(opts.Force, opts.Skip)
	if err != nil {
		return err
	}

	ops, cancelled, err := s.buildOps(cfg.Root, p, resolver, opts.DryRun)
	if err != nil {
		return err
	}
	if cancelled {
		output.Info("Setup cancelled")
		return nil
	}

	output.Step(fmt.Sprintf("Creating %s project %q (%d files)", cfg.Layout, cfg.Name, len(p.Files)))
	if err := gen.Execute(ctx, ops, gen.ExecuteOptions{
		DryRun: opts.DryRun,
		Force:  true, // conflicts were already resolved per file
		Writer: opts.Writer,
	}); err != nil {
		return err
	}

	fmt.Fprintln(opts.Writer)
	if err := printTree(opts.Writer, cfg.Name, p); err != nil {
		return err
	}

	if opts.DryRun {
		output.Info("Dry run complete, nothing was written")
		return nil
	}
	output.Success(fmt.Sprintf("Project %q is ready", cfg.Name))
	return nil
}

// checkDestination refuses to scaffold into a directory that already
// holds a generated project, so a mistyped path cannot shred real work.
func checkDestination(root string, force bool) error {
	if _, err := os.Stat(filepath.Join(root, project.ManifestName)); err == nil && !force {
		return validate.NewError("destination", root,
			fmt.Sprintf("already contains a generated project (found %s); use --force to regenerate", project.ManifestName))
	}
	if _, err := os.Stat(filepath.Join(root, "manage.py")); err == nil && !force {
		return validate.NewError("destination", root,
			"already contains a Django project (found manage.py); use --force to regenerate")
	}
	return nil
}

// buildOps renders every planned file and resolves conflicts with files
// already on disk. cancelled is true when the user aborted from the
// conflict menu.
func (s *Scaffolder) buildOps(root string, p *plan.Plan, resolver *gen.ConflictResolver, dryRun bool) (ops []gen.Operation, cancelled bool, err error) {
	for _, entry := range p.Files {
		content, err := s.renderer.RenderFS(templates.FS, path.Join(templates.Root, entry.Template), entry.Context)
		if err != nil {
			return nil, false, err
		}

		target := filepath.Join(root, filepath.FromSlash(entry.Path))
		existing, statErr := os.ReadFile(target)

		if statErr != nil || dryRun {
			ops = append(ops, &gen.WriteFileOp{Path: target, Content: content, Mode: entry.Mode})
			continue
		}

		// Append-only files are never regenerated over user edits.
		if entry.Owns == plan.AppendOnly {
			output.Verbose(fmt.Sprintf("Keeping existing %s", entry.Path))
			continue
		}

		resolution, err := resolver.Resolve(target, existing, content)
		if err != nil {
			return nil, false, err
		}
		switch resolution {
		case gen.Skip:
			output.Verbose(fmt.Sprintf("Skipping %s", entry.Path))
		case gen.Overwrite:
			ops = append(ops, &gen.WriteFileOp{Path: target, Content: content, Mode: entry.Mode})
		case gen.Cancel:
			return nil, true, nil
		}
	}
	return ops, false, nil
}

// printTree renders the planned file hierarchy the way `tree` would.
func printTree(w io.Writer, rootName string, p *plan.Plan) error {
	paths := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		paths = append(paths, f.Path)
	}
	sort.Strings(paths)

	root := gtree.NewRoot(rootName + "/")
	nodes := map[string]*gtree.Node{"": root}

	for _, rel := range paths {
		parts := strings.Split(rel, "/")
		for i := range parts {
			prefix := strings.Join(parts[:i+1], "/")
			if _, ok := nodes[prefix]; ok {
				continue
			}
			parent := nodes[strings.Join(parts[:i], "/")]
			name := parts[i]
			if i < len(parts)-1 {
				name += "/"
			}
			nodes[prefix] = parent.Add(name)
		}
	}

	return gtree.OutputProgrammably(w, root)
}

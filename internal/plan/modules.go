package plan

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/djinn-dev/djinn/internal/gen"
	"github.com/djinn-dev/djinn/internal/project"
)

// ModulePlan is the incremental work `app` performs on an existing
// project: new files for each module plus the anchored mutations that
// register them.
type ModulePlan struct {
	Files     []Entry
	Mutations []gen.MutationOp

	// ManifestMutation rewrites the module list in .djinn.yml. It is kept
	// separate because the manifest may have been deleted; callers apply
	// it only when the file exists.
	ManifestMutation *gen.MutationOp

	Added   []string // modules that will be created
	Skipped []string // modules already present, left untouched
}

// ResolveModules plans the installation of modules into the project
// described by info. Modules already present are skipped, not errors:
// running the same install twice is a no-op.
func ResolveModules(info *project.Info, manifest *project.Manifest, modules []string) (*ModulePlan, error) {
	existing := make(map[string]struct{}, len(info.Modules))
	for _, m := range info.Modules {
		existing[m] = struct{}{}
	}

	mp := &ModulePlan{}
	for _, m := range modules {
		if _, ok := existing[m]; ok {
			mp.Skipped = append(mp.Skipped, m)
			continue
		}
		mp.Added = append(mp.Added, m)
	}
	if err := info.Layout.ValidateModuleNames(mp.Added); err != nil {
		return nil, err
	}
	if len(mp.Added) == 0 {
		return mp, nil
	}

	cfg := configFromInfo(info, manifest)
	r := &resolver{cfg: cfg, base: baseContext(cfg, "")}

	for _, m := range mp.Added {
		if cfg.Layout == project.LayoutSingleFolder {
			r.apiModuleFiles(path.Join(cfg.ConfigPackage(), "api", m), m)
		} else {
			r.appFiles(path.Join("apps", m), m)
		}

		mp.Mutations = append(mp.Mutations, gen.MutationOp{
			Path:    info.SettingsBase,
			Kind:    gen.InsertIntoListLiteral,
			Anchor:  SettingsAppsAnchor,
			Payload: fmt.Sprintf("%q,", SettingsEntry(cfg, m)),
		})
		mp.Mutations = append(mp.Mutations, urlMutation(info, cfg, m))
	}
	mp.Files = r.plan.Files

	mp.ManifestMutation = manifestMutation(info, mp.Added)
	return mp, nil
}

// configFromInfo rebuilds a Config from a detected project, filling the
// choices detection cannot see (database, CI) from the manifest when one
// survives.
func configFromInfo(info *project.Info, manifest *project.Manifest) *project.Config {
	cfg := &project.Config{
		Name:           info.Name,
		Root:           info.Root,
		Layout:         info.Layout,
		Folder:         info.Folder,
		UseDatabaseURL: true,
	}
	if manifest != nil {
		if db, err := project.ParseDatabase(manifest.Database.Engine); err == nil {
			cfg.Database = db
		}
		cfg.UseDatabaseURL = manifest.Database.URL
		switch {
		case manifest.CI.GitHub && manifest.CI.GitLab:
			cfg.CI = project.CIBoth
		case manifest.CI.GitHub:
			cfg.CI = project.CIGitHub
		case manifest.CI.GitLab:
			cfg.CI = project.CIGitLab
		}
	}
	return cfg
}

// urlMutation registers a module's urls with whichever URL file the
// layout routes apps through.
func urlMutation(info *project.Info, cfg *project.Config, module string) gen.MutationOp {
	switch cfg.Layout {
	case project.LayoutPredefined:
		return gen.MutationOp{
			Path:    filepath.Join(info.Root, "api", "v1", "urls.py"),
			Kind:    gen.InsertIntoListLiteral,
			Anchor:  "urlpatterns = [",
			Payload: fmt.Sprintf("path(\"\", include(%q)),", URLEntry(cfg, module)+".urls"),
		}
	case project.LayoutUnified:
		return gen.MutationOp{
			Path:    filepath.Join(info.Root, "apps", "api", "v1", "urls.py"),
			Kind:    gen.InsertIntoListLiteral,
			Anchor:  "urlpatterns = [",
			Payload: fmt.Sprintf("path(\"\", include(%q)),", URLEntry(cfg, module)+".urls"),
		}
	default:
		return gen.MutationOp{
			Path:    info.URLsFile,
			Kind:    gen.InsertAfterAnchor,
			Anchor:  URLsAnchor,
			Payload: fmt.Sprintf("    path(\"\", include(%q)),", URLEntry(cfg, module)+".urls"),
		}
	}
}

// manifestMutation regenerates the module block between the manifest
// anchors with the full post-install module list.
func manifestMutation(info *project.Info, added []string) *gen.MutationOp {
	all := append(append([]string{}, info.Modules...), added...)

	payload := "modules:"
	for _, m := range all {
		payload += "\n  - " + m
	}

	return &gen.MutationOp{
		Path:      filepath.Join(info.Root, project.ManifestName),
		Kind:      gen.ReplaceBlock,
		Anchor:    ManifestAnchor,
		EndAnchor: ManifestEndAnchor,
		Payload:   payload,
	}
}

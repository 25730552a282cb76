// Package plan resolves a project configuration into the concrete set of
// files each layout variant produces. Resolution is pure: no file I/O
// happens here, so plans can be inspected, diffed and dry-run before
// anything touches disk.
package plan

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/djinn-dev/djinn/internal/gen"
	"github.com/djinn-dev/djinn/internal/project"
)

// Homepage is printed into generated READMEs.
const Homepage = "https://github.com/djinn-dev/djinn"

// PythonVersion goes into runtime.txt.
const PythonVersion = "3.13"

// Ownership states who may rewrite a generated file after setup.
type Ownership int

const (
	// Owned files are regenerated wholesale; overwriting an existing one
	// requires explicit consent (--force or the conflict prompt).
	Owned Ownership = iota

	// AppendOnly files are extended in place through anchored mutations
	// and must never be regenerated once the user may have edited them.
	AppendOnly
)

func (o Ownership) String() string {
	if o == AppendOnly {
		return "append-only"
	}
	return "owned"
}

// Entry is one file the plan will materialize.
type Entry struct {
	Path     string // slash-separated, relative to the project root
	Template string // template path under templates.Root
	Owns     Ownership
	Mode     fs.FileMode
	Context  map[string]any
}

// Plan is the full set of files for one invocation, in creation order.
type Plan struct {
	Files []Entry
}

// Anchors that the generated files carry for later mutations.
const (
	SettingsAppsAnchor = "USER_DEFINED_APPS = ["
	URLsAnchor         = "# App URLs"
	ManifestAnchor     = "# djinn:modules"
	ManifestEndAnchor  = "# djinn:end-modules"
)

// SettingsEntry is the string added to the enabled-apps list for a
// module. Layouts whose app packages carry an apps.py get the full
// AppConfig path; single-folder API modules are plain packages.
func SettingsEntry(cfg *project.Config, module string) string {
	modPath := cfg.ModulePath(module)
	if cfg.Layout == project.LayoutSingleFolder {
		return modPath
	}
	return modPath + ".apps." + gen.PascalCase(module) + "Config"
}

// URLEntry is the import path whose urls module gets included from the
// project URL configuration for a module.
func URLEntry(cfg *project.Config, module string) string {
	return cfg.ModulePath(module)
}

type resolver struct {
	cfg  *project.Config
	base map[string]any
	plan Plan
}

// Resolve computes the complete file plan for `setup`. secretKey is the
// freshly generated development secret; it lands only in development
// settings and .env.sample.
func Resolve(cfg *project.Config, secretKey string) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &resolver{cfg: cfg, base: baseContext(cfg, secretKey)}

	r.sharedFiles()
	r.configPackage()

	switch cfg.Layout {
	case project.LayoutStandard:
		r.standardLayout()
	case project.LayoutPredefined:
		r.predefinedLayout()
	case project.LayoutUnified:
		r.unifiedLayout()
	case project.LayoutSingleFolder:
		r.singleFolderLayout()
	}

	// A path planned twice means two entries would race for one file.
	seen := make(map[string]struct{}, len(r.plan.Files))
	for _, f := range r.plan.Files {
		if _, dup := seen[f.Path]; dup {
			return nil, fmt.Errorf("plan resolves %s twice", f.Path)
		}
		seen[f.Path] = struct{}{}
	}

	return &r.plan, nil
}

func baseContext(cfg *project.Config, secretKey string) map[string]any {
	folder := ""
	if cfg.Layout == project.LayoutSingleFolder {
		folder = cfg.ConfigPackage()
	}
	return map[string]any{
		"ProjectName":    cfg.Name,
		"ConfigPackage":  cfg.ConfigPackage(),
		"Layout":         cfg.Layout.String(),
		"Folder":         folder,
		"Database":       cfg.Database.String(),
		"DatabaseEngine": cfg.Database.Engine(),
		"DatabasePort":   databasePort(cfg.Database),
		"UseDatabaseURL": cfg.UseDatabaseURL,
		"CIGitHub":       cfg.CI.GitHub(),
		"CIGitLab":       cfg.CI.GitLab(),
		"Modules":        cfg.Modules,
		"SecretKey":      secretKey,
		"PythonVersion":  PythonVersion,
		"Homepage":       Homepage,
	}
}

func databasePort(db project.Database) string {
	if db == project.MySQL {
		return "3306"
	}
	return "5432"
}

// with returns a copy of the base context with overrides applied.
// Templates render with missingkey=error, so every key a template reads
// must be present.
func (r *resolver) with(overrides map[string]any) map[string]any {
	ctx := make(map[string]any, len(r.base)+len(overrides))
	for k, v := range r.base {
		ctx[k] = v
	}
	for k, v := range overrides {
		ctx[k] = v
	}
	return ctx
}

func (r *resolver) add(relPath, template string, owns Ownership, ctx map[string]any) {
	if ctx == nil {
		ctx = r.base
	}
	r.plan.Files = append(r.plan.Files, Entry{
		Path:     relPath,
		Template: template,
		Owns:     owns,
		Mode:     0o644,
		Context:  ctx,
	})
}

// initFile adds a bare __init__.py marking relDir as a Python package.
func (r *resolver) initFile(relDir string) {
	r.add(path.Join(relDir, "__init__.py"), "project/init.py.tmpl", Owned, nil)
}

func (r *resolver) sharedFiles() {
	r.add(".gitignore", "shared/gitignore.tmpl", Owned, nil)
	r.add("requirements.txt", "shared/requirements.txt.tmpl", Owned, nil)
	r.add("README.md", "shared/readme.md.tmpl", Owned, nil)
	r.add(".env.sample", "shared/env.sample.tmpl", Owned, nil)
	r.add("pyproject.toml", "shared/pyproject.toml.tmpl", Owned, nil)
	r.add("justfile", "shared/justfile.tmpl", Owned, nil)
	r.add("Procfile", "shared/procfile.tmpl", Owned, nil)
	r.add("runtime.txt", "shared/runtime.txt.tmpl", Owned, nil)
	r.add(project.ManifestName, "shared/manifest.yml.tmpl", AppendOnly, nil)

	r.plan.Files = append(r.plan.Files, Entry{
		Path:     "manage.py",
		Template: "project/manage.py.tmpl",
		Owns:     Owned,
		Mode:     0o755,
		Context:  r.base,
	})

	if r.cfg.CI.GitHub() {
		r.add(".github/workflows/ci.yml", "ci/github.yml.tmpl", Owned, nil)
	}
	if r.cfg.CI.GitLab() {
		r.add(".gitlab-ci.yml", "ci/gitlab.yml.tmpl", Owned, nil)
	}
}

// configPackage emits the settings package and the WSGI/ASGI/URL
// lifecycle files, identical in shape across all four layouts.
func (r *resolver) configPackage() {
	pkg := r.cfg.ConfigPackage()

	r.initFile(pkg)
	r.add(path.Join(pkg, "settings", "__init__.py"), "project/settings_init.py.tmpl", Owned, nil)
	r.add(path.Join(pkg, "settings", "base.py"), "project/settings_base.py.tmpl", AppendOnly,
		r.with(map[string]any{"AppPaths": r.settingsAppPaths()}))
	r.add(path.Join(pkg, "settings", "development.py"), "project/settings_development.py.tmpl", Owned, nil)
	r.add(path.Join(pkg, "settings", "production.py"), "project/settings_production.py.tmpl", Owned, nil)
	r.add(path.Join(pkg, "urls.py"), "project/urls.py.tmpl", AppendOnly,
		r.with(map[string]any{"APIModule": r.apiModule(), "AppPaths": r.urlAppPaths()}))
	r.add(path.Join(pkg, "wsgi.py"), "project/wsgi.py.tmpl", Owned, nil)
	r.add(path.Join(pkg, "asgi.py"), "project/asgi.py.tmpl", Owned, nil)
}

// settingsAppPaths is the initial enabled-apps list per layout.
func (r *resolver) settingsAppPaths() []string {
	var paths []string
	switch r.cfg.Layout {
	case project.LayoutPredefined:
		paths = append(paths, "apps.users.apps.UsersConfig")
	case project.LayoutUnified:
		paths = append(paths, "apps.apps.AppsConfig")
	}
	for _, m := range r.cfg.Modules {
		paths = append(paths, SettingsEntry(r.cfg, m))
	}
	return paths
}

// apiModule is the package whose urls get mounted under /api/, when the
// layout has a root API package.
func (r *resolver) apiModule() string {
	switch r.cfg.Layout {
	case project.LayoutPredefined:
		return "api"
	case project.LayoutUnified:
		return "apps.api"
	default:
		return ""
	}
}

// urlAppPaths lists modules included directly from the project urls.py.
// Layouts with a root API package route everything through it instead.
func (r *resolver) urlAppPaths() []string {
	switch r.cfg.Layout {
	case project.LayoutPredefined, project.LayoutUnified:
		return nil
	}
	var paths []string
	for _, m := range r.cfg.Modules {
		paths = append(paths, URLEntry(r.cfg, m))
	}
	return paths
}

// appFiles emits the full per-app file set at relDir for module name.
func (r *resolver) appFiles(relDir, name string) {
	ctx := r.with(map[string]any{
		"AppName":        name,
		"AppModule":      r.cfg.ModulePath(name),
		"AppConfigClass": gen.PascalCase(name) + "Config",
	})

	r.initFile(relDir)
	r.add(path.Join(relDir, "apps.py"), "app/apps.py.tmpl", Owned, ctx)
	r.add(path.Join(relDir, "models.py"), "app/models.py.tmpl", Owned, ctx)
	r.add(path.Join(relDir, "views.py"), "app/views.py.tmpl", Owned, ctx)
	r.add(path.Join(relDir, "admin.py"), "app/admin.py.tmpl", Owned, ctx)
	r.add(path.Join(relDir, "urls.py"), "app/urls.py.tmpl", Owned, ctx)
	r.add(path.Join(relDir, "serializers.py"), "app/serializers.py.tmpl", Owned, ctx)
	r.add(path.Join(relDir, "routes.py"), "app/routes.py.tmpl", Owned, ctx)
	r.add(path.Join(relDir, "tests.py"), "app/tests.py.tmpl", Owned, ctx)
	r.initFile(path.Join(relDir, "migrations"))
}

func (r *resolver) standardLayout() {
	r.initFile("apps")
	for _, m := range r.cfg.Modules {
		r.appFiles(path.Join("apps", m), m)
	}
}

func (r *resolver) predefinedLayout() {
	r.initFile("apps")

	// Preset users app, split into one-file-per-concern subpackages.
	users := "apps/users"
	usersCtx := r.with(map[string]any{
		"AppName":        "users",
		"AppModule":      "apps.users",
		"AppConfigClass": "UsersConfig",
	})
	r.initFile(users)
	r.add(path.Join(users, "apps.py"), "app/apps.py.tmpl", Owned, usersCtx)
	for _, p := range []struct{ sub, file, template string }{
		{"models", "user.py", "predefined/users_models.py.tmpl"},
		{"serializers", "user_serializer.py", "predefined/users_serializers.py.tmpl"},
		{"services", "user_service.py", "predefined/users_services.py.tmpl"},
		{"views", "user_view.py", "predefined/users_views.py.tmpl"},
		{"tests", "test_user_api.py", "predefined/users_tests.py.tmpl"},
	} {
		r.initFile(path.Join(users, p.sub))
		r.add(path.Join(users, p.sub, p.file), p.template, Owned, nil)
	}
	r.add(path.Join(users, "urls.py"), "predefined/users_urls.py.tmpl", Owned, nil)

	// Preset core app with shared utilities.
	core := "apps/core"
	r.initFile(core)
	r.initFile(path.Join(core, "utils"))
	r.add(path.Join(core, "utils", "responses.py"), "predefined/core_responses.py.tmpl", Owned, nil)
	r.initFile(path.Join(core, "mixins"))
	r.add(path.Join(core, "mixins", "timestamped_model.py"), "predefined/core_timestamped.py.tmpl", Owned, nil)
	r.initFile(path.Join(core, "middleware"))
	r.add(path.Join(core, "middleware", "request_logger.py"), "predefined/core_request_logger.py.tmpl", Owned, nil)
	r.add(path.Join(core, "exceptions.py"), "predefined/core_exceptions.py.tmpl", Owned, nil)

	// Versioned root API package.
	r.initFile("api")
	r.add("api/urls.py", "predefined/api_urls.py.tmpl", Owned,
		r.with(map[string]any{"APIPackage": "api"}))
	r.initFile("api/v1")
	r.add("api/v1/urls.py", "predefined/api_v1_urls.py.tmpl", Owned,
		r.with(map[string]any{"AppPaths": []string{"apps.users"}}))

	for _, m := range r.cfg.Modules {
		r.appFiles(path.Join("apps", m), m)
	}
}

func (r *resolver) unifiedLayout() {
	r.initFile("apps")
	r.add("apps/apps.py", "app/apps.py.tmpl", Owned, r.with(map[string]any{
		"AppName":        "apps",
		"AppModule":      "apps",
		"AppConfigClass": "AppsConfig",
	}))

	for _, component := range []string{"admin", "serializers", "tests", "urls", "views"} {
		r.initFile(path.Join("apps", component))
	}

	r.initFile("apps/models")
	r.add("apps/models/base.py", "unified/models_base.py.tmpl", Owned, nil)
	r.add("apps/models/mixins.py", "unified/models_mixins.py.tmpl", Owned, nil)

	r.initFile("apps/utils")
	r.add("apps/utils/responses.py", "unified/utils_responses.py.tmpl", Owned, nil)

	r.initFile("apps/api")
	r.add("apps/api/urls.py", "predefined/api_urls.py.tmpl", Owned,
		r.with(map[string]any{"APIPackage": "apps.api"}))
	r.initFile("apps/api/v1")
	r.add("apps/api/v1/urls.py", "predefined/api_v1_urls.py.tmpl", Owned,
		r.with(map[string]any{"AppPaths": []string{}}))

	for _, m := range r.cfg.Modules {
		r.appFiles(path.Join("apps", m), m)
	}
}

func (r *resolver) singleFolderLayout() {
	pkg := r.cfg.ConfigPackage()
	folderCtx := r.with(map[string]any{"Folder": pkg})

	r.initFile(path.Join(pkg, "admin"))
	r.initFile(path.Join(pkg, "tests"))

	r.initFile(path.Join(pkg, "api"))
	r.add(path.Join(pkg, "api", "README.md"), "single/api_readme.md.tmpl", Owned, folderCtx)

	r.initFile(path.Join(pkg, "models"))
	r.add(path.Join(pkg, "models", "README.md"), "single/models_readme.md.tmpl", Owned, folderCtx)

	for _, m := range r.cfg.Modules {
		r.apiModuleFiles(path.Join(pkg, "api", m), m)
	}
}

// apiModuleFiles emits a single-folder API module: a plain package with
// views, serializers and urls.
func (r *resolver) apiModuleFiles(relDir, name string) {
	ctx := r.with(map[string]any{"AppName": name})
	r.initFile(relDir)
	r.add(path.Join(relDir, "views.py"), "single/api_views.py.tmpl", Owned, ctx)
	r.add(path.Join(relDir, "serializers.py"), "single/api_serializers.py.tmpl", Owned, ctx)
	r.add(path.Join(relDir, "urls.py"), "single/api_urls.py.tmpl", Owned, ctx)
}

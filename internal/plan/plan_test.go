package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djinn-dev/djinn/internal/project"
	"github.com/djinn-dev/djinn/internal/validate"
)

func resolve(t *testing.T, cfg *project.Config) map[string]Entry {
	t.Helper()
	p, err := Resolve(cfg, "test-secret-key")
	require.NoError(t, err)

	byPath := make(map[string]Entry, len(p.Files))
	for _, f := range p.Files {
		_, dup := byPath[f.Path]
		require.False(t, dup, "duplicate planned path %s", f.Path)
		byPath[f.Path] = f
	}
	return byPath
}

func standardConfig() *project.Config {
	return &project.Config{
		Name:    "myshop",
		Root:    "/tmp/myshop",
		Layout:  project.LayoutStandard,
		Modules: []string{"store"},
	}
}

func TestResolveSharedFiles(t *testing.T) {
	files := resolve(t, standardConfig())

	for _, want := range []string{
		".gitignore", "requirements.txt", "README.md", ".env.sample",
		"pyproject.toml", "justfile", "Procfile", "runtime.txt",
		"manage.py", ".djinn.yml",
	} {
		assert.Contains(t, files, want)
	}

	assert.Equal(t, Owned, files["README.md"].Owns)
	assert.Equal(t, AppendOnly, files[".djinn.yml"].Owns)
	assert.EqualValues(t, 0o755, files["manage.py"].Mode)
}

func TestResolveStandardLayout(t *testing.T) {
	files := resolve(t, standardConfig())

	for _, want := range []string{
		"myshop/__init__.py",
		"myshop/settings/__init__.py",
		"myshop/settings/base.py",
		"myshop/settings/development.py",
		"myshop/settings/production.py",
		"myshop/urls.py",
		"myshop/wsgi.py",
		"myshop/asgi.py",
		"apps/__init__.py",
		"apps/store/__init__.py",
		"apps/store/apps.py",
		"apps/store/models.py",
		"apps/store/views.py",
		"apps/store/admin.py",
		"apps/store/urls.py",
		"apps/store/serializers.py",
		"apps/store/routes.py",
		"apps/store/tests.py",
		"apps/store/migrations/__init__.py",
	} {
		assert.Contains(t, files, want)
	}

	assert.Equal(t, AppendOnly, files["myshop/settings/base.py"].Owns)
	assert.Equal(t, AppendOnly, files["myshop/urls.py"].Owns)
	assert.Equal(t, Owned, files["myshop/settings/development.py"].Owns)

	base := files["myshop/settings/base.py"]
	assert.Equal(t, []string{"apps.store.apps.StoreConfig"}, base.Context["AppPaths"])

	urls := files["myshop/urls.py"]
	assert.Equal(t, "", urls.Context["APIModule"])
	assert.Equal(t, []string{"apps.store"}, urls.Context["AppPaths"])
}

func TestResolvePredefinedLayout(t *testing.T) {
	cfg := standardConfig()
	cfg.Layout = project.LayoutPredefined
	files := resolve(t, cfg)

	for _, want := range []string{
		"apps/users/__init__.py",
		"apps/users/apps.py",
		"apps/users/models/user.py",
		"apps/users/serializers/user_serializer.py",
		"apps/users/services/user_service.py",
		"apps/users/views/user_view.py",
		"apps/users/tests/test_user_api.py",
		"apps/users/urls.py",
		"apps/core/utils/responses.py",
		"apps/core/mixins/timestamped_model.py",
		"apps/core/middleware/request_logger.py",
		"apps/core/exceptions.py",
		"api/__init__.py",
		"api/urls.py",
		"api/v1/__init__.py",
		"api/v1/urls.py",
		"apps/store/apps.py",
	} {
		assert.Contains(t, files, want)
	}

	base := files["myshop/settings/base.py"]
	assert.Equal(t,
		[]string{"apps.users.apps.UsersConfig", "apps.store.apps.StoreConfig"},
		base.Context["AppPaths"])

	urls := files["myshop/urls.py"]
	assert.Equal(t, "api", urls.Context["APIModule"])
	assert.Empty(t, urls.Context["AppPaths"], "apps route through api/v1, not the project urls")
}

func TestResolveUnifiedLayout(t *testing.T) {
	cfg := standardConfig()
	cfg.Layout = project.LayoutUnified
	cfg.Modules = nil
	files := resolve(t, cfg)

	for _, want := range []string{
		"core/__init__.py",
		"core/settings/base.py",
		"core/urls.py",
		"apps/__init__.py",
		"apps/apps.py",
		"apps/admin/__init__.py",
		"apps/models/__init__.py",
		"apps/models/base.py",
		"apps/models/mixins.py",
		"apps/serializers/__init__.py",
		"apps/tests/__init__.py",
		"apps/urls/__init__.py",
		"apps/views/__init__.py",
		"apps/utils/responses.py",
		"apps/api/urls.py",
		"apps/api/v1/urls.py",
	} {
		assert.Contains(t, files, want)
	}
	assert.NotContains(t, files, "myshop/__init__.py", "unified config package is literally core/")

	base := files["core/settings/base.py"]
	assert.Equal(t, []string{"apps.apps.AppsConfig"}, base.Context["AppPaths"])

	urls := files["core/urls.py"]
	assert.Equal(t, "apps.api", urls.Context["APIModule"])
}

func TestResolveSingleFolderLayout(t *testing.T) {
	cfg := standardConfig()
	cfg.Layout = project.LayoutSingleFolder
	cfg.Folder = "backend"
	files := resolve(t, cfg)

	for _, want := range []string{
		"backend/__init__.py",
		"backend/settings/base.py",
		"backend/urls.py",
		"backend/admin/__init__.py",
		"backend/tests/__init__.py",
		"backend/api/__init__.py",
		"backend/api/README.md",
		"backend/models/__init__.py",
		"backend/models/README.md",
		"backend/api/store/__init__.py",
		"backend/api/store/views.py",
		"backend/api/store/serializers.py",
		"backend/api/store/urls.py",
	} {
		assert.Contains(t, files, want)
	}
	assert.NotContains(t, files, "apps/__init__.py")

	base := files["backend/settings/base.py"]
	assert.Equal(t, []string{"backend.api.store"}, base.Context["AppPaths"],
		"single-folder modules have no apps.py, so plain paths go into settings")
}

func TestResolveCIFiles(t *testing.T) {
	cfg := standardConfig()
	files := resolve(t, cfg)
	assert.NotContains(t, files, ".github/workflows/ci.yml")
	assert.NotContains(t, files, ".gitlab-ci.yml")

	cfg.CI = project.CIGitHub
	files = resolve(t, cfg)
	assert.Contains(t, files, ".github/workflows/ci.yml")
	assert.NotContains(t, files, ".gitlab-ci.yml")

	cfg.CI = project.CIBoth
	files = resolve(t, cfg)
	assert.Contains(t, files, ".github/workflows/ci.yml")
	assert.Contains(t, files, ".gitlab-ci.yml")
}

func TestResolveRejectsInvalidConfig(t *testing.T) {
	cfg := standardConfig()
	cfg.Modules = []string{"class"}
	_, err := Resolve(cfg, "key")
	assert.Error(t, err)
}

func TestResolveRejectsLayoutPackageCollisions(t *testing.T) {
	tests := []struct {
		name   string
		layout project.LayoutVariant
		module string
	}{
		{name: "predefined users preset", layout: project.LayoutPredefined, module: "users"},
		{name: "unified models component", layout: project.LayoutUnified, module: "models"},
		{name: "unified views component", layout: project.LayoutUnified, module: "views"},
		{name: "unified urls component", layout: project.LayoutUnified, module: "urls"},
		{name: "unified serializers component", layout: project.LayoutUnified, module: "serializers"},
		{name: "unified utils component", layout: project.LayoutUnified, module: "utils"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := standardConfig()
			cfg.Layout = tt.layout
			cfg.Modules = []string{tt.module}

			_, err := Resolve(cfg, "key")
			require.Error(t, err)

			var verr *validate.Error
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), "collides")
		})
	}
}

func TestSettingsEntry(t *testing.T) {
	std := standardConfig()
	assert.Equal(t, "apps.order_items.apps.OrderItemsConfig", SettingsEntry(std, "order_items"))

	single := standardConfig()
	single.Layout = project.LayoutSingleFolder
	single.Folder = "backend"
	assert.Equal(t, "backend.api.store", SettingsEntry(single, "store"))
}

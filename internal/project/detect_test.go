package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, rel...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func mkdir(t *testing.T, root string, rel ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(append([]string{root}, rel...)...), 0o755))
}

func standardTree(t *testing.T) string {
	root := t.TempDir()
	touch(t, root, "myshop", "settings", "base.py")
	touch(t, root, "apps", "__init__.py")
	return root
}

func predefinedTree(t *testing.T) string {
	root := standardTree(t)
	touch(t, root, "api", "__init__.py")
	return root
}

func unifiedTree(t *testing.T) string {
	root := t.TempDir()
	touch(t, root, "core", "settings", "base.py")
	touch(t, root, "apps", "__init__.py")
	return root
}

func singleTree(t *testing.T) string {
	root := t.TempDir()
	touch(t, root, "backend", "settings", "base.py")
	mkdir(t, root, "backend", "api")
	return root
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		build func(*testing.T) string
		want  LayoutVariant
	}{
		{name: "standard", build: standardTree, want: LayoutStandard},
		{name: "predefined", build: predefinedTree, want: LayoutPredefined},
		{name: "unified", build: unifiedTree, want: LayoutUnified},
		{name: "single folder", build: singleTree, want: LayoutSingleFolder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.build(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectEmptyDirectory(t *testing.T) {
	_, err := Detect(t.TempDir())
	require.Error(t, err)

	var derr *DetectError
	require.ErrorAs(t, err, &derr)
	assert.Empty(t, derr.Matches)
	assert.Contains(t, derr.Error(), "does not match any known project layout")
}

func TestDetectTwoConfigPackagesIsAmbiguous(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "alpha", "settings", "base.py")
	touch(t, root, "beta", "settings", "base.py")
	touch(t, root, "apps", "__init__.py")

	_, err := Detect(root)
	var derr *DetectError
	require.ErrorAs(t, err, &derr)
}

func TestDetectIgnoresHiddenDirectories(t *testing.T) {
	root := standardTree(t)
	touch(t, root, ".venv", "settings", "base.py")

	got, err := Detect(root)
	require.NoError(t, err)
	assert.Equal(t, LayoutStandard, got)
}

func TestInspectStandard(t *testing.T) {
	root := standardTree(t)
	mkdir(t, root, "apps", "store")
	mkdir(t, root, "apps", "billing")
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "pyproject.toml"),
		[]byte("[project]\nname = \"myshop\"\n"), 0o644))

	info, err := Inspect(root)
	require.NoError(t, err)

	assert.Equal(t, LayoutStandard, info.Layout)
	assert.Equal(t, "myshop", info.Name)
	assert.Equal(t, "myshop", info.ConfigPackage)
	assert.Equal(t, filepath.Join(root, "myshop", "settings", "base.py"), info.SettingsBase)
	assert.Equal(t, filepath.Join(root, "myshop", "urls.py"), info.URLsFile)
	assert.Equal(t, []string{"billing", "store"}, info.Modules)
}

func TestInspectPredefinedSkipsPresetApps(t *testing.T) {
	root := predefinedTree(t)
	mkdir(t, root, "apps", "users")
	mkdir(t, root, "apps", "core")
	mkdir(t, root, "apps", "store")

	info, err := Inspect(root)
	require.NoError(t, err)
	assert.Equal(t, LayoutPredefined, info.Layout)
	assert.Equal(t, []string{"store"}, info.Modules)
}

func TestInspectFallsBackToConfigPackageName(t *testing.T) {
	info, err := Inspect(standardTree(t))
	require.NoError(t, err)
	assert.Equal(t, "myshop", info.Name)
}

func TestInspectUnifiedFiltersComponents(t *testing.T) {
	root := unifiedTree(t)
	for _, component := range []string{"admin", "models", "serializers", "tests", "urls", "views", "api", "utils"} {
		mkdir(t, root, "apps", component)
	}
	mkdir(t, root, "apps", "store")

	info, err := Inspect(root)
	require.NoError(t, err)
	assert.Equal(t, LayoutUnified, info.Layout)
	assert.Equal(t, "core", info.ConfigPackage)
	assert.Equal(t, []string{"store"}, info.Modules)
}

func TestInspectSingleFolderModules(t *testing.T) {
	root := singleTree(t)
	mkdir(t, root, "backend", "api", "payments")

	info, err := Inspect(root)
	require.NoError(t, err)
	assert.Equal(t, LayoutSingleFolder, info.Layout)
	assert.Equal(t, "backend", info.Folder)
	assert.Equal(t, []string{"payments"}, info.Modules)
}

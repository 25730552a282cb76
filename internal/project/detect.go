package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DetectError reports that a directory matched zero or several layout
// fingerprints. Callers must abort instead of guessing: a mutation applied
// to the wrong file shape corrupts it silently.
type DetectError struct {
	Root    string
	Matches []LayoutVariant
}

func (e *DetectError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("%s does not match any known project layout", e.Root)
	}
	names := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		names[i] = m.String()
	}
	return fmt.Sprintf("%s is ambiguous: matches layouts %s", e.Root, strings.Join(names, ", "))
}

// markers captures the presence/shape facts each fingerprint is built
// from.
type markers struct {
	configPkg    string // first-level dir containing settings/base.py
	configPkgs   int    // how many such dirs exist
	configHasAPI bool   // config package contains its own api/ package
	rootApps     bool   // root apps/ package
	rootAPI      bool   // root api/ package
}

func collectMarkers(root string) (markers, error) {
	var m markers

	entries, err := os.ReadDir(root)
	if err != nil {
		return m, fmt.Errorf("reading %s: %w", root, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name())

		if fileExists(filepath.Join(dir, "settings", "base.py")) {
			m.configPkgs++
			m.configPkg = entry.Name()
			m.configHasAPI = dirExists(filepath.Join(dir, "api"))
		}
		switch entry.Name() {
		case "apps":
			m.rootApps = fileExists(filepath.Join(dir, "__init__.py"))
		case "api":
			m.rootAPI = fileExists(filepath.Join(dir, "__init__.py"))
		}
	}
	return m, nil
}

// Detect infers which layout variant an existing directory follows, using
// marker paths as fingerprints. It returns a *DetectError when zero or
// more than one variant matches.
func Detect(root string) (LayoutVariant, error) {
	m, err := collectMarkers(root)
	if err != nil {
		return 0, err
	}
	if m.configPkgs > 1 {
		return 0, &DetectError{Root: root}
	}

	var matches []LayoutVariant
	hasConfig := m.configPkgs == 1
	coreConfig := hasConfig && m.configPkg == "core"

	if coreConfig && m.rootApps {
		matches = append(matches, LayoutUnified)
	}
	if hasConfig && !coreConfig && m.rootApps && m.rootAPI {
		matches = append(matches, LayoutPredefined)
	}
	if hasConfig && !coreConfig && m.rootApps && !m.rootAPI && !m.configHasAPI {
		matches = append(matches, LayoutStandard)
	}
	if hasConfig && !coreConfig && m.configHasAPI && !m.rootApps {
		matches = append(matches, LayoutSingleFolder)
	}

	if len(matches) != 1 {
		return 0, &DetectError{Root: root, Matches: matches}
	}
	return matches[0], nil
}

// Info describes an existing project: where its append-only files live
// and which modules it already has.
type Info struct {
	Root          string
	Layout        LayoutVariant
	Name          string
	ConfigPackage string
	SettingsBase  string // absolute path to settings/base.py
	URLsFile      string // absolute path to the root URL configuration
	Folder        string // single layout folder name
	Modules       []string
}

// Inspect detects the layout of root and gathers everything `djinn app`
// needs to plan incremental work.
func Inspect(root string) (*Info, error) {
	layout, err := Detect(root)
	if err != nil {
		return nil, err
	}
	m, err := collectMarkers(root)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Root:          root,
		Layout:        layout,
		ConfigPackage: m.configPkg,
		SettingsBase:  filepath.Join(root, m.configPkg, "settings", "base.py"),
		URLsFile:      filepath.Join(root, m.configPkg, "urls.py"),
	}
	if layout == LayoutSingleFolder {
		info.Folder = m.configPkg
	}

	info.Name = projectNameFromPyproject(root)
	if info.Name == "" {
		info.Name = m.configPkg
	}

	info.Modules, err = existingModules(root, layout, m.configPkg)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// unifiedComponents are the fixed subpackages of the unified apps/
// package; anything else under apps/ is a user module.
var unifiedComponents = map[string]struct{}{
	"admin": {}, "models": {}, "serializers": {}, "tests": {},
	"urls": {}, "views": {}, "api": {}, "utils": {},
	"permissions": {}, "middleware": {}, "migrations": {},
}

// predefinedPresets are the apps the predefined layout ships with; they
// are part of the layout, not user modules.
var predefinedPresets = map[string]struct{}{
	"users": {}, "core": {},
}

func existingModules(root string, layout LayoutVariant, configPkg string) ([]string, error) {
	var dir string
	switch layout {
	case LayoutSingleFolder:
		dir = filepath.Join(root, configPkg, "api")
	default:
		dir = filepath.Join(root, "apps")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var modules []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if layout == LayoutUnified {
			if _, component := unifiedComponents[entry.Name()]; component {
				continue
			}
		}
		if layout == LayoutPredefined {
			if _, preset := predefinedPresets[entry.Name()]; preset {
				continue
			}
		}
		modules = append(modules, entry.Name())
	}
	sort.Strings(modules)
	return modules, nil
}

// projectNameFromPyproject recovers the project name from the generated
// pyproject.toml, analogous to reading the module path out of go.mod.
func projectNameFromPyproject(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		return ""
	}

	var py struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &py); err != nil {
		return ""
	}
	return py.Project.Name
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func dirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

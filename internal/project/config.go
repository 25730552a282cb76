// Package project holds the resolved project model: the configuration a
// run operates on, the on-disk manifest, and layout detection for
// existing trees.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/djinn-dev/djinn/internal/validate"
)

// LayoutVariant is the directory/file organization of a generated
// project. It is chosen once per project and never changes.
type LayoutVariant int

const (
	// LayoutStandard nests apps under an apps/ package, with the config
	// package named after the project.
	LayoutStandard LayoutVariant = iota

	// LayoutPredefined is Standard plus preset users/core apps and a
	// versioned root api/ package.
	LayoutPredefined

	// LayoutUnified uses a config package literally named core/ and a
	// single apps/ package that is itself the application.
	LayoutUnified

	// LayoutSingleFolder keeps everything in one configurable folder,
	// with per-module API subpackages inside it.
	LayoutSingleFolder
)

var layoutNames = map[LayoutVariant]string{
	LayoutStandard:     "standard",
	LayoutPredefined:   "predefined",
	LayoutUnified:      "unified",
	LayoutSingleFolder: "single",
}

func (l LayoutVariant) String() string {
	if name, ok := layoutNames[l]; ok {
		return name
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// ParseLayout converts a CLI flag value into a LayoutVariant.
func ParseLayout(s string) (LayoutVariant, error) {
	for layout, name := range layoutNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return layout, nil
		}
	}
	return 0, validate.NewError("layout", s, "must be one of standard, predefined, unified, single")
}

// layoutModuleReserved lists module names each layout's generated tree
// already claims, beyond the globally reserved names: the predefined
// preset apps and the unified component packages.
var layoutModuleReserved = map[LayoutVariant][]string{
	LayoutPredefined: {"users"},
	LayoutUnified:    {"models", "serializers", "urls", "utils", "views"},
}

// ValidateModuleNames checks a batch of module names against the general
// naming rules and against packages this layout generates itself. A name
// that shadows a preset would make the plan write the same path twice.
func (l LayoutVariant) ValidateModuleNames(names []string) error {
	if err := validate.AppNames(names, nil); err != nil {
		return err
	}
	for _, name := range names {
		for _, reserved := range layoutModuleReserved[l] {
			if name == reserved {
				return validate.NewError("app name", name,
					fmt.Sprintf("collides with a package the %s layout generates", l))
			}
		}
	}
	return nil
}

// Database is the configured database engine.
type Database int

const (
	Postgres Database = iota
	MySQL
)

func (d Database) String() string {
	if d == MySQL {
		return "mysql"
	}
	return "postgres"
}

// Engine returns the Django backend module for the database.
func (d Database) Engine() string {
	if d == MySQL {
		return "django.db.backends.mysql"
	}
	return "django.db.backends.postgresql"
}

// ParseDatabase converts a CLI flag value into a Database.
func ParseDatabase(s string) (Database, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	default:
		return 0, validate.NewError("database", s, "must be postgres or mysql")
	}
}

// CIProvider selects which CI configuration files are generated.
type CIProvider int

const (
	CINone CIProvider = iota
	CIGitHub
	CIGitLab
	CIBoth
)

func (c CIProvider) String() string {
	switch c {
	case CIGitHub:
		return "github"
	case CIGitLab:
		return "gitlab"
	case CIBoth:
		return "both"
	default:
		return "none"
	}
}

// GitHub reports whether a GitHub Actions workflow should be generated.
func (c CIProvider) GitHub() bool { return c == CIGitHub || c == CIBoth }

// GitLab reports whether a GitLab CI file should be generated.
func (c CIProvider) GitLab() bool { return c == CIGitLab || c == CIBoth }

// ParseCI converts a CLI flag value into a CIProvider.
func ParseCI(s string) (CIProvider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "github":
		return CIGitHub, nil
	case "gitlab":
		return CIGitLab, nil
	case "both":
		return CIBoth, nil
	case "none", "":
		return CINone, nil
	default:
		return 0, validate.NewError("ci", s, "must be github, gitlab, both, or none")
	}
}

// Config is the fully resolved project configuration. It is constructed
// once per invocation from user input and read-only afterward.
type Config struct {
	Name           string
	Root           string // absolute project root
	Layout         LayoutVariant
	Modules        []string // ordered, unique
	Database       Database
	UseDatabaseURL bool // single DATABASE_URL vs discrete connection params
	CI             CIProvider
	Folder         string // single layout only; defaults to Name
}

// Validate checks the whole configuration before any file I/O.
func (c *Config) Validate() error {
	if err := validate.ProjectName(c.Name); err != nil {
		return err
	}
	if c.Layout == LayoutSingleFolder && c.Folder != c.Name {
		if err := validate.ProjectName(c.Folder); err != nil {
			return err
		}
	}
	return c.Layout.ValidateModuleNames(c.Modules)
}

// ConfigPackage is the directory holding settings/, urls.py, wsgi.py and
// asgi.py for this layout.
func (c *Config) ConfigPackage() string {
	switch c.Layout {
	case LayoutUnified:
		return "core"
	case LayoutSingleFolder:
		if c.Folder != "" {
			return c.Folder
		}
		return c.Name
	default:
		return c.Name
	}
}

// ModulePath returns the Python import path for a module under this
// layout (the value that goes into the enabled-apps list).
func (c *Config) ModulePath(module string) string {
	if c.Layout == LayoutSingleFolder {
		return c.ConfigPackage() + ".api." + module
	}
	return "apps." + module
}

// ManifestName is the project manifest written at setup. Detection never
// reads it; it records choices (database, CI) that `djinn app` reuses.
const ManifestName = ".djinn.yml"

// Manifest mirrors the .djinn.yml structure.
type Manifest struct {
	Project  string `yaml:"project"`
	Layout   string `yaml:"layout"`
	Folder   string `yaml:"folder,omitempty"`
	Database struct {
		Engine string `yaml:"engine"`
		URL    bool   `yaml:"url"`
	} `yaml:"database"`
	CI struct {
		GitHub bool `yaml:"github"`
		GitLab bool `yaml:"gitlab"`
	} `yaml:"ci"`
	Modules []string `yaml:"modules"`
}

// LoadManifest reads .djinn.yml from the project root. Returns
// (nil, nil) when the manifest does not exist.
func LoadManifest(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, ManifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ManifestName, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestName, err)
	}
	return &m, nil
}

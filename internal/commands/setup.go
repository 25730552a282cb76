package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/djinn-dev/djinn/internal/output"
	"github.com/djinn-dev/djinn/internal/project"
	"github.com/djinn-dev/djinn/internal/scaffold"
)

// SetupCmd creates and returns the 'setup' command for scaffolding projects
func SetupCmd() *cobra.Command {
	defaults := LoadDefaults()

	var (
		name     string
		layout   string
		apps     []string
		database string
		dbURL    bool
		dbParams bool
		ci       string
		folder   string
		force    bool
		skip     bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "setup [directory]",
		Short: "Create a new Django REST project",
		Long: `Creates a complete Django REST project with:
• Split settings (base/development/production)
• JWT auth, CORS, OpenAPI schema wired in
• One of four layouts: standard, predefined, unified, single
• A generated development secret key

Examples:
  djinn setup myshop --apps store,billing
  djinn setup . --name myshop --layout predefined --ci github
  djinn setup svc --layout single --folder backend`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(root)
			}
			// --db-params overrides the db-url default unless the user
			// asked for both explicitly.
			if dbParams && !cmd.Flags().Changed("db-url") {
				dbURL = false
			}

			cfg, err := buildConfig(name, root, layout, apps, database, dbURL, dbParams, ci, folder)
			if err != nil {
				return err
			}

			err = scaffold.New().Setup(cmd.Context(), cfg, scaffold.Options{
				DryRun: dryRun,
				Force:  force,
				Skip:   skip,
			})
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (defaults to the directory name)")
	cmd.Flags().StringVar(&layout, "layout", defaults.Layout, "Project layout: standard, predefined, unified, single")
	cmd.Flags().StringSliceVar(&apps, "apps", nil, "Apps to create immediately (comma-separated)")
	cmd.Flags().StringVar(&database, "database", defaults.Database, "Database engine: postgres or mysql")
	cmd.Flags().BoolVar(&dbURL, "db-url", defaults.DBURL, "Configure the database through a single DATABASE_URL")
	cmd.Flags().BoolVar(&dbParams, "db-params", false, "Configure the database through discrete connection parameters")
	cmd.Flags().StringVar(&ci, "ci", defaults.CI, "CI configuration: github, gitlab, both, or none")
	cmd.Flags().StringVar(&folder, "folder", "", "Folder name for the single layout (defaults to the project name)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files without asking")
	cmd.Flags().BoolVar(&skip, "skip", false, "Keep existing files without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be created without writing anything")

	return cmd
}

func buildConfig(name, root, layout string, apps []string, database string, dbURL, dbParams bool, ci, folder string) (*project.Config, error) {
	lv, err := project.ParseLayout(layout)
	if err != nil {
		return nil, err
	}
	db, err := project.ParseDatabase(database)
	if err != nil {
		return nil, err
	}
	cip, err := project.ParseCI(ci)
	if err != nil {
		return nil, err
	}
	if dbURL && dbParams {
		return nil, fmt.Errorf("--db-url cannot be combined with --db-params")
	}

	if folder != "" && lv != project.LayoutSingleFolder {
		return nil, fmt.Errorf("--folder only applies to the single layout")
	}
	if lv == project.LayoutSingleFolder && folder == "" {
		folder = name
	}

	var modules []string
	for _, app := range apps {
		if app = strings.TrimSpace(app); app != "" {
			modules = append(modules, app)
		}
	}

	return &project.Config{
		Name:           name,
		Root:           root,
		Layout:         lv,
		Modules:        modules,
		Database:       db,
		UseDatabaseURL: !dbParams,
		CI:             cip,
		Folder:         folder,
	}, nil
}

// Package templates embeds the scaffold template corpus.
//
// Templates are grouped by the part of a project they produce:
//
//   - shared/     files every layout gets (gitignore, requirements, ...)
//   - ci/         continuous-integration pipelines
//   - project/    the Django config package (settings, urls, wsgi, ...)
//   - app/        per-app files for module installation
//   - predefined/ the preset users/core apps of the predefined layout
//   - unified/    extras for the unified layout
//   - single/     extras for the single-folder layout
package templates

import "embed"

//go:embed files
var FS embed.FS

// Root is the directory prefix under which all templates live.
const Root = "files"

// Package validate checks project and app names before any file I/O happens.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// Error is a validation failure. It aborts the whole operation before the
// first filesystem write.
type Error struct {
	Field  string // what was being validated ("project name", "app name", ...)
	Value  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NewError builds a validation error.
func NewError(field, value, reason string) *Error {
	return &Error{Field: field, Value: value, Reason: reason}
}

var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// pythonKeywords are rejected because app packages become Python modules.
var pythonKeywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {},
	"def": {}, "del": {}, "elif": {}, "else": {}, "except": {}, "finally": {},
	"for": {}, "from": {}, "global": {}, "if": {}, "import": {}, "in": {},
	"is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {},
	"raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// reservedNames collide with paths the layout resolvers own, or with Django
// itself.
var reservedNames = map[string]struct{}{
	"django": {}, "test": {}, "tests": {}, "admin": {}, "site": {},
	"apps": {}, "api": {}, "core": {}, "settings": {}, "migrations": {},
	"manage": {}, "static": {}, "media": {},
}

// AppName validates a single app (module) name.
func AppName(name string) error {
	return checkName("app name", name)
}

// ProjectName validates the project name.
func ProjectName(name string) error {
	return checkName("project name", name)
}

func checkName(field, name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return NewError(field, name, "cannot be empty")
	case len(trimmed) < 2:
		return NewError(field, name, "must be at least 2 characters long")
	case len(trimmed) > 50:
		return NewError(field, name, "must be less than 50 characters")
	case !namePattern.MatchString(trimmed):
		return NewError(field, name, "must start with a letter and contain only letters, numbers, and underscores")
	case strings.HasPrefix(trimmed, "_"):
		return NewError(field, name, "should not start with underscore")
	}

	if _, ok := pythonKeywords[trimmed]; ok {
		return NewError(field, name, "is a Python keyword")
	}
	if _, ok := reservedNames[strings.ToLower(trimmed)]; ok {
		return NewError(field, name, "is reserved")
	}
	return nil
}

// AppNames validates a batch of app names and rejects duplicates within the
// batch or against already existing app names.
func AppNames(names []string, existing []string) error {
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[e] = struct{}{}
	}
	for _, name := range names {
		if err := AppName(name); err != nil {
			return err
		}
		if _, dup := seen[name]; dup {
			return NewError("app name", name, "already exists in this project")
		}
		seen[name] = struct{}{}
	}
	return nil
}

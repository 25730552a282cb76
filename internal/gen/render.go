package gen

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"unicode"
)

// RenderError reports a template that could not be rendered, usually
// because a required placeholder was missing from the context. Nothing is
// written when rendering fails.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering template %q: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer handles template parsing and rendering with caching.
//
// Templates are executed with missingkey=error: a placeholder without a
// context value fails the render instead of producing an empty string.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex // protect cache for concurrent access
}

// NewRenderer creates a renderer with built-in helper functions.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// RenderString renders a template from a string.
// The name is used for caching and error messages.
func (r *Renderer) RenderString(name, templateStr string, data any) ([]byte, error) {
	tmpl, err := r.lookup("string:"+name, func() (*template.Template, error) {
		return r.parse(name, templateStr)
	})
	if err != nil {
		return nil, err
	}
	return r.execute(tmpl, data)
}

// RenderFS renders a template from an embedded filesystem.
func (r *Renderer) RenderFS(fsys embed.FS, path string, data any) ([]byte, error) {
	tmpl, err := r.lookup("fs:"+path, func() (*template.Template, error) {
		raw, err := fsys.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading template %q: %w", path, err)
		}
		return r.parse(path, string(raw))
	})
	if err != nil {
		return nil, err
	}
	return r.execute(tmpl, data)
}

// ClearCache clears the template cache (useful for testing).
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

func (r *Renderer) lookup(key string, parse func() (*template.Template, error)) (*template.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	tmpl, err := parse()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[key] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

func (r *Renderer) parse(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, &RenderError{Template: name, Err: err}
	}
	return tmpl, nil
}

func (r *Renderer) execute(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, &RenderError{Template: tmpl.Name(), Err: err}
	}
	// An empty template (e.g. a bare __init__.py) must still yield a
	// non-nil slice: operations treat nil content as "never rendered".
	if buf.Len() == 0 {
		return []byte{}, nil
	}
	return buf.Bytes(), nil
}

func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"pascalCase": PascalCase, // user_profile → UserProfile
		"snakeCase":  SnakeCase,  // UserProfile → user_profile
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"title":      Title,
		"quote":      Quote,
		"join":       strings.Join,
		"trim":       strings.TrimSpace,
	}
}

// PascalCase converts snake_case or camelCase to PascalCase.
// Examples: user_profile → UserProfile, userProfile → UserProfile
func PascalCase(s string) string {
	if s == "" {
		return ""
	}

	if strings.Contains(s, "_") {
		parts := strings.Split(s, "_")
		for i, part := range parts {
			if part != "" {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, "")
	}

	if unicode.IsLower(rune(s[0])) {
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return s
}

// SnakeCase converts PascalCase or camelCase to snake_case.
func SnakeCase(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "_") {
		return strings.ToLower(s)
	}

	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := rune(s[i-1])
				if unicode.IsLower(prev) {
					result.WriteRune('_')
				} else if i+1 < len(s) && unicode.IsLower(rune(s[i+1])) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Title capitalizes the first letter of each word.
// This replaces the deprecated strings.Title.
func Title(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

// Quote wraps a string in double quotes.
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

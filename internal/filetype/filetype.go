// Package filetype classifies paths by extension and owns the dialog
// filters and highlighting rules that belong to each file type.
package filetype

import (
	"fmt"
	"path/filepath"
	"strings"

	"notepad/internal/config"
	"notepad/internal/highlight"

	"github.com/gobwas/glob"
)

// FileType is one entry of the file-type selector.
type FileType struct {
	Tag    string // lower-case extension including the dot
	Label  string
	Rules  []highlight.Rule
	Filter Filter
}

// Registry holds the known file types in selector order.
type Registry struct {
	types []*FileType
	byTag map[string]*FileType
	def   *FileType
	all   Filter
}

// NewRegistry compiles the file types described by the config.
func NewRegistry(cfg *config.Config) (*Registry, error) {
	r := &Registry{byTag: make(map[string]*FileType)}

	for _, def := range cfg.FileTypes {
		tag := strings.ToLower(def.Tag)
		if _, dup := r.byTag[tag]; dup {
			return nil, fmt.Errorf("duplicate file type %s", def.Tag)
		}

		rules, err := highlight.Compile(highlight.Syntax{
			Keywords:    def.Keywords,
			LineComment: def.LineComment,
			Quotes:      def.Quotes,
		})
		if err != nil {
			return nil, fmt.Errorf("file type %s: %w", def.Tag, err)
		}

		label := def.Label
		if label == "" {
			label = strings.ToUpper(strings.TrimPrefix(tag, ".")) + " Files"
		}
		filter, err := NewFilter(label, "*"+tag)
		if err != nil {
			return nil, fmt.Errorf("file type %s: %w", def.Tag, err)
		}

		ft := &FileType{Tag: tag, Label: label, Rules: rules, Filter: filter}
		r.types = append(r.types, ft)
		r.byTag[tag] = ft
	}

	if len(r.types) == 0 {
		return nil, fmt.Errorf("no file types configured")
	}

	def, ok := r.byTag[strings.ToLower(cfg.Editor.DefaultType)]
	if !ok {
		return nil, fmt.Errorf("default type %q is not registered", cfg.Editor.DefaultType)
	}
	r.def = def

	all, err := NewFilter("All Files", "*")
	if err != nil {
		return nil, err
	}
	r.all = all
	return r, nil
}

// Default returns the type used for unknown or missing extensions.
func (r *Registry) Default() *FileType {
	return r.def
}

// Lookup finds a type by tag, case-insensitively.
func (r *Registry) Lookup(tag string) (*FileType, bool) {
	ft, ok := r.byTag[strings.ToLower(tag)]
	return ft, ok
}

// FromPath classifies path by its extension. Unknown or missing
// extensions map to the default type.
func (r *Registry) FromPath(path string) *FileType {
	if ft, ok := r.byTag[strings.ToLower(filepath.Ext(path))]; ok {
		return ft
	}
	return r.def
}

// Types returns the registered types in selector order.
func (r *Registry) Types() []*FileType {
	out := make([]*FileType, len(r.types))
	copy(out, r.types)
	return out
}

// Tags returns the registered tags in selector order.
func (r *Registry) Tags() []string {
	tags := make([]string, len(r.types))
	for i, ft := range r.types {
		tags[i] = ft.Tag
	}
	return tags
}

// Filters returns one filter per type followed by the all-files filter.
func (r *Registry) Filters() []Filter {
	filters := make([]Filter, 0, len(r.types)+1)
	for _, ft := range r.types {
		filters = append(filters, ft.Filter)
	}
	return append(filters, r.all)
}

// AllFiles returns the filter matching every file.
func (r *Registry) AllFiles() Filter {
	return r.all
}

// FinalPath applies the save-as extension policy. Under a filter with an
// extension the path is forced to carry it: appended when the path has no
// extension, replaced when it has a different one. Without a filter, or
// under the all-files filter, the default extension is appended only when
// the path has none.
func (r *Registry) FinalPath(path string, filter *Filter) string {
	ext := filepath.Ext(path)
	if filepath.Base(path) == ext {
		// ".bashrc" style names have no extension of their own
		ext = ""
	}

	want := ""
	if filter != nil {
		want = filter.Extension()
	}
	if want == "" {
		if ext == "" {
			return path + r.def.Tag
		}
		return path
	}

	if filter.Match(path) {
		return path
	}
	return strings.TrimSuffix(path, ext) + want
}

// Filter is a named set of glob patterns matched against base names.
type Filter struct {
	Name     string
	Patterns []string
	globs    []glob.Glob
}

// NewFilter compiles patterns. Matching is case-insensitive.
func NewFilter(name string, patterns ...string) (Filter, error) {
	f := Filter{Name: name, Patterns: patterns}
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return Filter{}, fmt.Errorf("filter %s: bad pattern %q: %w", name, p, err)
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Match reports whether the base name of path matches any pattern.
func (f Filter) Match(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, g := range f.globs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Extension returns the extension implied by the first "*.ext" pattern,
// or "" when the filter does not imply one.
func (f Filter) Extension() string {
	for _, p := range f.Patterns {
		if strings.HasPrefix(p, "*.") && !strings.ContainsAny(p[2:], "*?[{") {
			return strings.ToLower(p[1:])
		}
	}
	return ""
}

// IsAll reports whether this filter accepts every file.
func (f Filter) IsAll() bool {
	for _, p := range f.Patterns {
		if p == "*" {
			return true
		}
	}
	return false
}

// String renders the filter the way dialogs label it, e.g.
// "Python Files (*.py)".
func (f Filter) String() string {
	return fmt.Sprintf("%s (%s)", f.Name, strings.Join(f.Patterns, " "))
}

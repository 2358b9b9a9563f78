package category

import (
	"path/filepath"
	"slices"
	"strings"
)

// Category names a sorting bucket and doubles as the directory name under root.
type Category string

const (
	Images    Category = "images"
	Video     Category = "video"
	Documents Category = "documents"
	Audio     Category = "audio"
	Archives  Category = "archives"
	Other     Category = "other"
)

// All lists every category in table order. Other is always last.
var All = []Category{Images, Video, Documents, Audio, Archives, Other}

// Valid reports whether name is one of the fixed categories.
func Valid(name string) bool {
	return slices.Contains(All, Category(name))
}

// IsDirName reports whether a path segment equals a category directory name.
func IsDirName(segment string) bool {
	return Valid(segment)
}

type bucket struct {
	category   Category
	extensions []string
}

// Table is an ordered, immutable category to extension mapping.
type Table struct {
	buckets []bucket
}

var defaultExtensions = map[Category][]string{
	Images:    {"JPEG", "PNG", "JPG", "SVG"},
	Video:     {"AVI", "MP4", "MOV", "MKV"},
	Documents: {"DOC", "DOCX", "TXT", "PDF", "XLSX", "PPTX"},
	Audio:     {"MP3", "OGG", "WAV", "AMR"},
	Archives:  {"ZIP", "GZ", "TAR"},
}

// Default returns the built-in table.
func Default() *Table {
	return New(nil)
}

// New builds a table from the defaults plus extra extensions per category.
// Extras for unknown categories or for Other are ignored; duplicates collapse.
func New(extra map[Category][]string) *Table {
	t := &Table{buckets: make([]bucket, 0, len(All))}
	for _, cat := range All {
		if cat == Other {
			t.buckets = append(t.buckets, bucket{category: Other})
			continue
		}
		exts := make([]string, 0, len(defaultExtensions[cat])+len(extra[cat]))
		for _, ext := range append(slices.Clone(defaultExtensions[cat]), extra[cat]...) {
			ext = normalizeExt(ext)
			if ext == "" || slices.Contains(exts, ext) {
				continue
			}
			exts = append(exts, ext)
		}
		t.buckets = append(t.buckets, bucket{category: cat, extensions: exts})
	}
	return t
}

// Classify returns the category for path based on its extension.
func (t *Table) Classify(path string) Category {
	return t.ClassifyExt(filepath.Ext(path))
}

// ClassifyExt returns the category for a bare or dotted extension.
func (t *Table) ClassifyExt(ext string) Category {
	ext = normalizeExt(ext)
	if ext == "" || t == nil {
		return Other
	}
	for _, b := range t.buckets {
		if slices.Contains(b.extensions, ext) {
			return b.category
		}
	}
	return Other
}

// Extensions returns a copy of the upper-cased extensions for cat.
func (t *Table) Extensions(cat Category) []string {
	if t == nil {
		return nil
	}
	for _, b := range t.buckets {
		if b.category == cat {
			return slices.Clone(b.extensions)
		}
	}
	return nil
}

func normalizeExt(ext string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

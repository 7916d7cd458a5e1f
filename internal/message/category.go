package message

import (
	"path"
	"strings"
)

// Category is the kind of file a changed path is classified as.
type Category string

const (
	CategoryCode   Category = "code"
	CategoryStyle  Category = "style"
	CategoryTest   Category = "test"
	CategoryDocs   Category = "docs"
	CategoryConfig Category = "config"
	CategoryOther  Category = "other"
)

// Categories lists every category in a stable order.
var Categories = []Category{
	CategoryCode,
	CategoryStyle,
	CategoryTest,
	CategoryDocs,
	CategoryConfig,
	CategoryOther,
}

// CategoryRule maps a set of path suffixes onto a category.
type CategoryRule struct {
	Category   Category
	Extensions []string
}

// CategoryTable is the ordered extension table consulted after the name and
// directory rules. The first rule with a matching suffix wins.
type CategoryTable []CategoryRule

// DefaultCategoryTable returns a fresh copy of the built-in extension table.
func DefaultCategoryTable() CategoryTable {
	return CategoryTable{
		{Category: CategoryCode, Extensions: []string{".js", ".jsx", ".ts", ".tsx"}},
		{Category: CategoryStyle, Extensions: []string{".css", ".scss", ".less", ".sass"}},
		{Category: CategoryDocs, Extensions: []string{".md", ".txt", ".doc", ".docx"}},
		{Category: CategoryTest, Extensions: []string{".test.js", ".spec.js", ".test.ts", ".spec.ts"}},
		{Category: CategoryConfig, Extensions: []string{".json", ".yml", ".yaml", ".config.js", ".env"}},
	}
}

// TableFromMap builds a CategoryTable from a category → extensions mapping,
// as read from configuration. Rules keep the order of Categories; unknown
// category names are returned in unknown and skipped.
func TableFromMap(m map[string][]string) (table CategoryTable, unknown []string) {
	known := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		known[c] = true
	}
	for name := range m {
		if !known[Category(strings.ToLower(name))] {
			unknown = append(unknown, name)
		}
	}

	for _, c := range Categories {
		for name, exts := range m {
			if Category(strings.ToLower(name)) == c && len(exts) > 0 {
				table = append(table, CategoryRule{Category: c, Extensions: exts})
			}
		}
	}
	return table, unknown
}

// Lookup returns the category of the first rule with a suffix matching p.
func (t CategoryTable) Lookup(p string) (Category, bool) {
	for _, rule := range t {
		for _, ext := range rule.Extensions {
			if strings.HasSuffix(p, ext) {
				return rule.Category, true
			}
		}
	}
	return "", false
}

// Classify returns the category of a repository-relative path. Name rules
// take precedence over directory rules, which take precedence over the
// extension table:
//
//  1. basename contains ".test." or ".spec."          → test
//  2. basename contains "readme" or "documentation"   → docs
//  3. a directory segment is "test" or "__tests__"    → test
//  4. a directory segment is "docs"                   → docs
//  5. suffix found in the table                       → that category
//  6. otherwise                                       → other
func (t CategoryTable) Classify(p string) Category {
	p = normalizePath(p)
	base := strings.ToLower(path.Base(p))

	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return CategoryTest
	}
	if strings.Contains(base, "readme") || strings.Contains(base, "documentation") {
		return CategoryDocs
	}

	dirs := dirSegments(p)
	for _, seg := range dirs {
		if seg == "test" || seg == "__tests__" {
			return CategoryTest
		}
	}
	for _, seg := range dirs {
		if seg == "docs" {
			return CategoryDocs
		}
	}

	if c, ok := t.Lookup(p); ok {
		return c
	}
	return CategoryOther
}

func normalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// dirSegments splits the directory part of p into its segments. A path with
// no directory yields nil.
func dirSegments(p string) []string {
	dir := path.Dir(normalizePath(p))
	if dir == "." || dir == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(dir, "/"), "/")
}

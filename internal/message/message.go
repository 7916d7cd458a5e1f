// Package message synthesizes a conventional commit message from the set of
// files changed in a snapshot and their diff statistics.
package message

import (
	"fmt"
	"path"
	"strings"

	"github.com/bashhack/gitwip/internal/conventional"
)

// FallbackMessage is returned for an empty change set.
const FallbackMessage = "chore: update files"

// DefaultScope is used when no directory or file name yields a scope.
const DefaultScope = "general"

// ChangeRecord is one file's change in the working tree.
// A record always has Insertions > 0, Deletions > 0 or IsBinary set.
type ChangeRecord struct {
	Path       string
	Insertions int
	Deletions  int
	IsBinary   bool
}

// ChangeStats aggregates a set of ChangeRecords.
// Added+Modified+Deleted and the sum of ByCategory both equal Total.
type ChangeStats struct {
	Total      int
	Added      int
	Modified   int
	Deleted    int
	ByCategory map[Category]int
}

// Count returns the number of files in category c.
func (s ChangeStats) Count(c Category) int {
	return s.ByCategory[c]
}

// Synthesizer turns change records into commit messages.
type Synthesizer struct {
	table CategoryTable
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithCategoryTable replaces the extension table used for classification.
func WithCategoryTable(table CategoryTable) Option {
	return func(s *Synthesizer) {
		if len(table) > 0 {
			s.table = table
		}
	}
}

// NewSynthesizer creates a Synthesizer using DefaultCategoryTable unless an
// option overrides it.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{table: DefaultCategoryTable()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize is shorthand for NewSynthesizer().Synthesize(records).
func Synthesize(records []ChangeRecord) string {
	return NewSynthesizer().Synthesize(records)
}

// Synthesize returns "type(scope): description" for records, or
// FallbackMessage when records is empty.
func (s *Synthesizer) Synthesize(records []ChangeRecord) string {
	if len(records) == 0 {
		return FallbackMessage
	}

	stats := s.Stats(records)

	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = r.Path
	}

	return fmt.Sprintf("%s(%s): %s", commitType(stats), Scope(paths), Description(stats))
}

// Stats classifies every record by kind of change and by category.
func (s *Synthesizer) Stats(records []ChangeRecord) ChangeStats {
	stats := ChangeStats{
		Total:      len(records),
		ByCategory: make(map[Category]int, len(Categories)),
	}

	for _, r := range records {
		stats.ByCategory[s.table.Classify(r.Path)]++

		switch {
		case r.IsBinary:
			stats.Modified++
		case r.Insertions > 0 && r.Deletions == 0:
			stats.Added++
		case r.Deletions > 0 && r.Insertions == 0:
			stats.Deleted++
		default:
			stats.Modified++
		}
	}

	return stats
}

// commitType picks the conventional type from aggregated stats.
func commitType(stats ChangeStats) string {
	switch {
	case stats.Count(CategoryCode) > 0 && stats.Added > stats.Modified:
		return "feat"
	case stats.Count(CategoryCode) > 0:
		return "fix"
	case stats.Count(CategoryTest) > 0:
		return "test"
	case stats.Count(CategoryStyle) > 0:
		return "style"
	case stats.Count(CategoryDocs) > 0:
		return "docs"
	default:
		// config changes and everything else are chores
		return "chore"
	}
}

// Scope derives the commit scope from the changed paths.
//
// For a single file it is the file's innermost directory, else its base name
// without extension. For several files it is the innermost directory of their
// longest common directory prefix. Every candidate is normalized to the scope
// alphabet and DefaultScope is the last resort.
func Scope(paths []string) string {
	switch len(paths) {
	case 0:
		return DefaultScope

	case 1:
		p := normalizePath(paths[0])
		if scope := lastNonEmpty(dirSegments(p)); scope != "" {
			return scope
		}
		if scope := conventional.NormalizeScope(stem(path.Base(p))); scope != "" {
			return scope
		}
		return DefaultScope
	}

	dirs := make([][]string, len(paths))
	shortest := -1
	for i, p := range paths {
		dirs[i] = dirSegments(p)
		if shortest < 0 || len(dirs[i]) < shortest {
			shortest = len(dirs[i])
		}
	}

	var common []string
	for i := 0; i < shortest; i++ {
		seg := dirs[0][i]
		for _, d := range dirs[1:] {
			if d[i] != seg {
				return scopeOrDefault(common)
			}
		}
		common = append(common, seg)
	}
	return scopeOrDefault(common)
}

// stem strips the extension from a base name. Dotfiles such as ".env" have
// no extension and are returned unchanged.
func stem(base string) string {
	if s := strings.TrimSuffix(base, path.Ext(base)); s != "" {
		return s
	}
	return base
}

func scopeOrDefault(segments []string) string {
	if scope := lastNonEmpty(segments); scope != "" {
		return scope
	}
	return DefaultScope
}

// lastNonEmpty returns the last segment that survives scope normalization.
func lastNonEmpty(segments []string) string {
	for i := len(segments) - 1; i >= 0; i-- {
		if scope := conventional.NormalizeScope(segments[i]); scope != "" {
			return scope
		}
	}
	return ""
}

// Description summarizes what happened to the files.
func Description(stats ChangeStats) string {
	switch {
	case stats.Added > 0 && stats.Modified == 0 && stats.Deleted == 0:
		return fmt.Sprintf("add %d new %s", stats.Added, plural("file", stats.Added))
	case stats.Modified > 0 && stats.Added == 0 && stats.Deleted == 0:
		return fmt.Sprintf("update %d %s", stats.Modified, plural("file", stats.Modified))
	case stats.Deleted > 0 && stats.Added == 0 && stats.Modified == 0:
		return fmt.Sprintf("remove %d %s", stats.Deleted, plural("file", stats.Deleted))
	default:
		return fmt.Sprintf("modify %d files (%d added, %d updated, %d deleted)",
			stats.Total, stats.Added, stats.Modified, stats.Deleted)
	}
}

func plural(word string, n int) string {
	if n > 1 {
		return word + "s"
	}
	return word
}

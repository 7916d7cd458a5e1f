package message

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bashhack/gitwip/internal/conventional"
)

func added(p string) ChangeRecord    { return ChangeRecord{Path: p, Insertions: 5} }
func modified(p string) ChangeRecord { return ChangeRecord{Path: p, Insertions: 2, Deletions: 3} }
func deleted(p string) ChangeRecord  { return ChangeRecord{Path: p, Deletions: 4} }

func TestSynthesizeEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "chore: update files", Synthesize(nil))
	assert.Equal(t, "chore: update files", Synthesize([]ChangeRecord{}))
}

func TestSynthesize(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		records  []ChangeRecord
		expected string
	}{
		"SingleTestFile": {
			records:  []ChangeRecord{{Path: "src/a.test.js", Insertions: 5}},
			expected: "test(src): add 1 new file",
		},
		"ThreeNewCodeFiles": {
			records:  []ChangeRecord{added("src/a.js"), added("src/b.ts"), added("src/c.tsx")},
			expected: "feat(src): add 3 new files",
		},
		"ModifiedCodeIsFix": {
			records:  []ChangeRecord{modified("src/utils/date.js"), modified("src/utils/math.js")},
			expected: "fix(utils): update 2 files",
		},
		"CodeWithEqualAddedAndModifiedIsFix": {
			records:  []ChangeRecord{added("src/a.js"), modified("src/b.js")},
			expected: "fix(src): modify 2 files (1 added, 1 updated, 0 deleted)",
		},
		"CodeWinsOverTests": {
			records:  []ChangeRecord{added("src/a.js"), added("src/a.test.js")},
			expected: "feat(src): add 2 new files",
		},
		"TestBeatsStyle": {
			records:  []ChangeRecord{modified("web/a.css"), modified("web/a.spec.ts")},
			expected: "test(web): update 2 files",
		},
		"Style": {
			records:  []ChangeRecord{modified("styles/main.scss")},
			expected: "style(styles): update 1 file",
		},
		"Docs": {
			records:  []ChangeRecord{deleted("docs/old.md"), deleted("docs/older.md")},
			expected: "docs(docs): remove 2 files",
		},
		"ConfigIsChore": {
			records:  []ChangeRecord{modified("config/app.yaml")},
			expected: "chore(config): update 1 file",
		},
		"OtherIsChore": {
			records:  []ChangeRecord{added("cmd/gitwip/main.go")},
			expected: "chore(gitwip): add 1 new file",
		},
		"RootFileUsesBaseName": {
			records:  []ChangeRecord{modified("README.md")},
			expected: "docs(README): update 1 file",
		},
		"RootFilesWithoutCommonDir": {
			records:  []ChangeRecord{modified("package.json"), modified("tsconfig.json")},
			expected: "chore(general): update 2 files",
		},
		"BinaryCountsAsModified": {
			records:  []ChangeRecord{{Path: "assets/logo.png", IsBinary: true}, added("assets/icon.svg")},
			expected: "chore(assets): modify 2 files (1 added, 1 updated, 0 deleted)",
		},
		"Mixed": {
			records: []ChangeRecord{
				added("src/api/new.js"),
				modified("src/api/old.js"),
				deleted("src/ui/gone.js"),
			},
			expected: "fix(src): modify 3 files (1 added, 1 updated, 1 deleted)",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			msg := Synthesize(tc.records)
			assert.Equal(t, tc.expected, msg)
			assert.NoError(t, conventional.Validate(msg))
		})
	}
}

func TestStatsInvariants(t *testing.T) {
	t.Parallel()

	records := []ChangeRecord{
		added("src/a.js"),
		modified("src/b.css"),
		deleted("docs/c.md"),
		{Path: "img.png", IsBinary: true},
		modified("test/d.js"),
		added("Makefile"),
		modified("app.yml"),
	}

	stats := NewSynthesizer().Stats(records)

	assert.Equal(t, len(records), stats.Total)
	assert.Equal(t, stats.Total, stats.Added+stats.Modified+stats.Deleted)

	sum := 0
	for _, c := range Categories {
		sum += stats.Count(c)
	}
	assert.Equal(t, stats.Total, sum)

	assert.Equal(t, 1, stats.Count(CategoryCode))
	assert.Equal(t, 1, stats.Count(CategoryStyle))
	assert.Equal(t, 1, stats.Count(CategoryDocs))
	assert.Equal(t, 1, stats.Count(CategoryTest))
	assert.Equal(t, 1, stats.Count(CategoryConfig))
	assert.Equal(t, 2, stats.Count(CategoryOther))
	assert.Equal(t, 2, stats.Added)
	assert.Equal(t, 4, stats.Modified)
	assert.Equal(t, 1, stats.Deleted)
}

func TestScope(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		paths    []string
		expected string
	}{
		"None":                {paths: nil, expected: "general"},
		"SingleNested":        {paths: []string{"src/utils/date.js"}, expected: "utils"},
		"SingleRoot":          {paths: []string{"index.js"}, expected: "index"},
		"SingleDotfileRoot":   {paths: []string{".env"}, expected: "env"},
		"SingleUnusableName":  {paths: []string{"..."}, expected: "general"},
		"SharedPrefix":        {paths: []string{"src/utils/a.js", "src/utils/b.js"}, expected: "utils"},
		"SharedParentOnly":    {paths: []string{"src/utils/a.js", "src/api/b.js"}, expected: "src"},
		"ShorterPathBounds":   {paths: []string{"src/a.js", "src/utils/deep/b.js"}, expected: "src"},
		"NoCommonPrefix":      {paths: []string{"src/a.js", "lib/b.js"}, expected: "general"},
		"RootAndNested":       {paths: []string{"a.js", "src/b.js"}, expected: "general"},
		"NormalizesSegment":   {paths: []string{"my app/a.js", "my app/b.js"}, expected: "my-app"},
		"SkipsUnusableLast":   {paths: []string{"src/.../a.js", "src/.../b.js"}, expected: "src"},
		"DuplicateSinglePath": {paths: []string{"src/x/a.js", "src/x/a.js"}, expected: "x"},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Scope(tc.paths))
		})
	}
}

func TestDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stats    ChangeStats
		expected string
	}{
		{ChangeStats{Total: 1, Added: 1}, "add 1 new file"},
		{ChangeStats{Total: 4, Added: 4}, "add 4 new files"},
		{ChangeStats{Total: 1, Modified: 1}, "update 1 file"},
		{ChangeStats{Total: 2, Modified: 2}, "update 2 files"},
		{ChangeStats{Total: 1, Deleted: 1}, "remove 1 file"},
		{ChangeStats{Total: 3, Deleted: 3}, "remove 3 files"},
		{ChangeStats{Total: 2, Added: 1, Deleted: 1}, "modify 2 files (1 added, 0 updated, 1 deleted)"},
	}

	for i, tc := range tests {
		tc := tc
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			assert.Equal(t, tc.expected, Description(tc.stats))
		})
	}
}

func TestWithCategoryTable(t *testing.T) {
	t.Parallel()

	goTable := CategoryTable{{Category: CategoryCode, Extensions: []string{".go"}}}
	s := NewSynthesizer(WithCategoryTable(goTable))

	assert.Equal(t, "feat(git): add 1 new file", s.Synthesize([]ChangeRecord{added("internal/git/git.go")}))
	assert.Equal(t, "chore(git): add 1 new file", Synthesize([]ChangeRecord{added("internal/git/git.go")}))

	// an empty table keeps the default
	s = NewSynthesizer(WithCategoryTable(nil))
	assert.Equal(t, "feat(src): add 1 new file", s.Synthesize([]ChangeRecord{added("src/a.js")}))
}

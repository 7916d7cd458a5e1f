package conventional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
)

func TestIsValidType(t *testing.T) {
	t.Parallel()

	for _, typ := range Types {
		assert.True(t, IsValidType(typ), typ)
	}

	for _, typ := range []string{"", "feature", "FEAT", "wip", " fix"} {
		assert.False(t, IsValidType(typ), typ)
	}
}

func TestTypesOrder(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"feat", "fix", "chore", "docs", "style", "refactor", "perf", "test", "build", "ci", "revert"}, Types)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		message string
		valid   bool
	}{
		"Simple":            {message: "feat(auth): add login", valid: true},
		"HyphenScope":       {message: "fix(user-api): handle nil", valid: true},
		"UnderscoreScope":   {message: "chore(build_tools): bump", valid: true},
		"Revert":            {message: "revert(core): undo 1a2b3c", valid: true},
		"UnknownType":       {message: "feature(auth): add login"},
		"MissingScope":      {message: "feat: add login"},
		"EmptyScope":        {message: "feat(): add login"},
		"ScopeWithSpace":    {message: "feat(my scope): add login"},
		"ScopeWithDot":      {message: "feat(.): add login"},
		"NoSpaceAfterColon": {message: "feat(auth):add login"},
		"EmptyDescription":  {message: "feat(auth): "},
		"Fallback":          {message: "chore: update files"},
		"WIPPrefixed":       {message: "WIP: feat(auth): add login"},
		"Multiline":         {message: "feat(auth): add login\n\nbody"},
		"Empty":             {message: ""},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tc.message)
			if tc.valid {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, gitwipErrors.ErrInvalidCommitFormat)

			var formatErr *gitwipErrors.FormatError
			assert.ErrorAs(t, err, &formatErr)
		})
	}
}

func TestFormatAlwaysValidates(t *testing.T) {
	t.Parallel()

	scopes := []string{"auth", "user-api", "My Product", "src/utils", "v2.0", "  padded  ", "x"}
	titles := []string{"add login", "  trailing space  ", "multi\nline title", "a"}

	for _, typ := range Types {
		for _, scope := range scopes {
			for _, title := range titles {
				msg, err := Format(typ, scope, title)
				require.NoError(t, err, "%s/%s/%s", typ, scope, title)
				assert.NoError(t, Validate(msg), msg)
			}
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		commitType string
		scope      string
		title      string
		expected   string
		wantErr    bool
	}{
		"Basic": {
			commitType: "feat", scope: "auth", title: "add login",
			expected: "feat(auth): add login",
		},
		"NormalizesScope": {
			commitType: "fix", scope: "Web App", title: "fix layout",
			expected: "fix(Web-App): fix layout",
		},
		"CollapsesTitleWhitespace": {
			commitType: "docs", scope: "readme", title: "  explain\n  setup ",
			expected: "docs(readme): explain setup",
		},
		"InvalidType": {
			commitType: "feature", scope: "auth", title: "add login",
			wantErr: true,
		},
		"EmptyScope": {
			commitType: "feat", scope: "", title: "add login",
			wantErr: true,
		},
		"ScopeWithoutUsableChars": {
			commitType: "feat", scope: "!!!", title: "add login",
			wantErr: true,
		},
		"EmptyTitle": {
			commitType: "feat", scope: "auth", title: "   ",
			wantErr: true,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			msg, err := Format(tc.commitType, tc.scope, tc.title)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, gitwipErrors.ErrInvalidCommitFormat)
				assert.Empty(t, msg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, msg)
		})
	}
}

func TestNormalizeScope(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in, out string
	}{
		"Unchanged":       {in: "utils", out: "utils"},
		"Spaces":          {in: "my product", out: "my-product"},
		"Dots":            {in: "v1.2", out: "v1-2"},
		"EdgeHyphens":     {in: "--core--", out: "core"},
		"MixedRuns":       {in: "a . b", out: "a-b"},
		"OnlyPunctuation": {in: "...", out: ""},
		"Empty":           {in: "", out: ""},
		"NonASCII":        {in: "données", out: "donn-es"},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.out, NormalizeScope(tc.in))
		})
	}
}
